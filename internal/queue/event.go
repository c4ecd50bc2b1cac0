// Package queue defines message payloads exchanged over the message broker.
package queue

// TaskAssignedEvent is published when a manager assigns a task. It carries
// enough information for downstream consumers (the notification feed, or a
// future push gateway) without querying the primary database.
type TaskAssignedEvent struct {
	TaskID       uint64 `json:"task_id"`
	Title        string `json:"title"`
	AssignedBy   uint64 `json:"assigned_by"`
	AssignerName string `json:"assigner_name"`
	AssignedTo   uint64 `json:"assigned_to"`
	AssigneeName string `json:"assignee_name"`
	Status       string `json:"status"`
	AssignedAt   string `json:"assigned_at"`
}
