package model

import "time"

// Task status values. There is deliberately no transition rule between them;
// any authorized actor may set any status.
const (
	StatusFuture     = "future"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the three task statuses.
func ValidStatus(s string) bool {
	return s == StatusFuture || s == StatusInProgress || s == StatusCompleted
}

// Task mirrors a row of the `tasks` table. UserID is the creator;
// AssignedTo, when set, is the user the task was delegated to. Creator and
// Assignee carry the joined author objects the client renders (keys `user`
// and `assignedTo`, matching the original serialization).
type Task struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	AssignedTo  *uint64   `json:"assigned_to"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Creator  *UserRef `json:"user,omitempty"`
	Assignee *UserRef `json:"assignedTo,omitempty"`
}
