package model

import "time"

// Note mirrors a row of the `notes` table. Notes are readable by every
// authenticated user; only the author may update, and deletion is allowed
// for the author or a manager/admin.
type Note struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *UserRef `json:"user,omitempty"`
}
