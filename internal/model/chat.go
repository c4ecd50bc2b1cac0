package model

import "time"

// Chat mirrors a row of the `chats` table. Messages are globally visible to
// authenticated users; User holds the joined author.
type Chat struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *UserRef `json:"user,omitempty"`
}
