package model

import "time"

// Role values stored in users.role. The admin role is never issued by the
// register endpoint but may exist in seeded or manually created accounts.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// User mirrors a row of the `users` table. PasswordHash is never serialized;
// handlers return the struct directly so the json tags define the wire shape
// the mobile client expects.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRef is the trimmed author object embedded in chats, notes and tasks
// (the original API loads `user:id,name,role` alongside those resources).
type UserRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// AccessToken models a row of the `access_tokens` table. Only the SHA-256
// hash of the secret half of the bearer token is persisted.
type AccessToken struct {
	ID         uint64
	UserID     uint64
	Name       string
	TokenHash  string
	LastUsedAt *time.Time
	CreatedAt  time.Time
}
