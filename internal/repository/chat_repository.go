package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/employee-task-tracker/internal/model"
)

// ChatRepo encapsulates all database queries related to chat messages.
// Messages are globally visible; ownership only matters for deletion.
type ChatRepo struct{ db *sql.DB }

func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

const selectChat = `SELECT c.id, c.user_id, c.message, c.created_at, c.updated_at,
	u.id, u.name, u.role
FROM chats c
JOIN users u ON u.id = c.user_id`

// ListAll returns every message oldest-first with its author, the order the
// chat screen renders.
func (r *ChatRepo) ListAll(ctx context.Context) ([]model.Chat, error) {
	rows, err := r.db.QueryContext(ctx, selectChat+" ORDER BY c.created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := make([]model.Chat, 0)
	for rows.Next() {
		var (
			c model.Chat
			u model.UserRef
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Message, &c.CreatedAt, &c.UpdatedAt,
			&u.ID, &u.Name, &u.Role); err != nil {
			return nil, err
		}
		c.User = &u
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// Create inserts a message and returns the stored row with its author.
func (r *ChatRepo) Create(ctx context.Context, userID uint64, message string) (model.Chat, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO chats (user_id, message) VALUES (?,?)", userID, message)
	if err != nil {
		return model.Chat{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Chat{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches one message with its author.
func (r *ChatRepo) GetByID(ctx context.Context, id uint64) (model.Chat, error) {
	var (
		c model.Chat
		u model.UserRef
	)
	err := r.db.QueryRowContext(ctx, selectChat+" WHERE c.id=? LIMIT 1", id).
		Scan(&c.ID, &c.UserID, &c.Message, &c.CreatedAt, &c.UpdatedAt,
			&u.ID, &u.Name, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Chat{}, ErrNotFound
	}
	if err != nil {
		return model.Chat{}, err
	}
	c.User = &u
	return c, nil
}

// Delete removes a message when the caller authored it. A row owned by
// someone else yields ErrForbidden so the handler can answer 403, unlike
// tasks where ownership misses are masked as 404.
func (r *ChatRepo) Delete(ctx context.Context, id, userID uint64) error {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM chats WHERE id=?", id)
	return err
}
