package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/employee-task-tracker/internal/model"
)

// NoteRepo encapsulates all database queries related to notes. Every
// authenticated user can read all notes; updating is restricted to the
// author and deletion to the author or a manager/admin. The role checks
// live in the handler, which resolves the note first via GetByID.
type NoteRepo struct{ db *sql.DB }

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{db: db} }

const selectNote = `SELECT n.id, n.user_id, n.title, n.content, n.created_at, n.updated_at,
	u.id, u.name, u.role
FROM notes n
JOIN users u ON u.id = n.user_id`

// ListAll returns every note newest-first with its author.
func (r *NoteRepo) ListAll(ctx context.Context) ([]model.Note, error) {
	rows, err := r.db.QueryContext(ctx, selectNote+" ORDER BY n.created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		var (
			n model.Note
			u model.UserRef
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt,
			&u.ID, &u.Name, &u.Role); err != nil {
			return nil, err
		}
		n.User = &u
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Create inserts a note and returns the stored row with its author.
func (r *NoteRepo) Create(ctx context.Context, userID uint64, title, content string) (model.Note, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notes (user_id, title, content) VALUES (?,?,?)", userID, title, content)
	if err != nil {
		return model.Note{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Note{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches one note with its author.
func (r *NoteRepo) GetByID(ctx context.Context, id uint64) (model.Note, error) {
	var (
		n model.Note
		u model.UserRef
	)
	err := r.db.QueryRowContext(ctx, selectNote+" WHERE n.id=? LIMIT 1", id).
		Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt,
			&u.ID, &u.Name, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, ErrNotFound
	}
	if err != nil {
		return model.Note{}, err
	}
	n.User = &u
	return n, nil
}

// Update replaces the note's title and content and returns the fresh row.
func (r *NoteRepo) Update(ctx context.Context, id uint64, title, content string) (model.Note, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE notes SET title=?, content=?, updated_at=NOW() WHERE id=?", title, content, id)
	if err != nil {
		return model.Note{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a note by id. Authorization is checked by the handler.
func (r *NoteRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id=?", id)
	return err
}
