package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/employee-task-tracker/internal/model"
)

// TaskRepo encapsulates all database queries related to tasks. Visibility is
// enforced here: a task is visible to a user only when they created it or
// are assigned to it. Lookups that miss the visibility window return
// ErrNotFound, never ErrForbidden, so callers cannot learn whether the row
// exists.
type TaskRepo struct{ db *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

// selectTask joins the creator and optional assignee so handlers can return
// tasks with their author objects in one round trip.
const selectTask = `SELECT t.id, t.user_id, t.assigned_to, t.title, t.description, t.status, t.progress,
	t.created_at, t.updated_at,
	c.id, c.name, c.role,
	a.id, a.name, a.role
FROM tasks t
JOIN users c ON c.id = t.user_id
LEFT JOIN users a ON a.id = t.assigned_to`

// TaskUpdate carries the mutable task fields. Nil pointers mean the field is
// left untouched; the handler decides which fields the caller may set.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Progress    *int
}

// ListVisible returns every task the user created or is assigned to.
func (r *TaskRepo) ListVisible(ctx context.Context, userID uint64) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTask+" WHERE t.user_id=? OR t.assigned_to=? ORDER BY t.created_at DESC",
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetVisible fetches one task under the same visibility filter as
// ListVisible. Absent and out-of-scope rows are indistinguishable.
func (r *TaskRepo) GetVisible(ctx context.Context, id, userID uint64) (model.Task, error) {
	row := r.db.QueryRowContext(ctx,
		selectTask+" WHERE t.id=? AND (t.user_id=? OR t.assigned_to=?) LIMIT 1",
		id, userID, userID)
	t, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// Create inserts a task and returns the stored row with authors joined.
func (r *TaskRepo) Create(ctx context.Context, userID uint64, assignedTo *uint64, title string, description *string, status string, progress int) (model.Task, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (user_id, assigned_to, title, description, status, progress) VALUES (?,?,?,?,?,?)",
		userID, assignedTo, title, description, status, progress)
	if err != nil {
		return model.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return r.GetVisible(ctx, uint64(id), userID)
}

// Update applies the non-nil fields of upd to the task. The caller must have
// already resolved the task through GetVisible; no visibility check is
// repeated here. A fully nil update is a no-op.
func (r *TaskRepo) Update(ctx context.Context, id uint64, upd TaskUpdate) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *upd.Status)
	}
	if upd.Progress != nil {
		sets = append(sets, "progress=?")
		args = append(args, *upd.Progress)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+", updated_at=NOW() WHERE id=?",
		args...)
	return err
}

// Delete removes a task, but only for its creator. When no row matches both
// the id and the creator, ErrNotFound is returned; an assignee deleting a
// task sees the same 404 as a stranger.
func (r *TaskRepo) Delete(ctx context.Context, id, creatorID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id=? AND user_id=?", id, creatorID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanTask(rows *sql.Rows) (model.Task, error)   { return scanTaskFrom(rows) }
func scanTaskRow(row *sql.Row) (model.Task, error)  { return scanTaskFrom(row) }
func scanTaskFrom(s rowScanner) (model.Task, error) {
	var (
		t          model.Task
		assignedTo sql.NullInt64
		desc       sql.NullString
		creator    model.UserRef
		aID        sql.NullInt64
		aName      sql.NullString
		aRole      sql.NullString
	)
	err := s.Scan(&t.ID, &t.UserID, &assignedTo, &t.Title, &desc, &t.Status, &t.Progress,
		&t.CreatedAt, &t.UpdatedAt,
		&creator.ID, &creator.Name, &creator.Role,
		&aID, &aName, &aRole)
	if err != nil {
		return model.Task{}, err
	}
	if assignedTo.Valid {
		v := uint64(assignedTo.Int64)
		t.AssignedTo = &v
	}
	if desc.Valid {
		d := desc.String
		t.Description = &d
	}
	t.Creator = &creator
	if aID.Valid {
		t.Assignee = &model.UserRef{ID: uint64(aID.Int64), Name: aName.String, Role: aRole.String}
	}
	return t, nil
}
