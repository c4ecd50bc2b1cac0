package repository

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"

	"github.com/iliyamo/employee-task-tracker/internal/model"
)

// TokenRepo persists personal access tokens (single 'token_hash' column).
// Tokens have no expiry; they live until the user logs out, which deletes
// every token the user owns.
type TokenRepo struct{ db *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// Store inserts a token hash row and returns its ID, which becomes the
// public half of the composite bearer string.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, name, tokenHash string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO access_tokens (user_id, name, token_hash) VALUES (?,?,?)",
		userID, name, tokenHash)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Resolve looks up a token row by ID, compares the presented hash in
// constant time, and returns the owning user. ErrNotFound covers missing
// rows, hash mismatches and deleted users alike so the middleware responds
// with a single generic 401.
func (r *TokenRepo) Resolve(ctx context.Context, tokenID uint64, tokenHash string) (model.User, error) {
	var (
		stored string
		u      model.User
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT t.token_hash, u.id, u.name, u.email, u.role
		 FROM access_tokens t JOIN users u ON u.id = t.user_id
		 WHERE t.id=? LIMIT 1`,
		tokenID).Scan(&stored, &u.ID, &u.Name, &u.Email, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(tokenHash)) != 1 {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// TouchLastUsed stamps the token's last_used_at. Failures are not fatal to
// the request, so the caller may ignore the returned error.
func (r *TokenRepo) TouchLastUsed(ctx context.Context, tokenID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE access_tokens SET last_used_at=NOW() WHERE id=?", tokenID)
	return err
}

// DeleteAllForUser removes every token the user owns. Logout revokes all
// sessions across devices, matching the original API.
func (r *TokenRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM access_tokens WHERE user_id=?", userID)
	return err
}
