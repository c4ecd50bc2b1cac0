package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/employee-task-tracker/internal/config"
	"github.com/iliyamo/employee-task-tracker/internal/model"
	"github.com/iliyamo/employee-task-tracker/internal/repository"
	"github.com/iliyamo/employee-task-tracker/internal/utils"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{Env: "test", BcryptCost: 4}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func TestRegisterValidationErrors(t *testing.T) {
	h, _ := newAuthHandler(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/register",
		`{"name":"","email":"not-an-email","password":"short","password_confirmation":"other","role":"boss"}`,
		model.User{})

	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errs := body["errors"].(map[string]any)
	for _, field := range []string{"name", "email", "password", "role"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@b.com' for key 'users.uq_users_email'"))

	c, rec := newTestContext(t, http.MethodPost, "/api/register",
		`{"name":"A","email":"a@b.com","password":"password123","password_confirmation":"password123","role":"employee"}`,
		model.User{})

	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	errs := body["errors"].(map[string]any)
	msgs, ok := errs["email"].([]any)
	if !ok || len(msgs) == 0 || msgs[0] != "The email has already been taken." {
		t.Errorf("expected duplicate email message, got %v", errs)
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	h, mock := newAuthHandler(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("A", "a@b.com", sqlmock.AnyArg(), "employee").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(5, "A", "a@b.com", "hash", "employee", now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO access_tokens")).
		WithArgs(5, "auth-token", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))

	c, rec := newTestContext(t, http.MethodPost, "/api/register",
		`{"name":"A","email":"a@b.com","password":"password123","password_confirmation":"password123","role":"employee"}`,
		model.User{})

	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	if !strings.HasPrefix(token, "3|") {
		t.Errorf("token should be composite with row id, got %q", token)
	}
	user := body["user"].(map[string]any)
	if _, leaked := user["password_hash"]; leaked {
		t.Errorf("password hash must not be serialized")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ghost@b.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	c, rec := newTestContext(t, http.MethodPost, "/api/login",
		`{"email":"ghost@b.com","password":"whatever1"}`, model.User{})

	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Invalid credentials." {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)
	now := time.Now()

	hash, err := utils.HashPassword("correct-horse", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(5, "A", "a@b.com", hash, "employee", now, now))

	c, rec := newTestContext(t, http.MethodPost, "/api/login",
		`{"email":"a@b.com","password":"battery-staple"}`, model.User{})

	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	h, mock := newAuthHandler(t)
	now := time.Now()

	hash, err := utils.HashPassword("correct-horse", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(5, "A", "a@b.com", hash, "manager", now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO access_tokens")).
		WithArgs(5, "auth-token", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(9, 1))

	c, rec := newTestContext(t, http.MethodPost, "/api/login",
		`{"email":"a@b.com","password":"correct-horse"}`, model.User{})

	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Login successful." {
		t.Errorf("unexpected envelope: %v", body)
	}
	if tok, _ := body["token"].(string); !strings.Contains(tok, "|") {
		t.Errorf("expected composite token, got %q", tok)
	}
}

func TestLogoutDeletesAllTokens(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM access_tokens WHERE user_id=?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))

	c, rec := newTestContext(t, http.MethodPost, "/api/logout", "",
		model.User{ID: 5, Role: model.RoleEmployee})

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListUsersShape(t *testing.T) {
	h, mock := newAuthHandler(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY name")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role", "created_at", "updated_at"}).
			AddRow(2, "Alice", "alice@b.com", "manager", now, now).
			AddRow(1, "Bob", "bob@b.com", "employee", now, now))

	c, rec := newTestContext(t, http.MethodGet, "/api/users", "",
		model.User{ID: 1, Role: model.RoleEmployee})

	if err := h.ListUsers(c); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	data := body["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("expected 2 users, got %d", len(data))
	}
	first := data[0].(map[string]any)
	if first["name"] != "Alice" {
		t.Errorf("expected name ordering, got %v", first["name"])
	}
	if _, has := first["updated_at"]; has {
		t.Errorf("roster rows must not include updated_at")
	}
}
