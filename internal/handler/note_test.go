package handler

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/employee-task-tracker/internal/model"
	"github.com/iliyamo/employee-task-tracker/internal/repository"
)

var noteCols = []string{
	"id", "user_id", "title", "content", "created_at", "updated_at",
	"u_id", "u_name", "u_role",
}

func newNoteHandler(t *testing.T) (*NoteHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewNoteHandler(repository.NewNoteRepo(db)), mock
}

func expectNoteByID(mock sqlmock.Sqlmock, id, authorID uint64, authorName, authorRole string) {
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE n.id=?")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(noteCols).
			AddRow(id, authorID, "Toplantı", "Notlar", now, now, authorID, authorName, authorRole))
}

func TestNoteUpdateByNonAuthorIs403(t *testing.T) {
	h, mock := newNoteHandler(t)
	expectNoteByID(mock, 4, 2, "Ayşe", "manager")

	c, rec := newTestContext(t, http.MethodPut, "/api/notes/4",
		`{"title":"Yeni","content":"İçerik"}`,
		model.User{ID: 3, Role: model.RoleEmployee})
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Bu notu güncelleme yetkiniz yok." {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestNoteUpdateByAuthor(t *testing.T) {
	h, mock := newNoteHandler(t)
	now := time.Now()

	expectNoteByID(mock, 4, 3, "Mehmet", "employee")
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notes SET title=?, content=?, updated_at=NOW() WHERE id=?")).
		WithArgs("Yeni", "İçerik", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE n.id=?")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(noteCols).
			AddRow(4, 3, "Yeni", "İçerik", now, now, 3, "Mehmet", "employee"))

	c, rec := newTestContext(t, http.MethodPut, "/api/notes/4",
		`{"title":"Yeni","content":"İçerik"}`,
		model.User{ID: 3, Role: model.RoleEmployee})
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["title"] != "Yeni" {
		t.Errorf("expected fresh row, got %v", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestNoteDeleteByManagerAllowed(t *testing.T) {
	h, mock := newNoteHandler(t)

	expectNoteByID(mock, 4, 3, "Mehmet", "employee")
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes WHERE id=?")).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newTestContext(t, http.MethodDelete, "/api/notes/4", "",
		model.User{ID: 9, Role: model.RoleManager})
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Not başarıyla silindi." {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestNoteDeleteByOtherEmployeeIs403(t *testing.T) {
	h, mock := newNoteHandler(t)
	expectNoteByID(mock, 4, 3, "Mehmet", "employee")

	c, rec := newTestContext(t, http.MethodDelete, "/api/notes/4", "",
		model.User{ID: 9, Role: model.RoleEmployee})
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Bu notu silme yetkiniz yok." {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestNoteCreateValidation(t *testing.T) {
	h, _ := newNoteHandler(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/notes",
		`{"title":"","content":""}`, model.User{ID: 3, Role: model.RoleEmployee})

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errs := body["errors"].(map[string]any)
	for _, field := range []string{"title", "content"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestNoteGetMissingIs404(t *testing.T) {
	h, mock := newNoteHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE n.id=?")).
		WithArgs(77).
		WillReturnRows(sqlmock.NewRows(noteCols))

	c, rec := newTestContext(t, http.MethodGet, "/api/notes/77", "",
		model.User{ID: 3, Role: model.RoleEmployee})
	c.SetParamNames("id")
	c.SetParamValues("77")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Not bulunamadı." {
		t.Errorf("unexpected message: %v", body["message"])
	}
}
