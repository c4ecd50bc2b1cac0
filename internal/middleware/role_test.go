package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runWithRole(t *testing.T, mw echo.MiddlewareFunc, role any) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	if err := mw(passThrough)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	mw := RequireRole("manager", "employee")
	for _, role := range []string{"manager", "employee"} {
		if rec := runWithRole(t, mw, role); rec.Code != http.StatusOK {
			t.Errorf("role %s: expected 200, got %d", role, rec.Code)
		}
	}
}

func TestRequireRoleRejects(t *testing.T) {
	mw := RequireRole("manager")
	if rec := runWithRole(t, mw, "employee"); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for disallowed role, got %d", rec.Code)
	}
	if rec := runWithRole(t, mw, nil); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for missing role, got %d", rec.Code)
	}
	if rec := runWithRole(t, mw, 42); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-string role, got %d", rec.Code)
	}
}
