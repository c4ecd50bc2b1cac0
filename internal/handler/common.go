package handler // handler implements the HTTP endpoints of the API

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-task-tracker/internal/model"
)

// currentUser returns the authenticated user stored by the TokenAuth
// middleware. The bool is false when the middleware did not run, which on a
// correctly wired router can only happen in tests.
func currentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get("user").(model.User)
	return u, ok
}

// pathID parses the :id route parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
