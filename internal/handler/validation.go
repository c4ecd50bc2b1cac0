package handler

import (
	"fmt"
	"net/http"
	"net/mail"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// fieldErrors accumulates validation messages keyed by input field, the
// Laravel error-bag shape the mobile client renders under each form field.
type fieldErrors map[string][]string

func (e fieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e fieldErrors) any() bool { return len(e) > 0 }

// Messages follow Laravel's default phrasing so the existing client copy
// stays intact.
func msgRequired(field string) string { return fmt.Sprintf("The %s field is required.", field) }
func msgMaxChars(field string, n int) string {
	return fmt.Sprintf("The %s must not be greater than %d characters.", field, n)
}
func msgMinChars(field string, n int) string {
	return fmt.Sprintf("The %s must be at least %d characters.", field, n)
}
func msgSelectedInvalid(field string) string {
	return fmt.Sprintf("The selected %s is invalid.", field)
}
func msgAtLeast(field string, n int) string {
	return fmt.Sprintf("The %s must be at least %d.", field, n)
}
func msgAtMost(field string, n int) string {
	return fmt.Sprintf("The %s must not be greater than %d.", field, n)
}

const (
	msgEmailTaken   = "The email has already been taken."
	msgEmailInvalid = "The email must be a valid email address."
	msgPwConfirm    = "The password confirmation does not match."
)

// checkRequired adds a required error when the value is empty and reports
// whether the value was present.
func (e fieldErrors) checkRequired(field, value string) bool {
	if value == "" {
		e.add(field, msgRequired(field))
		return false
	}
	return true
}

// checkMax enforces a rune-count ceiling, matching Laravel's max: rule for
// strings.
func (e fieldErrors) checkMax(field, value string, n int) {
	if utf8.RuneCountInString(value) > n {
		e.add(field, msgMaxChars(field, n))
	}
}

// checkProgress enforces the 0-100 integer window.
func (e fieldErrors) checkProgress(p int) {
	if p < 0 {
		e.add("progress", msgAtLeast("progress", 0))
	}
	if p > 100 {
		e.add("progress", msgAtMost("progress", 100))
	}
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

// validationFailed writes the {success,message,errors} envelope used by the
// auth and task endpoints.
func validationFailed(c echo.Context, errs fieldErrors) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"success": false,
		"message": "Validation failed.",
		"errors":  errs,
	})
}

// invalidData writes the bare {message,errors} body the chat and note
// endpoints use, message text in Turkish as in the original API.
func invalidData(c echo.Context, errs fieldErrors) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"message": "Geçersiz veri.",
		"errors":  errs,
	})
}
