// Package repository contains the data access layer. Sentinel errors let
// handlers map repository failures onto HTTP statuses without string
// matching.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist. For tasks it is also
// returned when the row exists but is outside the caller's visibility, so
// handlers can collapse both cases into one 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller is not authorized to perform an
// operation on a resource owned by someone else. Handlers translate this
// into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registering with an email that is already
// taken.
var ErrEmailExists = errors.New("email already exists")
