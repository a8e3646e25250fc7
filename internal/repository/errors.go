// Package repository implements MySQL persistence for the portal.
// This file defines sentinel errors shared across the repositories so
// handlers can translate failure modes into HTTP status codes without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when an insert would violate the unique
// index on users.email.  Handlers translate it to HTTP 400.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a record does not exist or is not
// visible to the caller.  Handlers translate it to HTTP 404.
var ErrNotFound = errors.New("record not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate it to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as applying twice to the same scheme or
// issuing a certificate that was never approved.  Handlers translate
// it to HTTP 409.
var ErrConflict = errors.New("conflict")
