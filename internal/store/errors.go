// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by store operations. Handlers map them to HTTP
// status codes; anything not matching these is treated as an internal error.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on uniqueness or integrity violations, such
	// as a duplicate email or deleting a category that still has children.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized is returned on failed logins. The message is
	// deliberately generic so callers cannot tell whether the email or the
	// password was wrong.
	ErrUnauthorized = errors.New("invalid email or password")
)

// ValidationError reports malformed or missing input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validationErr is a shorthand constructor.
func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// isUniqueViolation reports whether err is a PostgreSQL unique-index
// violation (SQLSTATE 23505). Writes racing past an existence pre-check
// still hit the index; callers map that to ErrConflict instead of leaking
// a driver error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Notifier receives best-effort cache invalidation notifications after
// writes. Implementations must never block the caller on the result;
// failures are logged downstream and never surface to the operation.
type Notifier interface {
	Invalidate(namespaces ...string)
}
