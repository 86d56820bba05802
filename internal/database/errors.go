package database

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("duplicate key")

	// ErrForeignKey is returned when a foreign key constraint is violated.
	ErrForeignKey = errors.New("foreign key violation")
)

// MapError translates raw driver errors into the package sentinels so callers
// can branch with errors.Is. The sqlite driver does not export typed errors,
// so constraint violations are matched on the message.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	s := err.Error()
	switch {
	case strings.Contains(s, "UNIQUE constraint failed"):
		return ErrDuplicate
	case strings.Contains(s, "FOREIGN KEY constraint failed"):
		return ErrForeignKey
	}
	return err
}
