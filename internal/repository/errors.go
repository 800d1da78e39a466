// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// Validation pre-checks catch most duplicates, but two callers can pass
// validation concurrently; the losing write surfaces here and must be
// mapped to an application-level conflict, never propagated raw.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// SQLite (used by the test suite) reports constraint violations as text.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
