package database

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors returned by the store. Handlers map these onto HTTP
// status codes; everything else is treated as an internal failure.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrForbidden      = errors.New("requester is not a member of the project")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
