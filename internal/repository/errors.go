// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrConflict signals a unique-constraint violation such as
// a duplicate share token.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update violates a unique
// constraint, such as attaching a share token string that already
// belongs to another gig. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidReference is returned when a write references a row that
// does not exist, such as a gig submitted with an unknown band id.
// Handlers should translate this into an HTTP 400 response.
var ErrInvalidReference = errors.New("invalid reference")

// MySQL error numbers that the repositories classify.
const (
	mysqlErrDupEntry = 1062 // ER_DUP_ENTRY
	mysqlErrNoRefRow = 1452 // ER_NO_REFERENCED_ROW_2
)

// Classify maps driver-level MySQL errors onto the repository sentinel
// errors so callers can use errors.Is instead of matching error text.
// Unrecognized errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlErrDupEntry:
			return ErrConflict
		case mysqlErrNoRefRow:
			return ErrInvalidReference
		}
	}
	return err
}
