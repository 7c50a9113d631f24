package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Failure wraps a store error with its retry verdict. Transient failures are
// expected to succeed on retry (connectivity, timeout); permanent ones never
// will (bad data, schema mismatch).
type Failure struct {
	Permanent bool
	Err       error
}

func (f *Failure) Error() string {
	kind := "transient"
	if f.Permanent {
		kind = "permanent"
	}
	return fmt.Sprintf("repository: %s store failure: %v", kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// IsPermanent reports whether err carries a permanent verdict.
// Errors without a verdict are treated as transient; the caller's attempt
// ceiling bounds the damage of a wrong guess.
func IsPermanent(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Permanent
}

// Postgres error classes (first two characters of SQLSTATE).
const (
	classConnection            = "08"
	classDataException         = "22"
	classIntegrityViolation    = "23"
	classInsufficientResources = "53"
	classOperatorIntervention  = "57"
	classSyntaxOrAccess        = "42"
)

func classify(err error) *Failure {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch class(pgErr.Code) {
		case classDataException, classIntegrityViolation, classSyntaxOrAccess:
			// Unrepresentable value, constraint violation or schema mismatch:
			// the same row will fail the same way forever.
			return &Failure{Permanent: true, Err: err}
		case classConnection, classInsufficientResources, classOperatorIntervention:
			return &Failure{Permanent: false, Err: err}
		}
	}

	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn):
		return &Failure{Permanent: false, Err: err}
	}

	return &Failure{Permanent: false, Err: err}
}

func class(code string) string {
	if len(code) < 2 {
		return ""
	}
	return strings.ToUpper(code[:2])
}
