package store

import (
	"context"
	"database/sql"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds crossing the gateway boundary. The completeOrder retry loop
// treats any of them as retryable; call-lifecycle callers log and continue.
var (
	ErrInvalidArgument = errors.New("store: invalid argument")
	ErrNotFound        = errors.New("store: not found")
	ErrConflict        = errors.New("store: conflict")
	ErrTransient       = errors.New("store: transient")
	ErrPermanent       = errors.New("store: permanent")
)

// classify maps a driver error to one of the gateway error kinds, keeping the
// original wrapped for logging.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wrap(ErrTransient, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return wrap(ErrTransient, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return wrap(ErrConflict, err)
		// Connection exceptions, resource shortage, operator intervention.
		case hasClass(pgErr.Code, "08"), hasClass(pgErr.Code, "53"), hasClass(pgErr.Code, "57"):
			return wrap(ErrTransient, err)
		default:
			return wrap(ErrPermanent, err)
		}
	}
	return wrap(ErrTransient, err)
}

func hasClass(code, class string) bool {
	return len(code) >= 2 && code[:2] == class
}

func wrap(kind, cause error) error {
	return &kindError{kind: kind, cause: cause}
}

type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error { return e.cause }
