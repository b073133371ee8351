package dberrors

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
)

// PostgreSQL SQLSTATE codes the service reacts to.
const (
	CodeUndefinedTable       = "42P01"
	CodeInvalidPassword      = "28P01"
	CodeInvalidAuthorization = "28000"
)

// IsNoRows reports whether err is the driver's empty-result error.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Classify wraps a driver error with the matching apperrors sentinel. The
// original error text is kept so it can be reported as diagnostic details.
// Errors that match nothing are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case CodeUndefinedTable:
			return fmt.Errorf("%w: %v", apperrors.ErrTableMissing, err)
		case CodeInvalidPassword, CodeInvalidAuthorization:
			return fmt.Errorf("%w: %v", apperrors.ErrDatabaseAuth, err)
		}
		return err
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabaseConnect, err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabaseConnect, err)
	}

	return err
}
