package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateQueryCanceled    = "57014"
	sqlStateLockNotAvailable = "55P03"
)

// classifyStoreError turns raw store errors into ErrStoreTimeout or
// ErrStoreUnavailable. Errors already typed by this package pass through.
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}

	if isServiceError(err) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return NewErrStoreTimeout(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateQueryCanceled, sqlStateLockNotAvailable:
			return NewErrStoreTimeout(err)
		}
	}

	return NewErrStoreUnavailable(err)
}

func isServiceError(err error) bool {
	var (
		invalidInput *ErrInvalidInput
		notFound     *ErrResourceNotFound
		unavailable  *ErrPersonUnavailable
		capacity     *ErrCapacityExceeded
		transition   *ErrInvalidTransition
		partial      *ErrPartialAssignmentFailure
		storeDown    *ErrStoreUnavailable
		storeTimeout *ErrStoreTimeout
	)
	return errors.As(err, &invalidInput) ||
		errors.As(err, &notFound) ||
		errors.As(err, &unavailable) ||
		errors.As(err, &capacity) ||
		errors.As(err, &transition) ||
		errors.As(err, &partial) ||
		errors.As(err, &storeDown) ||
		errors.As(err, &storeTimeout)
}

// outcome is the metrics label of an operation result.
func outcome(err error) string {
	var (
		invalidInput *ErrInvalidInput
		notFound     *ErrResourceNotFound
		unavailable  *ErrPersonUnavailable
		capacity     *ErrCapacityExceeded
		transition   *ErrInvalidTransition
		partial      *ErrPartialAssignmentFailure
		storeTimeout *ErrStoreTimeout
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &invalidInput):
		return "invalid_input"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &unavailable):
		return "person_unavailable"
	case errors.As(err, &capacity):
		return "capacity_exceeded"
	case errors.As(err, &transition):
		return "invalid_transition"
	case errors.As(err, &partial):
		return "partial_failure"
	case errors.As(err, &storeTimeout):
		return "store_timeout"
	default:
		return "store_unavailable"
	}
}
