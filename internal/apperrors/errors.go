// Package apperrors defines the domain error kinds the HTTP layer maps to
// status codes. Services wrap these sentinels with context; handlers only
// ever inspect them with errors.Is/As.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means no record exists for the requested username.
	ErrNotFound = errors.New("user not found")
	// ErrConflict means a uniqueness rule (username or email) was violated.
	ErrConflict = errors.New("conflict")
	// ErrServiceUnavailable means the backing table is missing.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrBadRequest means the request payload failed validation.
	ErrBadRequest = errors.New("bad request")
)

// StoreError wraps a DynamoDB transport or provider failure. The provider
// detail stays inside the wrapped error and is never shown to callers.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err as a store failure for operation op.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// HTTPStatus maps a domain error to the status code the API responds with.
// The table-missing case is deliberately a 500, matching the behavior the
// frontend already depends on.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
