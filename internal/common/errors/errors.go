// Package errors defines the error taxonomy shared by the engine and the
// HTTP transport, and the mapping from domain errors to status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ersonp/lexis/internal/domain/entities"
)

// Common sentinel errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// ValidationError reports malformed or missing input. Status is either
// 400 (missing/unparseable) or 422 (present but of the wrong type).
type ValidationError struct {
	Field   string
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError returns a 400 ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Status: http.StatusBadRequest, Message: message}
}

// NewTypeError returns a 422 ValidationError for a field of the wrong type.
func NewTypeError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Status: http.StatusUnprocessableEntity, Message: message}
}

// ConflictError is returned when a string with the same digest is already
// stored. Existing carries the canonical record so callers can recover it.
type ConflictError struct {
	Existing *entities.StringRecord
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("string already exists: %s", e.Existing.Digest)
}

// NotFoundError reports that no record is stored at Digest.
type NotFoundError struct {
	Digest string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("string not found: %s", e.Digest)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// StorageError wraps a failure of the backing store, including corrupt
// persisted data. It is fatal to the request and never retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError, or returns nil for a nil err.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// AppError represents an application-specific error with an HTTP status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps an error to an AppError with an appropriate HTTP status code.
// ConflictError is not mapped here because its response body is the existing
// record rather than a message.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return NewAppError(valErr.Status, valErr.Message, err)
	}

	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return NewAppError(http.StatusConflict, "String already exists.", err)
	}

	if errors.Is(err, ErrNotFound) {
		return NewAppError(http.StatusNotFound, "String not found.", err)
	}
	if errors.Is(err, ErrInvalidInput) {
		return NewAppError(http.StatusBadRequest, "Invalid request.", err)
	}

	return NewAppError(http.StatusInternalServerError, "Internal server error.", err)
}
