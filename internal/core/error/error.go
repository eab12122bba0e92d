package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is the visitor-facing reply when a turn fails internally.
	SystemErrorMessage = "I apologize, but I encountered an error. Could you please try again?"
	// EmptyMessageMessage is the visitor-facing reply for a blank chat message.
	EmptyMessageMessage = "I didn't catch that. Could you please repeat?"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// SQLiteErrorMessage describes lead database failures.
	SQLiteErrorMessage = "lead database operation failed"
)

// ErrEmptyMessage is returned for a chat message that is empty after trimming.
var ErrEmptyMessage = New(nil, http.StatusBadRequest, EmptyMessageMessage)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Internal wraps err as a 500 carrying the generic apology.
func Internal(err error) *AppError {
	return New(err, http.StatusInternalServerError, SystemErrorMessage)
}

// WrapSQLite wraps a lead database error with a consistent status code and message.
func WrapSQLite(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, SQLiteErrorMessage)
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether target is this same AppError or matches the wrapped error.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok && t == e {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

// MessageOf returns the visitor-facing text for err. Only client errors expose
// their own message; everything else gets the generic apology.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status >= 400 && appErr.Status < 500 && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}
