package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrBadRequest         = New("BAD_REQUEST", http.StatusBadRequest, "bad request")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrSlotConflict is returned by the overlap guard (spec §4.D) when a
	// slot's time range strictly overlaps an existing one on the same
	// (fieldKey, gameDate).
	ErrSlotConflict = New("SLOT_CONFLICT", http.StatusConflict, "slot time range overlaps an existing slot")

	// ErrSlotAlreadyConfirmed is returned by Approve when the slot is
	// already Confirmed for a different team (spec §4.E).
	ErrSlotAlreadyConfirmed = New("SLOT_ALREADY_CONFIRMED", http.StatusConflict, "slot is already confirmed")

	// ErrConflictRetryExhausted is returned when a CAS retry loop fails
	// its bounded number of attempts (spec §4.E, §9).
	ErrConflictRetryExhausted = New("CONFLICT_RETRY_EXHAUSTED", http.StatusConflict, "conflict retry attempts exhausted, please retry")

	// ErrStorageError wraps an upstream table-store failure (spec §7).
	ErrStorageError = New("STORAGE_ERROR", http.StatusBadGateway, "upstream storage error")

	// ErrInvalidConfig is returned by the availability rule engine when
	// gameLengthMinutes <= 0 (spec §4.C).
	ErrInvalidConfig = New("INVALID_CONFIG", http.StatusBadRequest, "invalid configuration")

	// ErrRateLimited is returned by the per-league generator rate limiter
	// guarding /schedule/preview and /schedule/apply.
	ErrRateLimited = New("RATE_LIMITED", http.StatusTooManyRequests, "too many schedule generation requests for this league")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether err is, or wraps, an *Error with the same Code as
// target. Clone() copies produce distinct pointers, so this compares by
// Code rather than relying on errors.Is' identity check.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == target.Code
}
