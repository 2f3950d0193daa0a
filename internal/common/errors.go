package common

import (
	"errors"
	"net/http"
)

// Error codes used across the checkout flow.
const (
	CodeValidation  = "VALIDATION"
	CodeAuth        = "AUTH"
	CodeConfig      = "CONFIG"
	CodeProcessor   = "PROCESSOR"
	CodePersistence = "PERSISTENCE"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// NewValidationError flags client-caused input problems.
func NewValidationError(message string) *AppError {
	return NewAppError(CodeValidation, message, http.StatusBadRequest, nil)
}

// NewProcessorError wraps a failure reported by the payment processor.
func NewProcessorError(message string, err error) *AppError {
	return NewAppError(CodeProcessor, message, http.StatusInternalServerError, err)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// WriteError maps an error to the HTTP response. AppErrors carry their own
// status; anything else is treated as an internal failure.
func WriteError(w http.ResponseWriter, err error) {
	var app *AppError
	if errors.As(err, &app) {
		JSONError(w, app.HTTPStatus, app.Message)
		return
	}
	JSONError(w, http.StatusInternalServerError, err.Error())
}
