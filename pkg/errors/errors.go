// Package errors defines the application error type that handlers translate
// into JSON error bodies. Services return *AppError; sentinel values let
// callers branch with errors.Is regardless of the message.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels wrapped by every AppError
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrDependency         = errors.New("dependency failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// AppError carries the HTTP status and machine-readable code for a failure
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
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

func newError(sentinel error, code string, status int, message string) *AppError {
	return &AppError{Err: sentinel, Code: code, StatusCode: status, Message: message}
}

func NotFound(resource string) *AppError {
	return newError(ErrNotFound, "NOT_FOUND", http.StatusNotFound, resource+" not found")
}

func Unauthorized(message string) *AppError {
	return newError(ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(ErrForbidden, "FORBIDDEN", http.StatusForbidden, message)
}

func BadRequest(message string) *AppError {
	return newError(ErrBadRequest, "BAD_REQUEST", http.StatusBadRequest, message)
}

func Conflict(message string) *AppError {
	return newError(ErrConflict, "CONFLICT", http.StatusConflict, message)
}

func Internal(message string) *AppError {
	return newError(ErrInternal, "INTERNAL_ERROR", http.StatusInternalServerError, message)
}

// Validation reports field-level problems; details maps field to reason
func Validation(details map[string]string) *AppError {
	e := newError(ErrValidation, "VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	e.Details = details
	return e
}

// Dependency reports a failed call to an external collaborator (mail,
// document rendering). State committed before the failure stays committed.
func Dependency(operation string, err error) *AppError {
	return newError(fmt.Errorf("%w: %v", ErrDependency, err), "DEPENDENCY_ERROR",
		http.StatusInternalServerError, operation+" failed")
}

func InvalidCredentials() *AppError {
	return newError(ErrInvalidCredentials, "INVALID_CREDENTIALS", http.StatusUnauthorized,
		"invalid employee id or password")
}

func TokenExpired() *AppError {
	return newError(ErrTokenExpired, "TOKEN_EXPIRED", http.StatusUnauthorized, "token has expired")
}

func TokenInvalid() *AppError {
	return newError(ErrTokenInvalid, "TOKEN_INVALID", http.StatusUnauthorized, "invalid token")
}

// Is and As re-export the standard helpers so callers need one import
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
