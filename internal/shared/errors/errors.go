// Package errors provides application-level error types and utilities.
// It defines the error taxonomy surfaced by the complaint lifecycle: validation, not found,
// invalid transition, missing department routing and unavailable dependencies.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation            ErrorType = "validation_error"
	ErrorTypeNotFound              ErrorType = "not_found"
	ErrorTypeInvalidTransition     ErrorType = "invalid_transition"
	ErrorTypeNoDepartment          ErrorType = "no_department_for_category"
	ErrorTypeDependencyUnavailable ErrorType = "dependency_unavailable"
	ErrorTypeUnauthorized          ErrorType = "unauthorized"
	ErrorTypeForbidden             ErrorType = "forbidden"
	ErrorTypeInternal              ErrorType = "internal_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`

	cause error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

func newAppError(errType ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewInvalidTransitionError reports a status change the state machine does not allow.
func NewInvalidTransitionError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidTransition, http.StatusConflict, message, details)
}

// NewNoDepartmentError reports a category with no owning department.
func NewNoDepartmentError(category string) *AppError {
	return newAppError(ErrorTypeNoDepartment, http.StatusUnprocessableEntity,
		"no department configured for category", []string{category})
}

// NewDependencyUnavailableError wraps a failed repository, media store or broker call.
func NewDependencyUnavailableError(message string, cause error) *AppError {
	e := newAppError(ErrorTypeDependencyUnavailable, http.StatusServiceUnavailable, message, nil)
	if cause != nil {
		e.Details = cause.Error()
		e.cause = cause
	}
	return e
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// WrapDependency converts an infrastructure failure into a DependencyUnavailable error.
// AppErrors pass through untouched so repositories can return typed errors directly.
func WrapDependency(message string, err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewDependencyUnavailableError(message+": timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewDependencyUnavailableError(message+": cancelled", err)
	}
	return NewDependencyUnavailableError(message, err)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsInvalidTransitionError checks if the error is an invalid status transition
func IsInvalidTransitionError(err error) bool {
	return isType(err, ErrorTypeInvalidTransition)
}

// IsNoDepartmentError checks if the error reports a category with no department
func IsNoDepartmentError(err error) bool {
	return isType(err, ErrorTypeNoDepartment)
}

// IsDependencyUnavailableError checks if the error wraps a failed dependency call
func IsDependencyUnavailableError(err error) bool {
	return isType(err, ErrorTypeDependencyUnavailable)
}

// IsForbiddenError checks if the error is a forbidden error
func IsForbiddenError(err error) bool {
	return isType(err, ErrorTypeForbidden)
}
