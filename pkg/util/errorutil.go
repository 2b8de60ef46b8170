package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError carries the aggregated field-level failures from registration.
func NewValidationError(details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", "Validation failed", http.StatusBadRequest, details)
}

// NewInvalidCredentials is the single error for unknown email and wrong
// password alike, so responses never reveal which check failed.
func NewInvalidCredentials() error {
	return NewDomainError("INVALID_CREDENTIALS", "Incorrect email or password", http.StatusUnauthorized, nil)
}

// NewAccountInactive is intentionally distinguishable from bad credentials;
// the account's existence is already implied by registration.
func NewAccountInactive() error {
	return NewDomainError("ACCOUNT_INACTIVE", "Account is inactive", http.StatusForbidden, nil)
}

// NewDuplicateAccount does not reveal which unique field collided.
func NewDuplicateAccount() error {
	return NewDomainError("DUPLICATE_ACCOUNT", "An account with these details already exists", http.StatusConflict, nil)
}

func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewRateLimited() error {
	return NewDomainError("RATE_LIMITED", "Too many requests", http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
