package utils

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	ErrCodeResolve    ErrorCode = 1001
	ErrCodeAuth       ErrorCode = 1002
	ErrCodeProtocol   ErrorCode = 1003
	ErrCodeValidation ErrorCode = 3001
	ErrCodeRender     ErrorCode = 4001
	ErrCodeSystem     ErrorCode = 5001
)

// Sentinels for errors.Is; only the Code is compared.
var (
	ErrResolve    = &AppError{Code: ErrCodeResolve, Message: "address resolution failed"}
	ErrAuth       = &AppError{Code: ErrCodeAuth, Message: "authentication failed"}
	ErrProtocol   = &AppError{Code: ErrCodeProtocol, Message: "SSH protocol error"}
	ErrValidation = &AppError{Code: ErrCodeValidation, Message: "validation failed"}
	ErrRender     = &AppError{Code: ErrCodeRender, Message: "report rendering failed"}
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// IsConnectionError reports whether err aborted a session before any command ran.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrResolve) || errors.Is(err, ErrAuth) || errors.Is(err, ErrProtocol)
}

func NewResolveError(host string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeResolve,
		Message: fmt.Sprintf("address-related error connecting to %s", host),
		Details: err.Error(),
		Cause:   err,
	}
}

func NewAuthError(host string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeAuth,
		Message: fmt.Sprintf("authentication failed for %s", host),
		Details: err.Error(),
		Cause:   err,
	}
}

func NewProtocolError(host string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeProtocol,
		Message: fmt.Sprintf("SSH error connecting to %s", host),
		Details: err.Error(),
		Cause:   err,
	}
}

func NewValidationError(field string, value interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("invalid %s", field),
		Details: fmt.Sprintf("invalid value: %v", value),
	}
}

func NewRenderError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeRender,
		Message: "report rendering failed",
		Details: err.Error(),
		Cause:   err,
	}
}

func NewSystemError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeSystem,
		Message: "system error",
		Details: err.Error(),
		Cause:   err,
	}
}
