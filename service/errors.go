package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failed operation for API callers.
type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidStatus    Code = "INVALID_STATUS"
	CodeInvalidReference Code = "INVALID_REFERENCE"
	CodeInvalidOffice    Code = "INVALID_OFFICE"
	CodeInvalidNgo       Code = "INVALID_NGO"
	CodeConflict         Code = "CONFLICT"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Error is a coded service error. Primary-mutation failures abort the whole
// transaction, so callers never see a partially applied action.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a coded error with a caller-facing message.
func E(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Ef builds a coded error with a formatted message.
func Ef(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapInternal(err error, message string) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// CodeOf extracts the code from err, defaulting to INTERNAL_ERROR.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-facing message from err.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "Something went wrong"
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidStatus, CodeConflict:
		return http.StatusConflict
	case CodeInvalidReference, CodeInvalidOffice, CodeInvalidNgo:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
