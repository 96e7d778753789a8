package apperrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeUnavailable      Code = "UNAVAILABLE"
	CodeMediaUpload      Code = "MEDIA_UPLOAD"
	CodeInternal         Code = "INTERNAL"
)

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another *AppError by code and message so that sentinel values
// declared with New can be compared with errors.Is after wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Validation reports a local precondition failure; the operation was not attempted.
func Validation(msg string) error {
	return New(CodeInvalidArgument, msg)
}

// Auth reports a missing, expired or revoked session.
func Auth(msg string) error {
	return New(CodeUnauthenticated, msg)
}

// Network reports a failed call to the data store or another remote collaborator.
func Network(msg string, cause error) error {
	return Wrap(CodeUnavailable, msg, cause)
}

func MediaUpload(cause error) error {
	return Wrap(CodeMediaUpload, "media upload failed", cause)
}

func NotAuthorized(msg string) error {
	return New(CodePermissionDenied, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func Conflict(msg string) error {
	return New(CodeAlreadyExists, msg)
}

func Internal(msg string, cause error) error {
	return Wrap(CodeInternal, msg, cause)
}

// CodeOf returns the code of the first AppError in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func IsValidation(err error) bool    { return CodeOf(err) == CodeInvalidArgument }
func IsAuth(err error) bool          { return CodeOf(err) == CodeUnauthenticated }
func IsNetwork(err error) bool       { return CodeOf(err) == CodeUnavailable }
func IsMediaUpload(err error) bool   { return CodeOf(err) == CodeMediaUpload }
func IsNotAuthorized(err error) bool { return CodeOf(err) == CodePermissionDenied }
func IsNotFound(err error) bool      { return CodeOf(err) == CodeNotFound }
func IsConflict(err error) bool      { return CodeOf(err) == CodeAlreadyExists }
