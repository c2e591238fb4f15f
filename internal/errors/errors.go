package errors

import (
	stderrors "errors"
	"fmt"

	"surveyconv/domain/survey"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the outermost AppError in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeMalformedInput = "MALFORMED_INPUT"
	CodeIOError        = "IO_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Process exit codes per error code
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitMalformedInput = 2
	ExitIOError        = 3
	ExitConfigInvalid  = 4
)

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// IOError reports a failed file operation on path
func IOError(op, path string, cause error) *AppError {
	return &AppError{
		Code:    CodeIOError,
		Message: fmt.Sprintf("%s %s", op, path),
		Cause:   cause,
	}
}

// FromTransform names the file a transform failure came from. Layout
// violations get CodeMalformedInput; anything else is wrapped as is.
func FromTransform(path string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, survey.ErrMalformedInput) {
		return &AppError{
			Code:    CodeMalformedInput,
			Message: fmt.Sprintf("convert %s", path),
			Cause:   err,
		}
	}
	return Wrapf(err, "convert %s", path)
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCode(err) {
	case CodeMalformedInput:
		return ExitMalformedInput
	case CodeIOError:
		return ExitIOError
	case CodeConfigInvalid:
		return ExitConfigInvalid
	default:
		return ExitFailure
	}
}
