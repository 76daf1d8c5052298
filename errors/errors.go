// Package errors provides structured error types for ogppu.
//
// Every failure that crosses a package boundary carries a Code so the CLI and
// the HTTP surface can map it to an exit status or response without string
// matching:
//   - INVALID_*: input or template validation failures
//   - ASSET_LOAD: background or font bytes missing, corrupt or not produced
//   - RENDER: drawing surface unobtainable or a drawing step failed
//   - EXTERNAL_PROCESS: an asset generation subprocess exited non-zero
//
// # Usage
//
//	err := errors.AssetLoad(cause, "decode background")
//	if errors.IsAssetLoad(err) {
//	    // report a generic failure, keep err for diagnostics
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes.
const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"

	ErrCodeAssetLoad       Code = "ASSET_LOAD"
	ErrCodeRender          Code = "RENDER"
	ErrCodeExternalProcess Code = "EXTERNAL_PROCESS"

	ErrCodeCanceled Code = "CANCELED"
	ErrCodeInternal Code = "INTERNAL"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// AssetLoad wraps cause as an ASSET_LOAD error.
func AssetLoad(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeAssetLoad, cause, format, args...)
}

// Render wraps cause as a RENDER error.
func Render(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeRender, cause, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so an ASSET_LOAD error wrapping an *ExternalProcessError matches both
// ASSET_LOAD and EXTERNAL_PROCESS.
func Is(err error, code Code) bool {
	if code == ErrCodeExternalProcess {
		_, ok := AsExternalProcess(err)
		return ok
	}
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// IsAssetLoad reports whether err is an ASSET_LOAD error.
func IsAssetLoad(err error) bool { return Is(err, ErrCodeAssetLoad) }

// IsRender reports whether err is a RENDER error.
func IsRender(err error) bool { return Is(err, ErrCodeRender) }

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExternalProcessError reports a non-zero exit of an asset generation
// subprocess. Stderr is kept verbatim.
type ExternalProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ExternalProcessError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Code returns the error code for this error type.
func (e *ExternalProcessError) Code() Code {
	return ErrCodeExternalProcess
}

// AsExternalProcess returns the ExternalProcessError in err's chain, if any.
func AsExternalProcess(err error) (*ExternalProcessError, bool) {
	var pe *ExternalProcessError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
