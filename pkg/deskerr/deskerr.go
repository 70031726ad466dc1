// Package deskerr provides the structured error taxonomy shared by every
// deskctl component: accessibility binding, selector engine, locator,
// capture pipeline and replay engine all return *deskerr.Error so callers
// can branch on Code without parsing messages.
package deskerr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Code is a domain-specific error code. String values match the
// SCREAMING_SNAKE wire form used by Error's JSON encoding.
type Code string

const (
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeAppNotRunning    Code = "APP_NOT_RUNNING"
	CodeElementNotFound  Code = "ELEMENT_NOT_FOUND"
	CodeTimeout          Code = "TIMEOUT"
	CodeMultipleMatches  Code = "MULTIPLE_MATCHES"
	CodeSelectorInvalid  Code = "SELECTOR_INVALID"
	CodeActionFailed     Code = "ACTION_FAILED"
	CodeNotImplemented   Code = "NOT_IMPLEMENTED"
	CodeUnknown          Code = "UNKNOWN"
)

// Error is the wire-compatible error type returned by every deskctl
// component. It implements error, errors.Is (by Code) and errors.As.
type Error struct {
	Code        Code           `json:"code"`
	Message     string         `json:"message"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Context     map[string]any `json:"context,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("deskctl: %s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("deskctl: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is supports errors.Is(err, deskerr.New(code, "")) style sentinel checks
// by comparing Code, the same pattern the rest of the code in this module
// follows for its own sentinel error types.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// MarshalJSON implements the wire error serialisation: suggestions and
// context are omitted when empty, never emitted as null or [].
func (e *Error) MarshalJSON() ([]byte, error) {
	type wire struct {
		Code        Code           `json:"code"`
		Message     string         `json:"message"`
		Suggestions []string       `json:"suggestions,omitempty"`
		Context     map[string]any `json:"context,omitempty"`
	}
	w := wire{Code: e.Code, Message: e.Message}
	if len(e.Suggestions) > 0 {
		w.Suggestions = e.Suggestions
	}
	if len(e.Context) > 0 {
		w.Context = e.Context
	}
	return json.Marshal(w)
}

// New creates an Error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message, preserving it for
// errors.Unwrap/errors.As.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// Wrapf wraps an existing error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// WithSuggestions attaches actionable next-step hints (e.g. "use index:k").
func (e *Error) WithSuggestions(s ...string) *Error {
	e.Suggestions = append(e.Suggestions, s...)
	return e
}

// WithContext attaches a single key/value of diagnostic context.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the Code from err, or CodeUnknown if err is not (or does
// not wrap) a *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsRetryable reports whether err might succeed if retried. The
// only automatic retry in the system is the locator's poll loop, which
// retries ElementNotFound; everything else is surfaced as-is.
func IsRetryable(err error) bool {
	return Is(err, CodeElementNotFound)
}

// IsFatal reports whether err cannot be recovered from by retrying or
// waiting — permission and invalid-selector failures fall here.
func IsFatal(err error) bool {
	return Is(err, CodePermissionDenied) || Is(err, CodeSelectorInvalid) || Is(err, CodeNotImplemented)
}
