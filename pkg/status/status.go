// Copyright © 2026 Arka Labs

// Package status defines the closed error taxonomy shared by every hcm
// engine. All failures crossing a package boundary are either one of these
// tagged errors or wrap one, so callers can branch on kind without string
// matching.
package status

import (
	stderr "errors"
	"fmt"
)

// Kind tags an error with its place in the taxonomy.
type Kind int

const (
	// KindNotFound indicates a missing identity, version or artifact.
	KindNotFound Kind = iota + 1
	// KindAccessDenied indicates a path escaping the storage root or an
	// OS-level permission failure.
	KindAccessDenied
	// KindConflict indicates a rejected write: CAS base hash mismatch, or
	// differing content under an immutable pack/artifact id.
	KindConflict
	// KindInvalidPayload indicates a malformed identity or non-JSON content.
	KindInvalidPayload
	// KindIO indicates any other filesystem failure, including unparsable
	// JSON read back from the store.
	KindIO
	// KindInternal indicates a misconfiguration or an unclassified failure.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindAccessDenied:
		return "ACCESS_DENIED"
	case KindConflict:
		return "CONFLICTING_UPDATE"
	case KindInvalidPayload:
		return "INVALID_PAYLOAD"
	case KindIO:
		return "IO_ERROR"
	case KindInternal:
		return "INTERNAL_ERROR"
	}
	return "UNKNOWN"
}

// Error carries a kind, a message, an optional cause and optional
// structured details (e.g. the expected and current hash on a conflict).
type Error struct {
	kind    Kind
	msg     string
	cause   error
	details map[string]interface{}
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// NotFound builds a not-found error.
func NotFound(msg string) *Error { return newError(KindNotFound, msg) }

// AccessDenied builds an access-denied error.
func AccessDenied(msg string) *Error { return newError(KindAccessDenied, msg) }

// Conflict builds a conflicting-update error.
func Conflict(msg string) *Error { return newError(KindConflict, msg) }

// InvalidPayload builds an invalid-payload error.
func InvalidPayload(msg string) *Error { return newError(KindInvalidPayload, msg) }

// IO builds an io-failure error.
func IO(msg string) *Error { return newError(KindIO, msg) }

// Internal builds an internal error.
func Internal(msg string) *Error { return newError(KindInternal, msg) }

// Sentinels for errors.Is matching. Two *Error values compare equal under
// errors.Is when their kinds match, so engines return rich errors while
// callers test against these.
var (
	ErrNotFound       = NotFound("not found")
	ErrAccessDenied   = AccessDenied("access denied")
	ErrConflict       = Conflict("conflicting update")
	ErrInvalidPayload = InvalidPayload("invalid payload")
	ErrIO             = IO("io failure")
	ErrInternal       = Internal("internal error")
)

// Error renders "KIND: message" with the cause appended when present.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Kind of this error.
func (e *Error) Kind() Kind { return e.kind }

// Message without the kind prefix or cause.
func (e *Error) Message() string { return e.msg }

// Unwrap the cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Wrap attaches a cause and returns the receiver for chaining.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

// WithDetail attaches one structured detail and returns the receiver.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.details == nil {
		e.details = make(map[string]interface{})
	}
	e.details[key] = value
	return e
}

// Details returns the structured details, or nil.
func (e *Error) Details() map[string]interface{} { return e.details }

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict)
// holds for every conflict regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind
}

// KindOf extracts the taxonomy kind from err, unwrapping as needed.
// Unclassified errors report KindInternal, per the outermost-boundary rule.
func KindOf(err error) Kind {
	var e *Error
	if stderr.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// IsNotFound reports whether err is tagged not-found.
func IsNotFound(err error) bool { return stderr.Is(err, ErrNotFound) }

// IsAccessDenied reports whether err is tagged access-denied.
func IsAccessDenied(err error) bool { return stderr.Is(err, ErrAccessDenied) }

// IsConflict reports whether err is tagged conflicting-update.
func IsConflict(err error) bool { return stderr.Is(err, ErrConflict) }

// IsInvalidPayload reports whether err is tagged invalid-payload.
func IsInvalidPayload(err error) bool { return stderr.Is(err, ErrInvalidPayload) }

// IsIO reports whether err is tagged io-failure.
func IsIO(err error) bool { return stderr.Is(err, ErrIO) }

// IsInternal reports whether err is tagged internal.
func IsInternal(err error) bool { return stderr.Is(err, ErrInternal) }
