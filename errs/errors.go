// Package errs classifies failures of the listing backends.
//
// Both the AWS and the MinIO listers wrap their native errors into *errs.Error
// so the collector can log and count them without importing either SDK.
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises a listing failure.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no such bucket
	ErrKindConnectionFailed         // cannot reach the endpoint
	ErrKindTimeout                  // context deadline / throttling
	ErrKindPermissionDenied         // access denied / bad credentials
	ErrKindInvalidInput             // bad bucket name, bad token
	ErrKindEmpty                    // listing succeeded but returned no content
	ErrKindProtocol                 // truncated page without a continuation token
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindEmpty:
		return "empty"
	case ErrKindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error is the error type returned by the listers.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error around cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or ErrKindUnknown.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

func IsNotFound(err error) bool         { return KindOf(err) == ErrKindNotFound }
func IsPermissionDenied(err error) bool { return KindOf(err) == ErrKindPermissionDenied }
func IsTimeout(err error) bool          { return KindOf(err) == ErrKindTimeout }
func IsEmpty(err error) bool            { return KindOf(err) == ErrKindEmpty }
