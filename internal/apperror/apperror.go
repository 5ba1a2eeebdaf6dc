// Package apperror defines the error taxonomy shared by every flow in the
// agent portal. Each error carries a kind the HTTP layer maps to a status
// code and a message safe to surface to the operator.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation marks malformed or missing user input.
	KindValidation Kind = iota
	// KindDuplicate marks a phone/email uniqueness conflict.
	KindDuplicate
	// KindVerification marks an OTP code mismatch.
	KindVerification
	// KindChallengeExpired marks a stale verification challenge; the caller
	// must request a fresh one.
	KindChallengeExpired
	// KindNotFound marks a missing agent record.
	KindNotFound
	// KindUpload marks a rejected or failed document upload.
	KindUpload
	// KindTransport marks a generic collaborator failure.
	KindTransport
)

// Error is an application error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an application error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an application error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an application error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err. Unclassified errors are reported as
// transport failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindTransport
}

// MessageOf returns the user-facing message of err, falling back to a generic
// message for unclassified errors.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong, please try again"
}
