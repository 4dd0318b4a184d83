package common

import "errors"

// Kind classifies a service-layer error into the taxonomy the gateway
// maps to HTTP statuses. Kind is the type, not a specific error value.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalid
	KindPreconditionFailed
	KindExternalUnavailable
)

// Error is a typed service error carrying a kind and a single-sentence
// user-visible message. Services never return bare errors.New values.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func newErr(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

// Wrap attaches a kind to an underlying error without losing it for
// errors.Is/As callers while keeping the message user-facing.
func Wrap(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Message: msg, cause: cause}
}

func Unauthenticated(msg string) *Error      { return newErr(KindUnauthenticated, msg) }
func Forbidden(msg string) *Error            { return newErr(KindForbidden, msg) }
func NotFound(msg string) *Error             { return newErr(KindNotFound, msg) }
func Conflict(msg string) *Error             { return newErr(KindConflict, msg) }
func Invalid(msg string) *Error              { return newErr(KindInvalid, msg) }
func PreconditionFailed(msg string) *Error   { return newErr(KindPreconditionFailed, msg) }
func ExternalUnavailable(msg string) *Error  { return newErr(KindExternalUnavailable, msg) }
func Internal(msg string) *Error             { return newErr(KindInternal, msg) }

// AsError extracts a *Error from any error, defaulting to Internal for
// anything a repository or library returned without going through the
// taxonomy (e.g. a raw driver error).
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err.Error())
}
