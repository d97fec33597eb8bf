// Package errs defines the application error taxonomy. Repositories and
// handlers tag failures with a Kind; the HTTP boundary translates the Kind to
// a status code exactly once.
package errs

import "errors"

type Kind int

const (
	Internal Kind = iota
	NotFound
	Unauthorized
	Conflict
	Invalid
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a tagged error with a client-visible message.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap tags an underlying error. The underlying error is kept for server-side
// logging; only Msg is shown to clients.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the Kind of err, defaulting to Internal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the client-visible message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}
