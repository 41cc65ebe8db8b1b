package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so callers can branch on what went wrong without
// inspecting messages.
type Kind int

const (
	// Validation marks malformed or empty required input, rejected before any
	// durable write.
	Validation Kind = iota + 1
	// Authorization marks an actor lacking rights over the target entity.
	Authorization
	// NotFound marks a referenced record that is absent from the store.
	NotFound
	// Upstream marks a completion provider failure or missing provider
	// configuration. Durable user input is never lost on an Upstream error.
	Upstream
	// Conflict marks a send attempted while a completion is already in flight
	// for the same conversation.
	Conflict
)

// Error carries a kind, a message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a kinded error with the given message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf returns a kinded error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an existing error. Returns nil when err
// is nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or zero when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the HTTP surface reports for it.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
