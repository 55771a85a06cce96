// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure the client can hit falls into one of four kinds; callers use the
// kind to decide whether to show the message, log it, or retry.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Validation is a local, synchronous input problem. Always shown to the user.
	Validation Kind = "validation"
	// Provider is a failure reported by the identity provider.
	Provider Kind = "provider"
	// Persistence is a keychain read or write failure. Logged, never shown.
	Persistence Kind = "persistence"
	// Network is a transport or decode failure talking to a remote API.
	Network Kind = "network"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the human-friendly message of the first *E in err's
// chain, falling back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *E
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
