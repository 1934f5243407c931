package bot

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a user-facing failure.
type ErrorKind int

const (
	KindParseFailure ErrorKind = iota + 1
	KindNotFound
	KindPermissionDenied
	KindProvider
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindParseFailure:
		return "parse_failure"
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindProvider:
		return "provider_error"
	case KindValidation:
		return "validation_failure"
	default:
		return "unknown"
	}
}

// Error is a recoverable handler failure. The bot turns it into a reply and
// keeps processing the event; any other error aborts the event.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Text is the reply shown to the user.
func (e *Error) Text() string {
	if e.Kind == KindProvider {
		return "⚠️ " + e.Msg
	}
	return "❌ " + e.Msg
}

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func isProviderFailure(err error) bool {
	be, ok := AsError(err)
	return ok && be.Kind == KindProvider
}

func usage(text string) error {
	return &Error{Kind: KindParseFailure, Msg: "Usage: `" + text + "`"}
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func denied(msg string) error {
	return &Error{Kind: KindPermissionDenied, Msg: msg}
}

func invalid(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func providerFailure(err error) error {
	return &Error{Kind: KindProvider, Msg: fmt.Sprintf("AI error: %v", err)}
}
