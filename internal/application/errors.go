package application

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so handlers can map it to an HTTP
// status without matching on message strings.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindGateway
	KindInternal
)

// Error carries a kind alongside the message and an optional cause.
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

// E builds an application error.
func E(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

// Wrap attaches a cause to an application error.
func Wrap(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Msg: msg, Err: err} }

// KindOf extracts the kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Shared sentinels used across services.
var (
	ErrInvalidCredentials = E(KindUnauthorized, "invalid credentials")
	ErrUserNotFound       = E(KindNotFound, "user not found")
	ErrOrderNotFound      = E(KindNotFound, "order not found")
	ErrProductNotFound    = E(KindNotFound, "product not found")
)
