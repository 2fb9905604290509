// Package service implements the domain operations behind the HTTP
// handlers. Every operation takes the acting user's ID explicitly and
// scopes its queries to rows that user owns; a row owned by someone else
// is reported as ErrNotFound, never as a permission error.
package service

import "errors"

var (
	// ErrNotFound covers both missing rows and rows owned by another
	// user, so responses don't confirm that foreign resources exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken      = errors.New("this email is already registered")
	ErrNameTaken       = errors.New("a record with this name already exists")
	ErrOrderingInvalid = errors.New("invalid ordering provided")
)

// ValidationError marks failures caused by bad input. The HTTP layer
// maps it to a 400 with the wrapped message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }
