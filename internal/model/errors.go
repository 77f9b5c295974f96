// ABOUTME: Error taxonomy shared by the store, gateway, controller and server
// ABOUTME: Sentinels are matched with errors.Is; ValidationError names the offending field

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkUnavailable is returned when a remote call could not complete.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrRemoteRejected is returned when the remote service answered with a
	// non-success status or a payload that could not be decoded.
	ErrRemoteRejected = errors.New("remote rejected request")

	// ErrValidation is returned when a required field is missing or a value is
	// out of range. Nothing is mutated when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrAuthFailure is returned when a lock code does not match.
	ErrAuthFailure = errors.New("wrong lock code")

	// ErrDanglingReference is returned when a book points at an app that no
	// longer exists.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
