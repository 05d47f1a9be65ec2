// Package ndn defines the external interfaces and shared error types that
// the rest of this module depends on but does not implement: the Interest/
// Data transport and the private key store.
package ndn

import (
	"errors"
	"fmt"
)

// SecError is raised by a policy violation, a missing certificate, or an
// unqualified signer. It is the only error kind that ever crosses into a
// verification onFailed callback.
type SecError struct {
	Msg string
}

func (e SecError) Error() string {
	return fmt.Sprintf("security error: %s", e.Msg)
}

// ErrInvalidValue is raised when a caller-supplied value is not one this
// module accepts for the named field.
type ErrInvalidValue struct {
	Item  string
	Value any
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Item, e.Value)
}

var (
	// ErrTimeout is returned by a Transport when an Interest receives no
	// matching Data before its deadline.
	ErrTimeout = errors.New("interest timeout")
	// ErrCancelled is returned when a pending operation is abandoned
	// because the transport shut down.
	ErrCancelled = errors.New("operation cancelled")
	// ErrNoPubKey is returned by a Signer that has no associated public key
	// (e.g. a pure digest signer).
	ErrNoPubKey = errors.New("public key does not exist")
	// ErrNotFound is returned when a lookup (cache, identity store) misses.
	ErrNotFound = errors.New("not found")
)
