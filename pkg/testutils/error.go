// Package testutils holds helpers shared across this module's _test.go
// files: a global-T error-assertion pair in the teacher's own idiom, and
// mock Transport/PrivateKeyStore implementations that let KeyChain tests
// run without a real forwarder socket or on-disk key store (both of
// which spec.md §1 excludes from the core).
package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testT *testing.T

// SetT sets the global test instance NoErr/Err report failures against.
func SetT(t *testing.T) {
	testT = t
}

// NoErr asserts err is nil and returns v.
func NoErr[T any](v T, err error) T {
	require.NoError(testT, err)
	return v
}

// Err asserts err is non-nil and returns it.
func Err[T any](_ T, err error) error {
	require.Error(testT, err)
	return err
}
