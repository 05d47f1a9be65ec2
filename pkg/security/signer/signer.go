// Package signer implements the signing algorithms a KeyChain can bind to
// an identity key (spec.md §4.7): SHA256-with-RSA is the one the
// certificate codec and trust loop assume end to end; Ed25519 and HMAC
// are carried alongside it to exercise "signature shape is extensible."
package signer

import (
	"github.com/ndnxgo/ndnx/pkg/name"
)

// Signer signs a byte range and reports the key locator name it signs
// under, mirroring ndn.cxx's PrivateKeyStore split between "sign" and
// "which key did this."
type Signer interface {
	// Algorithm names the signature scheme, e.g. "SHA256-with-RSA".
	Algorithm() string
	// KeyLocator is the Name placed in a Data's Signature.keyLocator.
	KeyLocator() name.Name
	// Sign returns the signature bytes over covered.
	Sign(covered []byte) ([]byte, error)
	// Public returns the signer's public key, or ndn.ErrNoPubKey if the
	// scheme has none (HMAC).
	Public() ([]byte, error)
}
