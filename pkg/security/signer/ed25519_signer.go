package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"fmt"

	"github.com/ndnxgo/ndnx/pkg/name"
)

// ed25519Signer is a signer that uses an Ed25519 key to sign packets.
type ed25519Signer struct {
	keyName name.Name
	key     ed25519.PrivateKey
}

func (s *ed25519Signer) Algorithm() string     { return "Ed25519" }
func (s *ed25519Signer) KeyLocator() name.Name { return s.keyName }

func (s *ed25519Signer) Sign(covered []byte) ([]byte, error) {
	return ed25519.Sign(s.key, covered), nil
}

func (s *ed25519Signer) Public() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(s.key.Public())
}

// NewEd25519Signer wraps an existing Ed25519 private key.
func NewEd25519Signer(keyName name.Name, key ed25519.PrivateKey) Signer {
	return &ed25519Signer{keyName: keyName, key: key}
}

// KeygenEd25519 generates a fresh Ed25519 key under keyName.
func KeygenEd25519(keyName name.Name) (Signer, error) {
	_, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return NewEd25519Signer(keyName, sk), nil
}

// ValidateEd25519 verifies the signature with a known Ed25519 public key.
func ValidateEd25519(covered []byte, sig []byte, pub ed25519.PublicKey) error {
	if !ed25519.Verify(pub, covered, sig) {
		return fmt.Errorf("Ed25519 signature verification failed")
	}
	return nil
}
