package signer

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/ndn"
)

// hmacSigner is a Data signer that uses a provided symmetric key; it has
// no KeyLocator and no public key.
type hmacSigner struct {
	key []byte
}

func (*hmacSigner) Algorithm() string     { return "HMAC-with-SHA256" }
func (*hmacSigner) KeyLocator() name.Name { return name.New() }

func (s *hmacSigner) Sign(covered []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(covered)
	return mac.Sum(nil), nil
}

func (*hmacSigner) Public() ([]byte, error) {
	return nil, ndn.ErrNoPubKey
}

// NewHmacSigner creates a signer over a shared symmetric key.
func NewHmacSigner(key []byte) Signer {
	return &hmacSigner{key: key}
}

// ValidateHmac verifies sig over covered with a known shared key.
func ValidateHmac(covered []byte, sig []byte, key []byte) bool {
	mac := hmac.New(sha256.New, key)
	mac.Write(covered)
	return hmac.Equal(mac.Sum(nil), sig)
}
