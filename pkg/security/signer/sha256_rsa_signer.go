package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/ndn"
)

// sha256RsaSigner is a Data signer that uses SHA256-with-RSA, the only
// algorithm spec.md §4.7 requires end to end.
type sha256RsaSigner struct {
	keyName name.Name
	key     *rsa.PrivateKey
}

func (s *sha256RsaSigner) Algorithm() string      { return "SHA256-with-RSA" }
func (s *sha256RsaSigner) KeyLocator() name.Name  { return s.keyName }

// Sign hashes covered with SHA-256 and signs the digest with PKCS#1 v1.5,
// the padding scheme ndn.cxx's RSA signer assumes.
func (s *sha256RsaSigner) Sign(covered []byte) ([]byte, error) {
	h := sha256.Sum256(covered)
	return rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, h[:])
}

func (s *sha256RsaSigner) Public() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(&s.key.PublicKey)
}

// NewSha256WithRsaSigner wraps an existing RSA private key.
func NewSha256WithRsaSigner(keyName name.Name, key *rsa.PrivateKey) Signer {
	return &sha256RsaSigner{keyName: keyName, key: key}
}

// KeygenSha256WithRsa generates a fresh bitSize-bit RSA key under keyName.
func KeygenSha256WithRsa(keyName name.Name, bitSize int) (Signer, error) {
	key, err := rsa.GenerateKey(rand.Reader, bitSize)
	if err != nil {
		return nil, err
	}
	return NewSha256WithRsaSigner(keyName, key), nil
}

// ValidateSha256WithRsa verifies sig over covered against pub.
func ValidateSha256WithRsa(covered []byte, sig []byte, pub *rsa.PublicKey) error {
	h := sha256.Sum256(covered)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, h[:], sig); err != nil {
		return ndn.SecError{Msg: "SHA256-with-RSA signature verification failed: " + err.Error()}
	}
	return nil
}
