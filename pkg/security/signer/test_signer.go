package signer

import (
	"crypto/rand"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/ndn"
)

// testSigner produces a signature of fixed size filled with random bytes;
// it never verifies, it exists only so trust-loop tests can exercise
// Sign/KeyLocator without a real key.
type testSigner struct {
	keyName name.Name
	sigSize int
}

func (s testSigner) Algorithm() string     { return "Test" }
func (s testSigner) KeyLocator() name.Name { return s.keyName }

func (s testSigner) Sign(covered []byte) ([]byte, error) {
	buf := make([]byte, s.sigSize)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (testSigner) Public() ([]byte, error) {
	return nil, ndn.ErrNoPubKey
}

// NewTestSigner creates a signer for tests that never verifies.
func NewTestSigner(keyName name.Name, sigSize int) Signer {
	return testSigner{keyName: keyName, sigSize: sigSize}
}
