package testutils

import (
	"sync"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/ndn"
	"github.com/ndnxgo/ndnx/pkg/security/signer"
)

// DummyKeyStore is a PrivateKeyStore holding in-memory signer.Signer
// values, used in tests in place of an on-disk key store (which spec.md
// §1 excludes from the core).
type DummyKeyStore struct {
	mu      sync.RWMutex
	signers map[string]signer.Signer
}

// NewDummyKeyStore returns an empty DummyKeyStore.
func NewDummyKeyStore() *DummyKeyStore {
	return &DummyKeyStore{signers: make(map[string]signer.Signer)}
}

// AddSigner registers s under keyName.
func (k *DummyKeyStore) AddSigner(keyName name.Name, s signer.Signer) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.signers[keyName.String()] = s
}

func (k *DummyKeyStore) Sign(keyName name.Name, data []byte) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	s, ok := k.signers[keyName.String()]
	if !ok {
		return nil, ndn.ErrNotFound
	}
	return s.Sign(data)
}

func (k *DummyKeyStore) Public(keyName name.Name) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	s, ok := k.signers[keyName.String()]
	if !ok {
		return nil, ndn.ErrNotFound
	}
	return s.Public()
}
