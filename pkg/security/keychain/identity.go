// Package keychain implements the KeyChain trust engine (spec.md §4.7):
// signing bound to identity keys and the step-bounded recursive
// verification loop that resolves a Data's signer certificate through
// trust anchors, a certificate cache, and the network.
package keychain

import (
	"fmt"
	"sync"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/ndn"
	"github.com/ndnxgo/ndnx/pkg/security/identitystore"
)

// IdentityManager composes the identitystore.Store's name bookkeeping
// with an ndn.PrivateKeyStore, giving the KeyChain a single place to
// resolve "sign for this identity" down to raw signature bytes. Raw key
// material never lives here, only names and the algorithm tag each key
// signs with (spec.md §1 keeps key storage behind PrivateKeyStore).
type IdentityManager struct {
	mu sync.RWMutex

	store identitystore.Store
	keys  ndn.PrivateKeyStore

	// algorithms maps a key Name to the algorithm string that key signs
	// with, e.g. "SHA256-with-RSA". PrivateKeyStore itself is algorithm-
	// agnostic; this is the only extra bookkeeping signing needs.
	algorithms map[string]string
}

// NewIdentityManager composes store (name bookkeeping) with keys (raw
// signing operations).
func NewIdentityManager(store identitystore.Store, keys ndn.PrivateKeyStore) *IdentityManager {
	return &IdentityManager{
		store:      store,
		keys:       keys,
		algorithms: make(map[string]string),
	}
}

// CreateIdentity registers identityName with the underlying store.
func (m *IdentityManager) CreateIdentity(identityName name.Name) error {
	return m.store.AddIdentity(identityName)
}

// AddKey registers keyName under identityName, recording algorithm as
// the signature scheme that key signs with.
func (m *IdentityManager) AddKey(identityName, keyName name.Name, algorithm string) error {
	if err := m.store.AddKey(identityName, keyName); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.algorithms[keyName.String()] = algorithm
	return nil
}

// AddCertificate registers certName as naming a certificate for keyName.
func (m *IdentityManager) AddCertificate(keyName, certName name.Name) error {
	return m.store.AddCertificate(keyName, certName)
}

// SetDefaultIdentity is a passthrough to the underlying store.
func (m *IdentityManager) SetDefaultIdentity(identityName name.Name) error {
	return m.store.SetDefaultIdentity(identityName)
}

// SetDefaultKeyForIdentity is a passthrough to the underlying store.
func (m *IdentityManager) SetDefaultKeyForIdentity(identityName, keyName name.Name) error {
	return m.store.SetDefaultKey(identityName, keyName)
}

// SetDefaultCertificateForKey is a passthrough to the underlying store.
func (m *IdentityManager) SetDefaultCertificateForKey(keyName, certName name.Name) error {
	return m.store.SetDefaultCertificate(keyName, certName)
}

// DefaultIdentity returns the store's configured default identity.
func (m *IdentityManager) DefaultIdentity() (name.Name, bool) {
	return m.store.DefaultIdentity()
}

// DefaultCertificateNameForIdentity resolves identityName to the
// default certificate name of its default key, the name Keychain.sign
// needs to frame a Signature's key locator.
func (m *IdentityManager) DefaultCertificateNameForIdentity(identityName name.Name) (name.Name, bool) {
	keyName, ok := m.store.DefaultKeyForIdentity(identityName)
	if !ok {
		return name.Name{}, false
	}
	return m.store.DefaultCertificateForKey(keyName)
}

// signByCertificate signs covered with the key backing certName (one
// component shorter than certName itself), returning the raw signature
// bytes and the algorithm the key was registered with.
func (m *IdentityManager) signByCertificate(covered []byte, certName name.Name) ([]byte, string, error) {
	if certName.Len() == 0 {
		return nil, "", ndn.SecError{Msg: "certificate name must not be empty"}
	}
	keyName := certName.Prefix(certName.Len() - 1)

	m.mu.RLock()
	algorithm, ok := m.algorithms[keyName.String()]
	m.mu.RUnlock()
	if !ok {
		return nil, "", ndn.SecError{Msg: fmt.Sprintf("no key registered as %s", keyName.ToURI())}
	}

	sig, err := m.keys.Sign(keyName, covered)
	if err != nil {
		return nil, "", err
	}
	return sig, algorithm, nil
}
