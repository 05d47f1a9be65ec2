package identitystore

import (
	"sync"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/ndn"
)

// MemoryStore is a Store held entirely in process memory, keyed by each
// Name's URI form.
type MemoryStore struct {
	mu sync.RWMutex

	identities       map[string]name.Name
	keysByIdentity   map[string][]name.Name
	certsByKey       map[string][]name.Name
	defaultIdentity  string
	defaultKey       map[string]string // identity URI -> key URI
	defaultCert      map[string]string // key URI -> cert URI
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		identities:     make(map[string]name.Name),
		keysByIdentity: make(map[string][]name.Name),
		certsByKey:     make(map[string][]name.Name),
		defaultKey:     make(map[string]string),
		defaultCert:    make(map[string]string),
	}
}

func (s *MemoryStore) AddIdentity(identityName name.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := identityName.String()
	s.identities[key] = identityName
	if s.defaultIdentity == "" {
		s.defaultIdentity = key
	}
	return nil
}

func (s *MemoryStore) AddKey(identityName, keyName name.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idKey := identityName.String()
	if _, ok := s.identities[idKey]; !ok {
		return ndn.ErrNotFound
	}
	for _, k := range s.keysByIdentity[idKey] {
		if k.Equal(keyName) {
			return nil
		}
	}
	s.keysByIdentity[idKey] = append(s.keysByIdentity[idKey], keyName)
	if _, ok := s.defaultKey[idKey]; !ok {
		s.defaultKey[idKey] = keyName.String()
	}
	return nil
}

func (s *MemoryStore) AddCertificate(keyName, certName name.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	keyKey := keyName.String()
	for _, c := range s.certsByKey[keyKey] {
		if c.Equal(certName) {
			return nil
		}
	}
	s.certsByKey[keyKey] = append(s.certsByKey[keyKey], certName)
	if _, ok := s.defaultCert[keyKey]; !ok {
		s.defaultCert[keyKey] = certName.String()
	}
	return nil
}

func (s *MemoryStore) SetDefaultIdentity(identityName name.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := identityName.String()
	if _, ok := s.identities[key]; !ok {
		return ndn.ErrNotFound
	}
	s.defaultIdentity = key
	return nil
}

func (s *MemoryStore) SetDefaultKey(identityName, keyName name.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idKey := identityName.String()
	for _, k := range s.keysByIdentity[idKey] {
		if k.Equal(keyName) {
			s.defaultKey[idKey] = keyName.String()
			return nil
		}
	}
	return ndn.ErrNotFound
}

func (s *MemoryStore) SetDefaultCertificate(keyName, certName name.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	keyKey := keyName.String()
	for _, c := range s.certsByKey[keyKey] {
		if c.Equal(certName) {
			s.defaultCert[keyKey] = certName.String()
			return nil
		}
	}
	return ndn.ErrNotFound
}

func (s *MemoryStore) DefaultIdentity() (name.Name, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.defaultIdentity == "" {
		return nil, false
	}
	n, ok := s.identities[s.defaultIdentity]
	return n, ok
}

func (s *MemoryStore) DefaultKeyForIdentity(identityName name.Name) (name.Name, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idKey := identityName.String()
	keyKey, ok := s.defaultKey[idKey]
	if !ok {
		return nil, false
	}
	for _, k := range s.keysByIdentity[idKey] {
		if k.String() == keyKey {
			return k, true
		}
	}
	return nil, false
}

func (s *MemoryStore) DefaultCertificateForKey(keyName name.Name) (name.Name, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keyKey := keyName.String()
	certKey, ok := s.defaultCert[keyKey]
	if !ok {
		return nil, false
	}
	for _, c := range s.certsByKey[keyKey] {
		if c.String() == certKey {
			return c, true
		}
	}
	return nil, false
}

func (s *MemoryStore) KeysForIdentity(identityName name.Name) []name.Name {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]name.Name(nil), s.keysByIdentity[identityName.String()]...)
}

func (s *MemoryStore) CertificatesForKey(keyName name.Name) []name.Name {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]name.Name(nil), s.certsByKey[keyName.String()]...)
}
