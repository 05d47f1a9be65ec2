package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/security"
)

// LRUCache is the default in-memory Cache, keyed by the teacher's own
// xxhash-based Name.Hash() (std/encoding/name_pattern.go). No eviction
// policy is mandated beyond "configurable capacity" (spec.md §4.6).
type LRUCache struct {
	inner *lru.Cache[uint64, entry]
}

// NewLRUCache returns an LRUCache holding at most capacity entries.
func NewLRUCache(capacity int) (*LRUCache, error) {
	inner, err := lru.New[uint64, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &LRUCache{inner: inner}, nil
}

func (c *LRUCache) InsertCertificate(certName name.Name, cert *security.Certificate) {
	if !isCurrentlyValid(cert) {
		return
	}
	c.inner.Add(certName.Hash(), entry{name: certName.Clone(), cert: cert})
}

func (c *LRUCache) GetCertificate(certName name.Name, hasVersion bool) (*security.Certificate, bool) {
	if hasVersion {
		e, ok := c.inner.Get(certName.Hash())
		if !ok || !e.name.Equal(certName) {
			return nil, false
		}
		return e.cert, true
	}

	var entries []entry
	for _, k := range c.inner.Keys() {
		if e, ok := c.inner.Peek(k); ok {
			entries = append(entries, e)
		}
	}
	return latestVersioned(entries, certName)
}
