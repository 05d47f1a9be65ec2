package signer

import "github.com/ndnxgo/ndnx/pkg/name"

// ContextSigner wraps a Signer to override the KeyLocator it publishes,
// used when a signing key's locator name differs from its own identity
// (e.g. during re-keying, or when a signer is bound to a different
// certificate than the one it was minted under).
type ContextSigner struct {
	Signer
	KeyLocatorName name.Name
}

func (s *ContextSigner) KeyLocator() name.Name { return s.KeyLocatorName }
