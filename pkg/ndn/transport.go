package ndn

import (
	"context"

	"github.com/ndnxgo/ndnx/pkg/name"
)

// Transport is the external Interest/Data collaborator spec.md §1
// excludes from the core: send an Interest for a name, receive matching
// Data or a timeout. It operates on raw wire bytes so this package (the
// dependency floor everything else builds on) never needs to import the
// NDNB codec.
type Transport interface {
	// SendInterest issues an Interest for interestName and blocks until
	// matching Data arrives, ctx is cancelled, or the Transport's own
	// deadline elapses (in which case it returns ErrTimeout).
	SendInterest(ctx context.Context, interestName name.Name, nonce []byte) ([]byte, error)
}

// PrivateKeyStore is the external on-disk key back-end spec.md §1
// excludes from the core: load a key by name and sign bytes with it.
type PrivateKeyStore interface {
	// Sign returns the signature of data under keyName, or ErrNotFound if
	// no such key is held.
	Sign(keyName name.Name, data []byte) ([]byte, error)
	// Public returns the public key material for keyName, or ErrNoPubKey
	// if the key has none (e.g. an HMAC key).
	Public(keyName name.Name) ([]byte, error)
}
