// Package identitystore implements the identity → key → default-cert
// mapping an IdentityManager consults (spec.md §4.7's KeyChain
// composition). Raw key material itself stays behind the
// ndn.PrivateKeyStore interface, which spec.md scopes out of the core;
// this package only tracks names and default selections.
package identitystore

import "github.com/ndnxgo/ndnx/pkg/name"

// Store is the identity/key/certificate name bookkeeping an
// IdentityManager needs: which keys belong to which identity, which
// certificates belong to which key, and which of each is the default.
type Store interface {
	AddIdentity(identityName name.Name) error
	AddKey(identityName, keyName name.Name) error
	AddCertificate(keyName, certName name.Name) error

	SetDefaultIdentity(identityName name.Name) error
	SetDefaultKey(identityName, keyName name.Name) error
	SetDefaultCertificate(keyName, certName name.Name) error

	DefaultIdentity() (name.Name, bool)
	DefaultKeyForIdentity(identityName name.Name) (name.Name, bool)
	DefaultCertificateForKey(keyName name.Name) (name.Name, bool)

	KeysForIdentity(identityName name.Name) []name.Name
	CertificatesForKey(keyName name.Name) []name.Name
}
