package signer

import (
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/ndnxgo/ndnx/pkg/ndn"
)

// VerifyWithPublicKey verifies sig over covered against pubKeyDER (an
// x509.MarshalPKIXPublicKey encoding, as Certificate.PublicKey stores
// it), dispatching on algorithm the way Keychain.stepVerify's
// verifySignature does once the algorithm "shape" is known (spec.md
// §4.7): initially only SHA256-with-RSA is exercised end to end by a
// Certificate, but the dispatch itself is extensible to Ed25519.
func VerifyWithPublicKey(algorithm string, covered, sig, pubKeyDER []byte) error {
	pub, err := x509.ParsePKIXPublicKey(pubKeyDER)
	if err != nil {
		return ndn.SecError{Msg: "malformed public key: " + err.Error()}
	}

	switch algorithm {
	case "SHA256-with-RSA":
		rsaKey, ok := pub.(*rsa.PublicKey)
		if !ok {
			return ndn.SecError{Msg: "SHA256-with-RSA signature but public key is not RSA"}
		}
		return ValidateSha256WithRsa(covered, sig, rsaKey)
	case "Ed25519":
		edKey, ok := pub.(ed25519.PublicKey)
		if !ok {
			return ndn.SecError{Msg: "Ed25519 signature but public key is not Ed25519"}
		}
		if err := ValidateEd25519(covered, sig, edKey); err != nil {
			return ndn.SecError{Msg: err.Error()}
		}
		return nil
	default:
		return ndn.SecError{Msg: fmt.Sprintf("unsupported signature algorithm %q", algorithm)}
	}
}
