package keychain

import (
	"context"
	"crypto/rand"
	"errors"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/ndn"
	"github.com/ndnxgo/ndnx/pkg/security"
	"github.com/ndnxgo/ndnx/pkg/security/cache"
	"github.com/ndnxgo/ndnx/pkg/security/policy"
	"github.com/ndnxgo/ndnx/pkg/security/signer"
	"github.com/ndnxgo/ndnx/pkg/wire/der"
)

// defaultMaxStep bounds stepVerify's recursion depth (spec.md §4.7).
const defaultMaxStep = 100

// certificateFetchRetries is how many times a timed-out certificate
// Interest is reissued before the verification it's blocking fails
// (spec.md §4.7 step 6).
const certificateFetchRetries = 3

// VerifiedCallback is invoked, on the executor goroutine, once data's
// signature chain resolves to a trusted key.
type VerifiedCallback func(data *security.Data)

// FailCallback is invoked, on the executor goroutine, when verification
// cannot establish trust: a policy rejection, an out-of-window
// certificate, an exhausted step budget, or a certificate fetch that still
// times out after certificateFetchRetries retries, i.e. four timed-out
// Interests in all (spec.md §4.7's failure semantics).
type FailCallback func()

// KeyChain composes an IdentityManager, a PolicyManager, and a
// CertificateCache behind the recursive verification loop of spec.md
// §4.7. EncryptionManager is out of scope for this module (opaque to
// verification, per spec.md's own framing).
type KeyChain struct {
	identity  *IdentityManager
	policy    *policy.Manager
	cache     cache.Cache
	transport ndn.Transport

	maxStep  int
	executor *executor
}

// NewKeyChain composes the four collaborators into a KeyChain ready for
// Start.
func NewKeyChain(identity *IdentityManager, pm *policy.Manager, cc cache.Cache, transport ndn.Transport) *KeyChain {
	return &KeyChain{
		identity:  identity,
		policy:    pm,
		cache:     cc,
		transport: transport,
		maxStep:   defaultMaxStep,
		executor:  newExecutor(),
	}
}

// Start launches the verification executor. Idempotent with Shutdown.
func (k *KeyChain) Start() {
	k.executor.Start()
}

// Shutdown stops the verification executor. Idempotent (spec.md §5).
func (k *KeyChain) Shutdown() {
	k.executor.Shutdown()
}

// Identity exposes the underlying IdentityManager for identity/key
// provisioning callers need before they can sign anything.
func (k *KeyChain) Identity() *IdentityManager {
	return k.identity
}

// Policy exposes the underlying PolicyManager for rule installation.
func (k *KeyChain) Policy() *policy.Manager {
	return k.policy
}

// Sign sets data's key locator to certName, serializes its signed
// portion per NDNB rules, and asks the identity's registered key to
// sign those bytes (spec.md §4.7 "Signing").
func (k *KeyChain) Sign(data *security.Data, certName name.Name) error {
	data.Signature.KeyLocatorName = certName
	data.Signature.Bits = nil
	if _, err := data.Encode(); err != nil {
		return err
	}

	sigBits, algorithm, err := k.identity.signByCertificate(data.SignedPortion, certName)
	if err != nil {
		return err
	}

	data.Signature.Algorithm = algorithm
	data.Signature.Bits = sigBits
	_, err = data.Encode()
	return err
}

// SignByIdentity resolves identity (or, if empty, the policy manager's
// inferred signing identity for data.Name) to its default certificate,
// checks the signing policy, and signs (spec.md §4.7).
func (k *KeyChain) SignByIdentity(data *security.Data, identity name.Name) error {
	resolveIdentity := identity
	if resolveIdentity.Len() == 0 {
		resolveIdentity = k.policy.InferSigningIdentity(data.Name)
	}

	certName, ok := k.identity.DefaultCertificateNameForIdentity(resolveIdentity)
	if !ok {
		return ndn.SecError{Msg: "no qualified certificate name found for identity " + resolveIdentity.ToURI()}
	}

	if !k.policy.CheckSigningPolicy(data.Name, certName) {
		return ndn.SecError{Msg: "signing cert name does not comply with signing policy"}
	}

	return k.Sign(data, certName)
}

// VerifyData runs the top-level dispatch of spec.md §4.7's
// verifyData(data, onVerified, onFailed): skip, require, or reject. All
// callback invocations happen on the executor goroutine.
func (k *KeyChain) VerifyData(data *security.Data, onVerified VerifiedCallback, onFailed FailCallback) {
	k.executor.Post(func() {
		if k.policy.SkipVerify(data.Name) {
			onVerified(data)
			return
		}
		required, _ := k.policy.CheckVerificationPolicy(data.Name, data.Signature.KeyLocatorName)
		if !required {
			onFailed()
			return
		}
		k.stepVerify(data, true, k.maxStep, onVerified, onFailed)
	})
}

// stepVerify is spec.md §4.7's bounded-depth recursive verification
// procedure, ported from ndn.cxx's Keychain::stepVerify. Every
// invocation (the original call and every recursive one) runs on the
// executor goroutine; fetches are dispatched to their own goroutine and
// rejoin the executor through Post.
func (k *KeyChain) stepVerify(data *security.Data, isFirst bool, stepCount int, onVerified VerifiedCallback, onFailed FailCallback) {
	if stepCount == 0 {
		onFailed()
		return
	}

	signerName := data.Signature.KeyLocatorName
	if _, satisfied := k.policy.CheckVerificationPolicy(data.Name, signerName); !satisfied {
		onFailed()
		return
	}

	if !isFirst {
		cert, err := dataAsCertificate(data)
		if err != nil {
			onFailed()
			return
		}
		if !cert.IsValidAt(cache.Clock()) {
			onFailed()
			return
		}
	}

	if anchor := k.policy.GetTrustAnchor(signerName); anchor != nil {
		k.verifyAgainst(data, anchor.Cert, onVerified, onFailed)
		return
	}
	// signerName is always an exact certificate name: Sign sets a
	// Signature's key locator to the certName it was asked to sign
	// under, never a bare key-name prefix, so the cache lookup is an
	// exact match (hasVersion=true).
	if cached, ok := k.cache.GetCertificate(signerName, true); ok {
		k.verifyAgainst(data, cached, onVerified, onFailed)
		return
	}

	onCertificateVerified := func(certData *security.Data) {
		cert, err := dataAsCertificate(certData)
		if err != nil {
			onFailed()
			return
		}
		if cert.IsValidAt(cache.Clock()) {
			k.cache.InsertCertificate(certData.Name, cert)
		}
		k.verifyAgainst(data, cert, onVerified, onFailed)
	}

	k.fetchCertificate(context.Background(), signerName, certificateFetchRetries, func(certData *security.Data) {
		k.stepVerify(certData, false, stepCount-1, onCertificateVerified, onFailed)
	}, onFailed)
}

// verifyAgainst checks data's signature against signerCert's public key
// and dispatches onVerified/onFailed accordingly (spec.md §4.7 step 4).
func (k *KeyChain) verifyAgainst(data *security.Data, signerCert *security.Certificate, onVerified VerifiedCallback, onFailed FailCallback) {
	err := signer.VerifyWithPublicKey(data.Signature.Algorithm, data.SignedPortion, data.Signature.Bits, signerCert.PublicKey)
	if err != nil {
		onFailed()
		return
	}
	onVerified(data)
}

// dataAsCertificate parses data.Content as the DER certificate it holds
// when data itself is a certificate fetched in response to a key-locator
// Interest (spec.md §4.7 step 3).
func dataAsCertificate(data *security.Data) (*security.Certificate, error) {
	root, _, err := der.ParseNode(data.Content, 0)
	if err != nil {
		return nil, err
	}
	return security.CertificateFromDER(root)
}

// fetchCertificate issues an Interest for certName and, once it resolves
// or exhausts certificateFetchRetries timeouts, posts the continuation
// back onto the executor (spec.md §4.7 step 5/6; ndn.cxx's
// onCertificateInterestTimeout).
func (k *KeyChain) fetchCertificate(ctx context.Context, certName name.Name, retriesLeft int, onData func(*security.Data), onFailed FailCallback) {
	go func() {
		wire, err := k.transport.SendInterest(ctx, certName, randomNonce())
		k.executor.Post(func() {
			if err != nil {
				if errors.Is(err, ndn.ErrTimeout) && retriesLeft > 0 {
					k.fetchCertificate(ctx, certName, retriesLeft-1, onData, onFailed)
					return
				}
				onFailed()
				return
			}
			certData, decErr := security.DecodeData(wire)
			if decErr != nil {
				onFailed()
				return
			}
			onData(certData)
		})
	}()
}

func randomNonce() []byte {
	nonce := make([]byte, 8)
	_, _ = rand.Read(nonce)
	return nonce
}
