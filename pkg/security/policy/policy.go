// Package policy implements the PolicyManager (spec.md §4.5): ordered
// signing/verification rule lists, verification exemptions, trust
// anchors, and signing-identity inference.
package policy

import (
	"sync"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/security"
)

// Relation is the relationship a PolicyRule requires between a data name
// and a candidate signer name.
type Relation int

const (
	RelationEqual Relation = iota
	RelationPrefixOf
	RelationStrictPrefixOf
	RelationRegexMatch
)

// PolicyRule is `(dataNameRegex, signerNameRegex, relationKind)`
// (spec.md §3); once installed it never changes.
type PolicyRule struct {
	DataNameRegex   *name.Regex
	SignerNameRegex *name.Regex
	Relation        Relation
}

// satisfiedBy reports whether signerName satisfies r's relation to
// dataName, using r.SignerNameRegex only for RelationRegexMatch.
func (r PolicyRule) satisfiedBy(dataName, signerName name.Name) bool {
	switch r.Relation {
	case RelationEqual:
		return dataName.Equal(signerName)
	case RelationPrefixOf:
		return signerName.IsPrefix(dataName)
	case RelationStrictPrefixOf:
		return signerName.IsPrefix(dataName) && !dataName.Equal(signerName)
	case RelationRegexMatch:
		if r.SignerNameRegex == nil {
			return false
		}
		return r.SignerNameRegex.Match(signerName)
	default:
		return false
	}
}

// TrustAnchor is a pre-installed Certificate whose public key is
// axiomatically trusted (spec.md §3); unique by KeyName.
type TrustAnchor struct {
	KeyName name.Name
	Cert    *security.Certificate
}

// SigningInferenceRule maps a dataNameRegex to an expand() template that
// yields the identity name that should sign matching data, per
// inferSigningIdentity (spec.md §4.5).
type SigningInferenceRule struct {
	DataNameRegex *name.Regex
	Template      string
}

// Manager holds the ordered signing and verification rule lists, the
// exemption list, the signing-inference list, and the trust anchor set spec.md §4.5
// describes. All installation methods are append-only: rules are
// immutable once installed (spec.md §3).
type Manager struct {
	mu sync.RWMutex

	signingRules      []PolicyRule
	verificationRules []PolicyRule
	exemptions        []*name.Regex
	inferenceRules    []SigningInferenceRule
	defaultIdentity   name.Name
	trustAnchors      map[string]*TrustAnchor
}

// NewManager returns an empty Manager; defaultIdentity is returned by
// InferSigningIdentity when no inference rule matches.
func NewManager(defaultIdentity name.Name) *Manager {
	return &Manager{
		defaultIdentity: defaultIdentity,
		trustAnchors:    make(map[string]*TrustAnchor),
	}
}

func (m *Manager) AddSigningRule(r PolicyRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signingRules = append(m.signingRules, r)
}

func (m *Manager) AddVerificationRule(r PolicyRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verificationRules = append(m.verificationRules, r)
}

func (m *Manager) AddExemption(pattern *name.Regex) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exemptions = append(m.exemptions, pattern)
}

func (m *Manager) AddInferenceRule(r SigningInferenceRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inferenceRules = append(m.inferenceRules, r)
}

// AddTrustAnchor installs anchor, keyed by its KeyName.
func (m *Manager) AddTrustAnchor(anchor TrustAnchor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trustAnchors[anchor.KeyName.String()] = &anchor
}

// GetTrustAnchor returns the installed anchor whose key name equals
// keyName, or nil if there is none.
func (m *Manager) GetTrustAnchor(keyName name.Name) *TrustAnchor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trustAnchors[keyName.String()]
}

// CheckSigningPolicy reports whether any signing rule allows cert (whose
// locator is signerName) to sign dataName.
func (m *Manager) CheckSigningPolicy(dataName, signerName name.Name) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.signingRules {
		if r.DataNameRegex != nil && !r.DataNameRegex.Match(dataName) {
			continue
		}
		if r.satisfiedBy(dataName, signerName) {
			return true
		}
	}
	return false
}

// SkipVerify reports whether dataName matches a verification exemption
// (spec.md §4.5 step 1).
func (m *Manager) SkipVerify(dataName name.Name) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ex := range m.exemptions {
		if ex.Match(dataName) {
			return true
		}
	}
	return false
}

// CheckVerificationPolicy scans verification rules in order (spec.md
// §4.5 step 2); the first whose DataNameRegex matches dataName decides
// whether verification is required (required=true) and whether
// signerName satisfies it (satisfied). If no rule matches, required is
// false, which KeyChain.VerifyData treats as a verification failure.
func (m *Manager) CheckVerificationPolicy(dataName, signerName name.Name) (required bool, satisfied bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.verificationRules {
		if r.DataNameRegex != nil && !r.DataNameRegex.Match(dataName) {
			continue
		}
		return true, r.satisfiedBy(dataName, signerName)
	}
	return false, false
}

// InferSigningIdentity runs the signing-inference regexes in order and
// returns the first match's expansion (spec.md §4.5 step 3), or the
// configured default identity.
func (m *Manager) InferSigningIdentity(dataName name.Name) name.Name {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.inferenceRules {
		if !r.DataNameRegex.Match(dataName) {
			continue
		}
		expanded, err := r.DataNameRegex.Expand(r.Template)
		if err != nil {
			continue
		}
		return expanded
	}
	return m.defaultIdentity
}
