package policy

import (
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/gorilla/schema"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/security"
	"github.com/ndnxgo/ndnx/pkg/wire/der"
)

// rawDocument is the policy file's outer section → rule-list shape.
// Each rule is a flat string-keyed map so it can be handed to
// gorilla/schema the same way a decoded HTML form would be.
type rawDocument struct {
	DefaultIdentity   string              `yaml:"default_identity"`
	SigningRules      []map[string]string `yaml:"signing_rules"`
	VerificationRules []map[string]string `yaml:"verification_rules"`
	Exemptions        []string            `yaml:"exemptions"`
	InferenceRules    []map[string]string `yaml:"inference_rules"`
	TrustAnchors      []map[string]string `yaml:"trust_anchors"`
}

type ruleSpec struct {
	DataNameRegex   string `schema:"data_name_regex"`
	SignerNameRegex string `schema:"signer_name_regex"`
	Relation        string `schema:"relation"`
}

type inferenceSpec struct {
	DataNameRegex string `schema:"data_name_regex"`
	Template      string `schema:"template"`
}

type anchorSpec struct {
	KeyName       string `schema:"key_name"`
	CertDERBase64 string `schema:"cert_der_base64"`
}

var schemaDecoder = schema.NewDecoder()

// decodeRuleFields hands field (a flat string-keyed rule entry from YAML)
// to gorilla/schema by wrapping each value as the single-element slice
// schema.Decoder expects (mirroring url.Values' shape).
func decodeRuleFields(field map[string]string, dst any) error {
	values := make(map[string][]string, len(field))
	for k, v := range field {
		values[k] = []string{v}
	}
	return schemaDecoder.Decode(dst, values)
}

func parseRelation(s string) (Relation, error) {
	switch s {
	case "equal":
		return RelationEqual, nil
	case "prefixOf":
		return RelationPrefixOf, nil
	case "strictPrefixOf":
		return RelationStrictPrefixOf, nil
	case "regexMatch":
		return RelationRegexMatch, nil
	default:
		return 0, fmt.Errorf("unknown policy relation %q", s)
	}
}

func compileOptional(pattern string) (*name.Regex, error) {
	if pattern == "" {
		return nil, nil
	}
	return name.Compile(pattern)
}

func buildRule(field map[string]string) (PolicyRule, error) {
	var spec ruleSpec
	if err := decodeRuleFields(field, &spec); err != nil {
		return PolicyRule{}, err
	}
	dataRe, err := compileOptional(spec.DataNameRegex)
	if err != nil {
		return PolicyRule{}, err
	}
	signerRe, err := compileOptional(spec.SignerNameRegex)
	if err != nil {
		return PolicyRule{}, err
	}
	relation, err := parseRelation(spec.Relation)
	if err != nil {
		return PolicyRule{}, err
	}
	return PolicyRule{DataNameRegex: dataRe, SignerNameRegex: signerRe, Relation: relation}, nil
}

// LoadConfig parses a YAML policy document (spec.md §4.5, §6's "policy
// definition file" is not specified in byte detail, so this
// implementation's own format) into a ready-to-use Manager.
func LoadConfig(doc []byte) (*Manager, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}

	var defaultIdentity name.Name
	if raw.DefaultIdentity != "" {
		parsed, err := name.FromURI(raw.DefaultIdentity)
		if err != nil {
			return nil, fmt.Errorf("default_identity %q: %w", raw.DefaultIdentity, err)
		}
		defaultIdentity = parsed
	}
	m := NewManager(defaultIdentity)

	for _, field := range raw.SigningRules {
		rule, err := buildRule(field)
		if err != nil {
			return nil, fmt.Errorf("signing rule: %w", err)
		}
		m.AddSigningRule(rule)
	}

	for _, field := range raw.VerificationRules {
		rule, err := buildRule(field)
		if err != nil {
			return nil, fmt.Errorf("verification rule: %w", err)
		}
		m.AddVerificationRule(rule)
	}

	for _, pattern := range raw.Exemptions {
		re, err := name.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exemption pattern %q: %w", pattern, err)
		}
		m.AddExemption(re)
	}

	for _, field := range raw.InferenceRules {
		var spec inferenceSpec
		if err := decodeRuleFields(field, &spec); err != nil {
			return nil, fmt.Errorf("inference rule: %w", err)
		}
		re, err := name.Compile(spec.DataNameRegex)
		if err != nil {
			return nil, fmt.Errorf("inference rule regex %q: %w", spec.DataNameRegex, err)
		}
		m.AddInferenceRule(SigningInferenceRule{DataNameRegex: re, Template: spec.Template})
	}

	for _, field := range raw.TrustAnchors {
		var spec anchorSpec
		if err := decodeRuleFields(field, &spec); err != nil {
			return nil, fmt.Errorf("trust anchor: %w", err)
		}
		keyName, err := name.FromURI(spec.KeyName)
		if err != nil {
			return nil, fmt.Errorf("trust anchor key_name %q: %w", spec.KeyName, err)
		}
		anchor := TrustAnchor{KeyName: keyName}
		if spec.CertDERBase64 != "" {
			certDER, err := base64.StdEncoding.DecodeString(spec.CertDERBase64)
			if err != nil {
				return nil, fmt.Errorf("trust anchor %q: decoding cert_der_base64: %w", spec.KeyName, err)
			}
			node, _, err := der.ParseNode(certDER, 0)
			if err != nil {
				return nil, fmt.Errorf("trust anchor %q: parsing DER: %w", spec.KeyName, err)
			}
			cert, err := security.CertificateFromDER(node)
			if err != nil {
				return nil, fmt.Errorf("trust anchor %q: building certificate: %w", spec.KeyName, err)
			}
			anchor.Cert = cert
		}
		m.AddTrustAnchor(anchor)
	}

	return m, nil
}
