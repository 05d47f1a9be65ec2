package policy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/security/policy"
)

func mustRegex(t *testing.T, pattern string) *name.Regex {
	t.Helper()
	re, err := name.Compile(pattern)
	require.NoError(t, err)
	return re
}

func mustName(t *testing.T, uri string) name.Name {
	t.Helper()
	n, err := name.FromURI(uri)
	require.NoError(t, err)
	return n
}

func TestCheckSigningPolicyPrefixOf(t *testing.T) {
	m := policy.NewManager(name.New())
	m.AddSigningRule(policy.PolicyRule{
		DataNameRegex: mustRegex(t, "^<ndn><edu>"),
		Relation:      policy.RelationPrefixOf,
	})

	dataName := mustName(t, "/ndn/edu/alice/content")
	signerName := mustName(t, "/ndn/edu/alice")
	require.True(t, m.CheckSigningPolicy(dataName, signerName))

	wrongSigner := mustName(t, "/ndn/cs/bob")
	require.False(t, m.CheckSigningPolicy(dataName, wrongSigner))
}

func TestSkipVerifyExemption(t *testing.T) {
	m := policy.NewManager(name.New())
	m.AddExemption(mustRegex(t, "^<ndn><testbed><pubsub>"))

	require.True(t, m.SkipVerify(mustName(t, "/ndn/testbed/pubsub/topic1")))
	require.False(t, m.SkipVerify(mustName(t, "/ndn/edu/alice")))
}

func TestCheckVerificationPolicyFirstMatchWins(t *testing.T) {
	m := policy.NewManager(name.New())
	m.AddVerificationRule(policy.PolicyRule{
		DataNameRegex: mustRegex(t, "^<ndn><edu>"),
		Relation:      policy.RelationStrictPrefixOf,
	})
	m.AddVerificationRule(policy.PolicyRule{
		Relation: policy.RelationEqual, // catch-all, should never be reached
	})

	dataName := mustName(t, "/ndn/edu/alice/content")
	required, satisfied := m.CheckVerificationPolicy(dataName, mustName(t, "/ndn/edu/alice"))
	require.True(t, required)
	require.True(t, satisfied)

	required, satisfied = m.CheckVerificationPolicy(dataName, mustName(t, "/ndn/edu/alice/content"))
	require.True(t, required)
	require.False(t, satisfied) // not a *strict* prefix
}

func TestCheckVerificationPolicyNoRuleMatches(t *testing.T) {
	m := policy.NewManager(name.New())
	required, _ := m.CheckVerificationPolicy(mustName(t, "/ndn/edu/alice"), mustName(t, "/ndn/edu/alice/KEY"))
	require.False(t, required)
}

func TestInferSigningIdentityExpandsTemplate(t *testing.T) {
	m := policy.NewManager(mustName(t, "/default/identity"))
	re, err := name.Compile(`^(<ndn><edu>)<>*`)
	require.NoError(t, err)
	m.AddInferenceRule(policy.SigningInferenceRule{DataNameRegex: re, Template: `\1`})

	identity := m.InferSigningIdentity(mustName(t, "/ndn/edu/alice/content"))
	require.Equal(t, mustName(t, "/ndn/edu"), identity)
}

func TestInferSigningIdentityFallsBackToDefault(t *testing.T) {
	def := mustName(t, "/default/identity")
	m := policy.NewManager(def)
	require.True(t, def.Equal(m.InferSigningIdentity(mustName(t, "/anything"))))
}

func TestGetTrustAnchorByKeyName(t *testing.T) {
	m := policy.NewManager(name.New())
	anchorName := mustName(t, "/ndn/KEY/root")
	m.AddTrustAnchor(policy.TrustAnchor{KeyName: anchorName})

	got := m.GetTrustAnchor(anchorName)
	require.NotNil(t, got)
	require.True(t, anchorName.Equal(got.KeyName))

	require.Nil(t, m.GetTrustAnchor(mustName(t, "/ndn/KEY/other")))
}

func TestLoadConfigParsesRulesAndAnchors(t *testing.T) {
	doc := []byte(`
default_identity: /ndn/edu
signing_rules:
  - data_name_regex: "^<ndn><edu>"
    relation: prefixOf
verification_rules:
  - data_name_regex: "^<ndn><edu>"
    relation: strictPrefixOf
exemptions:
  - "^<ndn><testbed>"
inference_rules:
  - data_name_regex: "^(<ndn><edu>)<>*"
    template: "\\1"
trust_anchors:
  - key_name: "/ndn/KEY/root"
`)
	m, err := policy.LoadConfig(doc)
	require.NoError(t, err)

	dataName := mustName(t, "/ndn/edu/alice/content")
	require.True(t, m.CheckSigningPolicy(dataName, mustName(t, "/ndn/edu")))
	require.True(t, m.SkipVerify(mustName(t, "/ndn/testbed/x")))
	require.NotNil(t, m.GetTrustAnchor(mustName(t, "/ndn/KEY/root")))
	require.True(t, mustName(t, "/ndn/edu").Equal(m.InferSigningIdentity(dataName)))
}

func TestLoadConfigRejectsUnknownRelation(t *testing.T) {
	doc := []byte(`
signing_rules:
  - data_name_regex: "^<ndn>"
    relation: bogus
`)
	_, err := policy.LoadConfig(doc)
	require.Error(t, err)
}
