package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndnxgo/ndnx/pkg/name"
	sec "github.com/ndnxgo/ndnx/pkg/security"
)

func sampleCert(notBefore, notAfter time.Time) *sec.Certificate {
	return &sec.Certificate{
		NotBefore: notBefore,
		NotAfter:  notAfter,
		Subject: []sec.SubjectEntry{
			{OID: []int{2, 5, 4, 3}, Value: "ndn testbed"},
			{OID: []int{2, 5, 4, 10}, Value: "UCLA"},
		},
		PublicKey: []byte("fake-rsa-public-key-bytes"),
		Algorithm: "SHA256-with-RSA",
		Extensions: []sec.Extension{
			{OID: []int{1, 2, 3}, Critical: true, Value: []byte("ext-value")},
		},
	}
}

// Builds a certificate, serializes it to DER, parses it back, and checks
// that the validity window, subject list, public key, and extensions all
// round-trip exactly.
func TestCertificateDERRoundTrip(t *testing.T) {
	notBefore := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	notAfter := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cert := sampleCert(notBefore, notAfter)

	node := cert.ToDER()
	got, err := sec.CertificateFromDER(node)
	require.NoError(t, err)

	require.True(t, notBefore.Equal(got.NotBefore))
	require.True(t, notAfter.Equal(got.NotAfter))
	require.Equal(t, cert.Subject, got.Subject)
	require.Equal(t, cert.PublicKey, got.PublicKey)
	require.Equal(t, cert.Extensions, got.Extensions)
}

// A certificate with no extensions still round-trips
// (the empty Extensions SEQUENCE OF isn't treated as malformed).
func TestCertificateDERRoundTripNoExtensions(t *testing.T) {
	notBefore := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	notAfter := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	cert := &sec.Certificate{
		NotBefore: notBefore,
		NotAfter:  notAfter,
		Subject:   []sec.SubjectEntry{{OID: []int{2, 5, 4, 3}, Value: "leaf"}},
		PublicKey: []byte("key-bytes"),
	}

	got, err := sec.CertificateFromDER(cert.ToDER())
	require.NoError(t, err)
	require.Empty(t, got.Extensions)
	require.Equal(t, cert.Subject, got.Subject)
}

// IsValidAt checks the inclusive [notBefore, notAfter] window spec.md §3
// requires.
func TestCertificateIsValidAt(t *testing.T) {
	notBefore := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	notAfter := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	cert := sampleCert(notBefore, notAfter)

	require.True(t, cert.IsValidAt(notBefore))
	require.True(t, cert.IsValidAt(notAfter))
	require.True(t, cert.IsValidAt(notBefore.Add(24*time.Hour)))
	require.False(t, cert.IsValidAt(notBefore.Add(-time.Second)))
	require.False(t, cert.IsValidAt(notAfter.Add(time.Second)))
}

// Rejects a malformed extension whose first SEQUENCE element isn't an
// OID.
func TestCertificateFromDERRejectsMalformedExtension(t *testing.T) {
	cert := sampleCert(time.Now(), time.Now().Add(time.Hour))
	node := cert.ToDER()
	// Corrupt the extensions SEQUENCE's lone entry's first element.
	node.Children[3].Children[0].Children[0].Kind = 99
	_, err := sec.CertificateFromDER(node)
	require.Error(t, err)
}

// Data.Encode records a signed portion that begins with the encoded Name,
// mirroring the NDNB-level guarantee this package wraps.
func TestDataEncodeRecordsSignedPortion(t *testing.T) {
	d := &sec.Data{
		Name:    name.New().AppendStr("ndn").AppendStr("edu").AppendStr("content"),
		Content: []byte("payload"),
		Signature: sec.Signature{
			Algorithm:      "SHA256-with-RSA",
			KeyLocatorName: name.New().AppendStr("ndn").AppendStr("edu").AppendStr("KEY"),
			Bits:           []byte("sig-bits"),
		},
	}
	wire, err := d.Encode()
	require.NoError(t, err)
	require.NotEmpty(t, d.SignedPortion)

	back, err := sec.DecodeData(wire)
	require.NoError(t, err)
	require.True(t, d.Name.Equal(back.Name))
	require.Equal(t, d.Content, back.Content)
	require.Equal(t, d.Signature.Bits, back.Signature.Bits)
	require.Equal(t, "SHA256-with-RSA", back.Signature.Algorithm)
}
