package ndnb_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/wire/ndnb"
)

func TestBlockHeaderEstimateMatches(t *testing.T) {
	cases := []uint64{0, 1, 15, 16, 300, 1 << 20, 1 << 40}
	for _, v := range cases {
		buf := &bytes.Buffer{}
		written := ndnb.AppendBlockHeader(buf, v, 5)
		require.Equal(t, ndnb.EstimateBlockHeader(v), written)
		require.Equal(t, written, buf.Len())
	}
}

func TestAppendNumberEstimateMatches(t *testing.T) {
	cases := []uint64{0, 7, 65535, 1 << 33}
	for _, n := range cases {
		buf := &bytes.Buffer{}
		written := ndnb.AppendNumber(buf, n)
		require.Equal(t, ndnb.EstimateNumber(n), written)
		require.Equal(t, written, buf.Len())
	}
}

func TestAppendTaggedBlobEstimateMatches(t *testing.T) {
	data := []byte("hello")
	buf := &bytes.Buffer{}
	written := ndnb.AppendTaggedBlob(buf, 4, data)
	require.Equal(t, ndnb.EstimateTaggedBlob(4, len(data)), written)
	require.Equal(t, written, buf.Len())
}

func TestAppendTaggedBlobEmptyOmitsBlob(t *testing.T) {
	buf := &bytes.Buffer{}
	written := ndnb.AppendTaggedBlob(buf, 4, nil)
	require.Equal(t, ndnb.EstimateBlockHeader(4)+1, written)
}

func TestNameRoundTrip(t *testing.T) {
	n := name.New().AppendStr("ndn").AppendStr("edu").AppendNumber(42)
	wire := ndnb.EncodeName(n)
	require.Equal(t, ndnb.EstimateName(n), len(wire))

	back, err := ndnb.DecodeName(wire)
	require.NoError(t, err)
	require.True(t, n.Equal(back))
}

// Concrete scenario 3 (spec.md §8): NDNB encode of /hello has exactly one
// NDN_DTAG_Component DTAG followed by a BLOB of "hello" and a closer.
func TestHelloNameWireShape(t *testing.T) {
	n := name.New().AppendStr("hello")
	wire := ndnb.EncodeName(n)

	back, err := ndnb.DecodeName(wire)
	require.NoError(t, err)
	require.Len(t, back, 1)
	require.Equal(t, "hello", back[0].String())

	expected := ndnb.EstimateBlockHeader(ndnb.DTagName) +
		ndnb.EstimateTaggedBlob(ndnb.DTagComponent, len("hello")) + 1
	require.Equal(t, expected, len(wire))
}

func TestDataRoundTripAndSignedPortion(t *testing.T) {
	d := &ndnb.Data{
		Name:    name.New().AppendStr("ndn").AppendStr("edu").AppendStr("content"),
		Content: []byte("payload bytes"),
		MetaInfo: ndnb.MetaInfo{
			Timestamp: time.Unix(1_700_000_000, 0).UTC(),
			Type:      ndnb.ContentTypeData,
		},
		Signature: ndnb.Signature{
			KeyLocatorName: name.New().AppendStr("ndn").AppendStr("edu").AppendStr("KEY"),
			Bits:           []byte("fake-signature-bits"),
		},
	}

	wire, err := ndnb.Encode(d)
	require.NoError(t, err)

	got, err := ndnb.Decode(wire)
	require.NoError(t, err)

	require.True(t, d.Name.Equal(got.Name))
	require.Equal(t, d.Content, got.Content)
	require.Equal(t, d.Signature.Bits, got.Signature.Bits)
	require.True(t, d.Signature.KeyLocatorName.Equal(got.Signature.KeyLocatorName))
	require.Equal(t, d.MetaInfo.Type, got.MetaInfo.Type)

	// Signed portion begins at the first byte of Name and ends at the last
	// byte of Content (spec.md §6).
	nameWire := ndnb.EncodeName(d.Name)
	require.True(t, bytes.HasPrefix(got.SignedPortion, nameWire))
}

func TestDataRejectsNonContentObjectRoot(t *testing.T) {
	_, err := ndnb.Decode(ndnb.EncodeName(name.New().AppendStr("a")))
	require.Error(t, err)
	require.IsType(t, ndnb.WireFormatError{}, err)
}

func TestInterestRoundTrip(t *testing.T) {
	it := &ndnb.Interest{
		Name:  name.New().AppendStr("ndn").AppendStr("edu"),
		Nonce: []byte{1, 2, 3, 4},
	}
	wire := ndnb.EncodeInterest(it)
	back, err := ndnb.DecodeInterest(wire)
	require.NoError(t, err)
	require.True(t, it.Name.Equal(back.Name))
	require.Equal(t, it.Nonce, back.Nonce)
}

func TestTimestampBlobApproxRoundTrip(t *testing.T) {
	orig := time.Unix(1_700_000_000, 500_000_000).UTC()
	buf := &bytes.Buffer{}
	written := ndnb.AppendTimestampBlob(buf, orig)
	require.Equal(t, ndnb.EstimateTimestampBlob(orig), written)

	block, consumed, err := ndnb.ParseBlock(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, written, consumed)

	decoded, err := ndnb.DecodeTimestampBlob(block.Value)
	require.NoError(t, err)
	require.Equal(t, orig.Unix(), decoded.Unix())
	require.InDelta(t, orig.Nanosecond(), decoded.Nanosecond(), 1_000_000)
}

func TestParseBlockRejectsTruncatedScope(t *testing.T) {
	wire := ndnb.EncodeName(name.New().AppendStr("a"))
	_, _, err := ndnb.ParseBlock(wire[:len(wire)-2])
	require.Error(t, err)
}
