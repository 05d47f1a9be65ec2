package der_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndnxgo/ndnx/pkg/wire/der"
)

func roundTrip(t *testing.T, n *der.Node) *der.Node {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, n.Encode(buf))
	got, consumed, err := der.ParseNode(buf.Bytes(), 0)
	require.NoError(t, err)
	require.Equal(t, buf.Len(), consumed)
	return got
}

func TestBoolRoundTrip(t *testing.T) {
	got := roundTrip(t, der.NewBoolNode(true))
	require.Equal(t, der.KindBool, got.Kind)
	require.True(t, got.Bool)

	got = roundTrip(t, der.NewBoolNode(false))
	require.False(t, got.Bool)
}

func TestIntegerRoundTrip(t *testing.T) {
	got := roundTrip(t, der.NewIntegerNode([]byte{0x01, 0x00, 0x01}))
	require.Equal(t, []byte{0x01, 0x00, 0x01}, got.IntBytes)
}

func TestBitStringRoundTrip(t *testing.T) {
	got := roundTrip(t, der.NewBitStringNode(3, []byte{0xf0, 0xe0}))
	require.Equal(t, byte(3), got.BitStringUnused)
	require.Equal(t, []byte{0xf0, 0xe0}, got.BitStringBytes)
}

func TestOctetStringRoundTrip(t *testing.T) {
	got := roundTrip(t, der.NewOctetStringNode([]byte("public-key-bytes")))
	require.Equal(t, []byte("public-key-bytes"), got.OctetBytes)
}

func TestNullRoundTrip(t *testing.T) {
	got := roundTrip(t, der.NewNullNode())
	require.Equal(t, der.KindNull, got.Kind)
}

func TestPrintableStringRoundTrip(t *testing.T) {
	got := roundTrip(t, der.NewPrintableStringNode("NDN Testbed Root"))
	require.Equal(t, "NDN Testbed Root", got.PrintableStr)
}

func TestGeneralizedTimeRoundTrip(t *testing.T) {
	when := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	got := roundTrip(t, der.NewGeneralizedTimeNode(when))
	require.True(t, when.Equal(got.Time))
}

func TestSequenceOfGeneralizedTimeRoundTrip(t *testing.T) {
	when := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	seq := der.NewSequenceNode(der.NewGeneralizedTimeNode(when))

	buf := &bytes.Buffer{}
	require.NoError(t, seq.Encode(buf))

	got, consumed, err := der.ParseNode(buf.Bytes(), 0)
	require.NoError(t, err)
	require.Equal(t, buf.Len(), consumed)
	require.Equal(t, der.KindSequence, got.Kind)
	require.Len(t, got.Children, 1)
	require.Equal(t, der.KindGeneralizedTime, got.Children[0].Kind)
	require.True(t, when.Equal(got.Children[0].Time))
}

func TestOIDRoundTripRSAEncryption(t *testing.T) {
	// 1.2.840.113549.1.1.1 (rsaEncryption), the classic multi-byte-arc OID
	// fixture used to exercise base-128 continuation encoding.
	ids := []int{1, 2, 840, 113549, 1, 1, 1}
	got := roundTrip(t, der.NewOIDNode(ids))
	require.Equal(t, ids, got.OID)
}

func TestOIDRoundTripSmallArcs(t *testing.T) {
	ids := []int{2, 5, 4, 3} // 2.5.4.3 (commonName)
	got := roundTrip(t, der.NewOIDNode(ids))
	require.Equal(t, ids, got.OID)
}

func TestEncodeOIDFirstByteCombinesFirstTwoArcs(t *testing.T) {
	payload := der.EncodeOID([]int{1, 2, 840})
	require.Equal(t, byte(1*40+2), payload[0])
}

func TestDecodeOIDRejectsEmptyPayload(t *testing.T) {
	_, err := der.DecodeOID(nil)
	require.Error(t, err)
	require.IsType(t, der.DerDecodingError{}, err)
}

func TestAppendLengthShortForm(t *testing.T) {
	buf := &bytes.Buffer{}
	n := der.AppendLength(buf, 100)
	require.Equal(t, 1, n)
	require.Equal(t, []byte{100}, buf.Bytes())
}

func TestAppendLengthLongForm(t *testing.T) {
	buf := &bytes.Buffer{}
	n := der.AppendLength(buf, 300)
	require.Equal(t, 3, n)
	require.Equal(t, byte(0x82), buf.Bytes()[0])

	// Round trip through a full node so the length-form boundary (128) is
	// exercised end to end, not just the raw length bytes.
	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = byte(i)
	}
	got := roundTrip(t, der.NewOctetStringNode(payload))
	require.Equal(t, payload, got.OctetBytes)
}

func TestParseNodeRejectsTruncatedPayload(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, der.NewOctetStringNode([]byte("hello")).Encode(buf))
	_, _, err := der.ParseNode(buf.Bytes()[:buf.Len()-2], 0)
	require.Error(t, err)
}

func TestParseNodeRejectsUnknownTag(t *testing.T) {
	_, _, err := der.ParseNode([]byte{0x99, 0x00}, 0)
	require.Error(t, err)
	require.IsType(t, der.DerDecodingError{}, err)
}

func TestParseSequenceStopsAtAnnouncedLength(t *testing.T) {
	inner := &bytes.Buffer{}
	require.NoError(t, der.NewBoolNode(true).Encode(inner))
	require.NoError(t, der.NewPrintableStringNode("x").Encode(inner))

	outer := &bytes.Buffer{}
	outer.WriteByte(0x30)
	der.AppendLength(outer, inner.Len())
	outer.Write(inner.Bytes())

	got, consumed, err := der.ParseNode(outer.Bytes(), 0)
	require.NoError(t, err)
	require.Equal(t, outer.Len(), consumed)
	require.Len(t, got.Children, 2)
}
