// Package der implements the DER/ASN.1 node tree used to encode identity
// certificates (spec.md §4.4): tag-length-value elements, short/long
// length forms, OID varint sub-identifiers, and GeneralizedTime.
//
// Grounded on ndn.cxx/helpers/der/visitor/simple-visitor.cc for which
// per-kind payload each node type exposes (plain bool, raw integer bytes,
// a string for PrintableString, an OID's decoded int list, a parsed time
// for GeneralizedTime) -- the source's per-class visitor is replaced here
// by a single tagged-union Node and typed accessor functions, per
// spec.md §9's "visitor pattern → tagged variant" note.
package der

import (
	"bytes"
	"time"
)

// Kind tags a Node's variant; these are DER's universal, primitive tag
// numbers (constructed bit aside) named directly, rather than exposed as
// raw tag bytes, so callers never hand-roll a tag.
type Kind int

const (
	KindBool Kind = iota
	KindInteger
	KindBitString
	KindOctetString
	KindNull
	KindOID
	KindSequence
	KindPrintableString
	KindGeneralizedTime
)

const (
	tagBoolean         = 0x01
	tagInteger         = 0x02
	tagBitString       = 0x03
	tagOctetString     = 0x04
	tagNull            = 0x05
	tagOID             = 0x06
	tagPrintableString = 0x13
	tagGeneralizedTime = 0x18
	tagSequence        = 0x30 // constructed (0x20) | universal tag 16
)

// generalizedTimeLayout is spec.md §4.4's 14-digit UTC form.
const generalizedTimeLayout = "20060102150405"

// Node is a parsed or to-be-encoded DER element (spec.md's DerNode).
// Exactly the fields relevant to Kind are meaningful; the rest are zero.
type Node struct {
	Kind Kind

	Bool bool

	IntBytes []byte // INTEGER: big-endian two's-complement payload, caller-minimal

	BitStringUnused byte // BIT STRING: count of unused bits in the last payload byte
	BitStringBytes  []byte

	OctetBytes []byte // OCTET STRING payload

	OID []int // decoded sub-identifiers, e.g. {1, 2, 840, 113549, ...}

	PrintableStr string

	Time time.Time // GeneralizedTime, always UTC

	Children []*Node // SEQUENCE, in wire order
}

func NewBoolNode(v bool) *Node                 { return &Node{Kind: KindBool, Bool: v} }
func NewIntegerNode(b []byte) *Node            { return &Node{Kind: KindInteger, IntBytes: append([]byte(nil), b...)} }
func NewOctetStringNode(b []byte) *Node        { return &Node{Kind: KindOctetString, OctetBytes: append([]byte(nil), b...)} }
func NewNullNode() *Node                       { return &Node{Kind: KindNull} }
func NewOIDNode(ids []int) *Node               { return &Node{Kind: KindOID, OID: append([]int(nil), ids...)} }
func NewPrintableStringNode(s string) *Node    { return &Node{Kind: KindPrintableString, PrintableStr: s} }
func NewGeneralizedTimeNode(t time.Time) *Node { return &Node{Kind: KindGeneralizedTime, Time: t.UTC()} }
func NewSequenceNode(children ...*Node) *Node  { return &Node{Kind: KindSequence, Children: children} }

func NewBitStringNode(unused byte, b []byte) *Node {
	return &Node{Kind: KindBitString, BitStringUnused: unused, BitStringBytes: append([]byte(nil), b...)}
}

// AppendLength writes n in DER length form: short form (one byte) for
// n<128, long form (0x80|numLenBytes followed by big-endian length
// bytes) otherwise (spec.md §4.4).
func AppendLength(buf *bytes.Buffer, n int) int {
	if n < 128 {
		buf.WriteByte(byte(n))
		return 1
	}
	var lenBytes []byte
	v := n
	for v > 0 {
		lenBytes = append([]byte{byte(v & 0xff)}, lenBytes...)
		v >>= 8
	}
	buf.WriteByte(0x80 | byte(len(lenBytes)))
	buf.Write(lenBytes)
	return 1 + len(lenBytes)
}

// decodeLength is AppendLength's inverse.
func decodeLength(data []byte, pos int) (length int, next int, err error) {
	if pos >= len(data) {
		return 0, 0, DerDecodingError{Msg: "premature EOF reading length"}
	}
	b := data[pos]
	pos++
	if b&0x80 == 0 {
		return int(b), pos, nil
	}
	n := int(b & 0x7f)
	if pos+n > len(data) {
		return 0, 0, DerDecodingError{Msg: "premature EOF reading long-form length"}
	}
	val := 0
	for i := 0; i < n; i++ {
		val = (val << 8) | int(data[pos+i])
	}
	return val, pos + n, nil
}

// Encode serializes n to buf.
func (n *Node) Encode(buf *bytes.Buffer) error {
	switch n.Kind {
	case KindBool:
		buf.WriteByte(tagBoolean)
		AppendLength(buf, 1)
		if n.Bool {
			buf.WriteByte(0xff)
		} else {
			buf.WriteByte(0x00)
		}
	case KindInteger:
		buf.WriteByte(tagInteger)
		AppendLength(buf, len(n.IntBytes))
		buf.Write(n.IntBytes)
	case KindBitString:
		buf.WriteByte(tagBitString)
		AppendLength(buf, len(n.BitStringBytes)+1)
		buf.WriteByte(n.BitStringUnused)
		buf.Write(n.BitStringBytes)
	case KindOctetString:
		buf.WriteByte(tagOctetString)
		AppendLength(buf, len(n.OctetBytes))
		buf.Write(n.OctetBytes)
	case KindNull:
		buf.WriteByte(tagNull)
		AppendLength(buf, 0)
	case KindOID:
		payload := EncodeOID(n.OID)
		buf.WriteByte(tagOID)
		AppendLength(buf, len(payload))
		buf.Write(payload)
	case KindPrintableString:
		buf.WriteByte(tagPrintableString)
		AppendLength(buf, len(n.PrintableStr))
		buf.WriteString(n.PrintableStr)
	case KindGeneralizedTime:
		s := n.Time.UTC().Format(generalizedTimeLayout)
		buf.WriteByte(tagGeneralizedTime)
		AppendLength(buf, len(s))
		buf.WriteString(s)
	case KindSequence:
		inner := &bytes.Buffer{}
		for _, c := range n.Children {
			if err := c.Encode(inner); err != nil {
				return err
			}
		}
		buf.WriteByte(tagSequence)
		AppendLength(buf, inner.Len())
		buf.Write(inner.Bytes())
	default:
		return DerDecodingError{Msg: "unknown DER node kind"}
	}
	return nil
}

// ParseNode parses exactly one DER element from data starting at pos,
// returning the node and the offset just past it.
func ParseNode(data []byte, pos int) (*Node, int, error) {
	if pos >= len(data) {
		return nil, 0, DerDecodingError{Msg: "premature EOF reading tag"}
	}
	tag := data[pos]
	pos++
	length, pos, err := decodeLength(data, pos)
	if err != nil {
		return nil, 0, err
	}
	if pos+length > len(data) {
		return nil, 0, DerDecodingError{Msg: "premature EOF reading payload"}
	}
	payload := data[pos : pos+length]
	end := pos + length

	switch tag {
	case tagBoolean:
		if len(payload) != 1 {
			return nil, 0, DerDecodingError{Msg: "BOOLEAN payload must be one byte"}
		}
		return &Node{Kind: KindBool, Bool: payload[0] != 0}, end, nil
	case tagInteger:
		return &Node{Kind: KindInteger, IntBytes: payload}, end, nil
	case tagBitString:
		if len(payload) < 1 {
			return nil, 0, DerDecodingError{Msg: "BIT STRING payload must include the unused-bits count"}
		}
		return &Node{Kind: KindBitString, BitStringUnused: payload[0], BitStringBytes: payload[1:]}, end, nil
	case tagOctetString:
		return &Node{Kind: KindOctetString, OctetBytes: payload}, end, nil
	case tagNull:
		return &Node{Kind: KindNull}, end, nil
	case tagOID:
		ids, err := DecodeOID(payload)
		if err != nil {
			return nil, 0, err
		}
		return &Node{Kind: KindOID, OID: ids}, end, nil
	case tagPrintableString:
		return &Node{Kind: KindPrintableString, PrintableStr: string(payload)}, end, nil
	case tagGeneralizedTime:
		t, err := time.ParseInLocation(generalizedTimeLayout, string(payload), time.UTC)
		if err != nil {
			return nil, 0, DerDecodingError{Msg: "malformed GeneralizedTime: " + err.Error()}
		}
		return &Node{Kind: KindGeneralizedTime, Time: t}, end, nil
	case tagSequence:
		children, err := parseSequenceChildren(payload)
		if err != nil {
			return nil, 0, err
		}
		return &Node{Kind: KindSequence, Children: children}, end, nil
	default:
		return nil, 0, DerDecodingError{Msg: "unknown DER tag"}
	}
}

// parseSequenceChildren parses children in order until the announced
// payload length is consumed (spec.md §4.4).
func parseSequenceChildren(payload []byte) ([]*Node, error) {
	var children []*Node
	pos := 0
	for pos < len(payload) {
		child, next, err := ParseNode(payload, pos)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		pos = next
	}
	return children, nil
}

// EncodeOID serializes an OID's sub-identifiers: the first byte is
// first*40+second; subsequent sub-identifiers are base-128 varints with
// the high bit set on every continuation byte (spec.md §4.4).
func EncodeOID(ids []int) []byte {
	buf := &bytes.Buffer{}
	if len(ids) >= 2 {
		encodeOIDComponent(buf, ids[0]*40+ids[1])
		for _, id := range ids[2:] {
			encodeOIDComponent(buf, id)
		}
	} else if len(ids) == 1 {
		encodeOIDComponent(buf, ids[0]*40)
	}
	return buf.Bytes()
}

func encodeOIDComponent(buf *bytes.Buffer, v int) {
	if v == 0 {
		buf.WriteByte(0)
		return
	}
	var chunks []byte
	for v > 0 {
		chunks = append(chunks, byte(v&0x7f))
		v >>= 7
	}
	for i := len(chunks) - 1; i >= 0; i-- {
		b := chunks[i]
		if i > 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
	}
}

// DecodeOID is EncodeOID's inverse.
func DecodeOID(data []byte) ([]int, error) {
	if len(data) == 0 {
		return nil, DerDecodingError{Msg: "empty OID payload"}
	}
	first, pos, err := decodeOIDComponent(data, 0)
	if err != nil {
		return nil, err
	}
	ids := []int{first / 40, first % 40}
	for pos < len(data) {
		v, next, err := decodeOIDComponent(data, pos)
		if err != nil {
			return nil, err
		}
		ids = append(ids, v)
		pos = next
	}
	return ids, nil
}

func decodeOIDComponent(data []byte, pos int) (int, int, error) {
	v := 0
	for {
		if pos >= len(data) {
			return 0, 0, DerDecodingError{Msg: "premature EOF in OID sub-identifier"}
		}
		b := data[pos]
		pos++
		v = (v << 7) | int(b&0x7f)
		if b&0x80 == 0 {
			return v, pos, nil
		}
	}
}
