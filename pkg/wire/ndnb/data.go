package ndnb

import (
	"bytes"
	"time"

	"github.com/ndnxgo/ndnx/pkg/name"
)

// ContentType mirrors ndnx's coarse content classification; this codec
// only round-trips the value, it never inspects it.
type ContentType uint64

const (
	ContentTypeData ContentType = 0
	ContentTypeKey  ContentType = 1
	ContentTypeLink ContentType = 2
	ContentTypeGone ContentType = 3
)

// Signature is the Data.signature field (spec.md §3): a keyLocator name
// (not a digest) plus the signature bits, over the SHA256-with-RSA
// algorithm per spec.md §4.7 ("initially only SHA256-with-RSA").
type Signature struct {
	KeyLocatorName name.Name
	Bits           []byte
}

// MetaInfo is the Data.metaInfo field, the ndnb "SignedInfo" block:
// publication timestamp, coarse content type, and an optional freshness
// window.
type MetaInfo struct {
	Timestamp           time.Time
	Type                ContentType
	FreshnessSeconds    uint64
	HasFreshnessSeconds bool
}

// Data is a parsed or to-be-signed NDN content object (spec.md §3/§6).
// Wire and SignedPortion are populated by Decode (and, after Encode, hold
// the bytes just produced): the signed portion begins at the first byte
// of Name and ends at the last byte of Content, per spec.md §6.
type Data struct {
	Name      name.Name
	Content   []byte
	MetaInfo  MetaInfo
	Signature Signature

	Wire          []byte
	SignedPortion []byte
}

// Encode serializes d as DTAG(ContentObject){Signature, Name, SignedInfo,
// Content} CLOSE and records the signed portion.
func Encode(d *Data) ([]byte, error) {
	buf := &bytes.Buffer{}
	AppendBlockHeader(buf, DTagContentObject, ttDtag)

	encodeSignature(buf, d.Signature)

	nameStart := buf.Len()
	buf.Write(EncodeName(d.Name))

	encodeSignedInfo(buf, d.MetaInfo)

	AppendTaggedBlob(buf, DTagContent, d.Content)
	contentEnd := buf.Len()

	AppendCloser(buf)

	d.Wire = buf.Bytes()
	d.SignedPortion = d.Wire[nameStart:contentEnd]
	return d.Wire, nil
}

func encodeSignature(buf *bytes.Buffer, sig Signature) {
	AppendBlockHeader(buf, DTagSignature, ttDtag)
	AppendTaggedBlob(buf, DTagSignatureBits, sig.Bits)
	AppendBlockHeader(buf, DTagKeyLocator, ttDtag)
	AppendBlockHeader(buf, DTagKeyName, ttDtag)
	buf.Write(EncodeName(sig.KeyLocatorName))
	AppendCloser(buf) // KeyName
	AppendCloser(buf) // KeyLocator
	AppendCloser(buf) // Signature
}

func encodeSignedInfo(buf *bytes.Buffer, mi MetaInfo) {
	AppendBlockHeader(buf, DTagSignedInfo, ttDtag)
	AppendBlockHeader(buf, DTagTimestamp, ttDtag)
	AppendTimestampBlob(buf, mi.Timestamp)
	AppendCloser(buf) // Timestamp
	AppendTaggedNumber(buf, DTagType, uint64(mi.Type))
	if mi.HasFreshnessSeconds {
		AppendTaggedNumber(buf, DTagFreshnessSeconds, mi.FreshnessSeconds)
	}
	AppendCloser(buf) // SignedInfo
}

// Decode parses a wire-form ContentObject produced by Encode.
func Decode(wire []byte) (*Data, error) {
	r := &reader{buf: wire}
	root, err := parseBlock(r)
	if err != nil {
		return nil, err
	}
	if root.Kind != KindDtag || root.DTagID != DTagContentObject {
		return nil, WireFormatError{Msg: "expected DTAG ContentObject block"}
	}
	if len(root.Children) != 4 {
		return nil, WireFormatError{Msg: "ContentObject must have exactly 4 children: Signature, Name, SignedInfo, Content"}
	}

	sigBlock, nameBlock, siBlock, contentBlock := root.Children[0], root.Children[1], root.Children[2], root.Children[3]

	sig, err := signatureFromBlock(sigBlock)
	if err != nil {
		return nil, err
	}
	n, err := nameFromBlock(nameBlock)
	if err != nil {
		return nil, err
	}
	mi, err := metaInfoFromBlock(siBlock)
	if err != nil {
		return nil, err
	}
	content, err := contentFromBlock(contentBlock)
	if err != nil {
		return nil, err
	}

	return &Data{
		Name:          n,
		Content:       content,
		MetaInfo:      mi,
		Signature:     sig,
		Wire:          wire,
		SignedPortion: wire[nameBlock.Start:contentBlock.End],
	}, nil
}

func signatureFromBlock(b *Block) (Signature, error) {
	if b.Kind != KindDtag || b.DTagID != DTagSignature {
		return Signature{}, WireFormatError{Msg: "expected DTAG Signature block"}
	}
	var sig Signature
	for _, child := range b.Children {
		switch {
		case child.Kind == KindDtag && child.DTagID == DTagSignatureBits:
			if len(child.Children) > 0 && child.Children[0].Kind == KindBlob {
				sig.Bits = child.Children[0].Value
			}
		case child.Kind == KindDtag && child.DTagID == DTagKeyLocator:
			for _, kc := range child.Children {
				if kc.Kind == KindDtag && kc.DTagID == DTagKeyName {
					if len(kc.Children) != 1 {
						return Signature{}, WireFormatError{Msg: "KeyName must wrap exactly one Name block"}
					}
					n, err := nameFromBlock(kc.Children[0])
					if err != nil {
						return Signature{}, err
					}
					sig.KeyLocatorName = n
				}
			}
		}
	}
	return sig, nil
}

func metaInfoFromBlock(b *Block) (MetaInfo, error) {
	if b.Kind != KindDtag || b.DTagID != DTagSignedInfo {
		return MetaInfo{}, WireFormatError{Msg: "expected DTAG SignedInfo block"}
	}
	var mi MetaInfo
	for _, child := range b.Children {
		if child.Kind != KindDtag {
			continue
		}
		switch child.DTagID {
		case DTagTimestamp:
			if len(child.Children) != 1 || child.Children[0].Kind != KindBlob {
				return MetaInfo{}, WireFormatError{Msg: "malformed Timestamp block"}
			}
			t, err := DecodeTimestampBlob(child.Children[0].Value)
			if err != nil {
				return MetaInfo{}, err
			}
			mi.Timestamp = t
		case DTagType:
			n, err := numberFromBlock(child)
			if err != nil {
				return MetaInfo{}, err
			}
			mi.Type = ContentType(n)
		case DTagFreshnessSeconds:
			n, err := numberFromBlock(child)
			if err != nil {
				return MetaInfo{}, err
			}
			mi.FreshnessSeconds = n
			mi.HasFreshnessSeconds = true
		}
	}
	return mi, nil
}

func contentFromBlock(b *Block) ([]byte, error) {
	if b.Kind != KindDtag || b.DTagID != DTagContent {
		return nil, WireFormatError{Msg: "expected DTAG Content block"}
	}
	if len(b.Children) == 0 {
		return []byte{}, nil
	}
	if b.Children[0].Kind != KindBlob {
		return nil, WireFormatError{Msg: "Content value must be a BLOB"}
	}
	return b.Children[0].Value, nil
}

func numberFromBlock(b *Block) (uint64, error) {
	if len(b.Children) != 1 || b.Children[0].Kind != KindUdata {
		return 0, WireFormatError{Msg: "expected UDATA number payload"}
	}
	return parseDecimal(b.Children[0].Value)
}

func parseDecimal(b []byte) (uint64, error) {
	var n uint64
	if len(b) == 0 {
		return 0, WireFormatError{Msg: "empty number payload"}
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, WireFormatError{Msg: "malformed decimal number payload"}
		}
		n = n*10 + uint64(c-'0')
	}
	return n, nil
}

// Interest is a minimal NDN Interest: a Name and an opaque nonce, enough
// to drive the KeyChain's fetch-signer-certificate path (spec.md §6).
type Interest struct {
	Name  name.Name
	Nonce []byte
}

// EncodeInterest serializes an Interest as DTAG(Interest){Name,
// Nonce?} CLOSE.
func EncodeInterest(it *Interest) []byte {
	buf := &bytes.Buffer{}
	AppendBlockHeader(buf, DTagInterest, ttDtag)
	buf.Write(EncodeName(it.Name))
	if len(it.Nonce) > 0 {
		AppendTaggedBlob(buf, DTagNonce, it.Nonce)
	}
	AppendCloser(buf)
	return buf.Bytes()
}

// DecodeInterest is EncodeInterest's inverse.
func DecodeInterest(wire []byte) (*Interest, error) {
	r := &reader{buf: wire}
	root, err := parseBlock(r)
	if err != nil {
		return nil, err
	}
	if root.Kind != KindDtag || root.DTagID != DTagInterest {
		return nil, WireFormatError{Msg: "expected DTAG Interest block"}
	}
	if len(root.Children) == 0 {
		return nil, WireFormatError{Msg: "Interest must contain a Name"}
	}
	n, err := nameFromBlock(root.Children[0])
	if err != nil {
		return nil, err
	}
	it := &Interest{Name: n}
	if len(root.Children) > 1 && root.Children[1].Kind == KindDtag && root.Children[1].DTagID == DTagNonce {
		if len(root.Children[1].Children) > 0 {
			it.Nonce = root.Children[1].Children[0].Value
		}
	}
	return it, nil
}
