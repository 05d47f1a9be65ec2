// Package security implements the Certificate and Signature data model
// (spec.md §3) layered on the NDNB wire codec and the DER certificate
// codec.
package security

import (
	"time"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/wire/der"
	"github.com/ndnxgo/ndnx/pkg/wire/ndnb"
)

// SubjectEntry is one (OID, value) pair of a certificate's subject list,
// the DER-driven successor of ndn.cxx's two incompatible
// CertificateSubDescrypt constructors: subject entries are read straight
// off the DER tree, never from a separately-parsed string (spec.md §9).
type SubjectEntry struct {
	OID   []int
	Value string
}

// Extension is one (OID, critical, value) entry of a certificate's
// extension list.
type Extension struct {
	OID      []int
	Critical bool
	Value    []byte
}

// Certificate is spec.md §3's Certificate entity: a validity window, a
// subject description, a public key, and an extension list.
type Certificate struct {
	NotBefore time.Time
	NotAfter  time.Time
	Subject   []SubjectEntry
	PublicKey []byte
	Algorithm string
	Extensions []Extension
}

// IsValidAt reports whether the certificate's validity window covers t.
func (c *Certificate) IsValidAt(t time.Time) bool {
	return !t.Before(c.NotBefore) && !t.After(c.NotAfter)
}

// ToDER serializes c as spec.md §4.4/§9's certificate structure:
// SEQUENCE { Validity SEQUENCE { notBefore, notAfter }, Subject SEQUENCE
// OF SEQUENCE { OID, PrintableString }, SubjectPublicKeyInfo BIT STRING,
// Extensions SEQUENCE OF SEQUENCE { OID, BOOLEAN?, OCTET STRING } }.
func (c *Certificate) ToDER() *der.Node {
	validity := der.NewSequenceNode(
		der.NewGeneralizedTimeNode(c.NotBefore),
		der.NewGeneralizedTimeNode(c.NotAfter),
	)

	subjectEntries := make([]*der.Node, 0, len(c.Subject))
	for _, s := range c.Subject {
		subjectEntries = append(subjectEntries, der.NewSequenceNode(
			der.NewOIDNode(s.OID),
			der.NewPrintableStringNode(s.Value),
		))
	}
	subject := der.NewSequenceNode(subjectEntries...)

	pubKey := der.NewBitStringNode(0, c.PublicKey)

	extEntries := make([]*der.Node, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		children := []*der.Node{der.NewOIDNode(e.OID)}
		if e.Critical {
			children = append(children, der.NewBoolNode(true))
		}
		children = append(children, der.NewOctetStringNode(e.Value))
		extEntries = append(extEntries, der.NewSequenceNode(children...))
	}
	extensions := der.NewSequenceNode(extEntries...)

	return der.NewSequenceNode(validity, subject, pubKey, extensions)
}

// CertificateFromDER parses root (as produced by ToDER) into a
// Certificate.
func CertificateFromDER(root *der.Node) (*Certificate, error) {
	if root.Kind != der.KindSequence || len(root.Children) != 4 {
		return nil, der.DerDecodingError{Msg: "certificate must be a 4-element SEQUENCE"}
	}
	validity, subjectNode, pubKeyNode, extNode := root.Children[0], root.Children[1], root.Children[2], root.Children[3]

	notBefore, notAfter, err := decodeValidity(validity)
	if err != nil {
		return nil, err
	}
	subject, err := decodeSubjectList(subjectNode)
	if err != nil {
		return nil, err
	}
	if pubKeyNode.Kind != der.KindBitString {
		return nil, der.DerDecodingError{Msg: "SubjectPublicKeyInfo must be a BIT STRING"}
	}
	extensions, err := decodeExtensions(extNode)
	if err != nil {
		return nil, err
	}

	return &Certificate{
		NotBefore:  notBefore,
		NotAfter:   notAfter,
		Subject:    subject,
		PublicKey:  pubKeyNode.BitStringBytes,
		Algorithm:  "SHA256-with-RSA",
		Extensions: extensions,
	}, nil
}

func decodeValidity(n *der.Node) (time.Time, time.Time, error) {
	if n.Kind != der.KindSequence || len(n.Children) != 2 {
		return time.Time{}, time.Time{}, der.DerDecodingError{Msg: "Validity must be a 2-element SEQUENCE"}
	}
	if n.Children[0].Kind != der.KindGeneralizedTime || n.Children[1].Kind != der.KindGeneralizedTime {
		return time.Time{}, time.Time{}, der.DerDecodingError{Msg: "Validity entries must be GeneralizedTime"}
	}
	return n.Children[0].Time, n.Children[1].Time, nil
}

// decodeSubjectDescription extracts an (OID, PrintableString) pair from a
// single SEQUENCE node, replacing the original's per-pair visitor.
func decodeSubjectDescription(n *der.Node) (SubjectEntry, error) {
	if n.Kind != der.KindSequence || len(n.Children) != 2 {
		return SubjectEntry{}, der.DerDecodingError{Msg: "subject description must be a 2-element SEQUENCE"}
	}
	oidNode, valNode := n.Children[0], n.Children[1]
	if oidNode.Kind != der.KindOID || valNode.Kind != der.KindPrintableString {
		return SubjectEntry{}, der.DerDecodingError{Msg: "subject description must be {OID, PrintableString}"}
	}
	return SubjectEntry{OID: oidNode.OID, Value: valNode.PrintableStr}, nil
}

// decodeSubjectList walks a SEQUENCE OF subject descriptions, replacing
// the original's subject-list visitor.
func decodeSubjectList(n *der.Node) ([]SubjectEntry, error) {
	if n.Kind != der.KindSequence {
		return nil, der.DerDecodingError{Msg: "subject list must be a SEQUENCE"}
	}
	entries := make([]SubjectEntry, 0, len(n.Children))
	for _, child := range n.Children {
		entry, err := decodeSubjectDescription(child)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeExtensions(n *der.Node) ([]Extension, error) {
	if n.Kind != der.KindSequence {
		return nil, der.DerDecodingError{Msg: "extensions must be a SEQUENCE"}
	}
	extensions := make([]Extension, 0, len(n.Children))
	for _, child := range n.Children {
		if child.Kind != der.KindSequence || len(child.Children) < 2 {
			return nil, der.DerDecodingError{Msg: "extension must be a SEQUENCE of at least {OID, OCTET STRING}"}
		}
		if child.Children[0].Kind != der.KindOID {
			return nil, der.DerDecodingError{Msg: "extension's first element must be an OID"}
		}
		ext := Extension{OID: child.Children[0].OID}
		valueIdx := 1
		if child.Children[1].Kind == der.KindBool {
			ext.Critical = child.Children[1].Bool
			valueIdx = 2
		}
		if valueIdx >= len(child.Children) || child.Children[valueIdx].Kind != der.KindOctetString {
			return nil, der.DerDecodingError{Msg: "extension value must be an OCTET STRING"}
		}
		ext.Value = child.Children[valueIdx].OctetBytes
		extensions = append(extensions, ext)
	}
	return extensions, nil
}

// Signature is the NDNB Signature plus the algorithm tag spec.md §4.7
// mandates ("initially only SHA256-with-RSA").
type Signature struct {
	Algorithm      string
	KeyLocatorName name.Name
	Bits           []byte
}

// Data is a parsed or to-be-signed NDN content object (spec.md §3),
// thin wrapper pairing the NDNB wire struct with this package's typed
// Signature.
type Data struct {
	Name      name.Name
	Content   []byte
	MetaInfo  ndnb.MetaInfo
	Signature Signature

	Wire          []byte
	SignedPortion []byte
}

// toWire converts d into the NDNB wire struct Encode/Decode operate on.
func (d *Data) toWire() *ndnb.Data {
	return &ndnb.Data{
		Name:     d.Name,
		Content:  d.Content,
		MetaInfo: d.MetaInfo,
		Signature: ndnb.Signature{
			KeyLocatorName: d.Signature.KeyLocatorName,
			Bits:           d.Signature.Bits,
		},
	}
}

// Encode serializes d over NDNB and records its signed portion.
func (d *Data) Encode() ([]byte, error) {
	w := d.toWire()
	wire, err := ndnb.Encode(w)
	if err != nil {
		return nil, err
	}
	d.Wire = wire
	d.SignedPortion = w.SignedPortion
	return wire, nil
}

// DecodeData parses wire into a Data, tagging its signature with the
// algorithm this module currently supports end to end.
func DecodeData(wire []byte) (*Data, error) {
	w, err := ndnb.Decode(wire)
	if err != nil {
		return nil, err
	}
	return &Data{
		Name:     w.Name,
		Content:  w.Content,
		MetaInfo: w.MetaInfo,
		Signature: Signature{
			Algorithm:      "SHA256-with-RSA",
			KeyLocatorName: w.Signature.KeyLocatorName,
			Bits:           w.Signature.Bits,
		},
		Wire:          w.Wire,
		SignedPortion: w.SignedPortion,
	}, nil
}
