package ndnb

import (
	"bytes"

	"github.com/ndnxgo/ndnx/pkg/name"
)

// EncodeName serializes n as DTAG(Name) { DTAG(Component){BLOB}* } CLOSE
// (spec.md §4.3).
func EncodeName(n name.Name) []byte {
	buf := &bytes.Buffer{}
	AppendBlockHeader(buf, DTagName, ttDtag)
	for _, c := range n {
		AppendTaggedBlob(buf, DTagComponent, c.Bytes())
	}
	AppendCloser(buf)
	return buf.Bytes()
}

// EstimateName mirrors EncodeName's length.
func EstimateName(n name.Name) int {
	total := EstimateBlockHeader(DTagName)
	for _, c := range n {
		total += EstimateTaggedBlob(DTagComponent, len(c.Bytes()))
	}
	return total + 1
}

// DecodeName parses a DTAG(Name) block previously produced by EncodeName.
func DecodeName(data []byte) (name.Name, error) {
	r := &reader{buf: data}
	block, err := parseBlock(r)
	if err != nil {
		return nil, err
	}
	return nameFromBlock(block)
}

func nameFromBlock(block *Block) (name.Name, error) {
	if block.Kind != KindDtag || block.DTagID != DTagName {
		return nil, WireFormatError{Msg: "expected DTAG Name block"}
	}
	n := make(name.Name, 0, len(block.Children))
	for _, child := range block.Children {
		if child.Kind != KindDtag || child.DTagID != DTagComponent {
			return nil, WireFormatError{Msg: "expected DTAG Component block"}
		}
		if len(child.Children) == 0 {
			n = append(n, name.NewComponent(nil))
			continue
		}
		blob := child.Children[0]
		if blob.Kind != KindBlob {
			return nil, WireFormatError{Msg: "component value must be a BLOB"}
		}
		n = append(n, name.NewComponent(blob.Value))
	}
	return n, nil
}
