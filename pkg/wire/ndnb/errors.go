package ndnb

import "fmt"

// WireFormatError is raised by malformed NDNB: an unexpected type tag, a
// premature EOF inside an open scope, or a structurally wrong tree (wrong
// child order/count) where a fixed shape (e.g. ContentObject) is expected.
type WireFormatError struct {
	Msg string
}

func (e WireFormatError) Error() string {
	return fmt.Sprintf("wire format error: %s", e.Msg)
}
