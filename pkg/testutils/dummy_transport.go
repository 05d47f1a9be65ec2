package testutils

import (
	"context"
	"sync"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/ndn"
)

// DummyTransport is a Transport that answers from a canned reply table
// instead of a real forwarder socket, mirroring the teacher's
// DummyFace/FeedPacket split between "what was sent" and "what comes
// back."
type DummyTransport struct {
	mu sync.Mutex

	replies       map[string][]byte
	timeoutsLeft  map[string]int
	sentInterests []name.Name
}

// NewDummyTransport returns a DummyTransport with no canned replies; all
// Interests time out until SetReply is called for their name.
func NewDummyTransport() *DummyTransport {
	return &DummyTransport{
		replies:      make(map[string][]byte),
		timeoutsLeft: make(map[string]int),
	}
}

// SetReply arranges for an Interest matching interestName to receive
// dataWire.
func (d *DummyTransport) SetReply(interestName name.Name, dataWire []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replies[interestName.String()] = dataWire
}

// SetTimeouts arranges for the first n Interests matching interestName to
// time out before any configured reply is returned, so tests can exercise
// the KeyChain's retry loop (spec.md §4.7).
func (d *DummyTransport) SetTimeouts(interestName name.Name, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timeoutsLeft[interestName.String()] = n
}

// SentInterests returns every Interest name SendInterest was called
// with, in order.
func (d *DummyTransport) SentInterests() []name.Name {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]name.Name(nil), d.sentInterests...)
}

func (d *DummyTransport) SendInterest(ctx context.Context, interestName name.Name, nonce []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sentInterests = append(d.sentInterests, interestName)

	key := interestName.String()
	if left := d.timeoutsLeft[key]; left > 0 {
		d.timeoutsLeft[key] = left - 1
		return nil, ndn.ErrTimeout
	}
	wire, ok := d.replies[key]
	if !ok {
		return nil, ndn.ErrTimeout
	}
	return wire, nil
}
