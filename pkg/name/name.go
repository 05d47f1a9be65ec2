package name

import (
	"strings"
	"time"

	"github.com/cespare/xxhash"
)

// Name is an ordered sequence of opaque byte Components. The empty
// sequence is the legal root name.
type Name []Component

// New returns an empty (root) Name.
func New() Name {
	return Name{}
}

// Append returns a new Name with comps appended. The receiver is not
// mutated.
func (n Name) Append(comps ...Component) Name {
	out := make(Name, len(n)+len(comps))
	copy(out, n)
	copy(out[len(n):], comps)
	return out
}

// AppendStr appends a single component built from the raw bytes of s.
func (n Name) AppendStr(s string) Name {
	return n.Append(NewStringComponent(s))
}

// AppendNumber appends appendNumber(n)'s component (spec.md §4.1).
func (n Name) AppendNumber(v uint64) Name {
	return n.Append(NewNumberComponent(v))
}

// AppendNumberWithMarker appends a one-byte-marker-prefixed number
// component. VersionMarker (0xFD) is reserved for versions.
func (n Name) AppendNumberWithMarker(v uint64, marker byte) Name {
	return n.Append(NewNumberComponentWithMarker(v, marker))
}

// Clock returns the current UTC time; overridable in tests so
// AppendVersion's synthesized timestamp is deterministic.
var Clock = func() time.Time { return time.Now().UTC() }

// AppendVersion appends a version component. With no argument it
// synthesizes one from the current time: (seconds<<12) | ((micros/244) &
// 0xFFF), a 12-bit subsecond fraction (~4096 ticks/second, spec.md §4.1).
// The divisor 244 is an intentional approximation (1_000_000/4096 ≈
// 244.14), documented rather than "fixed" per spec.md §9.
func (n Name) AppendVersion(v ...uint64) Name {
	var version uint64
	if len(v) > 0 {
		version = v[0]
	} else {
		now := Clock()
		sec := uint64(now.Unix())
		micros := uint64(now.Nanosecond() / 1000)
		version = (sec << 12) | ((micros / 244) & 0xFFF)
	}
	return n.AppendNumberWithMarker(version, VersionMarker)
}

// Get returns the component at index i. Negative indices count from the
// end (-1 = last), matching Go slice convention size+i -- the
// conventional behavior, not the source's size-1-i (spec.md §9 flags the
// original as a likely bug).
func (n Name) Get(i int) (Component, error) {
	idx := i
	if idx < 0 {
		idx = len(n) + idx
	}
	if idx < 0 || idx >= len(n) {
		return Component{}, NameError{Msg: "index out of range"}
	}
	return n[idx], nil
}

// At is Get without an error return: out-of-range yields a zero Component.
// Convenient for call sites that have already range-checked.
func (n Name) At(i int) Component {
	c, err := n.Get(i)
	if err != nil {
		return Component{}
	}
	return c
}

// npos, passed as GetSubName's len, means "to the end".
const Npos = -1

// GetSubName returns the sub-name [pos, pos+length), or [pos, end) if
// length is Npos.
func (n Name) GetSubName(pos int, length int) (Name, error) {
	if pos < 0 || pos > len(n) {
		return nil, NameError{Msg: "getSubName parameter out of range"}
	}
	l := length
	if l == Npos {
		l = len(n) - pos
	}
	if l < 0 || pos+l > len(n) {
		return nil, NameError{Msg: "getSubName parameter out of range"}
	}
	out := make(Name, l)
	copy(out, n[pos:pos+l])
	return out, nil
}

// Prefix returns the first i components (i<0 strips the last -i), without
// copying.
func (n Name) Prefix(i int) Name {
	if i < 0 {
		i = len(n) + i
	}
	if i <= 0 {
		return Name{}
	}
	if i >= len(n) {
		return n
	}
	return n[:i]
}

// Len returns the number of components.
func (n Name) Len() int {
	return len(n)
}

// ToURI renders n as "/" followed by each component's URI form joined by
// "/" (spec.md §4.1). The source's toUri() returns before its terminating
// statement (a compile bug per spec.md §9); this is the straightforward
// join it was meant to produce.
func (n Name) ToURI() string {
	sb := strings.Builder{}
	for _, c := range n {
		sb.WriteByte('/')
		c.writeURI(&sb)
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}

// String is an alias for ToURI, so a Name satisfies fmt.Stringer.
func (n Name) String() string {
	return n.ToURI()
}

// FromURI parses a URI string (as produced by ToURI) into a Name.
func FromURI(s string) (Name, error) {
	trimmed := strings.TrimPrefix(s, "/")
	if trimmed == "" {
		return Name{}, nil
	}
	toks := strings.Split(trimmed, "/")
	out := make(Name, len(toks))
	for i, tok := range toks {
		c, err := componentFromURI(tok)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Equal reports componentwise byte equality of n and o.
func (n Name) Equal(o Name) bool {
	if len(n) != len(o) {
		return false
	}
	for i := range n {
		if !n[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// IsPrefix reports whether n is a prefix of rhs.
func (n Name) IsPrefix(rhs Name) bool {
	if len(n) > len(rhs) {
		return false
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// Compare orders names by their URI form (spec.md §4.1), a tie-breaker-
// free total order.
func (n Name) Compare(o Name) int {
	return strings.Compare(n.ToURI(), o.ToURI())
}

// Clone returns a deep copy of n.
func (n Name) Clone() Name {
	out := make(Name, len(n))
	for i := range n {
		out[i] = n[i].Clone()
	}
	return out
}

// Hash returns an xxhash digest of n's wire-independent byte form, for use
// as a map/cache key (Name is a slice of slices and can't be a Go map key
// directly). Grounded on the teacher's own Name.Hash() in
// std/encoding/name_pattern.go, which uses the same library.
func (n Name) Hash() uint64 {
	h := xxhash.New()
	for _, c := range n {
		// length-prefix each component so ("ab","c") and ("a","bc") hash
		// differently.
		var lenBuf [8]byte
		l := uint64(len(c.Val))
		for i := range lenBuf {
			lenBuf[i] = byte(l)
			l >>= 8
		}
		_, _ = h.Write(lenBuf[:])
		_, _ = h.Write(c.Val)
	}
	return h.Sum64()
}
