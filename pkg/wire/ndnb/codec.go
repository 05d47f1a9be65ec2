package ndnb

import (
	"bytes"
	"strconv"
	"time"
)

// AppendBlockHeader writes a block header for a scope/payload of the
// given value and type tag (spec.md §4.3), returning the byte count
// written.
func AppendBlockHeader(buf *bytes.Buffer, val uint64, tt byte) int {
	var tmp [10]byte
	p := len(tmp)

	p--
	tmp[p] = hbit | byte((val&maxTiny)<<ttBits) | (tt & ttMask)
	val >>= (7 - ttBits)
	n := 1
	for val != 0 {
		p--
		tmp[p] = byte(val & 0x7f)
		val >>= 7
		n++
	}
	buf.Write(tmp[p:])
	return n
}

// EstimateBlockHeader returns the byte count AppendBlockHeader would write
// for the given value, independent of tt (tt never changes the header
// length).
func EstimateBlockHeader(val uint64) int {
	val >>= (7 - ttBits)
	n := 1
	for val > 0 {
		val >>= 7
		n++
	}
	return n
}

// AppendCloser writes the single NdnClose byte that ends an open scope.
func AppendCloser(buf *bytes.Buffer) int {
	buf.WriteByte(NdnClose)
	return 1
}

// AppendNumber writes n as decimal-ASCII UDATA (no DTAG wrapper, no
// closer -- UDATA is a bare leaf per spec.md §4.3).
func AppendNumber(buf *bytes.Buffer, n uint64) int {
	s := strconv.FormatUint(n, 10)
	written := AppendBlockHeader(buf, uint64(len(s)), ttUdata)
	buf.WriteString(s)
	return written + len(s)
}

// EstimateNumber mirrors AppendNumber's length.
func EstimateNumber(n uint64) int {
	s := strconv.FormatUint(n, 10)
	return EstimateBlockHeader(uint64(len(s))) + len(s)
}

// AppendTaggedBlob writes DTAG(dtag) { BLOB(data) } CLOSE, omitting the
// inner BLOB entirely when data is empty.
func AppendTaggedBlob(buf *bytes.Buffer, dtag uint64, data []byte) int {
	written := AppendBlockHeader(buf, dtag, ttDtag)
	if len(data) > 0 {
		written += AppendBlockHeader(buf, uint64(len(data)), ttBlob)
		buf.Write(data)
		written += len(data)
	}
	written += AppendCloser(buf)
	return written
}

// EstimateTaggedBlob mirrors AppendTaggedBlob's length.
func EstimateTaggedBlob(dtag uint64, size int) int {
	if size > 0 {
		return EstimateBlockHeader(dtag) + EstimateBlockHeader(uint64(size)) + size + 1
	}
	return EstimateBlockHeader(dtag) + 1
}

// AppendTaggedBlobWithPadding is AppendTaggedBlob, zero-padded to length
// when data is shorter; data longer than length is written without
// padding (no truncation).
func AppendTaggedBlobWithPadding(buf *bytes.Buffer, dtag uint64, length int, data []byte) int {
	if len(data) > length {
		return AppendTaggedBlob(buf, dtag, data)
	}

	written := AppendBlockHeader(buf, dtag, ttDtag)
	if length > 0 {
		written += AppendBlockHeader(buf, uint64(length), ttBlob)
		buf.Write(data)
		pad := make([]byte, length-len(data))
		buf.Write(pad)
		written += length
	}
	written += AppendCloser(buf)
	return written
}

// AppendString writes DTAG(dtag) { UDATA(s) } CLOSE.
func AppendString(buf *bytes.Buffer, dtag uint64, s string) int {
	written := AppendBlockHeader(buf, dtag, ttDtag)
	written += AppendBlockHeader(buf, uint64(len(s)), ttUdata)
	buf.WriteString(s)
	written += len(s)
	written += AppendCloser(buf)
	return written
}

// EstimateString mirrors AppendString's length.
func EstimateString(dtag uint64, s string) int {
	return EstimateBlockHeader(dtag) + EstimateBlockHeader(uint64(len(s))) + len(s) + 1
}

// AppendTaggedNumber writes DTAG(dtag) { AppendNumber(n) } CLOSE.
func AppendTaggedNumber(buf *bytes.Buffer, dtag uint64, n uint64) int {
	written := AppendBlockHeader(buf, dtag, ttDtag)
	written += AppendNumber(buf, n)
	written += AppendCloser(buf)
	return written
}

// EstimateTaggedNumber mirrors AppendTaggedNumber's length.
func EstimateTaggedNumber(dtag uint64, n uint64) int {
	return EstimateBlockHeader(dtag) + EstimateNumber(n) + 1
}

// timestampRequiredBytes returns the 2-to-6-byte width AppendTimestampBlob
// needs to hold t's whole-second count above the low 4 bits.
func timestampRequiredBytes(totalSeconds int64) int {
	required := 2
	ts := totalSeconds >> 4
	for required < 6 && ts != 0 {
		ts >>= 8
		required++
	}
	return required
}

// AppendTimestampBlob writes a BLOB of 2-6 bytes: big-endian seconds in
// the high bits, a 12-bit subsecond fraction in the low 12 bits computed
// as (ns%1e9 / 5 * 8 + 195_312) / 390_625 (spec.md §4.3).
func AppendTimestampBlob(buf *bytes.Buffer, t time.Time) int {
	totalSeconds := t.Unix()
	required := timestampRequiredBytes(totalSeconds)

	written := AppendBlockHeader(buf, uint64(required), ttBlob)

	ts := totalSeconds >> 4
	for i := 0; i < required-2; i++ {
		buf.WriteByte(byte(ts >> (8 * (required - 3 - i))))
	}

	nanos := int64(t.Nanosecond())
	frac := ((totalSeconds & 15) << 12) + (((nanos % 1_000_000_000) / 5 * 8 + 195_312) / 390_625)
	for i := required - 2; i < required; i++ {
		buf.WriteByte(byte(frac >> (8 * (required - 1 - i))))
	}

	return written + required
}

// EstimateTimestampBlob mirrors AppendTimestampBlob's length.
func EstimateTimestampBlob(t time.Time) int {
	required := timestampRequiredBytes(t.Unix())
	return EstimateBlockHeader(uint64(required)) + required
}

// DecodeTimestampBlob is AppendTimestampBlob's approximate inverse: the
// forward encoding truncates integer division twice (spec.md §4.3's
// formula) and the decoder subtracts half a tick, so the recovered
// nanosecond component is up to one 1/4096-second tick (about 244 µs)
// below the original rather than exact -- the same class of
// lossy fixed-point approximation as AppendVersion's subsecond fraction.
func DecodeTimestampBlob(data []byte) (time.Time, error) {
	if len(data) < 2 {
		return time.Time{}, WireFormatError{Msg: "timestamp blob too short"}
	}
	var whole int64
	for i := 0; i < len(data)-2; i++ {
		whole = (whole << 8) | int64(data[i])
	}
	var frac int64
	for i := len(data) - 2; i < len(data); i++ {
		frac = (frac << 8) | int64(data[i])
	}
	seconds := (whole << 4) | (frac >> 12)
	subsecond12 := frac & 0xFFF
	ns := ((subsecond12*390_625 - 195_312) * 5) / 8
	if ns < 0 {
		ns = 0
	}
	if ns > 999_999_999 {
		ns = 999_999_999
	}
	return time.Unix(seconds, ns).UTC(), nil
}
