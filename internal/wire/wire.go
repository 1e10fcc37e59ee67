// Package wire frames cached entries. Every stored value carries a kind tag
// so a scalar entry and a stream aggregate can never be confused: reading an
// entry through the wrong shape is a kind mismatch, not a bad cast.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1

	// KindScalar tags a single cached value; KindStream tags an ordered
	// aggregate of element payloads produced by one ingestion.
	KindScalar byte = 1
	KindStream byte = 2
)

var (
	// ErrCorrupt marks bytes that are not a valid frame (bad magic, bad
	// version, truncation, trailing junk).
	ErrCorrupt = errors.New("streamcache: corrupt entry")

	// ErrKindMismatch marks a structurally valid frame decoded through the
	// wrong shape (scalar read as stream or vice versa).
	ErrKindMismatch = errors.New("streamcache: entry kind mismatch")

	magic4 = [...]byte{'S', 'T', 'R', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

const hdrLen = 4 + 1 + 1 // magic | ver | kind

func checkHeader(b []byte, kind byte) error {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return ErrCorrupt
	}
	if b[5] != kind {
		if b[5] == KindScalar || b[5] == KindStream {
			return ErrKindMismatch
		}
		return ErrCorrupt
	}
	return nil
}

// Scalar: magic(4) | ver(1) | kind(1=scalar) | vlen(u32 be) | payload(vlen)
func EncodeScalar(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(KindScalar)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeScalar returns the scalar payload as a subslice of b (zero-copy).
// Returns ErrKindMismatch when b holds a valid stream frame.
func DecodeScalar(b []byte) ([]byte, error) {
	if err := checkHeader(b, KindScalar); err != nil {
		return nil, err
	}
	off := hdrLen
	if off+4 > len(b) {
		return nil, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // strict framing, no trailing bytes
		return nil, ErrCorrupt
	}
	return b[off : off+vlen], nil
}

// Stream:
//
//	magic(4) | ver(1) | kind(1=stream) | n(u32 be)
//	vlen(u32 be) | payload(vlen) * n
//
// Element order in the frame is the order payloads were appended during
// ingestion; the reader replays them in the same order.
func EncodeStream(payloads [][]byte) []byte {
	total := hdrLen + 4
	for _, p := range payloads {
		total += 4 + len(p)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(KindStream)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payloads)))
	buf.Write(u4[:])

	for _, p := range payloads {
		binary.BigEndian.PutUint32(u4[:], uint32(len(p)))
		buf.Write(u4[:])
		buf.Write(p)
	}

	return buf.Bytes()
}

// StreamReader walks a stream frame one element at a time so expansion can
// stay lazy: nothing beyond the current element is validated or copied.
// Payload slices alias the frame buffer.
type StreamReader struct {
	b    []byte
	off  int
	n    int // declared element count
	read int
}

// NewStreamReader validates the frame header only. Element bounds are
// checked as they are consumed. Returns ErrKindMismatch for a scalar frame.
func NewStreamReader(b []byte) (*StreamReader, error) {
	if err := checkHeader(b, KindStream); err != nil {
		return nil, err
	}
	off := hdrLen
	if off+4 > len(b) {
		return nil, ErrCorrupt
	}
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	if n < 0 {
		return nil, ErrCorrupt
	}
	return &StreamReader{b: b, off: off + 4, n: n}, nil
}

// Len reports the declared element count.
func (r *StreamReader) Len() int { return r.n }

// Next returns the next element payload. ok=false signals normal
// exhaustion; a non-nil error means the frame is corrupt at or after the
// current element. Exhaustion also enforces strict framing (no trailing
// bytes).
func (r *StreamReader) Next() (payload []byte, ok bool, err error) {
	if r.read == r.n {
		if r.off != len(r.b) {
			return nil, false, ErrCorrupt
		}
		return nil, false, nil
	}
	if r.off+4 > len(r.b) {
		return nil, false, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(r.b[r.off : r.off+4]))
	r.off += 4
	if vlen < 0 || vlen > len(r.b)-r.off {
		return nil, false, ErrCorrupt
	}
	payload = r.b[r.off : r.off+vlen]
	r.off += vlen
	r.read++
	return payload, true, nil
}

// DecodeStream materializes all element payloads at once. The lazy
// StreamReader is preferred on read paths; this is for tests and tooling.
func DecodeStream(b []byte) ([][]byte, error) {
	r, err := NewStreamReader(b)
	if err != nil {
		return nil, err
	}
	// cap the preallocation; a hostile header must not drive allocation
	capHint := r.Len()
	if capHint > 1024 {
		capHint = 1024
	}
	out := make([][]byte, 0, capHint)
	for {
		p, ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, p)
	}
}
