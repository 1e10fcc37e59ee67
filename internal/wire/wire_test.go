package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func mustDecodeScalar(t *testing.T, b []byte) []byte {
	t.Helper()
	p, err := DecodeScalar(b)
	if err != nil {
		t.Fatalf("DecodeScalar error: %v", err)
	}
	return p
}

func mustDecodeStream(t *testing.T, b []byte) [][]byte {
	t.Helper()
	ps, err := DecodeStream(b)
	if err != nil {
		t.Fatalf("DecodeStream error: %v", err)
	}
	return ps
}

func TestScalarRTEmptyAndNonEmpty(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("hello"),
		{0, 1, 2, 3, 4},
	}
	for _, payload := range cases {
		enc := EncodeScalar(payload)
		p := mustDecodeScalar(t, enc)
		if !bytes.Equal(p, payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, payload)
		}
	}
}

func TestScalarRejectsTrailingBytes(t *testing.T) {
	enc := EncodeScalar([]byte("x"))
	enc = append(enc, 0xDE, 0xAD) // add junk
	if _, err := DecodeScalar(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestScalarCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeScalar([]byte("abc"))

	// bad magic
	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, err := DecodeScalar(badMagic); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on bad magic, got %v", err)
	}

	// wrong version
	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, err := DecodeScalar(badVer); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on bad version, got %v", err)
	}

	// unknown kind byte is corruption, not a mismatch
	badKind := append([]byte(nil), enc...)
	badKind[5] = 9
	if _, err := DecodeScalar(badKind); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on unknown kind, got %v", err)
	}

	// vlen too large (announce more than available)
	tooLong := append([]byte(nil), enc...)
	// vlen is at offset 6..9 (4 magic +1 ver +1 kind)
	binary.BigEndian.PutUint32(tooLong[6:10], uint32(len("abc")+1))
	if _, err := DecodeScalar(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	// truncated buffer
	trunc := enc[:len(enc)-1]
	if _, err := DecodeScalar(trunc); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}
}

func TestScalarStreamKindMismatch(t *testing.T) {
	scalar := EncodeScalar([]byte("v"))
	stream := EncodeStream([][]byte{[]byte("v")})

	if _, err := DecodeScalar(stream); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch reading stream as scalar, got %v", err)
	}
	if _, err := NewStreamReader(scalar); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch reading scalar as stream, got %v", err)
	}
}

func TestScalarZeroCopyPayload(t *testing.T) {
	enc := EncodeScalar([]byte("Z"))
	p := mustDecodeScalar(t, enc)
	if len(p) != 1 {
		t.Fatalf("unexpected payload len")
	}
	// mutate payload slice. should mutate underlying enc bytes (zero-copy)
	p[0] = 'Q'
	p2 := mustDecodeScalar(t, enc)
	if p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}

func TestStreamRoundTrip(t *testing.T) {
	cases := [][][]byte{
		nil, // n=0: an empty aggregate is a valid frame
		{[]byte("x")},
		{
			[]byte("x"),
			nil, // empty payload preserved
			{9, 8, 7},
		},
		// duplicate payloads preserved in order
		{
			[]byte("dup"),
			[]byte("dup"),
		},
	}
	for _, payloads := range cases {
		enc := EncodeStream(payloads)
		got := mustDecodeStream(t, enc)
		if len(got) != len(payloads) {
			t.Fatalf("len mismatch: got %d want %d", len(got), len(payloads))
		}
		for i := range payloads {
			if !bytes.Equal(got[i], payloads[i]) {
				t.Fatalf("element %d mismatch: got=%x want=%x", i, got[i], payloads[i])
			}
		}
	}
}

func TestStreamRejectsTrailingBytes(t *testing.T) {
	enc := EncodeStream([][]byte{[]byte("v")})
	enc = append(enc, 0xBE, 0xEF)
	if _, err := DecodeStream(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestStreamBogusCountAndTruncation(t *testing.T) {
	// Wrong n (very large) with no elements -> must error, not panic.
	var buf bytes.Buffer
	buf.Write([]byte{'S', 'T', 'R', 'C'})
	buf.WriteByte(version)
	buf.WriteByte(KindStream)
	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], ^uint32(0)) // n = 0xFFFFFFFF
	buf.Write(u4[:])
	if _, err := DecodeStream(buf.Bytes()); err == nil {
		t.Fatalf("expected error on bogus n with insufficient bytes")
	}

	// Declare n=1 but provide no element body -> error
	buf.Reset()
	buf.Write([]byte{'S', 'T', 'R', 'C'})
	buf.WriteByte(version)
	buf.WriteByte(KindStream)
	binary.BigEndian.PutUint32(u4[:], 1)
	buf.Write(u4[:])
	if _, err := DecodeStream(buf.Bytes()); err == nil {
		t.Fatalf("expected error on truncated element list")
	}
}

func TestStreamReaderLazyCorruptionAtElement(t *testing.T) {
	// Two elements; corrupt the second element's length so the first still
	// reads fine and the error surfaces only at the second Next call.
	enc := EncodeStream([][]byte{[]byte("ok"), []byte("zz")})

	// second element's vlen sits after: hdr(6) + n(4) + vlen(4) + "ok"(2)
	off := 6 + 4 + 4 + 2
	binary.BigEndian.PutUint32(enc[off:off+4], uint32(100))

	r, err := NewStreamReader(enc)
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}
	p, ok, err := r.Next()
	if err != nil || !ok || !bytes.Equal(p, []byte("ok")) {
		t.Fatalf("first element should decode cleanly: p=%q ok=%v err=%v", p, ok, err)
	}
	if _, _, err := r.Next(); err == nil {
		t.Fatalf("expected corruption error at second element")
	}
}

func TestStreamReaderExhaustion(t *testing.T) {
	enc := EncodeStream([][]byte{[]byte("a")})
	r, err := NewStreamReader(enc)
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
	if _, ok, err := r.Next(); !ok || err != nil {
		t.Fatalf("first Next: ok=%v err=%v", ok, err)
	}
	// repeated exhausted reads stay (nil,false,nil)
	for i := 0; i < 2; i++ {
		p, ok, err := r.Next()
		if p != nil || ok || err != nil {
			t.Fatalf("exhausted Next %d: p=%v ok=%v err=%v", i, p, ok, err)
		}
	}
}

func TestStreamZeroCopyPayloadSlices(t *testing.T) {
	enc := EncodeStream([][]byte{[]byte("X"), []byte("Y")})
	got := mustDecodeStream(t, enc)
	if len(got) != 2 || len(got[0]) != 1 {
		t.Fatalf("unexpected decoded elements")
	}

	// mutate decoded payload. should mutate underlying enc bytes
	got[0][0] = 'Q'

	// re-decode from the same enc buffer. change should be visible
	got2 := mustDecodeStream(t, enc)
	if got2[0][0] != 'Q' {
		t.Fatalf("expected zero-copy payload subslices into enc buffer")
	}
}
