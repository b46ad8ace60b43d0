// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"math/bits"
	"testing"
)

// TestGammaRoundTripSmall checks the encode/decode round trip densely for
// small values; TestGammaRoundTripSparseLarge covers sparse values up to
// 2^40-1 (the full range would take too long to run on every commit).
func TestGammaRoundTripSmall(t *testing.T) {
	for v := int64(0); v < 5000; v++ {
		buf := NewBuffer(0)
		WriteGammaBuffer(buf, v)
		got, err := ReadGammaBuffer(buf)
		if err != nil {
			t.Fatalf("v=%d: decode error: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip v=%d got=%d", v, got)
		}
		wantLen := 2*(bits.Len64(uint64(v)+1)) - 1
		if buf.Cursor() != wantLen {
			t.Fatalf("v=%d encoded length = %d, want %d", v, buf.Cursor(), wantLen)
		}
	}
}

func TestGammaRoundTripSparseLarge(t *testing.T) {
	vals := []int64{
		1<<10 - 1, 1 << 10, 1<<20 - 1, 1 << 20,
		999_999, 1_000_000, 1_000_001,
		1<<30 - 1, 1 << 30,
		1<<40 - 1,
	}
	for _, v := range vals {
		buf := NewBuffer(0)
		WriteGammaBuffer(buf, v)
		got, err := ReadGammaBuffer(buf)
		if err != nil {
			t.Fatalf("v=%d: decode error: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip v=%d got=%d", v, got)
		}
	}
}

func TestGammaMaxMessageSizeFits39Bytes(t *testing.T) {
	n := EncodeGammaLen(MaxMessageSize)
	if n != MaxGammaBytes {
		t.Fatalf("EncodeGammaLen(MaxMessageSize) = %d, want %d", n, MaxGammaBytes)
	}
}

func TestGammaStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	raw, err := WriteGammaStream(&buf, 12345)
	if err != nil {
		t.Fatalf("WriteGammaStream: %v", err)
	}
	if !bytes.Equal(raw, buf.Bytes()) {
		t.Fatalf("WriteGammaStream returned raw bytes that don't match what was written")
	}
	v, gotRaw, err := ReadGammaStream(&buf)
	if err != nil {
		t.Fatalf("ReadGammaStream: %v", err)
	}
	if v != 12345 {
		t.Fatalf("ReadGammaStream v = %d, want 12345", v)
	}
	if !bytes.Equal(gotRaw, raw) {
		t.Fatalf("ReadGammaStream raw = %x, want %x", gotRaw, raw)
	}
}

type shortReader struct {
	data []byte
}

func (s *shortReader) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.data[:1]) // always return at most one byte, testing partial-read loops
	s.data = s.data[n:]
	return n, nil
}

func TestGammaStreamTruncated(t *testing.T) {
	// A valid encoding for 300 cut short mid-unary-prefix/mid-significant-bits.
	var full bytes.Buffer
	_, _ = WriteGammaStream(&full, 300)
	truncated := full.Bytes()[:len(full.Bytes())-1]
	_, _, err := ReadGammaStream(&shortReader{data: truncated})
	if err != io.EOF && err != io.ErrUnexpectedEOF {
		t.Fatalf("truncated stream err = %v, want EOF-class error", err)
	}
}

func TestGammaMalformedByte(t *testing.T) {
	bad := []byte{0x00, 0x02, 0x01}
	_, _, err := ReadGammaStream(bytes.NewReader(bad))
	if err != ErrMalformed {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestGammaZeroIsSingleByte(t *testing.T) {
	// Gamma itself only represents v>=0; negative sizes must be rejected
	// before encoding by the envelope/codec layer, not silently wrapped.
	// This test documents the encoded form for v=0 as the floor of the range.
	buf := NewBuffer(0)
	WriteGammaBuffer(buf, 0)
	if buf.Cursor() != 1 {
		t.Fatalf("encode(0) length = %d, want 1 (single 0x01 byte)", buf.Cursor())
	}
	got, err := ReadGammaBuffer(buf)
	if err != nil || got != 0 {
		t.Fatalf("decode(encode(0)) = %d, %v", got, err)
	}
}
