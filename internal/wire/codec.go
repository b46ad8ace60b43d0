// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "encoding/binary"

// Int64Len is the fixed wire width of every scalar, operation and
// request_id field.
const Int64Len = 8

// EncodeInt64 appends the signed 64-bit big-endian encoding of v to buf.
// Big-endian, 64-bit is used for every fixed-width field on the wire: it is
// wider than any legal scalar, its byte order is fixed independent of the
// host, and its width does not vary with the host's native int size.
func EncodeInt64(buf *Buffer, v int64) {
	var tmp [Int64Len]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	buf.WriteRaw(tmp[:], Int64Len)
}

// DecodeInt64 decodes a signed 64-bit big-endian integer from buf,
// returning ErrShortInput if fewer than Int64Len bytes remain.
func DecodeInt64(buf *Buffer) (int64, error) {
	raw, err := buf.ReadRaw(Int64Len)
	if err != nil {
		return 0, ErrShortInput
	}
	return int64(binary.BigEndian.Uint64(raw)), nil
}

// EncodeString appends a gamma-prefixed, NUL-terminated string to buf. The
// gamma length includes the trailing NUL.
func EncodeString(buf *Buffer, s string) {
	WriteGammaBuffer(buf, int64(len(s)+1))
	buf.WriteRaw([]byte(s), len(s))
	buf.WriteRaw([]byte{0x00}, 1)
}

// DecodeString decodes a gamma-prefixed, NUL-terminated string from buf. An
// absent terminator within the declared length is ErrMalformed.
func DecodeString(buf *Buffer) (string, error) {
	n, err := ReadGammaBuffer(buf)
	if err != nil {
		return "", err
	}
	if n <= 0 {
		return "", ErrMalformed
	}
	raw, err := buf.ReadRaw(int(n))
	if err != nil {
		return "", ErrShortInput
	}
	if raw[n-1] != 0x00 {
		return "", ErrMalformed
	}
	return string(raw[:n-1]), nil
}

// EncodeBlob appends a gamma-prefixed raw byte blob to buf. The length
// prefix is omitted of any trailing content when blob is empty: blob_len==0
// carries no following bytes at all.
func EncodeBlob(buf *Buffer, blob []byte) {
	WriteGammaBuffer(buf, int64(len(blob)))
	if len(blob) > 0 {
		buf.WriteRaw(blob, len(blob))
	}
}

// DecodeBlob decodes a gamma-prefixed raw byte blob from buf. The returned
// slice is always an owned copy, never an alias into buf's storage, per the
// payload record's deep-copy ownership rule.
//
// If the declared blob_len exceeds what remains in buf, DecodeBlob returns
// whatever trailing bytes are available together with ErrShortInput: this
// is a partial-payload diagnostic case — callers must treat the returned
// slice as informational only and must not act on it as real data.
func DecodeBlob(buf *Buffer) (blob []byte, err error) {
	n, err := ReadGammaBuffer(buf)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrMalformed
	}
	if n == 0 {
		return nil, nil
	}
	avail := buf.Len()
	if int64(avail) < n {
		partial, _ := buf.ReadRaw(avail)
		return append([]byte(nil), partial...), ErrShortInput
	}
	raw, err := buf.ReadRaw(int(n))
	if err != nil {
		return nil, ErrShortInput
	}
	return append([]byte(nil), raw...), nil
}
