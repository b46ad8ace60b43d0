// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the serial encoding primitives used on the
// rpc-framework stream: a growable, cursor-based byte buffer and the
// fixed-width integer / Elias-gamma size / string codecs built on top of it.
//
// Nothing here knows about sockets, envelopes or dispatch. It is the
// leaf layer: pure, allocation-conscious serialization.
package wire

import "errors"

// ErrUnderrun is returned by a read operation that would consume more bytes
// than the buffer's producer has written.
var ErrUnderrun = errors.New("wire: buffer underrun")

// Buffer is an append-only serialization sink with an independent,
// cursor-based read side. Bytes become readable only after they have been
// written: the buffer tracks how much has been produced (len(b.data)) versus
// how much has been consumed (b.roff) so a read past the produced region
// fails with ErrUnderrun rather than returning zeroed garbage.
//
// Growth is doubling-only, so amortised append cost is O(1); the buffer
// never shrinks on its own.
type Buffer struct {
	data []byte // produced bytes, data[:len(data)] is valid
	roff int    // next unread offset, 0 <= roff <= len(data)
}

// NewBuffer returns an empty Buffer pre-sized to hold initialCapacity bytes
// without reallocating. Fresh capacity is zero-filled, but it is never read:
// every read stops at the produced region.
func NewBuffer(initialCapacity int) *Buffer {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &Buffer{data: make([]byte, 0, initialCapacity)}
}

// Reserve grows the backing array, if needed, so that n more bytes can be
// appended without a further allocation. Growth proceeds by repeated
// doubling of the current capacity, never by the exact amount requested,
// so that a sequence of small writes amortises to O(log n) reallocations.
func (b *Buffer) Reserve(n int) {
	need := len(b.data) + n
	if need <= cap(b.data) {
		return
	}
	newCap := cap(b.data)
	if newCap == 0 {
		newCap = 64
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
}

// WriteRaw appends n bytes from p to the buffer, growing as needed. It
// panics if len(p) < n: every call site in this module passes a
// correctly-sized slice.
func (b *Buffer) WriteRaw(p []byte, n int) {
	b.Reserve(n)
	b.data = append(b.data, p[:n]...)
}

// ReadRaw returns a view onto the next n unread bytes and advances the read
// cursor past them. The returned slice aliases the buffer's storage and is
// only valid until the next Write call. ErrUnderrun is returned, and the
// cursor is left unmoved, if fewer than n bytes remain produced-but-unread.
func (b *Buffer) ReadRaw(n int) ([]byte, error) {
	if n < 0 || b.roff+n > len(b.data) {
		return nil, ErrUnderrun
	}
	s := b.data[b.roff : b.roff+n]
	b.roff += n
	return s, nil
}

// ReadByte reads and consumes a single byte.
func (b *Buffer) ReadByte() (byte, error) {
	s, err := b.ReadRaw(1)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

// Len returns the number of produced-but-unread bytes.
func (b *Buffer) Len() int { return len(b.data) - b.roff }

// Cap returns the current backing capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Cursor returns the number of bytes written so far (the write cursor).
func (b *Buffer) Cursor() int { return len(b.data) }

// Bytes returns the full produced region, ignoring the read cursor. Callers
// must not retain the slice past the next Write.
func (b *Buffer) Bytes() []byte { return b.data }

// Reset clears the buffer back to empty without releasing its capacity, so
// the same Buffer can be reused across messages (the steady-state path for
// both the server and client engines).
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.roff = 0
}

// Free releases the backing array. After Free the Buffer must not be reused
// without a fresh Reserve/WriteRaw call re-allocating it.
func (b *Buffer) Free() {
	b.data = nil
	b.roff = 0
}
