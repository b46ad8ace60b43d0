// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpc

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/d4vidsha/rpc-framework/internal/wire"
)

// Wire format:
//
//	Framed := Gamma N || Gamma N_echo (receiver -> sender) || Bytes[N] envelope
//
// sendEnvelope and recvEnvelope implement this three-step handshake directly
// on top of a net.Conn. Both directions loop around partial reads/writes
// until the requested byte count is transferred, the peer closes, or an I/O
// error occurs, matching the "loop until n bytes transferred or error" idiom
// a stream framer needs for its own header/payload transfer.

// sendEnvelope serializes e and performs the send-side of the framing
// handshake: write gamma(N), read back gamma(N'), and only on N==N' write
// the N payload bytes. maxMessageSize bounds N before anything is written.
func sendEnvelope(conn net.Conn, e Envelope, maxMessageSize int64) error {
	buf := wire.NewBuffer(256)
	if err := encodeEnvelope(buf, e); err != nil {
		return err
	}
	n := int64(buf.Cursor())
	if n > maxMessageSize {
		return fmt.Errorf("%w: envelope is %d bytes, limit %d", ErrOversize, n, maxMessageSize)
	}

	if _, err := wire.WriteGammaStream(conn, n); err != nil {
		return wrapIOError(err)
	}

	echoed, _, err := wire.ReadGammaStream(conn)
	if err != nil {
		return wrapIOError(err)
	}
	if echoed != n {
		return fmt.Errorf("%w: sent %d, echoed %d", ErrFramingMismatch, n, echoed)
	}

	if err := wire.WriteFull(conn, buf.Bytes()); err != nil {
		return wrapIOError(err)
	}
	return nil
}

// recvEnvelope performs the receive-side of the framing handshake: read
// gamma(N), echo it back verbatim, read exactly N bytes, then decode the
// envelope. maxMessageSize bounds N; an oversize N is rejected with
// ErrOversize before any payload bytes are read.
func recvEnvelope(conn net.Conn, maxMessageSize int64) (Envelope, error) {
	var zero Envelope

	n, raw, err := wire.ReadGammaStream(conn)
	if err != nil {
		return zero, wrapIOError(err)
	}
	if n < 0 || n > maxMessageSize {
		return zero, fmt.Errorf("%w: declared size %d exceeds limit %d", ErrOversize, n, maxMessageSize)
	}

	// Echo the exact bytes just consumed back to the sender. Oversize sizes
	// are rejected above without echoing: the receive procedure fails
	// Oversize before the echo step ever runs.
	if err := wire.WriteFull(conn, raw); err != nil {
		return zero, wrapIOError(err)
	}

	payload := make([]byte, n)
	if err := wire.ReadFull(conn, payload); err != nil {
		return zero, wrapIOError(err)
	}

	buf := wire.NewBuffer(len(payload))
	buf.WriteRaw(payload, len(payload))
	env, err := decodeEnvelope(buf)
	if err != nil {
		return env, translateDecodeErr(err)
	}
	return env, nil
}

// wrapIOError normalizes network-layer errors into the package's sentinel
// kinds: a clean peer close becomes ErrClosed, everything else is reported
// as-is (the caller treats any non-nil error here as connection loss and
// tears the worker/client down).
func wrapIOError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrClosed
	}
	return err
}

// translateDecodeErr maps the internal/wire decode error kinds onto the
// package-level sentinels used by the propagation policy.
func translateDecodeErr(err error) error {
	switch {
	case errors.Is(err, wire.ErrMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, wire.ErrShortInput), errors.Is(err, wire.ErrUnderrun):
		return fmt.Errorf("%w: %v", ErrShortInput, err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrClosed
	default:
		return err
	}
}
