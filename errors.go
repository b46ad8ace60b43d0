// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpc

import "errors"

// Sentinel errors surfaced by the core.
//
// Propagation policy: ErrMalformed, ErrOversize, ErrFramingMismatch and
// network I/O errors end the connection's worker; ErrHandlerAbsent and
// ErrHandlerFailed are turned into a REPLY_FAILURE envelope and never tear
// the connection down; ErrInvalidArgument is local-fail-fast and never
// touches the wire.
var (
	// ErrInvalidArgument reports an API call with an absent required input,
	// or a name outside the 1..=1000 byte range.
	ErrInvalidArgument = errors.New("rpc: invalid argument")

	// ErrMalformed reports wire bytes that violate the gamma or envelope
	// grammar.
	ErrMalformed = errors.New("rpc: malformed message")

	// ErrOversize reports a framed size exceeding MaxMessageSize.
	ErrOversize = errors.New("rpc: message exceeds maximum size")

	// ErrFramingMismatch reports that the echoed size did not equal the
	// size that was sent.
	ErrFramingMismatch = errors.New("rpc: framing echo mismatch")

	// ErrShortInput reports a buffer decode that needs bytes not present.
	ErrShortInput = errors.New("rpc: short input")

	// ErrClosed reports that the peer closed the stream.
	ErrClosed = errors.New("rpc: connection closed")

	// ErrHandlerAbsent reports a CALL for a name not in the registry.
	ErrHandlerAbsent = errors.New("rpc: handler not found")

	// ErrHandlerFailed reports a handler that returned an absent or
	// malformed payload.
	ErrHandlerFailed = errors.New("rpc: handler failed")

	// ErrServerClosed is returned by Serve after a successful Shutdown.
	ErrServerClosed = errors.New("rpc: server closed")

	// ErrClientClosed is returned by Find/Call on a Client that has already
	// been closed.
	ErrClientClosed = errors.New("rpc: client closed")
)
