// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpc

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/d4vidsha/rpc-framework/internal/wire"
)

// Client owns a single connection to one server and issues FIND/CALL
// requests sequentially, matching replies to requests by the order they
// were sent on this connection. A Client is not safe for concurrent use by
// multiple goroutines: a stream offers no way to demultiplex interleaved
// requests without an additional correlation layer.
type Client struct {
	conn net.Conn
	opts clientOptions

	mu        sync.Mutex
	nextReqID int64
	closed    atomic.Bool
}

// Dial connects to address and returns a ready Client.
func Dial(address string, opts ...ClientOption) (*Client, error) {
	o := defaultClientOptions()
	for _, fn := range opts {
		fn(&o)
	}

	conn, err := net.DialTimeout("tcp", address, o.dialTimeout)
	if err != nil {
		o.logger.Debug().Str("address", address).Err(err).Msg("dial failed")
		return nil, fmt.Errorf("rpc: dial %s: %w", address, err)
	}
	o.logger.Debug().Str("address", address).Msg("dialed")

	return &Client{conn: conn, opts: o}, nil
}

// Find resolves name on the server and returns a Handle for subsequent
// Call invocations. It sends a FIND request with the vacuous payload and
// succeeds only when the server's reply is REPLY_SUCCESS with scalar==1;
// any other reply, including a well-formed REPLY_SUCCESS with scalar==0
// (name not registered), is reported as ErrHandlerAbsent. A send or receive
// failure is returned as that error.
func (c *Client) Find(name string) (Handle, error) {
	reply, err := c.roundTrip(OpFind, name, vacuousPayload)
	if err != nil {
		return Handle{}, err
	}
	if reply.Op != OpReplySuccess || reply.Payload.Scalar != 1 {
		return Handle{}, fmt.Errorf("%w: %q not registered", ErrHandlerAbsent, name)
	}
	return newHandle(name)
}

// Call invokes the remote function identified by h with the given payload
// and returns its result. payload must satisfy Payload.Validate before
// anything is sent (a local fail-fast for invalid arguments); a
// REPLY_FAILURE from the server surfaces as ErrHandlerFailed.
func (c *Client) Call(h Handle, payload Payload) (Payload, error) {
	if h.IsZero() {
		return Payload{}, fmt.Errorf("%w: zero Handle", ErrInvalidArgument)
	}
	if err := payload.Validate(); err != nil {
		return Payload{}, err
	}

	reply, err := c.roundTrip(OpCall, h.name, payload)
	if err != nil {
		return Payload{}, err
	}
	if reply.Op != OpReplySuccess {
		return Payload{}, fmt.Errorf("%w: %q", ErrHandlerFailed, h.name)
	}
	return reply.Payload, nil
}

// roundTrip sends one envelope and blocks for its reply, enforcing a
// strictly sequential request/reply discipline: no second request is sent
// on this connection until the first's reply (or an error) has been
// observed.
func (c *Client) roundTrip(op Operation, name string, payload Payload) (Envelope, error) {
	if c.closed.Load() {
		return Envelope{}, ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextReqID++
	req := Envelope{
		RequestID: c.nextReqID,
		Op:        op,
		Name:      name,
		Payload:   payload,
	}

	if err := sendEnvelope(c.conn, req, wire.MaxMessageSize); err != nil {
		c.opts.logger.Warn().Stringer("op", op).Str("name", name).Err(err).Msg("send failed")
		return Envelope{}, err
	}

	reply, err := recvEnvelope(c.conn, wire.MaxMessageSize)
	if err != nil {
		c.opts.logger.Warn().Stringer("op", op).Str("name", name).Err(err).Msg("receive failed")
		return Envelope{}, err
	}
	if reply.RequestID != req.RequestID {
		return Envelope{}, fmt.Errorf("%w: reply request_id %d, want %d", ErrFramingMismatch, reply.RequestID, req.RequestID)
	}
	return reply, nil
}

// Close ends the connection. Close is idempotent; subsequent Find/Call
// calls return ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := c.conn.Close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		c.opts.logger.Debug().Err(err).Msg("close failed")
		return err
	}
	c.opts.logger.Debug().Msg("closed")
	return nil
}
