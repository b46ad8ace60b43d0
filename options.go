// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/d4vidsha/rpc-framework/internal/wire"
)

// serverOptions holds Server configuration assembled from ServerOption
// values. Unexported: callers only ever see the With... constructors.
type serverOptions struct {
	logger             zerolog.Logger
	maxMessageSize     int64
	acceptPollInterval time.Duration
}

func defaultServerOptions() serverOptions {
	return serverOptions{
		logger:             defaultLogger(),
		maxMessageSize:     wire.MaxMessageSize,
		acceptPollInterval: 10 * time.Millisecond,
	}
}

// ServerOption configures a Server at construction time.
type ServerOption func(*serverOptions)

// WithLogger overrides the Server's structured logger.
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(o *serverOptions) { o.logger = logger }
}

// WithMaxMessageSize caps the server's accepted envelope size below the
// protocol's own MaxMessageSize (1,000,000 bytes). Values above the
// protocol limit, or <= 0, are ignored.
func WithMaxMessageSize(n int64) ServerOption {
	return func(o *serverOptions) {
		if n > 0 && n <= wire.MaxMessageSize {
			o.maxMessageSize = n
		}
	}
}

// WithAcceptPollInterval overrides the deadline Serve sets on each Accept
// call: how long the accept loop waits for a pending connection before it
// re-checks the shutdown flag (the bounded poll that lets shutdown unblock
// it).
func WithAcceptPollInterval(d time.Duration) ServerOption {
	return func(o *serverOptions) {
		if d > 0 {
			o.acceptPollInterval = d
		}
	}
}

// clientOptions holds Client configuration assembled from ClientOption
// values.
type clientOptions struct {
	logger      zerolog.Logger
	dialTimeout time.Duration
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		logger:      defaultLogger(),
		dialTimeout: 10 * time.Second,
	}
}

// ClientOption configures a Client at construction time.
type ClientOption func(*clientOptions)

// WithClientLogger overrides the Client's structured logger.
func WithClientLogger(logger zerolog.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = logger }
}

// WithDialTimeout bounds how long Dial waits for the initial connection.
func WithDialTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		if d > 0 {
			o.dialTimeout = d
		}
	}
}
