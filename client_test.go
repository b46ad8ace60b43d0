// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpc

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDialUnreachableAddress(t *testing.T) {
	_, err := Dial("127.0.0.1:1", WithDialTimeout(100*time.Millisecond))
	if err == nil {
		t.Fatalf("Dial to a closed port should fail")
	}
}

func TestClientCallRejectsInvalidPayloadLocally(t *testing.T) {
	srv, err := NewServer("127.0.0.1:0", WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	cl, err := Dial(srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer cl.Close()

	h, err := newHandle("whatever")
	if err != nil {
		t.Fatalf("newHandle: %v", err)
	}

	bad := Payload{BlobLen: 5} // blob absent but blob_len nonzero
	if _, err := cl.Call(h, bad); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Call(invalid payload) err = %v, want ErrMalformed (rejected locally, never sent)", err)
	}
}

func TestClientCallRejectsZeroHandle(t *testing.T) {
	srv, err := NewServer("127.0.0.1:0", WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	cl, err := Dial(srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer cl.Close()

	if _, err := cl.Call(Handle{}, vacuousPayload); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Call(zero Handle) err = %v, want ErrInvalidArgument", err)
	}
}

func TestClientCloseIsIdempotentAndBlocksFurtherCalls(t *testing.T) {
	srv, err := NewServer("127.0.0.1:0", WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	cl, err := Dial(srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	if err := cl.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := cl.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := cl.Find("anything"); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("Find after Close: err = %v, want ErrClientClosed", err)
	}
}
