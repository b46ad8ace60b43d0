// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rpc implements a minimal synchronous remote-procedure-call
// protocol over a length-framed binary stream.
//
// Semantics and design:
//   - Wire format: every message is an envelope {request_id, operation,
//     function_name, payload}, carried as Gamma(N) || Gamma(N_echo) ||
//     Bytes[N] — the receiver echoes the declared size back before the
//     sender transmits the payload, so a desynchronized stream is caught
//     before any payload bytes are misread as a header.
//   - Four operations: FIND resolves a name to a Handle, CALL invokes a
//     resolved name with a payload, REPLY_SUCCESS/REPLY_FAILURE carry a
//     handler's result back. Servers never originate a CALL or FIND; a
//     REPLY_* received by a server is logged and dropped.
//   - One worker goroutine per accepted connection processes that
//     connection's requests strictly in arrival order; a Client issues at
//     most one outstanding request per connection at a time.
//   - Payload.Blob is an opaque byte string the core never interprets;
//     handlers are arbitrary caller-supplied Go functions.
//
// Wire size limits: MaxMessageSize bounds a single envelope to 1,000,000
// bytes; MaxNameLen bounds function_name to 1000 bytes.
package rpc
