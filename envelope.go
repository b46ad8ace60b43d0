// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpc

import (
	"fmt"

	"github.com/d4vidsha/rpc-framework/internal/wire"
)

// Operation is one of the four wire operations carried by every envelope.
type Operation int64

const (
	OpFind          Operation = 0
	OpCall          Operation = 1
	OpReplySuccess  Operation = 2
	OpReplyFailure  Operation = 3
)

func (op Operation) String() string {
	switch op {
	case OpFind:
		return "FIND"
	case OpCall:
		return "CALL"
	case OpReplySuccess:
		return "REPLY_SUCCESS"
	case OpReplyFailure:
		return "REPLY_FAILURE"
	default:
		return fmt.Sprintf("Operation(%d)", int64(op))
	}
}

// MaxNameLen is the maximum length, in bytes, of a function/handle name,
// excluding the wire terminator.
const MaxNameLen = 1000

// failureName is the placeholder function_name carried on a synthesized
// REPLY_FAILURE envelope. The name field is not meaningful on failure
// replies; callers must not rely on its value.
const failureName = "<failure>"

// Payload is the {scalar, blob_len, blob} triple carried inside every
// envelope. BlobLen is kept as an explicit field, separate from len(Blob),
// so that a decoded wire form which violates the presence invariant can be
// represented and rejected rather than silently normalized.
type Payload struct {
	Scalar  int64
	BlobLen int64
	Blob    []byte
}

// NewPayload builds a well-formed Payload from a scalar and an optional
// blob. A nil or zero-length blob always yields BlobLen==0 and Blob==nil,
// so values built through this constructor trivially satisfy Validate.
func NewPayload(scalar int64, blob []byte) Payload {
	if len(blob) == 0 {
		return Payload{Scalar: scalar}
	}
	return Payload{Scalar: scalar, BlobLen: int64(len(blob)), Blob: blob}
}

// vacuousPayload is the {scalar=0, blob_len=0, blob=absent} payload carried
// by FIND requests and other semantically-empty messages.
var vacuousPayload = Payload{}

// Validate enforces the payload invariant: (blob_len == 0) iff (blob is
// absent). Any other combination is malformed.
func (p Payload) Validate() error {
	absent := p.Blob == nil
	switch {
	case p.BlobLen == 0 && !absent:
		return fmt.Errorf("%w: blob_len=0 but blob is present", ErrMalformed)
	case p.BlobLen != 0 && absent:
		return fmt.Errorf("%w: blob_len=%d but blob is absent", ErrMalformed, p.BlobLen)
	case p.BlobLen < 0:
		return fmt.Errorf("%w: negative blob_len", ErrMalformed)
	case !absent && int64(len(p.Blob)) != p.BlobLen:
		return fmt.Errorf("%w: blob_len=%d but len(blob)=%d", ErrMalformed, p.BlobLen, len(p.Blob))
	}
	return nil
}

// Envelope is the full request/reply record on the wire.
type Envelope struct {
	RequestID int64
	Op        Operation
	Name      string
	Payload   Payload
}

// Validate enforces the envelope invariants: a non-empty name no longer
// than MaxNameLen bytes, and a well-formed payload.
func (e Envelope) Validate() error {
	if n := len(e.Name); n < 1 || n > MaxNameLen {
		return fmt.Errorf("%w: name length %d outside 1..=%d", ErrInvalidArgument, n, MaxNameLen)
	}
	return e.Payload.Validate()
}

// encodeEnvelope serializes e into buf in field order: request_id,
// operation, function_name, payload.scalar, payload.blob_len, payload.blob.
func encodeEnvelope(buf *wire.Buffer, e Envelope) error {
	if err := e.Validate(); err != nil {
		return err
	}
	wire.EncodeInt64(buf, e.RequestID)
	wire.EncodeInt64(buf, int64(e.Op))
	wire.EncodeString(buf, e.Name)
	wire.EncodeInt64(buf, e.Payload.Scalar)
	wire.EncodeBlob(buf, e.Payload.Blob)
	return nil
}

// decodeEnvelope deserializes an Envelope from buf. On a truncated blob,
// decodeEnvelope still returns an Envelope carrying whatever partial blob
// bytes were available (a diagnostic-only partial record) alongside a
// non-nil error; callers must treat the Envelope as invalid and must not
// act on Payload.Blob in that case.
func decodeEnvelope(buf *wire.Buffer) (Envelope, error) {
	var e Envelope

	reqID, err := wire.DecodeInt64(buf)
	if err != nil {
		return e, err
	}
	e.RequestID = reqID

	opRaw, err := wire.DecodeInt64(buf)
	if err != nil {
		return e, err
	}
	e.Op = Operation(opRaw)

	name, err := wire.DecodeString(buf)
	if err != nil {
		return e, err
	}
	if len(name) < 1 || len(name) > MaxNameLen {
		return e, fmt.Errorf("%w: name length %d outside 1..=%d", ErrMalformed, len(name), MaxNameLen)
	}
	e.Name = name

	scalar, err := wire.DecodeInt64(buf)
	if err != nil {
		return e, err
	}
	e.Payload.Scalar = scalar

	blob, err := wire.DecodeBlob(buf)
	if err != nil {
		e.Payload.Blob = blob
		if len(blob) > 0 {
			e.Payload.BlobLen = int64(len(blob))
		}
		return e, err
	}
	e.Payload = NewPayload(scalar, blob)
	return e, nil
}
