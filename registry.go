// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpc

import (
	"fmt"
	"sync"
)

// Handler is arbitrary end-application code: given an input payload, it
// returns an output payload, or an error to signal failure. The registry
// and dispatch engine never interpret the payload contents themselves.
type Handler func(Payload) (Payload, error)

// Registry is a name -> Handler associative store with replace-on-duplicate
// semantics. Lookup is O(1) expected, backed by a Go map.
//
// Every access is guarded by a reader-writer lock: Lookup (the hot path,
// called once per request by every worker) takes the read lock, Register
// and Unregister take the write lock. Register remains legal at any time,
// including while Serve is already running.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Handler
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Handler)}
}

// Register adds or replaces the handler bound to name. It fails with
// ErrInvalidArgument if handler is nil or name is outside 1..=MaxNameLen
// bytes.
func (r *Registry) Register(name string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("%w: nil handler", ErrInvalidArgument)
	}
	if n := len(name); n < 1 || n > MaxNameLen {
		return fmt.Errorf("%w: name length %d outside 1..=%d", ErrInvalidArgument, n, MaxNameLen)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = handler
	return nil
}

// Unregister removes name's handler, if any. It is a no-op on an unknown
// name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, name)
}

// Lookup returns the handler bound to name, and whether one was found.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byName[name]
	return h, ok
}
