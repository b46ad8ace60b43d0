// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// deadliner is satisfied by net.Listener implementations (notably
// *net.TCPListener) that support a per-call accept deadline. The accept
// loop uses it to turn a blocking Accept into a bounded poll: a short
// deadline lets the loop re-check the shutdown flag between attempts
// without ever needing another goroutine to close the listener out from
// under it.
type deadliner interface {
	SetDeadline(t time.Time) error
}

// Server owns a listening stream, a handler registry, and one worker
// goroutine per accepted connection.
type Server struct {
	listener net.Listener
	registry *Registry
	opts     serverOptions

	shutdown atomic.Bool
	doneCh   chan struct{}

	rosterMu sync.Mutex
	roster   []net.Conn

	accepted   atomic.Int64
	dispatched atomic.Int64
	failed     atomic.Int64
}

// NewServer binds and listens on address (host:port, e.g. "127.0.0.1:9000")
// and returns a Server ready for Register calls and a subsequent Serve.
// Command-line address parsing is the caller's concern; NewServer only
// performs the ordinary listen sequence.
func NewServer(address string, opts ...ServerOption) (*Server, error) {
	o := defaultServerOptions()
	for _, fn := range opts {
		fn(&o)
	}

	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("rpc: listen %s: %w", address, err)
	}

	return &Server{
		listener: ln,
		registry: NewRegistry(),
		opts:     o,
		doneCh:   make(chan struct{}),
	}, nil
}

// Addr returns the listener's bound address, useful when address was given
// as "host:0" to let the OS pick a free port.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Register delegates to the server's Registry.
func (s *Server) Register(name string, handler Handler) error {
	return s.registry.Register(name, handler)
}

// Stats returns the server's running counters: connections accepted,
// requests dispatched, and handler/lookup failures turned into
// REPLY_FAILURE. These exist for diagnostics only.
func (s *Server) Stats() (accepted, dispatched, failed int64) {
	return s.accepted.Load(), s.dispatched.Load(), s.failed.Load()
}

// Serve runs the accept loop until Shutdown is called, spawning one worker
// goroutine per accepted connection. It returns ErrServerClosed once every
// worker has joined.
func (s *Server) Serve() error {
	defer close(s.doneCh)

	dl, pollable := s.listener.(deadliner)

	var g errgroup.Group

	for !s.shutdown.Load() {
		if pollable {
			_ = dl.SetDeadline(time.Now().Add(s.opts.acceptPollInterval))
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if s.shutdown.Load() {
				break
			}
			g.Wait()
			return fmt.Errorf("rpc: accept: %w", err)
		}

		s.accepted.Add(1)
		s.rosterAdd(conn)
		s.opts.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("connection accepted")

		g.Go(func() error {
			s.worker(conn)
			return nil
		})
	}

	g.Wait()
	return ErrServerClosed
}

// Shutdown signals the accept loop and every worker to stop at their next
// iteration boundary, waits for all of them to exit, then closes the
// listening stream.
func (s *Server) Shutdown() error {
	s.shutdown.Store(true)
	<-s.doneCh
	return s.listener.Close()
}

// SignalShutdown calls Shutdown when ctx is done. It does not itself
// register an OS signal handler: wiring os/signal.Notify into ctx (or
// using signal.NotifyContext) remains the caller's concern.
func (s *Server) SignalShutdown(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()
}

func (s *Server) rosterAdd(conn net.Conn) {
	s.rosterMu.Lock()
	s.roster = append(s.roster, conn)
	s.rosterMu.Unlock()
}

func (s *Server) rosterRemove(conn net.Conn) {
	s.rosterMu.Lock()
	defer s.rosterMu.Unlock()
	for i, c := range s.roster {
		if c == conn {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			return
		}
	}
}

// worker handles one accepted connection until the stream closes, a framing
// error occurs, or shutdown is requested. Requests on one connection are
// processed strictly in arrival order: recvEnvelope/dispatch/sendEnvelope
// run sequentially in this single goroutine, which is what gives replies
// their per-connection ordering guarantee.
func (s *Server) worker(conn net.Conn) {
	defer conn.Close()
	defer s.rosterRemove(conn)

	logger := s.opts.logger.With().Str("remote", conn.RemoteAddr().String()).Logger()

	for {
		if s.shutdown.Load() {
			logger.Debug().Msg("worker exiting: shutdown requested")
			return
		}

		req, err := recvEnvelope(conn, s.opts.maxMessageSize)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				logger.Debug().Msg("peer closed connection")
			} else {
				logger.Warn().Err(err).Msg("worker exiting: framing error")
			}
			return
		}

		reply, ignored := s.dispatch(req)
		if ignored {
			continue
		}

		if err := sendEnvelope(conn, reply, s.opts.maxMessageSize); err != nil {
			logger.Warn().Err(err).Msg("worker exiting: failed to send reply")
			return
		}
	}
}

// dispatch implements the request dispatch state machine: FIND resolves a
// name, CALL invokes its handler, and everything else is handled below.
// ignored is true for REPLY_* and unrecognised operations, which are logged
// and dropped rather than answered (servers never expect replies).
func (s *Server) dispatch(req Envelope) (reply Envelope, ignored bool) {
	s.dispatched.Add(1)

	switch req.Op {
	case OpFind:
		_, found := s.registry.Lookup(req.Name)
		scalar := int64(0)
		if found {
			scalar = 1
		}
		return Envelope{
			RequestID: req.RequestID,
			Op:        OpReplySuccess,
			Name:      req.Name,
			Payload:   NewPayload(scalar, nil),
		}, false

	case OpCall:
		handler, found := s.registry.Lookup(req.Name)
		if !found {
			s.failed.Add(1)
			return s.failureReply(req.RequestID), false
		}
		out, err := handler(req.Payload)
		if err != nil {
			s.failed.Add(1)
			s.opts.logger.Debug().Str("name", req.Name).Err(err).Msg("handler failed")
			return s.failureReply(req.RequestID), false
		}
		if verr := out.Validate(); verr != nil {
			s.failed.Add(1)
			s.opts.logger.Warn().Str("name", req.Name).Err(verr).Msg("handler returned malformed payload")
			return s.failureReply(req.RequestID), false
		}
		return Envelope{
			RequestID: req.RequestID,
			Op:        OpReplySuccess,
			Name:      req.Name,
			Payload:   out,
		}, false

	case OpReplySuccess, OpReplyFailure:
		s.opts.logger.Debug().Stringer("op", req.Op).Msg("server received a reply operation, ignoring")
		return Envelope{}, true

	default:
		s.opts.logger.Debug().Int64("op", int64(req.Op)).Msg("unrecognised operation, ignoring")
		return Envelope{}, true
	}
}

func (s *Server) failureReply(requestID int64) Envelope {
	return Envelope{
		RequestID: requestID,
		Op:        OpReplyFailure,
		Name:      failureName,
		Payload:   Payload{},
	}
}
