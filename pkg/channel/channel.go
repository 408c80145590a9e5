// Package channel brings up the authenticated client connection beneath a
// remote-invocation framework: it dials the endpoint within a bound,
// validates the remote with a handshake, and hands a ready framed stream to
// the dispatch layer. Construction either yields a Ready channel or fails
// with every acquired resource released.
package channel

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"wirecall/pkg/endpoint"
	"wirecall/pkg/handshake"
	"wirecall/pkg/protocol/codec"
	"wirecall/pkg/protocol/stream"
)

// Channel is one established, validated connection to a remote service.
// It exclusively owns its transport and framing; instances share nothing.
// A channel connects once, at construction, and cannot reconnect.
type Channel struct {
	id    endpoint.ID
	ep    endpoint.Endpoint
	state atomic.Int32

	guard guard
	sc    *stream.Conn

	codec codec.Codec
	comp  Compressor
}

// Dial constructs a channel to ep: transport connect bounded by the
// configured timeout, buffered framing, then the handshake exchange. Any
// failure tears down everything acquired so far before the error surfaces;
// no retries are attempted here.
func Dial(ep endpoint.Endpoint, opts ...Option) (*Channel, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if ep.IsZero() {
		return nil, fmt.Errorf("%w: endpoint", ErrArgumentMissing)
	}
	if o.Timeout <= 0 {
		return nil, fmt.Errorf("%w: positive timeout", ErrArgumentMissing)
	}
	if o.Credentials != nil && o.Credentials.Partial() {
		return nil, fmt.Errorf("%w: credentials require both username and password", ErrArgumentMissing)
	}

	c := &Channel{
		id:    endpoint.NewID(ep),
		ep:    ep,
		codec: o.Codec,
		comp:  o.Compressor,
	}
	c.state.Store(int32(StateConnecting))

	conn, err := o.Dialer.Dial(ep, o.Timeout)
	if err != nil {
		c.state.Store(int32(StateFailed))
		return nil, err
	}
	c.guard.conn = conn
	c.state.Store(int32(StateConnected))

	c.sc = stream.New(conn)
	c.guard.sc = c.sc
	c.state.Store(int32(StateHandshaking))

	if err := handshake.Negotiate(c.sc, o.Contract, o.Credentials); err != nil {
		c.state.Store(int32(StateFailed))
		_ = c.guard.release()
		return nil, err
	}

	c.state.Store(int32(StateReady))
	zap.L().Debug("channel ready",
		zap.String("endpoint", ep.Addr()),
		zap.String("contract", o.Contract))
	return c, nil
}

// ID returns the endpoint identifier upper layers use for caching and
// lookup.
func (c *Channel) ID() endpoint.ID { return c.id }

// Endpoint returns the remote address this channel is bound to.
func (c *Channel) Endpoint() endpoint.Endpoint { return c.ep }

// State returns the current lifecycle state.
func (c *Channel) State() State { return State(c.state.Load()) }

// IsAlive reports whether the channel is usable. It reflects observed
// transport outcomes: a channel stops being alive once released or once any
// frame operation on its stream has failed.
func (c *Channel) IsAlive() bool {
	return c.State() == StateReady && c.sc != nil && !c.sc.Broken()
}

// Stream exposes the framed message stream for the dispatch layer. Only
// valid on a Ready channel.
func (c *Channel) Stream() *stream.Conn { return c.sc }

// Codec returns the injected payload serializer, uninterpreted here.
func (c *Channel) Codec() codec.Codec { return c.codec }

// Compressor returns the injected payload compressor, uninterpreted here.
// It is nil when the caller supplied none.
func (c *Channel) Compressor() Compressor { return c.comp }

// Close releases the transport and framing. The first call tears down; any
// later call, from any goroutine, is a no-op returning nil. Safe to invoke
// concurrently with or after a failed construction.
func (c *Channel) Close() error {
	c.state.CompareAndSwap(int32(StateReady), int32(StateClosed))
	return c.guard.release()
}
