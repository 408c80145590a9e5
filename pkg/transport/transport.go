// Package transport establishes the raw stream connection beneath a
// channel. Dialers open exactly one socket per attempt and guarantee that
// no socket outlives a failed or timed-out attempt.
package transport

import (
	"net"
	"time"

	"wirecall/pkg/endpoint"
)

// Dialer opens a transport connection to a resolved endpoint, bounded by
// the given timeout. The call is synchronous: it returns a live connection,
// or one of the errors in this package, within the timeout bound. The
// endpoint must already be resolved; no name lookup is performed.
type Dialer interface {
	Dial(ep endpoint.Endpoint, timeout time.Duration) (net.Conn, error)
}

// Result delivers the outcome of an asynchronous connect attempt through a
// single-use completion channel.
type Result struct {
	Conn net.Conn
	Err  error
}
