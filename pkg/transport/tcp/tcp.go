// Package tcp implements the stream transport dialer over TCP.
package tcp

import (
	"context"
	"errors"
	"net"
	"time"

	"wirecall/pkg/endpoint"
	"wirecall/pkg/transport"
)

// Dialer opens TCP connections. The zero value is ready to use.
type Dialer struct {
	// connect overrides the raw connect step; tests use it to control
	// completion timing.
	connect func(ctx context.Context, addr string) (net.Conn, error)
}

// New returns a TCP dialer.
func New() *Dialer { return &Dialer{} }

func (d *Dialer) rawConnect(ctx context.Context, addr string) (net.Conn, error) {
	if d.connect != nil {
		return d.connect(ctx, addr)
	}
	var nd net.Dialer
	return nd.DialContext(ctx, "tcp", addr)
}

// Dial connects to ep within timeout. The connect itself runs on a worker
// goroutine and completes through a single-use buffered channel scoped to
// this call; the caller blocks on that channel with a deadline rather than
// polling. On timeout the in-flight attempt is canceled and any straggler
// socket is closed by the drainer, so no handle outlives the attempt.
func (d *Dialer) Dial(ep endpoint.Endpoint, timeout time.Duration) (net.Conn, error) {
	if timeout <= 0 {
		return nil, &transport.Error{Addr: ep.Addr(), Err: errors.New("non-positive timeout")}
	}
	addr := ep.Addr()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan transport.Result, 1)
	go func() {
		c, err := d.rawConnect(ctx, addr)
		done <- transport.Result{Conn: c, Err: err}
	}()

	select {
	case r := <-done:
		if r.Err != nil {
			if isTimeout(r.Err) {
				// The dialer returns no conn on timeout; nothing to release.
				return nil, transport.ErrConnectTimeout
			}
			return nil, &transport.Error{Addr: addr, Err: r.Err}
		}
		if r.Conn == nil {
			return nil, transport.ErrNotConnected
		}
		return r.Conn, nil
	case <-ctx.Done():
		// Abandon the attempt. The drainer severs the completion channel
		// and releases the socket if the connect races the deadline.
		go func() {
			if r := <-done; r.Conn != nil {
				_ = r.Conn.Close()
			}
		}()
		return nil, transport.ErrConnectTimeout
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
