// Package stream frames protocol messages over an exclusively owned
// network connection.
package stream

import (
	"bufio"
	"net"
	"sync"
	"sync/atomic"

	"wirecall/pkg/protocol"
)

// Conn wraps a net.Conn to send and receive protocol.Message frames.
// It takes exclusive ownership of the connection: Close releases the
// underlying socket, and no other reader or writer may touch it.
type Conn struct {
	c  net.Conn
	br *bufio.Reader
	bw *bufio.Writer

	wmu    sync.Mutex
	broken atomic.Bool
	once   sync.Once
}

// New wraps c in buffered framing and assumes ownership of it.
func New(c net.Conn) *Conn {
	return &Conn{c: c, br: bufio.NewReader(c), bw: bufio.NewWriter(c)}
}

// Send writes one message frame and flushes it.
func (c *Conn) Send(m *protocol.Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := m.WriteTo(c.bw); err != nil {
		c.broken.Store(true)
		return err
	}
	if err := c.bw.Flush(); err != nil {
		c.broken.Store(true)
		return err
	}
	return nil
}

// Recv reads the next message frame into m.
func (c *Conn) Recv(m *protocol.Message) error {
	if _, err := m.ReadFrom(c.br); err != nil {
		c.broken.Store(true)
		return err
	}
	return nil
}

// Broken reports whether any frame operation has failed or the conn was
// closed. It reflects observed transport outcomes, not an assumption.
func (c *Conn) Broken() bool { return c.broken.Load() }

// LocalAddr returns the local address of the underlying connection.
func (c *Conn) LocalAddr() net.Addr { return c.c.LocalAddr() }

// RemoteAddr returns the remote address of the underlying connection.
func (c *Conn) RemoteAddr() net.Addr { return c.c.RemoteAddr() }

// Close releases the underlying connection. The first call closes the
// socket; later calls are no-ops and return nil. Safe from any goroutine,
// including concurrently with Send or Recv.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		c.broken.Store(true)
		err = c.c.Close()
	})
	return err
}
