// Package mem is an in-process transport backed by net.Pipe. It exists for
// tests and local demos that need a real dial/accept flow without sockets.
package mem

import (
	"errors"
	"net"
	"sync"
	"time"

	"wirecall/pkg/endpoint"
	"wirecall/pkg/transport"
)

// Network is a registry of in-process listeners keyed by endpoint address.
// It implements transport.Dialer for the client side.
type Network struct {
	mu        sync.Mutex
	listeners map[string]*listener
}

// NewNetwork returns an empty in-process network.
func NewNetwork() *Network {
	return &Network{listeners: make(map[string]*listener)}
}

// Listen registers a listener for ep. Accepted connections are delivered
// through the returned net.Listener.
func (n *Network) Listen(ep endpoint.Endpoint) (net.Listener, error) {
	addr := ep.Addr()
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[addr]; ok {
		return nil, &transport.Error{Addr: addr, Err: errAlreadyListening}
	}
	l := &listener{
		parent:  n,
		addr:    addr,
		conns:   make(chan net.Conn, 8),
		closeCh: make(chan struct{}),
	}
	n.listeners[addr] = l
	return l, nil
}

// Dial connects to a registered listener. A missing listener reports a
// refused connection; an unaccepted connection counts as established, as
// with a kernel TCP backlog.
func (n *Network) Dial(ep endpoint.Endpoint, timeout time.Duration) (net.Conn, error) {
	if timeout <= 0 {
		return nil, &transport.Error{Addr: ep.Addr(), Err: errBadTimeout}
	}
	addr := ep.Addr()
	n.mu.Lock()
	l := n.listeners[addr]
	n.mu.Unlock()
	if l == nil {
		return nil, &transport.Error{Addr: addr, Err: errRefused}
	}
	client, server := net.Pipe()
	select {
	case l.conns <- server:
		return client, nil
	case <-l.closeCh:
		_ = client.Close()
		_ = server.Close()
		return nil, &transport.Error{Addr: addr, Err: errRefused}
	case <-time.After(timeout):
		_ = client.Close()
		_ = server.Close()
		return nil, transport.ErrConnectTimeout
	}
}

func (n *Network) remove(addr string) {
	n.mu.Lock()
	delete(n.listeners, addr)
	n.mu.Unlock()
}

type listener struct {
	parent  *Network
	addr    string
	conns   chan net.Conn
	once    sync.Once
	closeCh chan struct{}
}

func (l *listener) Accept() (net.Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-l.closeCh:
		return nil, errClosed
	}
}

func (l *listener) Close() error {
	l.once.Do(func() {
		close(l.closeCh)
		l.parent.remove(l.addr)
	})
	return nil
}

func (l *listener) Addr() net.Addr { return memAddr(l.addr) }

type memAddr string

func (a memAddr) Network() string { return "mem" }
func (a memAddr) String() string  { return string(a) }

var (
	errAlreadyListening = errors.New("mem: listener already exists")
	errBadTimeout       = errors.New("mem: non-positive timeout")
	errRefused          = errors.New("mem: connection refused")
	errClosed           = errors.New("mem: listener closed")
)
