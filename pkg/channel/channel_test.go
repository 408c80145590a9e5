package channel

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wirecall/pkg/endpoint"
	"wirecall/pkg/handshake"
	"wirecall/pkg/protocol"
	"wirecall/pkg/protocol/stream"
	"wirecall/pkg/transport"
	"wirecall/pkg/transport/mem"
)

const testContract = "test.Arith"

// recordingDialer wraps a dialer, counting attempts and tracking every
// connection it hands out so tests can assert release behavior.
type recordingDialer struct {
	inner transport.Dialer
	calls atomic.Int32

	mu    sync.Mutex
	conns []*trackedConn
}

func (d *recordingDialer) Dial(ep endpoint.Endpoint, timeout time.Duration) (net.Conn, error) {
	d.calls.Add(1)
	c, err := d.inner.Dial(ep, timeout)
	if err != nil {
		return nil, err
	}
	tc := &trackedConn{Conn: c}
	d.mu.Lock()
	d.conns = append(d.conns, tc)
	d.mu.Unlock()
	return tc, nil
}

func (d *recordingDialer) openConns() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	open := 0
	for _, c := range d.conns {
		if !c.closed.Load() {
			open++
		}
	}
	return open
}

type trackedConn struct {
	net.Conn
	closed atomic.Bool
}

func (c *trackedConn) Close() error {
	c.closed.Store(true)
	return c.Conn.Close()
}

// serveHandshake accepts one connection and answers its handshake with the
// given contract and credential expectations.
func serveHandshake(t *testing.T, l net.Listener, contract string, creds *handshake.Credentials) {
	t.Helper()
	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		sc := stream.New(c)
		_, _ = handshake.Respond(sc, contract, handshake.StaticVerifier(contract, creds))
	}()
}

func listen(t *testing.T, n *mem.Network, ep endpoint.Endpoint) net.Listener {
	t.Helper()
	l, err := n.Listen(ep)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestDialReady(t *testing.T) {
	n := mem.NewNetwork()
	ep := endpoint.New("svc", 1)
	serveHandshake(t, listen(t, n, ep), testContract, nil)

	ch, err := Dial(ep, WithDialer(n), WithContract(testContract))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if !ch.IsAlive() {
		t.Fatalf("fresh channel not alive")
	}
	if got := ch.State(); got != StateReady {
		t.Fatalf("state = %v", got)
	}
	if want := endpoint.NewID(ep); ch.ID() != want {
		t.Fatalf("id = %v, want %v", ch.ID(), want)
	}

	if err := ch.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if ch.IsAlive() {
		t.Fatalf("closed channel still alive")
	}
	if got := ch.State(); got != StateClosed {
		t.Fatalf("state after close = %v", got)
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("second close not a no-op: %v", err)
	}
}

func TestDialSecure(t *testing.T) {
	n := mem.NewNetwork()
	ep := endpoint.New("svc", 2)
	creds := &handshake.Credentials{Username: "alice", Password: "s3cret"}
	serveHandshake(t, listen(t, n, ep), testContract, creds)

	ch, err := Dial(ep,
		WithDialer(n),
		WithContract(testContract),
		WithCredentials("alice", "s3cret"))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ch.Close()
	if !ch.IsAlive() {
		t.Fatalf("secure channel not alive")
	}
}

func TestDialPartialCredentialsNoNetworkIO(t *testing.T) {
	n := mem.NewNetwork()
	ep := endpoint.New("svc", 3)
	rd := &recordingDialer{inner: n}

	for _, opt := range []Option{
		WithCredentials("alice", ""),
		WithCredentials("", "s3cret"),
	} {
		_, err := Dial(ep, WithDialer(rd), WithContract(testContract), opt)
		if !errors.Is(err, ErrArgumentMissing) {
			t.Fatalf("want ErrArgumentMissing, got %v", err)
		}
	}
	if got := rd.calls.Load(); got != 0 {
		t.Fatalf("dialer invoked %d times before validation", got)
	}
}

func TestDialMissingEndpoint(t *testing.T) {
	_, err := Dial(endpoint.Endpoint{}, WithContract(testContract))
	if !errors.Is(err, ErrArgumentMissing) {
		t.Fatalf("want ErrArgumentMissing, got %v", err)
	}
}

func TestDialNonPositiveTimeout(t *testing.T) {
	_, err := Dial(endpoint.New("svc", 4), WithContract(testContract), WithTimeout(0))
	if !errors.Is(err, ErrArgumentMissing) {
		t.Fatalf("want ErrArgumentMissing, got %v", err)
	}
}

func TestDialConnectTimeout(t *testing.T) {
	n := mem.NewNetwork()
	ep := endpoint.New("busy", 5)
	listen(t, n, ep) // never accepts

	// Saturate the pending-connection backlog so the next dial must wait.
	for i := 0; i < 8; i++ {
		c, err := n.Dial(ep, time.Second)
		if err != nil {
			t.Fatalf("backlog dial %d: %v", i, err)
		}
		defer c.Close()
	}

	timeout := 100 * time.Millisecond
	start := time.Now()
	_, err := Dial(ep, WithDialer(n), WithContract(testContract), WithTimeout(timeout))
	if !errors.Is(err, transport.ErrConnectTimeout) {
		t.Fatalf("want ErrConnectTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > timeout+500*time.Millisecond {
		t.Fatalf("dial blocked %v past the bound", elapsed)
	}
}

func TestDialHandshakeRejectedReleasesConn(t *testing.T) {
	n := mem.NewNetwork()
	ep := endpoint.New("svc", 6)
	// Server serves a different contract, so the hello is rejected.
	serveHandshake(t, listen(t, n, ep), "other.Service", nil)
	rd := &recordingDialer{inner: n}

	_, err := Dial(ep, WithDialer(rd), WithContract(testContract))
	var he *handshake.Error
	if !errors.As(err, &he) {
		t.Fatalf("want *handshake.Error, got %v", err)
	}
	if open := rd.openConns(); open != 0 {
		t.Fatalf("%d connections left open after failed handshake", open)
	}
}

func TestDialPeerClosesBeforeAckReleasesConn(t *testing.T) {
	n := mem.NewNetwork()
	ep := endpoint.New("svc", 7)
	l := listen(t, n, ep)
	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		sc := stream.New(c)
		// Consume the hello, then drop the transport without replying.
		var m protocol.Message
		_ = sc.Recv(&m)
		_ = sc.Close()
	}()
	rd := &recordingDialer{inner: n}

	_, err := Dial(ep, WithDialer(rd), WithContract(testContract))
	var he *handshake.Error
	if !errors.As(err, &he) {
		t.Fatalf("want *handshake.Error, got %v", err)
	}
	if open := rd.openConns(); open != 0 {
		t.Fatalf("%d connections left open after aborted handshake", open)
	}
}

func TestDialTransportErrorPropagates(t *testing.T) {
	n := mem.NewNetwork()
	_, err := Dial(endpoint.New("nobody", 8), WithDialer(n), WithContract(testContract))
	var te *transport.Error
	if !errors.As(err, &te) {
		t.Fatalf("want *transport.Error, got %v", err)
	}
}
