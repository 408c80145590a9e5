package channel

import (
	"net"
	"sync"

	"wirecall/pkg/protocol/stream"
)

// guard owns the socket and its framing for the lifetime of one channel.
// release is idempotent and safe from any goroutine: the first call drops
// every owned handle, later calls are no-ops. It serves both explicit close
// and error unwind during construction.
type guard struct {
	once sync.Once
	conn net.Conn
	sc   *stream.Conn
}

func (g *guard) release() error {
	var err error
	g.once.Do(func() {
		if g.sc != nil {
			// The framed conn exclusively owns the socket.
			err = g.sc.Close()
		} else if g.conn != nil {
			err = g.conn.Close()
		}
	})
	return err
}
