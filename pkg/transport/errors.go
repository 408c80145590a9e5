package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectTimeout reports that the transport did not come up within
	// the configured bound. The attempt's socket is released before this
	// error surfaces.
	ErrConnectTimeout = errors.New("transport: connect timed out")

	// ErrNotConnected reports a dial that returned neither an error nor a
	// usable connection.
	ErrNotConnected = errors.New("transport: dial succeeded but connection is not live")
)

// Error carries the native transport-layer cause of a failed operation.
// Match with errors.As; Unwrap exposes the underlying error (e.g. a
// *net.OpError) for code inspection.
type Error struct {
	Addr string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Addr, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
