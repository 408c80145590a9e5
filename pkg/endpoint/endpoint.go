// Package endpoint defines the resolved remote address value and the
// identifier upper layers use to cache and look up channels.
package endpoint

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spaolacci/murmur3"
)

// Endpoint is a resolved remote address (host + port). It is an immutable
// value; no name resolution happens here.
type Endpoint struct {
	Host string
	Port uint16
}

// New builds an Endpoint from a host and port.
func New(host string, port uint16) Endpoint {
	return Endpoint{Host: host, Port: port}
}

// Parse splits a "host:port" string into an Endpoint.
func Parse(addr string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("endpoint: parse %q: %w", addr, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Endpoint{}, fmt.Errorf("endpoint: bad port in %q: %w", addr, err)
	}
	return Endpoint{Host: host, Port: uint16(port)}, nil
}

// Addr returns the dialable "host:port" form.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// IsZero reports whether the endpoint is missing a host or port.
func (e Endpoint) IsZero() bool { return e.Host == "" || e.Port == 0 }

func (e Endpoint) String() string { return e.Addr() }

// ID identifies an endpoint for channel caching and lookup. Two IDs are
// equal iff their endpoints share host and port; the hash is derived only
// from host and port, so equal IDs always hash equal. ID is comparable and
// usable as a map key.
type ID struct {
	addr string
	hash uint64
}

// NewID derives the identifier for an endpoint.
func NewID(e Endpoint) ID {
	addr := e.Addr()
	return ID{addr: addr, hash: murmur3.Sum64([]byte(addr))}
}

// Equal reports whether two identifiers refer to the same endpoint.
func (id ID) Equal(other ID) bool { return id.addr == other.addr }

// Hash returns the stable 64-bit hash of the endpoint address.
func (id ID) Hash() uint64 { return id.hash }

func (id ID) String() string { return id.addr }
