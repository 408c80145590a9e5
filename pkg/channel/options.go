package channel

import (
	"time"

	"wirecall/pkg/handshake"
	"wirecall/pkg/protocol/codec"
	"wirecall/pkg/transport"
	"wirecall/pkg/transport/tcp"
)

// DefaultTimeout bounds the connect attempt when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Compressor compresses dispatch payloads. The channel carries it opaquely
// for the dispatch layer and never invokes it.
type Compressor interface {
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}

// Options configure a channel construction.
type Options struct {
	Timeout     time.Duration
	Contract    string
	Credentials *handshake.Credentials
	Dialer      transport.Dialer
	Codec       codec.Codec
	Compressor  Compressor
}

// Option mutates Options.
type Option func(*Options)

// WithTimeout bounds the connect attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithContract names the service contract the remote must serve.
func WithContract(contract string) Option {
	return func(o *Options) { o.Contract = contract }
}

// WithCredentials selects the secure variant. Both fields are required;
// supplying only one fails construction before any network activity.
func WithCredentials(username, password string) Option {
	return func(o *Options) {
		o.Credentials = &handshake.Credentials{Username: username, Password: password}
	}
}

// WithDialer substitutes the transport dialer (TCP when unset).
func WithDialer(d transport.Dialer) Option {
	return func(o *Options) { o.Dialer = d }
}

// WithCodec injects the payload serializer handed through to the dispatch
// layer. Its contents are not interpreted here.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) { o.Codec = c }
}

// WithCompressor injects the payload compressor handed through to the
// dispatch layer. Its contents are not interpreted here.
func WithCompressor(c Compressor) Option {
	return func(o *Options) { o.Compressor = c }
}

func defaultOptions() Options {
	return Options{
		Timeout: DefaultTimeout,
		Dialer:  tcp.New(),
		Codec:   codec.CBOR(),
	}
}
