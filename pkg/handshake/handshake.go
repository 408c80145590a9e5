// Package handshake performs the initial identity exchange on a freshly
// established transport: the client asserts which service contract it
// expects to invoke and optionally presents credentials; the server accepts
// or rejects before any method dispatch begins.
package handshake

import (
	"errors"
	"fmt"

	"wirecall/pkg/protocol"
	"wirecall/pkg/protocol/codec"
	"wirecall/pkg/protocol/stream"
)

const version = 1

// The handshake owns its own message layout; dispatch payloads use the
// injected codec instead.
var wire = codec.CBOR()

// Credentials is an optional username/password pair presented during the
// handshake. Callers must supply both fields or neither.
type Credentials struct {
	Username string
	Password string
}

// Partial reports whether exactly one of the two fields is set.
func (c Credentials) Partial() bool {
	return (c.Username == "") != (c.Password == "")
}

// Hello is the client's opening message.
type Hello struct {
	Version  uint32 `cbor:"ver"`
	Contract string `cbor:"contract"`
	Username string `cbor:"user,omitempty"`
	Password string `cbor:"pass,omitempty"`
}

// Ack is the server's reply.
type Ack struct {
	Accepted bool   `cbor:"accepted"`
	Contract string `cbor:"contract"`
	Reason   string `cbor:"reason,omitempty"`
}

// Error reports a rejected or failed handshake. The transport must be torn
// down whenever one is returned; an open but unvalidated channel is never
// observable.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("handshake: %s: %v", e.Reason, e.Err)
	}
	return "handshake: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// Negotiate runs the client side of the exchange over sc: one Hello out,
// one Ack back. creds may be nil for the non-secure variant; it is used for
// the single send and retained nowhere. Any rejection, malformed reply or
// I/O failure returns *Error.
func Negotiate(sc *stream.Conn, contract string, creds *Credentials) error {
	hello := Hello{Version: version, Contract: contract}
	if creds != nil {
		hello.Username = creds.Username
		hello.Password = creds.Password
	}
	payload, err := wire.Marshal(hello)
	if err != nil {
		return &Error{Reason: "encode hello", Err: err}
	}
	corr, err := protocol.NewCorrelation()
	if err != nil {
		return &Error{Reason: "correlation", Err: err}
	}
	req := protocol.Message{
		Header:  protocol.Header{Version: version, Type: protocol.MsgHello, Correlation: corr},
		Payload: payload,
	}
	if err := sc.Send(&req); err != nil {
		return &Error{Reason: "send hello", Err: err}
	}

	var resp protocol.Message
	if err := sc.Recv(&resp); err != nil {
		return &Error{Reason: "recv ack", Err: err}
	}
	if resp.Header.Type != protocol.MsgHelloAck {
		return &Error{Reason: fmt.Sprintf("unexpected reply type %d", resp.Header.Type)}
	}
	if resp.Header.Correlation != corr {
		return &Error{Reason: "ack correlation mismatch"}
	}
	var ack Ack
	if err := wire.Unmarshal(resp.Payload, &ack); err != nil {
		return &Error{Reason: "decode ack", Err: err}
	}
	if !ack.Accepted {
		reason := ack.Reason
		if reason == "" {
			reason = "rejected by remote"
		}
		return &Error{Reason: reason}
	}
	if ack.Contract != contract {
		return &Error{Reason: fmt.Sprintf("remote serves contract %q, want %q", ack.Contract, contract)}
	}
	return nil
}

// VerifyFunc decides whether an incoming Hello is acceptable. A nil return
// accepts; any error rejects with the error text as the reason.
type VerifyFunc func(h Hello) error

// StaticVerifier accepts hellos that name the given contract and, when
// creds is non-nil, carry matching credentials.
func StaticVerifier(contract string, creds *Credentials) VerifyFunc {
	return func(h Hello) error {
		if h.Contract != contract {
			return errors.New("unknown contract")
		}
		if creds != nil && (h.Username != creds.Username || h.Password != creds.Password) {
			return errors.New("invalid credentials")
		}
		return nil
	}
}

// Respond runs the server side of the exchange over sc: one Hello in, one
// Ack out. The accepted Hello is returned so the caller can bind the
// connection to its identity.
func Respond(sc *stream.Conn, contract string, verify VerifyFunc) (Hello, error) {
	var req protocol.Message
	if err := sc.Recv(&req); err != nil {
		return Hello{}, &Error{Reason: "recv hello", Err: err}
	}
	if req.Header.Type != protocol.MsgHello {
		return Hello{}, &Error{Reason: fmt.Sprintf("unexpected request type %d", req.Header.Type)}
	}
	var hello Hello
	if err := wire.Unmarshal(req.Payload, &hello); err != nil {
		return Hello{}, &Error{Reason: "decode hello", Err: err}
	}

	ack := Ack{Accepted: true, Contract: contract}
	var verr error
	if verify != nil {
		if verr = verify(hello); verr != nil {
			ack = Ack{Accepted: false, Reason: verr.Error()}
		}
	}
	payload, err := wire.Marshal(ack)
	if err != nil {
		return Hello{}, &Error{Reason: "encode ack", Err: err}
	}
	resp := protocol.Message{
		Header:  protocol.Header{Version: version, Type: protocol.MsgHelloAck, Correlation: req.Header.Correlation},
		Payload: payload,
	}
	if err := sc.Send(&resp); err != nil {
		return Hello{}, &Error{Reason: "send ack", Err: err}
	}
	if verr != nil {
		return Hello{}, &Error{Reason: verr.Error()}
	}
	return hello, nil
}
