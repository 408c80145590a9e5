package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestMessageRoundtrip(t *testing.T) {
	corr, err := NewCorrelation()
	if err != nil {
		t.Fatalf("correlation: %v", err)
	}
	m := Message{
		Header:  Header{Version: 1, Type: MsgReply, Flags: FlagError, Correlation: corr},
		Payload: []byte("some fault detail"),
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	var d Message
	if _, err := d.ReadFrom(&buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(d.Payload, m.Payload) {
		t.Fatalf("payload mismatch: %q", d.Payload)
	}
	if d.Header.Type != m.Header.Type || d.Header.Flags != m.Header.Flags || d.Header.Correlation != corr {
		t.Fatalf("header mismatch: %#v", d.Header)
	}
}

func TestMessageEmptyPayload(t *testing.T) {
	m := Message{Header: Header{Version: 1, Type: MsgHello}, Payload: nil}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	d := Message{Payload: []byte("stale")}
	if _, err := d.ReadFrom(&buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if d.Payload != nil {
		t.Fatalf("payload not cleared: %q", d.Payload)
	}
}

func TestMessageRejectsOversizedPayload(t *testing.T) {
	h := Header{Version: 1, Type: MsgCall}
	b, _ := h.MarshalBinary()
	binary.LittleEndian.PutUint32(b[8:12], MaxPayload+1)
	var d Message
	if _, err := d.ReadFrom(bytes.NewReader(b)); err == nil {
		t.Fatalf("want payload too large error")
	}
}

func TestMessageFlags(t *testing.T) {
	var m Message
	m.SetFlag(FlagCompressed, true)
	if !m.HasFlag(FlagCompressed) {
		t.Fatalf("flag not set")
	}
	m.SetFlag(FlagCompressed, false)
	if m.HasFlag(FlagCompressed) {
		t.Fatalf("flag not cleared")
	}
}
