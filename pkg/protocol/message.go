// Package protocol defines the framed message layout carried over an
// established channel: a fixed binary header followed by an opaque payload.
package protocol

import (
	"fmt"
	"io"
)

// Message is a header + payload pair for a single channel transfer.
type Message struct {
	Header  Header
	Payload []byte
}

// HasFlag checks whether a flag is set.
func (m *Message) HasFlag(flag uint32) bool { return (m.Header.Flags & flag) != 0 }

// SetFlag sets or clears a flag.
func (m *Message) SetFlag(flag uint32, on bool) {
	if on {
		m.Header.Flags |= flag
	} else {
		m.Header.Flags &^= flag
	}
}

// WriteTo writes header + payload to w.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	m.Header.PayloadLen = uint32(len(m.Payload))
	hb, err := m.Header.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n1, err := w.Write(hb)
	if err != nil {
		return int64(n1), err
	}
	n2, err := w.Write(m.Payload)
	return int64(n1 + n2), err
}

// ReadFrom reads header + payload from r.
func (m *Message) ReadFrom(r io.Reader) (int64, error) {
	hb := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hb); err != nil {
		return 0, err
	}
	if err := m.Header.UnmarshalBinary(hb); err != nil {
		return 0, err
	}
	if m.Header.PayloadLen > MaxPayload {
		return 0, fmt.Errorf("payload too large: %d", m.Header.PayloadLen)
	}
	if m.Header.PayloadLen > 0 {
		m.Payload = make([]byte, int(m.Header.PayloadLen))
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return 0, err
		}
	} else {
		m.Payload = nil
	}
	return int64(headerSize + int(m.Header.PayloadLen)), nil
}
