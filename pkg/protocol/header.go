package protocol

import (
	"encoding/binary"
	"errors"
)

// Fixed header layout (24 bytes). All integer fields are little-endian.
//
//	0  ..1   Magic   'W''C' (0x5743)
//	2        Version u8
//	3        Type    u8
//	4  ..7   Flags   u32
//	8  ..11  PayloadLen u32
//	12 ..19  Correlation u64
//	20 ..23  Reserved u32
const (
	headerSize = 24
	magicWord  = uint16(0x5743) // 'W''C'
)

// MaxPayload bounds a single frame payload.
const MaxPayload = 1 << 24

// Header describes metadata for one framed message.
type Header struct {
	Version     uint8
	Type        uint8
	Flags       uint32
	PayloadLen  uint32
	Correlation uint64
}

// MarshalBinary encodes the header into a 24-byte buffer.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint16(buf[0:2], magicWord)
	buf[2] = h.Version
	buf[3] = h.Type
	binary.LittleEndian.PutUint32(buf[4:8], h.Flags)
	binary.LittleEndian.PutUint32(buf[8:12], h.PayloadLen)
	binary.LittleEndian.PutUint64(buf[12:20], h.Correlation)
	// 20..23 reserved stays zero
	return buf, nil
}

// UnmarshalBinary decodes the header from a 24-byte buffer.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < headerSize {
		return errors.New("short header")
	}
	if binary.LittleEndian.Uint16(buf[0:2]) != magicWord {
		return errors.New("bad magic")
	}
	h.Version = buf[2]
	h.Type = buf[3]
	h.Flags = binary.LittleEndian.Uint32(buf[4:8])
	h.PayloadLen = binary.LittleEndian.Uint32(buf[8:12])
	h.Correlation = binary.LittleEndian.Uint64(buf[12:20])
	return nil
}
