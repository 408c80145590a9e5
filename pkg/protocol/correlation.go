package protocol

import (
	"crypto/rand"
	"encoding/binary"
	"io"
)

// NewCorrelation generates a random correlation id for request/reply
// matching.
func NewCorrelation() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
