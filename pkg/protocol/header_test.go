package protocol

import "testing"

func TestHeaderRoundtrip(t *testing.T) {
	h := Header{
		Version:     1,
		Type:        MsgCall,
		Flags:       FlagCompressed | FlagOneWay,
		PayloadLen:  1234,
		Correlation: 0x1122334455667788,
	}

	b, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(b) != headerSize {
		t.Fatalf("header size = %d", len(b))
	}

	var h2 Header
	if err := h2.UnmarshalBinary(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h2 != h {
		t.Fatalf("headers differ: %#v vs %#v", h2, h)
	}
}

func TestHeaderBadMagic(t *testing.T) {
	h := Header{Version: 1, Type: MsgHello}
	b, _ := h.MarshalBinary()
	b[0] ^= 0xFF
	var h2 Header
	if err := h2.UnmarshalBinary(b); err == nil {
		t.Fatalf("want bad magic error")
	}
}

func TestHeaderShortBuffer(t *testing.T) {
	var h Header
	if err := h.UnmarshalBinary(make([]byte, headerSize-1)); err == nil {
		t.Fatalf("want short header error")
	}
}
