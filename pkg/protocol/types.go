package protocol

// Message types (fits in uint8).
const (
	MsgUnknown  uint8 = iota
	MsgHello          // client handshake request
	MsgHelloAck       // server handshake reply
	MsgCall           // method invocation request
	MsgReply          // method invocation response
)

// Flags bitmask (uint32)
const (
	FlagCompressed uint32 = 1 << 0 // payload compressed by the injected compressor
	FlagError      uint32 = 1 << 1 // reply carries a fault payload
	FlagOneWay     uint32 = 1 << 2 // call expects no reply
)

// Content type hints for payload decoding. Not serialized in the header;
// the dispatch layer negotiates them out of band.
const (
	ContentUnknown = "application/octet-stream"
	ContentCBOR    = "application/cbor"
	ContentJSON    = "application/json"
	ContentProto   = "application/x-protobuf"
)
