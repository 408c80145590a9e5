// Package codec provides pluggable payload serializers. A Codec is handed
// to the channel as an opaque collaborator for the dispatch layer; the
// channel itself never inspects payload contents.
package codec

// Codec marshals typed messages deterministically for cross-node exchange.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Registry maps content types to codecs.
type Registry struct {
	byType map[string]Codec
}

// NewRegistry constructs a registry preloaded with the built-in codecs:
// JSON, CBOR and Protobuf.
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[string]Codec)}
	r.Register(JSON())
	r.Register(CBOR())
	r.Register(Proto())
	return r
}

// Register adds or replaces a codec under its content type.
func (r *Registry) Register(c Codec) { r.byType[c.ContentType()] = c }

// Get returns the codec registered for a content type.
func (r *Registry) Get(contentType string) (Codec, bool) {
	c, ok := r.byType[contentType]
	return c, ok
}
