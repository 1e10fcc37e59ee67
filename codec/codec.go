package codec

// Codec encodes/decodes elements E to []byte for storage. For streamed
// aggregates the codec is applied per element, never to the aggregate as a
// whole.
type Codec[E any] interface {
	Encode(E) ([]byte, error)
	Decode([]byte) (E, error)
}
