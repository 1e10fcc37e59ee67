package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack is a Codec that serializes elements using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Msgpack is compact and fast; be mindful of struct tag differences vs JSON.
// Use `msgpack:"fieldName"` tags if you need explicit control.
type Msgpack[E any] struct{}

func (Msgpack[E]) Encode(v E) ([]byte, error) {
	return msgpack.Marshal(v)
}
func (Msgpack[E]) Decode(b []byte) (E, error) {
	var v E
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
