package codec

import "encoding/json"

// JSON serializes elements with encoding/json. The zero value is ready to use.
type JSON[E any] struct{}

func (JSON[E]) Encode(v E) ([]byte, error) { return json.Marshal(v) }
func (JSON[E]) Decode(b []byte) (E, error) {
	var v E
	err := json.Unmarshal(b, &v)
	return v, err
}
