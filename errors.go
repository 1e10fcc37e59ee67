package streamcache

import (
	"fmt"
)

// TypeMismatchError reports that a stored entry does not conform to the
// shape or element type requested by the reader: a stream aggregate read as
// a scalar, a scalar read as a stream, or an element payload the configured
// codec cannot decode. The entry is left in place; the bytes are valid for
// whoever wrote them.
type TypeMismatchError struct {
	Key   string // caller-supplied key, not the namespaced storage key
	Cause error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("streamcache: type mismatch for %q: %v", e.Key, e.Cause)
}

func (e *TypeMismatchError) Unwrap() error { return e.Cause }
