package streamcache

import (
	"context"
	"iter"
	"time"

	c "github.com/unkn0wn-root/streamcache/codec"
	st "github.com/unkn0wn-root/streamcache/store"
)

// SetCostFunc computes the cost passed to the store for a write. isStream
// reports whether the entry is a stream aggregate; elements is the element
// count for aggregates (1 for scalars).
type SetCostFunc func(key string, raw []byte, isStream bool, elements int) int64

// Cache is the high-level, store-agnostic cache API. E is the caller's
// element type. Serialization is handled by a pluggable Codec[E].
//
// Scalar entries and stream aggregates share one keyspace per namespace;
// reading an entry through the wrong shape yields a *TypeMismatchError.
type Cache[E any] interface {
	Enabled() bool
	Close(context.Context) error

	// Scalar
	Get(ctx context.Context, key string) (v E, ok bool, err error)
	Put(ctx context.Context, key string, value E) error
	// PutFrom resolves a deferred producer, stores the produced value, and
	// returns it so the call composes into a pipeline.
	PutFrom(ctx context.Context, key string, produce func(context.Context) (E, error)) (E, error)

	// Removal
	Evict(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	// Invalidate removes all entries; identical to Clear.
	Invalidate(ctx context.Context) error

	// Streaming bridge
	//
	// Collect consumes src lazily as the returned sequence is ranged,
	// re-emitting every element to the caller while appending it to an
	// aggregate. When src completes, the aggregate is committed with a
	// single store write; a source or commit error terminates the returned
	// sequence and nothing is committed. Breaking out of the range loop
	// cancels the ingestion (aggregate discarded, no write).
	Collect(ctx context.Context, key string, src iter.Seq2[E, error]) iter.Seq2[E, error]

	// Expand replays a committed aggregate in stored order. A missing key
	// yields an empty sequence, not an error. Each call re-fetches from the
	// store; expansion is restartable and never mutates the entry.
	Expand(ctx context.Context, key string) iter.Seq2[E, error]
}

// Options tune the behavior of the generic cache.
// Only Namespace, Store and Codec are required; others have sensible defaults.
type Options[E any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "user", "profile", "order"
	Store     st.Store
	Codec     c.Codec[E]

	Logger         Logger        // if nil, NopLogger is used
	Hooks          Hooks         // if nil, NopHooks is used
	DefaultTTL     time.Duration // scalars; 0 => no expiry (TTL policy belongs to the store)
	StreamTTL      time.Duration // aggregates; 0 => no expiry
	Disabled       bool          // default false (enabled)
	ComputeSetCost SetCostFunc   // default 1
}

func New[E any](opts Options[E]) (Cache[E], error) {
	return newCache[E](opts)
}
