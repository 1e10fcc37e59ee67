package streamcache

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/unkn0wn-root/streamcache/internal/wire"
)

// Collect bridges a lazy element sequence into a single cached aggregate.
//
// The returned sequence is cold: nothing is pulled from src until the
// caller ranges over it. Each element is encoded, appended to the pending
// aggregate and re-yielded to the caller in arrival order, so the caller
// observes the original stream relayed through the cache. The aggregate is
// written to the store exactly once, after src completes normally; a commit
// failure surfaces as the sequence's terminal error.
//
// Nothing becomes visible to Expand or Get under any non-committed outcome:
// source error, element encode error, context cancellation, or the caller
// breaking out of the loop all discard the pending aggregate.
func (c *cache[E]) Collect(ctx context.Context, key string, src iter.Seq2[E, error]) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		var zero E
		if !c.enabled {
			// passthrough only; nothing is committed
			for v, err := range src {
				if !yield(v, err) || err != nil {
					return
				}
			}
			return
		}

		var payloads [][]byte
		for v, err := range src {
			if err != nil {
				c.hooks.CollectAborted(key, len(payloads), "source_error")
				yield(zero, err)
				return
			}
			if err := ctx.Err(); err != nil {
				c.hooks.CollectAborted(key, len(payloads), "canceled")
				yield(zero, err)
				return
			}
			p, err := c.codec.Encode(v)
			if err != nil {
				c.hooks.CollectAborted(key, len(payloads), "encode_error")
				yield(zero, fmt.Errorf("streamcache: encode element for %q: %w", key, err))
				return
			}
			payloads = append(payloads, p)
			if !yield(v, nil) {
				// caller canceled mid-stream; no partial aggregate is written
				c.hooks.CollectAborted(key, len(payloads), "canceled")
				return
			}
		}

		// source completed; commit the aggregate in one write. An empty
		// source still commits: an empty aggregate is a valid entry,
		// distinct from a miss.
		k := c.storageKey(key)
		frame := wire.EncodeStream(payloads)
		ok, err := c.store.Set(ctx, k, frame, c.computeSetCost(k, frame, true, len(payloads)), c.streamTTL)
		if err != nil {
			c.hooks.CollectAborted(key, len(payloads), "store_error")
			yield(zero, fmt.Errorf("streamcache: commit %q: %w", key, err))
			return
		}
		if !ok {
			c.hooks.StoreSetRejected(k, true)
			c.log.Debug("Collect commit rejected by store (pressure)", Fields{"key": key, "elements": len(payloads)})
			return
		}
		c.hooks.CollectCommitted(key, len(payloads))
		c.log.Debug("Collect committed aggregate", Fields{"key": key, "elements": len(payloads)})
	}
}

// Expand replays the aggregate stored under key as a lazy element sequence.
//
// The store fetch happens on first pull, never at call time, and each
// element is decoded only when it is about to be yielded: a mismatched
// element fails at its position in the stream with a *TypeMismatchError,
// after every preceding element was already delivered. A missing key is an
// empty sequence. Every invocation re-reads the store, so an expansion can
// be restarted or consumed by several callers independently.
func (c *cache[E]) Expand(ctx context.Context, key string) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		var zero E
		if !c.enabled {
			return
		}
		k := c.storageKey(key)
		raw, ok, err := c.store.Get(ctx, k)
		if err != nil {
			yield(zero, fmt.Errorf("streamcache: expand %q: %w", key, err))
			return
		}
		if !ok {
			return // absence is an empty sequence, not an error
		}

		r, err := wire.NewStreamReader(raw)
		if err != nil {
			if errors.Is(err, wire.ErrKindMismatch) {
				// a scalar lives here; the entry is fine for Get
				c.hooks.TypeMismatch(k)
				yield(zero, &TypeMismatchError{Key: key, Cause: err})
				return
			}
			c.selfHeal(ctx, k, "corrupt")
			yield(zero, fmt.Errorf("streamcache: expand %q: %w", key, err))
			return
		}

		for {
			p, ok, err := r.Next()
			if err != nil {
				c.selfHeal(ctx, k, "corrupt")
				yield(zero, fmt.Errorf("streamcache: expand %q: %w", key, err))
				return
			}
			if !ok {
				return
			}
			v, err := c.codec.Decode(p)
			if err != nil {
				c.hooks.TypeMismatch(k)
				yield(zero, &TypeMismatchError{Key: key, Cause: err})
				return
			}
			if !yield(v, nil) {
				return // caller stopped; no store-side state changes
			}
		}
	}
}
