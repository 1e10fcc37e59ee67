package streamcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/streamcache/codec"
	"github.com/unkn0wn-root/streamcache/internal/wire"
	st "github.com/unkn0wn-root/streamcache/store"
)

type cache[E any] struct {
	ns             string
	store          st.Store
	codec          c.Codec[E]
	log            Logger
	hooks          Hooks
	enabled        bool
	defaultTTL     time.Duration
	streamTTL      time.Duration
	computeSetCost SetCostFunc
}

func newCache[E any](opts Options[E]) (*cache[E], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("streamcache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("streamcache: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("streamcache: namespace is required")
	}

	c := &cache[E]{
		ns:      opts.Namespace,
		store:   opts.Store,
		codec:   opts.Codec,
		enabled: !opts.Disabled,
	}

	// defaults
	if opts.Logger != nil {
		c.log = opts.Logger
	} else {
		c.log = NopLogger{}
	}
	if opts.Hooks != nil {
		c.hooks = opts.Hooks
	} else {
		c.hooks = NopHooks{}
	}
	// TTL defaults stay 0 (no expiry): expiration policy belongs to the
	// store, the bridge only passes a caller-chosen TTL through.
	c.defaultTTL = opts.DefaultTTL
	c.streamTTL = opts.StreamTTL

	if opts.ComputeSetCost != nil {
		c.computeSetCost = opts.ComputeSetCost
	} else {
		c.computeSetCost = func(_ string, _ []byte, _ bool, _ int) int64 { return 1 }
	}

	return c, nil
}

func (c *cache[E]) Enabled() bool { return c.enabled }

func (c *cache[E]) Close(ctx context.Context) error {
	if c.store != nil {
		return c.store.Close(ctx)
	}
	return nil
}

func (c *cache[E]) Get(ctx context.Context, key string) (E, bool, error) {
	var zero E
	if !c.enabled {
		return zero, false, nil
	}
	k := c.storageKey(key)
	raw, ok, err := c.store.Get(ctx, k)
	if err != nil {
		return zero, false, fmt.Errorf("streamcache: get %q: %w", key, err)
	}
	if !ok {
		return zero, false, nil
	}
	payload, err := wire.DecodeScalar(raw)
	if err != nil {
		if errors.Is(err, wire.ErrKindMismatch) {
			// a stream aggregate lives here; the entry is fine for Expand
			c.hooks.TypeMismatch(k)
			return zero, false, &TypeMismatchError{Key: key, Cause: err}
		}
		c.selfHeal(ctx, k, "corrupt")
		return zero, false, nil
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.hooks.TypeMismatch(k)
		return zero, false, &TypeMismatchError{Key: key, Cause: err}
	}
	return v, true, nil
}

func (c *cache[E]) Put(ctx context.Context, key string, value E) error {
	if !c.enabled {
		return nil
	}
	payload, err := c.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("streamcache: encode %q: %w", key, err)
	}
	k := c.storageKey(key)
	frame := wire.EncodeScalar(payload)
	ok, err := c.store.Set(ctx, k, frame, c.computeSetCost(k, frame, false, 1), c.defaultTTL)
	if err != nil {
		return fmt.Errorf("streamcache: put %q: %w", key, err)
	}
	if !ok {
		c.hooks.StoreSetRejected(k, false)
		c.log.Debug("Put rejected by store (pressure)", Fields{"key": key})
	}
	return nil
}

func (c *cache[E]) PutFrom(ctx context.Context, key string, produce func(context.Context) (E, error)) (E, error) {
	var zero E
	v, err := produce(ctx)
	if err != nil {
		return zero, err
	}
	if err := c.Put(ctx, key, v); err != nil {
		return zero, err
	}
	return v, nil
}

func (c *cache[E]) Evict(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	k := c.storageKey(key)
	if err := c.store.Del(ctx, k); err != nil {
		return fmt.Errorf("streamcache: evict %q: %w", key, err)
	}
	c.log.Debug("evicted key", Fields{"key": key})
	return nil
}

func (c *cache[E]) Clear(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("streamcache: clear: %w", err)
	}
	c.log.Debug("cleared all entries", Fields{"ns": c.ns})
	return nil
}

func (c *cache[E]) Invalidate(ctx context.Context) error {
	return c.Clear(ctx)
}

func (c *cache[E]) storageKey(userKey string) string {
	// isolate by namespace
	return "entry:" + c.ns + ":" + userKey
}

func (c *cache[E]) selfHeal(ctx context.Context, storageKey, reason string) {
	_ = c.store.Del(ctx, storageKey)
	c.hooks.SelfHealEntry(storageKey, reason)
	c.log.Debug("self-healed unreadable entry", Fields{"key": storageKey, "reason": reason})
}
