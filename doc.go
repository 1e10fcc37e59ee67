// Package streamcache implements a store-agnostic cache that bridges
// single-value storage and element-wise streaming. Scalar entries are read
// and written with Get/Put; a lazy element sequence can be ingested into a
// single cached aggregate with Collect and re-expanded into a lazy sequence
// with Expand, without materializing the whole result at the consumer.
//
// Components:
//   - store.Store: byte store with TTL (e.g. memory, Ristretto, BigCache, Redis).
//   - codec.Codec[E]: (de)serializes E <-> []byte per element.
//   - internal wire framing: tags every stored entry as scalar or stream so a
//     shape mismatch surfaces as a TypeMismatchError instead of a bad cast.
//
// Keys:
//
//	entry:<ns>:<key> - both scalar and stream entries share one keyspace;
//	                   the frame kind disambiguates
//
// Streaming pattern:
//
//	for v, err := range cache.Collect(ctx, k, src) { ... } // relays src, commits on completion
//	for v, err := range cache.Expand(ctx, k) { ... }       // replays the committed aggregate
//
// The bridge performs no retries and no cross-caller coordination: two
// concurrent Collect calls on one key race and the last completed store
// write wins.
package streamcache
