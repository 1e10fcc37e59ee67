package streamcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// An entry was deleted by the cache on read because its frame was
	// unreadable. reason ∈ {"corrupt"}
	SelfHealEntry(storageKey, reason string)

	// A read found an entry whose shape or element type disagrees with the
	// reader. The entry is NOT deleted.
	TypeMismatch(storageKey string)

	// Store returned ok=false on Set (backpressure/eviction).
	StoreSetRejected(storageKey string, isStream bool)

	// An ingestion committed its aggregate. elements is the committed count.
	CollectCommitted(key string, elements int)

	// An ingestion terminated without committing. buffered is how many
	// elements had been accumulated.
	// reason ∈ {"source_error", "encode_error", "canceled", "store_error"}
	CollectAborted(key string, buffered int, reason string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHealEntry(string, string)       {}
func (NopHooks) TypeMismatch(string)                {}
func (NopHooks) StoreSetRejected(string, bool)      {}
func (NopHooks) CollectCommitted(string, int)       {}
func (NopHooks) CollectAborted(string, int, string) {}
