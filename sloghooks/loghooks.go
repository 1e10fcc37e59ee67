package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/streamcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery     uint64
	TypeMismatchEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
	mismatchCtr atomic.Uint64
}

var _ streamcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHealEntry(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("streamcache.self_heal_entry",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) TypeMismatch(storageKey string) {
	if h.l == nil || !sample(h.opts.TypeMismatchEvery, &h.mismatchCtr) {
		return
	}
	h.l.Warn("streamcache.type_mismatch",
		"key", h.redact(storageKey))
}

func (h *Hooks) StoreSetRejected(storageKey string, isStream bool) {
	if h.l == nil {
		return
	}
	h.l.Warn("streamcache.store_set_rejected",
		"key", h.redact(storageKey),
		"is_stream", isStream)
}

func (h *Hooks) CollectCommitted(key string, elements int) {
	if h.l == nil {
		return
	}
	h.l.Debug("streamcache.collect_committed",
		"key", h.redact(key),
		"elements", elements)
}

func (h *Hooks) CollectAborted(key string, buffered int, reason string) {
	if h.l == nil {
		return
	}
	h.l.Info("streamcache.collect_aborted",
		"key", h.redact(key),
		"buffered", buffered,
		"reason", reason)
}
