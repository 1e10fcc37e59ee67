// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/streamcache"
//	"github.com/unkn0wn-root/streamcache/codec"
//	"github.com/unkn0wn-root/streamcache/hooks/async"
//	"github.com/unkn0wn-root/streamcache/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    SelfHealEvery:     10, // sample logs: ~every 10th self-heal
//	    TypeMismatchEvery: 1,  // log every mismatch
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	cache, _ := streamcache.New[User](streamcache.Options[User]{
//	    Namespace: "app:prod:user",
//	    Store:     store,
//	    Codec:     codec.JSON[User]{},
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/streamcache"
)

type Hooks struct {
	inner streamcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ streamcache.Hooks = (*Hooks)(nil)

func New(inner streamcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SelfHealEntry(k, r string) { h.try(func() { h.inner.SelfHealEntry(k, r) }) }
func (h *Hooks) TypeMismatch(k string)     { h.try(func() { h.inner.TypeMismatch(k) }) }
func (h *Hooks) StoreSetRejected(k string, s bool) {
	h.try(func() { h.inner.StoreSetRejected(k, s) })
}
func (h *Hooks) CollectCommitted(k string, n int) {
	h.try(func() { h.inner.CollectCommitted(k, n) })
}
func (h *Hooks) CollectAborted(k string, n int, r string) {
	h.try(func() { h.inner.CollectAborted(k, n, r) })
}
