// Package memory provides an in-process map-backed Store. Suitable for
// single-replica deployments and tests; entries do not survive restarts.
package memory

import (
	"context"
	"sync"
	"time"

	st "github.com/unkn0wn-root/streamcache/store"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// Store keeps entries in a mutex-guarded map. An optional janitor goroutine
// prunes expired entries; expired entries are also dropped lazily on Get.
type Store struct {
	mu sync.RWMutex
	m  map[string]entry

	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ st.Store = (*Store)(nil)

type Config struct {
	// SweepInterval controls background pruning of expired entries.
	// 0 disables the janitor; expired entries are still dropped on read.
	SweepInterval time.Duration
}

func New(cfg Config) *Store {
	s := &Store{m: make(map[string]entry)}
	if cfg.SweepInterval > 0 {
		s.ticker = time.NewTicker(cfg.SweepInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.sweep()
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		s.mu.Lock()
		// re-check under the write lock; a fresh Set may have replaced it
		if e2, ok2 := s.m[key]; ok2 && !e2.exp.IsZero() && time.Now().After(e2.exp) {
			delete(s.m, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.m[key] = entry{v: value, exp: exp}
	s.mu.Unlock()
	return true, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	s.m = make(map[string]entry)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.once.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			s.ticker.Stop()
			s.wg.Wait()
		}
	})
	return nil
}

// Len reports the number of live entries (expired-but-unswept included).
// Not part of store.Store; handy for tests and metrics.
func (s *Store) Len() int {
	s.mu.RLock()
	n := len(s.m)
	s.mu.RUnlock()
	return n
}

func (s *Store) sweep() {
	now := time.Now()
	s.mu.Lock()
	for k, e := range s.m {
		if !e.exp.IsZero() && e.exp.Before(now) {
			delete(s.m, k)
		}
	}
	s.mu.Unlock()
}
