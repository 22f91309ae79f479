package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type item struct {
	value     any
	expiresAt time.Time
}

// Store is a process-local TTL cache. A TTL of zero keeps values until
// they are deleted.
type Store struct {
	mu     sync.RWMutex
	items  map[string]item
	gens   map[string]uint64
	ttl    time.Duration
	now    func() time.Time
	flight singleflight.Group
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]item),
		gens:  make(map[string]uint64),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	cached, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(cached) {
		s.mu.Lock()
		if current, still := s.items[key]; still && s.expired(current) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return cached.value, true
}

// Delete drops the key and discards any load already running for it.
func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.items, key)
	s.gens[key]++
	s.mu.Unlock()
	s.flight.Forget(key)
}

// GetOrLoad returns the cached value or runs loader once for all concurrent
// callers of the same key. Errors are not cached, and a value loaded while
// the key was deleted is returned but not stored.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		gen := s.generation(key)
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.store(key, loaded, gen)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) generation(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gens[key]
}

func (s *Store) store(key string, value any, gen uint64) {
	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[key] != gen {
		return
	}
	s.items[key] = item{value: value, expiresAt: expiresAt}
}

func (s *Store) expired(cached item) bool {
	return s.ttl > 0 && !cached.expiresAt.After(s.now())
}
