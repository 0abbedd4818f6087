package storage

import (
	"context"
	"maps"
	"slices"
	"sync"
)

type mapKV map[string][]byte

func (m mapKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (m mapKV) Set(_ context.Context, key string, value []byte) error {
	m[key] = slices.Clone(value)
	return nil
}

func (m mapKV) Remove(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

// MemoryStore keeps values in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	data mapKV
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: mapKV{}}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Get(ctx, key)
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Set(ctx, key, value)
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Remove(ctx, key)
}

// Update runs fn against a copy of the data and publishes the copy only when
// fn succeeds.
func (s *MemoryStore) Update(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := maps.Clone(s.data)
	if err := fn(ctx, work); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.data))
}
