package tokenregistry

import (
	"context"
	"sort"
	"sync"

	"givepact/pkg/domain"
)

// InMemoryStore keeps token acceptance flags in a map. Dev mode and tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	tokens map[domain.Address]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tokens: make(map[domain.Address]bool)}
}

func (s *InMemoryStore) Set(_ context.Context, token domain.Address, supported bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = supported
	return nil
}

func (s *InMemoryStore) IsSupported(_ context.Context, token domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[token], nil
}

func (s *InMemoryStore) ListSupported(_ context.Context) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Address
	for token, supported := range s.tokens {
		if supported {
			out = append(out, token)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
