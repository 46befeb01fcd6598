package memory

import (
	"context"
	"sync"

	"givepact/pkg/platform/events"
)

// InMemoryStore keeps emitted events for dev mode and tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []events.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListAll returns all stored events in emission order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.Event{}, s.events...), nil
}

// ListByType returns stored events of one type in emission order.
func (s *InMemoryStore) ListByType(_ context.Context, t events.Type) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []events.Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
