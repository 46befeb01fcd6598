// Package store persists charity records and the (charity, donor) cumulative
// contribution relation.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"givepact/internal/charity/models"
	"givepact/pkg/domain"
	"givepact/pkg/platform/sentinel"
)

type contribKey struct {
	charity domain.Address
	donor   domain.Address
}

// InMemory keeps charities and contributions in maps guarded by one RWMutex.
// Execute and AddContribution hold the write lock across validate and mutate,
// which is what gives dev mode the same atomicity the Postgres store gets
// from row locks.
type InMemory struct {
	mu            sync.RWMutex
	charities     map[domain.Address]*models.Charity
	contributions map[contribKey]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		charities:     make(map[domain.Address]*models.Charity),
		contributions: make(map[contribKey]uint64),
	}
}

// Create stores a new charity record. Returns sentinel.ErrAlreadyUsed when the
// address is taken.
func (s *InMemory) Create(_ context.Context, charity *models.Charity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.charities[charity.Address]; exists {
		return sentinel.ErrAlreadyUsed
	}
	cp := *charity
	s.charities[charity.Address] = &cp
	return nil
}

func (s *InMemory) FindByAddress(_ context.Context, address domain.Address) (*models.Charity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	charity, exists := s.charities[address]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	cp := *charity
	return &cp, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Charity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Charity, 0, len(s.charities))
	for _, charity := range s.charities {
		cp := *charity
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

// Execute atomically validates and mutates a charity record. The write lock is
// held during both callbacks.
func (s *InMemory) Execute(_ context.Context, address domain.Address,
	validate func(*models.Charity) error, mutate func(*models.Charity)) (*models.Charity, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	charity, exists := s.charities[address]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(charity); err != nil {
		return nil, err
	}
	mutate(charity)
	cp := *charity
	return &cp, nil
}

// AddContribution bumps the (charity, donor) relation and folds the amount
// into the charity aggregates in one atomic step. Returns whether this was the
// donor's first contribution to the charity.
func (s *InMemory) AddContribution(_ context.Context, charity, donor domain.Address, amount uint64, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.charities[charity]
	if !exists {
		return false, sentinel.ErrNotFound
	}

	key := contribKey{charity: charity, donor: donor}
	prior := s.contributions[key]
	s.contributions[key] = prior + amount

	first := prior == 0
	record.ApplyContribution(amount, first, now)
	return first, nil
}

// Contribution returns the donor's cumulative contribution to the charity.
// Absent pairs read as zero.
func (s *InMemory) Contribution(_ context.Context, charity, donor domain.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contributions[contribKey{charity: charity, donor: donor}], nil
}
