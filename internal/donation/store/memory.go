// Package store persists the append-only donation ledger with by-charity and
// by-donor secondary indexes.
package store

import (
	"context"
	"sync"

	"givepact/internal/donation/models"
	"givepact/pkg/domain"
	"givepact/pkg/platform/sentinel"
)

// InMemory keeps the ledger in a slice; a record's id is its index, so the id
// space starts at 0 and grows strictly by one per append.
type InMemory struct {
	mu        sync.RWMutex
	records   []models.DonationRecord
	byCharity map[domain.Address][]domain.DonationID
	byDonor   map[domain.Address][]domain.DonationID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byCharity: make(map[domain.Address][]domain.DonationID),
		byDonor:   make(map[domain.Address][]domain.DonationID),
	}
}

// Append assigns the next sequential id, stores the record, and indexes it by
// charity and donor.
func (s *InMemory) Append(_ context.Context, record models.DonationRecord) (domain.DonationID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = domain.DonationID(len(s.records))
	s.records = append(s.records, record)
	s.byCharity[record.Charity] = append(s.byCharity[record.Charity], record.ID)
	s.byDonor[record.Donor] = append(s.byDonor[record.Donor], record.ID)
	return record.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.DonationID) (*models.DonationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if uint64(id) >= uint64(len(s.records)) {
		return nil, sentinel.ErrNotFound
	}
	cp := s.records[id]
	return &cp, nil
}

// ListIDsByCharity returns the charity's donation ids in append order. Unknown
// charities read as empty.
func (s *InMemory) ListIDsByCharity(_ context.Context, charity domain.Address) ([]domain.DonationID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DonationID{}, s.byCharity[charity]...), nil
}

// ListIDsByDonor returns the donor's donation ids in append order. Unknown
// donors read as empty.
func (s *InMemory) ListIDsByDonor(_ context.Context, donor domain.Address) ([]domain.DonationID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DonationID{}, s.byDonor[donor]...), nil
}
