// Package store persists reputation credentials with a donor-keyed table and
// a credential-id reverse index.
package store

import (
	"context"
	"sync"
	"time"

	"givepact/internal/credential/models"
	"givepact/pkg/domain"
	"givepact/pkg/platform/sentinel"
)

// InMemory keeps credentials in maps guarded by one RWMutex. Credential ids
// are assigned sequentially from 1 so the zero value stays free as the
// no-credential sentinel.
type InMemory struct {
	mu      sync.RWMutex
	byDonor map[domain.Address]*models.Credential
	byID    map[domain.CredentialID]domain.Address
	nextID  domain.CredentialID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byDonor: make(map[domain.Address]*models.Credential),
		byID:    make(map[domain.CredentialID]domain.Address),
		nextID:  1,
	}
}

// Mint creates the donor's credential, assigning the next sequential id.
// Returns sentinel.ErrAlreadyUsed when the donor already holds one.
func (s *InMemory) Mint(_ context.Context, donor domain.Address, metadataPointer string, now time.Time) (*models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byDonor[donor]; exists {
		return nil, sentinel.ErrAlreadyUsed
	}

	credential := models.NewCredential(s.nextID, donor, metadataPointer, now)
	s.nextID++
	s.byDonor[donor] = credential
	s.byID[credential.ID] = donor

	cp := *credential
	return &cp, nil
}

func (s *InMemory) FindByDonor(_ context.Context, donor domain.Address) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	credential, exists := s.byDonor[donor]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	cp := *credential
	return &cp, nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.CredentialID) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	donor, exists := s.byID[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.byDonor[donor]
	return &cp, nil
}

// Execute atomically validates and mutates a credential. The write lock is
// held during both callbacks.
func (s *InMemory) Execute(_ context.Context, id domain.CredentialID,
	validate func(*models.Credential) error, mutate func(*models.Credential)) (*models.Credential, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	donor, exists := s.byID[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	credential := s.byDonor[donor]
	if err := validate(credential); err != nil {
		return nil, err
	}
	mutate(credential)
	cp := *credential
	return &cp, nil
}
