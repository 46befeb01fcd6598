package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"givepact/internal/charity/models"
	"givepact/pkg/domain"
	"givepact/pkg/platform/sentinel"
)

type CharityStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *CharityStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
}

func TestCharityStoreSuite(t *testing.T) {
	suite.Run(t, new(CharityStoreSuite))
}

func (s *CharityStoreSuite) newCharity(address domain.Address) *models.Charity {
	charity, err := models.NewCharity(address, "Helpers", "helps people", "ipfs://meta", s.now)
	s.Require().NoError(err)
	return charity
}

func (s *CharityStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds charity by address", func() {
		charity := s.newCharity("charity-1")
		s.Require().NoError(s.store.Create(s.ctx, charity))

		found, err := s.store.FindByAddress(s.ctx, "charity-1")
		s.Require().NoError(err)
		s.Equal("Helpers", found.Name)
		s.False(found.Verified)
	})

	s.Run("returns ErrNotFound for unknown address", func() {
		_, err := s.store.FindByAddress(s.ctx, "charity-unknown")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate address", func() {
		charity := s.newCharity("charity-dup")
		s.Require().NoError(s.store.Create(s.ctx, charity))
		s.Require().ErrorIs(s.store.Create(s.ctx, charity), sentinel.ErrAlreadyUsed)
	})

	s.Run("duplicate create leaves original unchanged", func() {
		charity := s.newCharity("charity-keep")
		s.Require().NoError(s.store.Create(s.ctx, charity))

		second := s.newCharity("charity-keep")
		second.Name = "Impostor"
		s.Require().Error(s.store.Create(s.ctx, second))

		found, err := s.store.FindByAddress(s.ctx, "charity-keep")
		s.Require().NoError(err)
		s.Equal("Helpers", found.Name)
	})
}

func (s *CharityStoreSuite) TestExecute() {
	s.Run("applies mutation after validation passes", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newCharity("charity-1")))

		later := s.now.Add(time.Hour)
		updated, err := s.store.Execute(s.ctx, "charity-1",
			func(c *models.Charity) error { return c.CanVerify() },
			func(c *models.Charity) { c.ApplyVerification(later) },
		)
		s.Require().NoError(err)
		s.True(updated.Verified)
		s.Equal(later, updated.UpdatedAt)
	})

	s.Run("validation failure leaves record untouched", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newCharity("charity-2")))

		_, err := s.store.Execute(s.ctx, "charity-2",
			func(c *models.Charity) error { return sentinel.ErrInvalidState },
			func(c *models.Charity) { c.Verified = true },
		)
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)

		found, err := s.store.FindByAddress(s.ctx, "charity-2")
		s.Require().NoError(err)
		s.False(found.Verified)
	})

	s.Run("unknown charity", func() {
		_, err := s.store.Execute(s.ctx, "charity-unknown",
			func(c *models.Charity) error { return nil },
			func(c *models.Charity) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *CharityStoreSuite) TestContributions() {
	s.Run("first contribution bumps donor count", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newCharity("charity-1")))

		first, err := s.store.AddContribution(s.ctx, "charity-1", "donor-a", 100, s.now)
		s.Require().NoError(err)
		s.True(first)

		found, err := s.store.FindByAddress(s.ctx, "charity-1")
		s.Require().NoError(err)
		s.Equal(uint64(100), found.TotalDonations)
		s.Equal(uint64(1), found.DonorCount)
	})

	s.Run("repeat contribution keeps donor count", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newCharity("charity-2")))

		_, err := s.store.AddContribution(s.ctx, "charity-2", "donor-a", 100, s.now)
		s.Require().NoError(err)
		first, err := s.store.AddContribution(s.ctx, "charity-2", "donor-a", 50, s.now)
		s.Require().NoError(err)
		s.False(first)

		found, err := s.store.FindByAddress(s.ctx, "charity-2")
		s.Require().NoError(err)
		s.Equal(uint64(150), found.TotalDonations)
		s.Equal(uint64(1), found.DonorCount)

		amount, err := s.store.Contribution(s.ctx, "charity-2", "donor-a")
		s.Require().NoError(err)
		s.Equal(uint64(150), amount)
	})

	s.Run("distinct donors counted separately", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newCharity("charity-3")))

		_, err := s.store.AddContribution(s.ctx, "charity-3", "donor-a", 10, s.now)
		s.Require().NoError(err)
		_, err = s.store.AddContribution(s.ctx, "charity-3", "donor-b", 20, s.now)
		s.Require().NoError(err)

		found, err := s.store.FindByAddress(s.ctx, "charity-3")
		s.Require().NoError(err)
		s.Equal(uint64(2), found.DonorCount)
	})

	s.Run("unknown charity", func() {
		_, err := s.store.AddContribution(s.ctx, "charity-unknown", "donor-a", 10, s.now)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("absent pair reads as zero", func() {
		amount, err := s.store.Contribution(s.ctx, "charity-none", "donor-none")
		s.Require().NoError(err)
		s.Zero(amount)
	})
}

func (s *CharityStoreSuite) TestListSortedByAddress() {
	s.Require().NoError(s.store.Create(s.ctx, s.newCharity("charity-b")))
	s.Require().NoError(s.store.Create(s.ctx, s.newCharity("charity-a")))

	charities, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(charities, 2)
	s.Equal(domain.Address("charity-a"), charities[0].Address)
	s.Equal(domain.Address("charity-b"), charities[1].Address)
}
