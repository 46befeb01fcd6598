//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"givepact/internal/charity/models"
	"givepact/internal/charity/store"
	"givepact/pkg/platform/sentinel"
	"givepact/pkg/testutil/containers"
)

type CharityPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestCharityPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CharityPostgresSuite))
}

func (s *CharityPostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *CharityPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(),
		"donations", "contributions", "charities"))
}

func (s *CharityPostgresSuite) TestCreateAndFind() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	charity, err := models.NewCharity("charity-a", "Org A", "desc", "ipfs://a", now)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Create(ctx, charity))

	found, err := s.store.FindByAddress(ctx, "charity-a")
	s.Require().NoError(err)
	s.Equal("Org A", found.Name)
	s.False(found.Verified)

	s.Require().ErrorIs(s.store.Create(ctx, charity), sentinel.ErrAlreadyUsed)
}

func (s *CharityPostgresSuite) TestAddContribution() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	charity, err := models.NewCharity("charity-a", "Org A", "", "ipfs://a", now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(ctx, charity))

	first, err := s.store.AddContribution(ctx, "charity-a", "donor-a", 100, now)
	s.Require().NoError(err)
	s.True(first)

	again, err := s.store.AddContribution(ctx, "charity-a", "donor-a", 50, now)
	s.Require().NoError(err)
	s.False(again)

	amount, err := s.store.Contribution(ctx, "charity-a", "donor-a")
	s.Require().NoError(err)
	s.Equal(uint64(150), amount)

	found, err := s.store.FindByAddress(ctx, "charity-a")
	s.Require().NoError(err)
	s.Equal(uint64(150), found.TotalDonations)
	s.Equal(uint64(1), found.DonorCount)
}

func (s *CharityPostgresSuite) TestAddContributionUnknownCharity() {
	_, err := s.store.AddContribution(context.Background(), "charity-unknown", "donor-a", 100, time.Now())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CharityPostgresSuite) TestContributionAbsentReadsZero() {
	amount, err := s.store.Contribution(context.Background(), "charity-a", "donor-a")
	s.Require().NoError(err)
	s.Zero(amount)
}
