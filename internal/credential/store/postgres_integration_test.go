//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"givepact/internal/credential/store"
	"givepact/pkg/domain"
	"givepact/pkg/platform/sentinel"
	"givepact/pkg/testutil/containers"
)

type CredentialPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestCredentialPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CredentialPostgresSuite))
}

func (s *CredentialPostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *CredentialPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "credentials"))
}

func (s *CredentialPostgresSuite) TestMintAssignsSequentialIDsFromOne() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first, err := s.store.Mint(ctx, "donor-a", "", now)
	s.Require().NoError(err)
	second, err := s.store.Mint(ctx, "donor-b", "", now)
	s.Require().NoError(err)

	s.Equal(domain.CredentialID(1), first.ID)
	s.Equal(domain.CredentialID(2), second.ID)
}

// One credential per donor must hold under concurrent first donations; the
// unique constraint is the arbiter.
func (s *CredentialPostgresSuite) TestConcurrentMintOnePerDonor() {
	ctx := context.Background()
	now := time.Now().UTC()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Mint(ctx, "donor-a", "", now)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one mint should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should conflict")

	found, err := s.store.FindByDonor(ctx, "donor-a")
	s.Require().NoError(err)
	s.Equal(domain.Address("donor-a"), found.Donor)
}
