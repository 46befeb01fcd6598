package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"givepact/internal/credential/models"
	"givepact/pkg/domain"
	"givepact/pkg/platform/sentinel"
	txcontext "givepact/pkg/platform/tx"
)

// Postgres persists credentials in the credentials table. The donor column is
// unique, which is what makes one-credential-per-donor hold under concurrent
// first donations; ids come from a sequence starting at 1.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const uniqueViolation = "23505"

func (s *Postgres) Mint(ctx context.Context, donor domain.Address, metadataPointer string, now time.Time) (*models.Credential, error) {
	query := `
		INSERT INTO credentials (donor, total_donated, donation_count, tier, last_donation_at, metadata_pointer)
		VALUES ($1, 0, 0, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := s.execer(ctx).QueryRowContext(ctx, query,
		donor.String(), int16(models.TierBronze), now, metadataPointer).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("insert credential: %w", err)
	}

	credential := models.NewCredential(domain.CredentialID(id), donor, metadataPointer, now)
	return credential, nil
}

func (s *Postgres) FindByDonor(ctx context.Context, donor domain.Address) (*models.Credential, error) {
	query := selectCredential + ` WHERE donor = $1`
	return scanCredential(s.execer(ctx).QueryRowContext(ctx, query, donor.String()))
}

func (s *Postgres) FindByID(ctx context.Context, id domain.CredentialID) (*models.Credential, error) {
	query := selectCredential + ` WHERE id = $1`
	return scanCredential(s.execer(ctx).QueryRowContext(ctx, query, int64(id)))
}

// Execute validates and mutates a credential under FOR UPDATE, then writes the
// mutated row back. Must run inside a context transaction.
func (s *Postgres) Execute(ctx context.Context, id domain.CredentialID,
	validate func(*models.Credential) error, mutate func(*models.Credential)) (*models.Credential, error) {

	exec := s.execer(ctx)
	query := selectCredential + ` WHERE id = $1 FOR UPDATE`
	credential, err := scanCredential(exec.QueryRowContext(ctx, query, int64(id)))
	if err != nil {
		return nil, err
	}
	if err := validate(credential); err != nil {
		return nil, err
	}
	mutate(credential)

	update := `
		UPDATE credentials
		SET total_donated = $2, donation_count = $3, tier = $4, last_donation_at = $5, metadata_pointer = $6
		WHERE id = $1
	`
	if _, err := exec.ExecContext(ctx, update,
		int64(credential.ID), int64(credential.TotalDonated), int64(credential.DonationCount),
		int16(credential.Tier), credential.LastDonationAt, credential.MetadataPointer); err != nil {
		return nil, fmt.Errorf("update credential: %w", err)
	}
	return credential, nil
}

const selectCredential = `
	SELECT id, donor, total_donated, donation_count, tier, last_donation_at, metadata_pointer
	FROM credentials
`

func scanCredential(row *sql.Row) (*models.Credential, error) {
	var (
		credential    models.Credential
		id            int64
		donor         string
		totalDonated  int64
		donationCount int64
		tier          int16
	)
	err := row.Scan(&id, &donor, &totalDonated, &donationCount, &tier,
		&credential.LastDonationAt, &credential.MetadataPointer)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan credential: %w", err)
	}
	credential.ID = domain.CredentialID(id)
	credential.Donor = domain.Address(donor)
	credential.TotalDonated = uint64(totalDonated)
	credential.DonationCount = uint64(donationCount)
	credential.Tier = models.Tier(tier)
	return &credential, nil
}
