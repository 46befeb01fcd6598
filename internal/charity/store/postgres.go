package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"givepact/internal/charity/models"
	"givepact/pkg/domain"
	"givepact/pkg/platform/sentinel"
	txcontext "givepact/pkg/platform/tx"
)

// Postgres persists charities and contributions. All statements honor a
// transaction passed through context, so the donation pipeline's writes join
// one commit.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func (s *Postgres) Create(ctx context.Context, charity *models.Charity) error {
	query := `
		INSERT INTO charities (address, name, description, metadata_pointer, verified,
			total_donations, donor_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		charity.Address.String(), charity.Name, charity.Description, charity.MetadataPointer,
		charity.Verified, int64(charity.TotalDonations), int64(charity.DonorCount),
		charity.CreatedAt, charity.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert charity: %w", err)
	}
	return nil
}

func (s *Postgres) FindByAddress(ctx context.Context, address domain.Address) (*models.Charity, error) {
	query := `
		SELECT address, name, description, metadata_pointer, verified,
			total_donations, donor_count, created_at, updated_at
		FROM charities WHERE address = $1
	`
	return scanCharity(s.execer(ctx).QueryRowContext(ctx, query, address.String()))
}

func (s *Postgres) List(ctx context.Context) ([]*models.Charity, error) {
	query := `
		SELECT address, name, description, metadata_pointer, verified,
			total_donations, donor_count, created_at, updated_at
		FROM charities ORDER BY address
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list charities: %w", err)
	}
	defer rows.Close()

	var out []*models.Charity
	for rows.Next() {
		charity, err := scanCharity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, charity)
	}
	return out, rows.Err()
}

// Execute validates and mutates a charity under FOR UPDATE, then writes the
// mutated row back. Must run inside a context transaction; without one the
// row lock would be released between read and write.
func (s *Postgres) Execute(ctx context.Context, address domain.Address,
	validate func(*models.Charity) error, mutate func(*models.Charity)) (*models.Charity, error) {

	exec := s.execer(ctx)
	query := `
		SELECT address, name, description, metadata_pointer, verified,
			total_donations, donor_count, created_at, updated_at
		FROM charities WHERE address = $1 FOR UPDATE
	`
	charity, err := scanCharity(exec.QueryRowContext(ctx, query, address.String()))
	if err != nil {
		return nil, err
	}
	if err := validate(charity); err != nil {
		return nil, err
	}
	mutate(charity)

	update := `
		UPDATE charities SET name = $2, description = $3, metadata_pointer = $4,
			verified = $5, total_donations = $6, donor_count = $7, updated_at = $8
		WHERE address = $1
	`
	if _, err := exec.ExecContext(ctx, update,
		charity.Address.String(), charity.Name, charity.Description, charity.MetadataPointer,
		charity.Verified, int64(charity.TotalDonations), int64(charity.DonorCount),
		charity.UpdatedAt); err != nil {
		return nil, fmt.Errorf("update charity: %w", err)
	}
	return charity, nil
}

func (s *Postgres) AddContribution(ctx context.Context, charity, donor domain.Address, amount uint64, now time.Time) (bool, error) {
	exec := s.execer(ctx)

	// Upsert the relation; xmax = 0 distinguishes a fresh insert from an update.
	var inserted bool
	upsert := `
		INSERT INTO contributions (charity, donor, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (charity, donor)
		DO UPDATE SET amount = contributions.amount + EXCLUDED.amount
		RETURNING (xmax = 0)
	`
	if err := exec.QueryRowContext(ctx, upsert, charity.String(), donor.String(), int64(amount)).Scan(&inserted); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return false, sentinel.ErrNotFound
		}
		return false, fmt.Errorf("upsert contribution: %w", err)
	}

	update := `
		UPDATE charities
		SET total_donations = total_donations + $2,
			donor_count = donor_count + $3,
			updated_at = $4
		WHERE address = $1
	`
	bump := 0
	if inserted {
		bump = 1
	}
	res, err := exec.ExecContext(ctx, update, charity.String(), int64(amount), bump, now)
	if err != nil {
		return false, fmt.Errorf("update charity aggregates: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update charity aggregates: %w", err)
	}
	if affected == 0 {
		return false, sentinel.ErrNotFound
	}
	return inserted, nil
}

func (s *Postgres) Contribution(ctx context.Context, charity, donor domain.Address) (uint64, error) {
	var amount int64
	query := `SELECT amount FROM contributions WHERE charity = $1 AND donor = $2`
	err := s.execer(ctx).QueryRowContext(ctx, query, charity.String(), donor.String()).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select contribution: %w", err)
	}
	return uint64(amount), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharity(row rowScanner) (*models.Charity, error) {
	var (
		charity        models.Charity
		address        string
		totalDonations int64
		donorCount     int64
	)
	err := row.Scan(&address, &charity.Name, &charity.Description, &charity.MetadataPointer,
		&charity.Verified, &totalDonations, &donorCount, &charity.CreatedAt, &charity.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan charity: %w", err)
	}
	charity.Address = domain.Address(address)
	charity.TotalDonations = uint64(totalDonations)
	charity.DonorCount = uint64(donorCount)
	return &charity, nil
}
