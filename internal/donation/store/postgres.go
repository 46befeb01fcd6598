package store

import (
	"context"
	"database/sql"
	"fmt"

	"givepact/internal/donation/models"
	"givepact/pkg/domain"
	"givepact/pkg/platform/sentinel"
	txcontext "givepact/pkg/platform/tx"
)

// Postgres persists the donation ledger. The donations id column draws from a
// sequence that starts at 0, so the first record gets id 0 and ids grow by one
// per append. All statements honor a transaction passed through context.
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

func (s *Postgres) Append(ctx context.Context, record models.DonationRecord) (domain.DonationID, error) {
	query := `
		INSERT INTO donations (donor, charity, amount, token, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := s.execer(ctx).QueryRowContext(ctx, query,
		record.Donor.String(), record.Charity.String(), int64(record.Amount),
		record.Token.String(), record.Message, record.Timestamp).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert donation: %w", err)
	}
	return domain.DonationID(id), nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.DonationID) (*models.DonationRecord, error) {
	query := `
		SELECT id, donor, charity, amount, token, message, created_at
		FROM donations WHERE id = $1
	`
	var (
		record         models.DonationRecord
		recordID       int64
		donor, charity string
		amount         int64
		token          string
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, int64(id)).Scan(
		&recordID, &donor, &charity, &amount, &token, &record.Message, &record.Timestamp)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select donation: %w", err)
	}
	record.ID = domain.DonationID(recordID)
	record.Donor = domain.Address(donor)
	record.Charity = domain.Address(charity)
	record.Amount = uint64(amount)
	record.Token = domain.Address(token)
	return &record, nil
}

func (s *Postgres) ListIDsByCharity(ctx context.Context, charity domain.Address) ([]domain.DonationID, error) {
	return s.listIDs(ctx, `SELECT id FROM donations WHERE charity = $1 ORDER BY id`, charity)
}

func (s *Postgres) ListIDsByDonor(ctx context.Context, donor domain.Address) ([]domain.DonationID, error) {
	return s.listIDs(ctx, `SELECT id FROM donations WHERE donor = $1 ORDER BY id`, donor)
}

func (s *Postgres) listIDs(ctx context.Context, query string, address domain.Address) ([]domain.DonationID, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, address.String())
	if err != nil {
		return nil, fmt.Errorf("list donation ids: %w", err)
	}
	defer rows.Close()

	ids := []domain.DonationID{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan donation id: %w", err)
		}
		ids = append(ids, domain.DonationID(id))
	}
	return ids, rows.Err()
}
