package tokenregistry

import (
	"context"
	"database/sql"
	"fmt"

	"givepact/pkg/domain"
	txcontext "givepact/pkg/platform/tx"
)

// PostgresStore persists token acceptance flags in the token_support table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Set(ctx context.Context, token domain.Address, supported bool) error {
	query := `
		INSERT INTO token_support (token, supported, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (token) DO UPDATE SET supported = EXCLUDED.supported, updated_at = NOW()
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, token.String(), supported); err != nil {
		return fmt.Errorf("upsert token support: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsSupported(ctx context.Context, token domain.Address) (bool, error) {
	var supported bool
	query := `SELECT supported FROM token_support WHERE token = $1`
	err := s.execer(ctx).QueryRowContext(ctx, query, token.String()).Scan(&supported)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select token support: %w", err)
	}
	return supported, nil
}

func (s *PostgresStore) ListSupported(ctx context.Context) ([]domain.Address, error) {
	query := `SELECT token FROM token_support WHERE supported ORDER BY token`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list supported tokens: %w", err)
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		out = append(out, domain.Address(token))
	}
	return out, rows.Err()
}
