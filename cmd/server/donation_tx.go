package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "givepact/pkg/domain-errors"
	txcontext "givepact/pkg/platform/tx"
)

const defaultDonationTxTimeout = 5 * time.Second

// donationPostgresTx brackets the donation pipeline's post-transfer writes in
// one database transaction, threaded to the stores through context.
type donationPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newDonationPostgresTx(db *sql.DB) *donationPostgresTx {
	return &donationPostgresTx{db: db}
}

func (t *donationPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultDonationTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}

	return tx.Commit()
}
