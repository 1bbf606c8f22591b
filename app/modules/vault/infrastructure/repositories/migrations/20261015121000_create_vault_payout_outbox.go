package vaultmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating vault payout outbox...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS vault_payout_outbox (
					withdrawal_id UUID PRIMARY KEY REFERENCES vault_ledger_entries(id),
					user_id TEXT NOT NULL,
					amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					queued_at TIMESTAMPTZ
				);
			`); err != nil {
				return fmt.Errorf("failed to create vault_payout_outbox table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_vault_payout_outbox_pending
					ON vault_payout_outbox(created_at) WHERE queued_at IS NULL;
			`); err != nil {
				return fmt.Errorf("failed to add vault payout outbox index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping vault payout outbox...")

		_, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS vault_payout_outbox;")
		return err
	})
}
