package vaultmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating vault tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS vault_accounts (
					user_id TEXT PRIMARY KEY,
					balance_cents BIGINT NOT NULL DEFAULT 0 CHECK (balance_cents >= 0),
					version BIGINT NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
				);
			`); err != nil {
				return fmt.Errorf("failed to create vault_accounts table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS vault_ledger_entries (
					id UUID PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES vault_accounts(user_id),
					kind VARCHAR(32) NOT NULL,
					amount_cents BIGINT NOT NULL CHECK (amount_cents <> 0),
					balance_after_cents BIGINT NOT NULL,
					metadata JSONB,
					idempotency_key TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT now()
				);
			`); err != nil {
				return fmt.Errorf("failed to create vault_ledger_entries table: %w", err)
			}

			for _, stmt := range []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_vault_ledger_entries_idempotency_key
					ON vault_ledger_entries(idempotency_key) WHERE idempotency_key IS NOT NULL;`,
				`CREATE INDEX IF NOT EXISTS idx_vault_ledger_entries_user_created
					ON vault_ledger_entries(user_id, created_at DESC);`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to add vault indices: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping vault tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, table := range []string{"vault_ledger_entries", "vault_accounts"} {
				if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+";"); err != nil {
					return fmt.Errorf("failed to drop %s: %w", table, err)
				}
			}
			return nil
		})
	})
}
