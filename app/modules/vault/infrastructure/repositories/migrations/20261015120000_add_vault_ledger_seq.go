package vaultmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding vault ledger sequence...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, stmt := range []string{
				`ALTER TABLE vault_ledger_entries ADD COLUMN IF NOT EXISTS seq BIGSERIAL;`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_vault_ledger_entries_seq
					ON vault_ledger_entries(seq);`,
				`CREATE INDEX IF NOT EXISTS idx_vault_ledger_entries_user_seq
					ON vault_ledger_entries(user_id, seq DESC);`,
				`DROP INDEX IF EXISTS idx_vault_ledger_entries_user_created;`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to add vault ledger sequence: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping vault ledger sequence...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, stmt := range []string{
				`CREATE INDEX IF NOT EXISTS idx_vault_ledger_entries_user_created
					ON vault_ledger_entries(user_id, created_at DESC);`,
				`ALTER TABLE vault_ledger_entries DROP COLUMN IF EXISTS seq;`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to drop vault ledger sequence: %w", err)
				}
			}
			return nil
		})
	})
}
