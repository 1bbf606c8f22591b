package tournamentmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating tournaments table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS tournaments (
					id UUID PRIMARY KEY,
					tier VARCHAR(16) NOT NULL,
					format VARCHAR(16) NOT NULL,
					entry_fee_cents BIGINT NOT NULL CHECK (entry_fee_cents > 0),
					status VARCHAR(16) NOT NULL,
					current_round INTEGER NOT NULL DEFAULT 0,
					champion TEXT,
					players JSONB NOT NULL DEFAULT '[]'::jsonb,
					rounds JSONB,
					placements JSONB NOT NULL DEFAULT '{}'::jsonb,
					version BIGINT NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					completed_at TIMESTAMPTZ
				);
			`); err != nil {
				return fmt.Errorf("failed to create tournaments table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_tournaments_status_created_at ON tournaments(status, created_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to add index to tournaments: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping tournaments table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS tournaments;`); err != nil {
				return fmt.Errorf("failed to drop tournaments table: %w", err)
			}
			return nil
		})
	})
}
