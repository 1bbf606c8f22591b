package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	tournamentmigrations "github.com/acain89/SkillGrid/app/modules/tournament/infrastructure/repositories/migrations"
	vaultmigrations "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/repositories/migrations"
	"github.com/acain89/SkillGrid/internal/jobqueue"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// appTables lists the tables truncated between tests.
var appTables = []string{"vault_payout_outbox", "vault_ledger_entries", "vault_accounts", "tournaments"}

// runMigrations applies the module migrations, vault first, then the river schema.
func runMigrations(ctx context.Context, db *bun.DB, pgConnStr string) error {
	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"vault", vaultmigrations.Migrations},
		{"tournament", tournamentmigrations.Migrations},
	}

	if err := migrate.NewMigrator(db, vaultmigrations.Migrations).Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}
	for _, mod := range orderedModules {
		group, err := migrate.NewMigrator(db, mod.migrations).Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
		log.Printf("Ran %s migrations group #%d", mod.name, group.ID)
	}

	pool, err := pgxpool.New(ctx, pgConnStr)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for river migrations: %w", err)
	}
	defer pool.Close()
	return jobqueue.Migrate(ctx, pool)
}

// CleanupDatabase truncates every application table and the river job table.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to clean river jobs: %w", err)
	}
	return nil
}
