package tournamentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new tournament repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateTournament inserts a new tournament.
func (r *Impl) CreateTournament(ctx context.Context, db bun.IDB, t *tournamentdomain.Tournament) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(fromDomain(*t)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create tournament %s: %w", t.ID, err)
	}
	return nil
}

// GetTournament retrieves a tournament by ID.
func (r *Impl) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamentdomain.Tournament, error) {
	return r.get(ctx, r.resolveDB(db), id, false)
}

// GetTournamentForUpdate retrieves a tournament and holds its row lock.
func (r *Impl) GetTournamentForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamentdomain.Tournament, error) {
	return r.get(ctx, r.resolveDB(db), id, true)
}

func (r *Impl) get(ctx context.Context, db bun.IDB, id uuid.UUID, lock bool) (tournamentdomain.Tournament, error) {
	row := new(Tournament)
	q := db.NewSelect().Model(row).Where("id = ?", id)
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tournamentdomain.Tournament{}, ErrNotFound
		}
		return tournamentdomain.Tournament{}, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return row.toDomain(), nil
}

// UpdateTournament writes t guarded by its version and bumps t.Version on success.
func (r *Impl) UpdateTournament(ctx context.Context, db bun.IDB, t *tournamentdomain.Tournament) error {
	db = r.resolveDB(db)
	row := fromDomain(*t)
	row.Version = t.Version + 1

	res, err := db.NewUpdate().
		Model(row).
		ExcludeColumn("id", "created_at").
		Where("id = ?", t.ID).
		Where("version = ?", t.Version).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update tournament %s: %w", t.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s at version %d", ErrVersionConflict, t.ID, t.Version)
	}
	t.Version = row.Version
	return nil
}

// ListTournaments returns the newest tournaments, optionally filtered by status.
func (r *Impl) ListTournaments(ctx context.Context, db bun.IDB, status tournamentdomain.Status, limit int) ([]tournamentdomain.Tournament, error) {
	db = r.resolveDB(db)
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	var rows []Tournament
	q := db.NewSelect().Model(&rows).OrderExpr("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	out := make([]tournamentdomain.Tournament, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
