package tournamentdb

import (
	"context"

	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists tournaments. A nil db uses the repository's own
// connection; pass the transaction when the call belongs to one.
//
// Error semantics:
//   - ErrNotFound: no tournament with that ID
//   - ErrVersionConflict: UpdateTournament saw a newer version
//   - anything else: infrastructure failure
type Repository interface {
	CreateTournament(ctx context.Context, db bun.IDB, t *tournamentdomain.Tournament) error
	GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamentdomain.Tournament, error)
	// GetTournamentForUpdate row-locks the tournament until the transaction ends.
	GetTournamentForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamentdomain.Tournament, error)
	// UpdateTournament writes t if its Version still matches and bumps Version.
	UpdateTournament(ctx context.Context, db bun.IDB, t *tournamentdomain.Tournament) error
	ListTournaments(ctx context.Context, db bun.IDB, status tournamentdomain.Status, limit int) ([]tournamentdomain.Tournament, error)
}
