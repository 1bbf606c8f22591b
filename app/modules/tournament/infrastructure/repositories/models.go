package tournamentdb

import (
	"time"

	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tournament is the row form of a tournament. The bracket and placements are
// stored as JSONB documents beside the indexed scalar columns.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID            uuid.UUID                             `bun:"id,pk,type:uuid"`
	Tier          string                                `bun:"tier,notnull"`
	Format        string                                `bun:"format,notnull"`
	EntryFeeCents int64                                 `bun:"entry_fee_cents,notnull"`
	Status        string                                `bun:"status,notnull"`
	CurrentRound  int                                   `bun:"current_round,notnull,default:0"`
	Champion      string                                `bun:"champion,nullzero"`
	Players       []tournamentdomain.Player             `bun:"players,type:jsonb,notnull"`
	Rounds        []tournamentdomain.Round              `bun:"rounds,type:jsonb"`
	Placements    map[string]tournamentdomain.Placement `bun:"placements,type:jsonb,notnull"`
	Version       int64                                 `bun:"version,notnull,default:0"`
	CreatedAt     time.Time                             `bun:"created_at,notnull"`
	UpdatedAt     time.Time                             `bun:"updated_at,notnull"`
	CompletedAt   *time.Time                            `bun:"completed_at,nullzero"`
}

func fromDomain(t tournamentdomain.Tournament) *Tournament {
	players := t.Players
	if players == nil {
		players = []tournamentdomain.Player{}
	}
	placements := t.Placements
	if placements == nil {
		placements = map[string]tournamentdomain.Placement{}
	}
	return &Tournament{
		ID:            t.ID,
		Tier:          string(t.Tier),
		Format:        string(t.Format),
		EntryFeeCents: t.EntryFeeCents,
		Status:        string(t.Status),
		CurrentRound:  t.CurrentRound,
		Champion:      t.Champion,
		Players:       players,
		Rounds:        t.Rounds,
		Placements:    placements,
		Version:       t.Version,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		CompletedAt:   t.CompletedAt,
	}
}

func (m *Tournament) toDomain() tournamentdomain.Tournament {
	placements := m.Placements
	if placements == nil {
		placements = map[string]tournamentdomain.Placement{}
	}
	return tournamentdomain.Tournament{
		ID:            m.ID,
		Tier:          tournamentdomain.Tier(m.Tier),
		Format:        tournamentdomain.PayoutFormat(m.Format),
		EntryFeeCents: m.EntryFeeCents,
		Players:       m.Players,
		Rounds:        m.Rounds,
		CurrentRound:  m.CurrentRound,
		Champion:      m.Champion,
		Placements:    placements,
		Status:        tournamentdomain.Status(m.Status),
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CompletedAt:   m.CompletedAt,
	}
}
