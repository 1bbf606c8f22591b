package tournamentqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	"github.com/acain89/SkillGrid/internal/jobqueue"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// Scheduler inserts round-start jobs. Jobs are unique by args, so a round
// scheduled twice runs once.
type Scheduler struct {
	inserter jobqueue.Inserter
	logger   *slog.Logger
}

var _ tournamentservice.RoundScheduler = (*Scheduler)(nil)

func NewScheduler(inserter jobqueue.Inserter, logger *slog.Logger) *Scheduler {
	return &Scheduler{inserter: inserter, logger: logger}
}

// ScheduleRoundStart implements tournamentservice.RoundScheduler. A start
// time already in the past runs as soon as a worker is free.
func (s *Scheduler) ScheduleRoundStart(ctx context.Context, tournamentID uuid.UUID, round int, startsAt time.Time) error {
	res, err := s.inserter.Insert(ctx, RoundStartJob{
		TournamentID: tournamentID.String(),
		Round:        round,
	}, &river.InsertOpts{
		Queue:       jobqueue.QueueTournament,
		ScheduledAt: startsAt,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		return fmt.Errorf("schedule round %d of %s: %w", round, tournamentID, err)
	}

	s.logger.InfoContext(ctx, "Round start job scheduled",
		attr.ExtractCorrelationID(ctx),
		attr.String("tournament_id", tournamentID.String()),
		attr.Int("round", round),
		attr.Time("starts_at", startsAt),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}
