package tournamentqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	tournamentevents "github.com/acain89/SkillGrid/app/events/tournament"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RoundStarter is the part of the tournament service the worker drives.
type RoundStarter interface {
	StartRound(ctx context.Context, id uuid.UUID, round int) (tournamentservice.RoundStartResult, error)
}

// RoundStartWorker starts a round and publishes a match-ready event for
// every match in progress. Re-running it republishes the same events, which
// consumers treat as duplicates.
type RoundStartWorker struct {
	river.WorkerDefaults[RoundStartJob]

	service   RoundStarter
	publisher message.Publisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

func NewRoundStartWorker(service RoundStarter, publisher message.Publisher, logger *slog.Logger, tracer trace.Tracer) *RoundStartWorker {
	return &RoundStartWorker{
		service:   service,
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
	}
}

func (w *RoundStartWorker) Work(ctx context.Context, job *river.Job[RoundStartJob]) error {
	ctx, span := w.tracer.Start(ctx, "RoundStartWorker.Work", trace.WithAttributes(
		attribute.String("tournament_id", job.Args.TournamentID),
		attribute.Int("round", job.Args.Round),
		attribute.Int64("job_id", job.ID),
	))
	defer span.End()

	id, err := uuid.Parse(job.Args.TournamentID)
	if err != nil {
		return river.JobCancel(fmt.Errorf("invalid tournament id %q: %w", job.Args.TournamentID, err))
	}

	result, err := w.service.StartRound(ctx, id, job.Args.Round)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if result.IsFailure() {
		w.logger.WarnContext(ctx, "Round could not be started, cancelling job",
			attr.String("tournament_id", id.String()),
			attr.Int("round", job.Args.Round),
			attr.Error(*result.Failure),
		)
		return river.JobCancel(*result.Failure)
	}

	start := result.Success
	for _, m := range start.Matches {
		startsAt := job.ScheduledAt
		if m.StartsAt != nil {
			startsAt = *m.StartsAt
		}
		msg, err := handlerwrapper.NewMessage(ctx, handlerwrapper.Result{
			Topic: tournamentevents.MatchReadyV1,
			Payload: tournamentevents.MatchReadyPayloadV1{
				TournamentID: start.TournamentID,
				MatchID:      string(matchdomain.NewMatchID(start.TournamentID, m.Round, m.Index)),
				Round:        m.Round,
				Match:        m.Index,
				PlayerA:      m.SeatA,
				PlayerB:      m.SeatB,
				StartsAt:     startsAt,
			},
		})
		if err != nil {
			return river.JobCancel(err)
		}
		if err := w.publisher.Publish(tournamentevents.MatchReadyV1, msg); err != nil {
			span.RecordError(err)
			return fmt.Errorf("publish match ready %d/%d: %w", m.Round, m.Index, err)
		}
	}

	w.logger.InfoContext(ctx, "Round started",
		attr.String("tournament_id", id.String()),
		attr.Int("round", job.Args.Round),
		attr.Int("matches", len(start.Matches)),
	)
	return nil
}
