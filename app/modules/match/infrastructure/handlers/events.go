package matchhandlers

import (
	"context"

	matchevents "github.com/acain89/SkillGrid/app/events/match"
	tournamentevents "github.com/acain89/SkillGrid/app/events/tournament"
	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchservice "github.com/acain89/SkillGrid/app/modules/match/application"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
	"github.com/acain89/SkillGrid/internal/observability/attr"
)

// HandleMatchReady opens the live session for a bracket match that has
// reached its start time.
func (h *MatchHandlers) HandleMatchReady(ctx context.Context, payload *tournamentevents.MatchReadyPayloadV1) ([]handlerwrapper.Result, error) {
	res, err := h.service.OpenSession(ctx, matchservice.OpenSessionRequest{
		TournamentID: payload.TournamentID,
		Round:        payload.Round,
		Match:        payload.Match,
		PlayerA:      payload.PlayerA,
		PlayerB:      payload.PlayerB,
	})
	if err != nil {
		return nil, err
	}
	if res.IsFailure() {
		h.logger.WarnContext(ctx, "Match session not opened",
			attr.ExtractCorrelationID(ctx),
			attr.String("tournament_id", payload.TournamentID.String()),
			attr.Int("round", payload.Round),
			attr.Int("match", payload.Match),
			attr.Error(*res.Failure),
		)
		return nil, nil
	}

	h.logger.InfoContext(ctx, "Match session open",
		attr.ExtractCorrelationID(ctx),
		attr.String("match_id", res.Success.MatchID.String()),
	)
	return nil, nil
}

// HandleGameResultReported records a game result sent by a game client host.
// Rejected results are logged and acknowledged; only infrastructure errors
// are redelivered.
func (h *MatchHandlers) HandleGameResultReported(ctx context.Context, payload *matchevents.GameResultReportedPayloadV1) ([]handlerwrapper.Result, error) {
	logger := h.logger.With(
		attr.ExtractCorrelationID(ctx),
		attr.String("match_id", payload.MatchID),
		attr.String("game_type", payload.GameType),
		attr.Int("game_number", payload.GameNumber),
	)

	seat, err := gamedomain.ParseSeat(payload.WinningSeat)
	if err != nil {
		logger.WarnContext(ctx, "Dropping game result", attr.Error(err))
		return nil, nil
	}

	res, err := h.service.ReportSeriesGameResult(ctx,
		matchdomain.MatchID(payload.MatchID),
		gamedomain.GameType(payload.GameType),
		payload.GameNumber,
		seat,
	)
	if err != nil {
		return nil, err
	}
	if res.IsFailure() {
		logger.WarnContext(ctx, "Game result rejected", attr.Error(*res.Failure))
		return nil, nil
	}

	report := res.Success
	logger.InfoContext(ctx, "Game result recorded",
		attr.String("status", string(report.Status)),
		attr.Bool("duplicate", report.Duplicate),
		attr.Bool("series_complete", report.SeriesComplete),
	)
	return nil, nil
}
