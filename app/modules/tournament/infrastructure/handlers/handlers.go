// Package tournamenthandlers serves the tournament HTTP API.
package tournamenthandlers

import (
	"context"
	"log/slog"
	"net/http"

	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	"go.opentelemetry.io/otel/trace"
)

// OutcomePublisher announces recorded bracket outcomes.
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, out tournamentservice.MatchOutcome) error
}

// Handlers defines the tournament HTTP endpoints.
type Handlers interface {
	HandleCreateTournament(w http.ResponseWriter, r *http.Request)
	HandleListTournaments(w http.ResponseWriter, r *http.Request)
	HandleGetTournament(w http.ResponseWriter, r *http.Request)
	HandleJoinTournament(w http.ResponseWriter, r *http.Request)
	HandleRecordMatchResult(w http.ResponseWriter, r *http.Request)
	HandleExportResults(w http.ResponseWriter, r *http.Request)
}

// TournamentHandlers implements Handlers.
type TournamentHandlers struct {
	service   tournamentservice.Service
	publisher OutcomePublisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewTournamentHandlers creates a new instance of TournamentHandlers.
func NewTournamentHandlers(service tournamentservice.Service, publisher OutcomePublisher, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &TournamentHandlers{
		service:   service,
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
	}
}
