// Package matchhandlers serves live matches over HTTP and reacts to bracket
// and game client events.
package matchhandlers

import (
	"context"
	"log/slog"
	"net/http"

	matchevents "github.com/acain89/SkillGrid/app/events/match"
	tournamentevents "github.com/acain89/SkillGrid/app/events/tournament"
	matchservice "github.com/acain89/SkillGrid/app/modules/match/application"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// Handlers defines the match HTTP endpoints and event handlers.
type Handlers interface {
	HandleGetSession(w http.ResponseWriter, r *http.Request)
	HandleApplyMove(w http.ResponseWriter, r *http.Request)
	HandleReportResult(w http.ResponseWriter, r *http.Request)

	HandleMatchReady(ctx context.Context, payload *tournamentevents.MatchReadyPayloadV1) ([]handlerwrapper.Result, error)
	HandleGameResultReported(ctx context.Context, payload *matchevents.GameResultReportedPayloadV1) ([]handlerwrapper.Result, error)
}

// MatchHandlers implements Handlers.
type MatchHandlers struct {
	service matchservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewMatchHandlers creates a new instance of MatchHandlers.
func NewMatchHandlers(service matchservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &MatchHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}
