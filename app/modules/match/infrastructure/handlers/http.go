package matchhandlers

import (
	"encoding/json"
	"net/http"

	authmiddleware "github.com/acain89/SkillGrid/app/modules/auth/infrastructure/middleware"
	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	"github.com/acain89/SkillGrid/internal/httpx"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type moveRequest struct {
	GameType gamedomain.GameType `json:"game_type"`
	Move     json.RawMessage     `json:"move"`
}

type resultRequest struct {
	GameType    gamedomain.GameType `json:"game_type"`
	GameNumber  int                 `json:"game_number"`
	WinningSeat string              `json:"winning_seat"`
}

func (h *MatchHandlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := matchID(r)

	res, err := h.service.GetSession(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Get session failed", attr.String("match_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Success)
}

// HandleApplyMove plays a move for the caller's own seat.
func (h *MatchHandlers) HandleApplyMove(w http.ResponseWriter, r *http.Request) {
	id := matchID(r)
	ctx, span := h.tracer.Start(r.Context(), "HandleApplyMove", trace.WithAttributes(
		attribute.String("match_id", id.String()),
	))
	defer span.End()

	var req moveRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	move, err := gamedomain.DecodeMove(req.GameType, req.Move)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims, ok := authmiddleware.ClaimsFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing claims")
		return
	}

	sessRes, err := h.service.GetSession(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Get session failed", attr.String("match_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if sessRes.IsFailure() {
		writeFailure(w, *sessRes.Failure)
		return
	}
	seat := sessRes.Success.SeatOf(claims.UserID)
	if seat == gamedomain.SeatNone {
		httpx.WriteError(w, http.StatusForbidden, "not a player in this match")
		return
	}

	res, err := h.service.ApplyGameMove(ctx, id, seat, move)
	if err != nil {
		h.logger.ErrorContext(ctx, "Apply move failed", attr.String("match_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Success)
}

// HandleReportResult records a game decided outside the engines, such as a
// forfeit or an adjudicated disconnect.
func (h *MatchHandlers) HandleReportResult(w http.ResponseWriter, r *http.Request) {
	id := matchID(r)
	ctx, span := h.tracer.Start(r.Context(), "HandleReportResult", trace.WithAttributes(
		attribute.String("match_id", id.String()),
	))
	defer span.End()

	var req resultRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	seat, err := gamedomain.ParseSeat(req.WinningSeat)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.ReportSeriesGameResult(ctx, id, req.GameType, req.GameNumber, seat)
	if err != nil {
		h.logger.ErrorContext(ctx, "Report game result failed", attr.String("match_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Success)
}

func matchID(r *http.Request) matchdomain.MatchID {
	return matchdomain.MatchID(chi.URLParam(r, "matchID"))
}
