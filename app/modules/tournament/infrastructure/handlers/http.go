package tournamenthandlers

import (
	"fmt"
	"net/http"
	"strconv"

	authmiddleware "github.com/acain89/SkillGrid/app/modules/auth/infrastructure/middleware"
	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/acain89/SkillGrid/internal/httpx"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type createTournamentRequest struct {
	Tier          tournamentdomain.Tier         `json:"tier"`
	Format        tournamentdomain.PayoutFormat `json:"format"`
	EntryFeeCents int64                         `json:"entry_fee_cents"`
	Players       []tournamentdomain.Player     `json:"players"`
}

type joinRequest struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

type matchResultRequest struct {
	WinningSeat tournamentdomain.Seat `json:"winning_seat"`
}

type matchResultResponse struct {
	Tournament        tournamentdomain.Tournament `json:"tournament"`
	Match             tournamentdomain.Match      `json:"match"`
	Placement         *tournamentdomain.Placement `json:"placement,omitempty"`
	ChampionPlacement *tournamentdomain.Placement `json:"champion_placement,omitempty"`
	Duplicate         bool                        `json:"duplicate"`
}

func (h *TournamentHandlers) HandleCreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HandleCreateTournament")
	defer span.End()

	var req createTournamentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.CreateTournament(ctx, tournamentservice.CreateTournamentRequest{
		Tier:          req.Tier,
		Format:        req.Format,
		EntryFeeCents: req.EntryFeeCents,
		Players:       req.Players,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Create tournament failed", attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res.Success)
}

func (h *TournamentHandlers) HandleListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := tournamentdomain.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		httpx.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", status))
		return
	}
	limit, err := httpx.QueryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 {
		httpx.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	limit = min(limit, maxListLimit)

	res, err := h.service.ListTournaments(ctx, status, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "List tournaments failed", attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Success)
}

func (h *TournamentHandlers) HandleGetTournament(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	res, err := h.service.GetTournament(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Get tournament failed", attr.String("tournament_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Success)
}

func (h *TournamentHandlers) HandleJoinTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HandleJoinTournament")
	defer span.End()

	id, ok := tournamentID(w, r)
	if !ok {
		return
	}
	var req joinRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, ok := authmiddleware.ClaimsFromContext(ctx)
	if !ok || !claims.CanActFor(req.PlayerID) {
		httpx.WriteError(w, http.StatusForbidden, "cannot join for another player")
		return
	}

	res, err := h.service.JoinTournament(ctx, id, tournamentdomain.Player{ID: req.PlayerID, DisplayName: req.DisplayName})
	if err != nil {
		h.logger.ErrorContext(ctx, "Join tournament failed", attr.String("tournament_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Success)
}

// HandleRecordMatchResult lets an operator settle a bracket match directly,
// for example after a forfeit outside the game client.
func (h *TournamentHandlers) HandleRecordMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HandleRecordMatchResult")
	defer span.End()

	id, ok := tournamentID(w, r)
	if !ok {
		return
	}
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid round")
		return
	}
	match, err := strconv.Atoi(chi.URLParam(r, "match"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid match")
		return
	}
	var req matchResultRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.RecordBracketMatchResult(ctx, id, round, match, req.WinningSeat)
	if err != nil {
		h.logger.ErrorContext(ctx, "Record match result failed", attr.String("tournament_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}

	out := *res.Success
	if err := h.publisher.PublishOutcome(ctx, out); err != nil {
		// The result is committed; a retry replays it and publishes again.
		h.logger.ErrorContext(ctx, "Publishing match outcome failed", attr.String("tournament_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "result recorded, notification pending; retry the request")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, matchResultResponse{
		Tournament:        out.Tournament,
		Match:             out.Match,
		Placement:         out.Placement,
		ChampionPlacement: out.ChampionPlacement,
		Duplicate:         out.Duplicate,
	})
}

func (h *TournamentHandlers) HandleExportResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	res, err := h.service.GetTournament(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Get tournament failed", attr.String("tournament_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}

	data, err := tournamentservice.ExportResults(*res.Success)
	if err != nil {
		h.logger.ErrorContext(ctx, "Export results failed", attr.String("tournament_id", id.String()), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tournament-%s.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func tournamentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid tournament id")
		return uuid.Nil, false
	}
	return id, true
}
