package vaulthandlers

import (
	"net/http"

	authmiddleware "github.com/acain89/SkillGrid/app/modules/auth/infrastructure/middleware"
	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/acain89/SkillGrid/internal/httpx"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
)

// IdempotencyKeyHeader lets clients retry a withdrawal safely.
const IdempotencyKeyHeader = "Idempotency-Key"

type withdrawRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type receiptResponse struct {
	Entry        vaultdomain.Entry `json:"entry"`
	BalanceCents int64             `json:"balance_cents"`
	Duplicate    bool              `json:"duplicate"`
}

func (h *VaultHandlers) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}

	res, err := h.service.Balance(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Get balance failed", attr.String("user_id", userID), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Success)
}

// HandleGetHistory returns the newest entries first. The service applies the
// default and maximum page size.
func (h *VaultHandlers) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}
	limit, err := httpx.QueryInt(r, "limit", vaultdomain.DefaultHistoryLimit)
	if err != nil || limit < 1 {
		httpx.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	res, err := h.service.History(ctx, userID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "Get history failed", attr.String("user_id", userID), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Success)
}

func (h *VaultHandlers) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HandleGetChart")
	defer span.End()

	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}

	res, err := h.service.History(ctx, userID, vaultdomain.MaxHistoryLimit)
	if err != nil {
		h.logger.ErrorContext(ctx, "Get history failed", attr.String("user_id", userID), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}

	png, err := vaultservice.GenerateBalanceChart(*res.Success, h.palette)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Render balance chart failed", attr.String("user_id", userID), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// HandleWithdraw debits the account and queues the payout. A new withdrawal
// answers 202; a retry with the same Idempotency-Key answers 200 with the
// original entry.
func (h *VaultHandlers) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HandleWithdraw")
	defer span.End()

	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("user_id", userID))

	var req withdrawRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.Withdraw(ctx, userID, req.AmountCents, r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Withdraw failed", attr.String("user_id", userID), attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if res.IsFailure() {
		writeFailure(w, *res.Failure)
		return
	}

	receipt := res.Success
	status := http.StatusAccepted
	if receipt.Duplicate {
		status = http.StatusOK
	}
	httpx.WriteJSON(w, status, receiptResponse{
		Entry:        receipt.Entry,
		BalanceCents: receipt.BalanceCents,
		Duplicate:    receipt.Duplicate,
	})
}

// authorizedUser reads {userID} and checks the caller may act for it.
func (h *VaultHandlers) authorizedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	claims, ok := authmiddleware.ClaimsFromContext(r.Context())
	if !ok || !claims.CanActFor(userID) {
		httpx.WriteError(w, http.StatusForbidden, "cannot access another user's vault")
		return "", false
	}
	return userID, true
}
