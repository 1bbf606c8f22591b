// Package vaulthandlers serves account balances and withdrawals over HTTP and
// credits confirmed deposits from the event bus.
package vaulthandlers

import (
	"context"
	"log/slog"
	"net/http"

	vaultevents "github.com/acain89/SkillGrid/app/events/vault"
	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// Handlers defines the vault HTTP endpoints and event handlers.
type Handlers interface {
	HandleGetBalance(w http.ResponseWriter, r *http.Request)
	HandleGetHistory(w http.ResponseWriter, r *http.Request)
	HandleGetChart(w http.ResponseWriter, r *http.Request)
	HandleWithdraw(w http.ResponseWriter, r *http.Request)

	HandleDepositConfirmed(ctx context.Context, payload *vaultevents.DepositConfirmedPayloadV1) ([]handlerwrapper.Result, error)
}

// VaultHandlers implements Handlers.
type VaultHandlers struct {
	service vaultservice.Service
	palette vaultservice.ChartPalette
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewVaultHandlers creates a new instance of VaultHandlers.
func NewVaultHandlers(service vaultservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &VaultHandlers{
		service: service,
		palette: vaultservice.DefaultChartPalette,
		logger:  logger,
		tracer:  tracer,
	}
}
