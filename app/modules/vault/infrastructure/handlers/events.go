package vaulthandlers

import (
	"context"

	vaultevents "github.com/acain89/SkillGrid/app/events/vault"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
	"github.com/acain89/SkillGrid/internal/observability/attr"
)

// HandleDepositConfirmed credits a settled deposit. The provider reference
// keys the credit, so redelivery is harmless. Rejected deposits are logged
// and acknowledged.
func (h *VaultHandlers) HandleDepositConfirmed(ctx context.Context, payload *vaultevents.DepositConfirmedPayloadV1) ([]handlerwrapper.Result, error) {
	logger := h.logger.With(
		attr.ExtractCorrelationID(ctx),
		attr.String("user_id", payload.UserID),
		attr.String("provider_reference", payload.ProviderReference),
		attr.Int64("amount_cents", payload.AmountCents),
	)

	res, err := h.service.ConfirmDeposit(ctx, payload.UserID, payload.AmountCents, payload.ProviderReference)
	if err != nil {
		return nil, err
	}
	if res.IsFailure() {
		logger.WarnContext(ctx, "Deposit rejected", attr.Error(*res.Failure))
		return nil, nil
	}

	if res.Success.Duplicate {
		logger.InfoContext(ctx, "Deposit already credited")
		return nil, nil
	}
	logger.InfoContext(ctx, "Deposit credited",
		attr.String("entry_id", res.Success.Entry.ID.String()),
		attr.Int64("balance_cents", res.Success.BalanceCents),
	)
	return nil, nil
}
