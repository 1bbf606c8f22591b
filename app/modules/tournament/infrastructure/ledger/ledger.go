// Package tournamentledger posts tournament money movements to the vault
// inside the bracket transaction.
package tournamentledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/uptrace/bun"
)

// Poster writes one vault posting in the caller's transaction.
type Poster interface {
	PostTx(ctx context.Context, db bun.IDB, p vaultdomain.Posting) (vaultservice.Receipt, error)
}

// Vault adapts the vault service to tournamentservice.Ledger. New entries
// are handed to notifier once the bracket transaction commits.
type Vault struct {
	poster   Poster
	notifier vaultservice.EntryNotifier
	logger   *slog.Logger
}

var _ tournamentservice.Ledger = (*Vault)(nil)

// New builds the adapter. A nil notifier disables entry announcements.
func New(poster Poster, notifier vaultservice.EntryNotifier, logger *slog.Logger) *Vault {
	return &Vault{poster: poster, notifier: notifier, logger: logger}
}

// posted is an entry written inside a bracket transaction.
type posted struct {
	v     *Vault
	entry vaultdomain.Entry
}

func (p posted) Announce(ctx context.Context) {
	if p.v.notifier == nil {
		return
	}
	if err := p.v.notifier.EntryRecorded(ctx, p.entry); err != nil {
		p.v.logger.WarnContext(ctx, "Failed to announce tournament ledger entry",
			attr.ExtractCorrelationID(ctx),
			attr.String("entry_id", p.entry.ID.String()),
			attr.String("user_id", p.entry.UserID),
			attr.String("kind", string(p.entry.Kind)),
			attr.Error(err),
		)
	}
}

func (v *Vault) post(receipt vaultservice.Receipt) tournamentservice.LedgerPost {
	if receipt.Duplicate {
		return nil
	}
	return posted{v: v, entry: receipt.Entry}
}

// ChargeEntryFee debits a seat. Any ledger rejection, most often a short
// balance, is reported as a declined fee.
func (v *Vault) ChargeEntryFee(ctx context.Context, db bun.IDB, debit tournamentdomain.EntryFeeDebit) (tournamentservice.LedgerPost, error) {
	receipt, err := v.poster.PostTx(ctx, db, vaultdomain.Posting{
		UserID:      debit.PlayerID,
		Kind:        vaultdomain.KindEntryFee,
		Direction:   vaultdomain.Debit,
		AmountCents: debit.AmountCents,
		Metadata: map[string]string{
			"tournament_id": debit.TournamentID.String(),
		},
		IdempotencyKey: debit.IdempotencyKey(),
	})
	if err != nil {
		if vaultdomain.IsRejection(err) {
			return nil, fmt.Errorf("%w: %w", tournamentservice.ErrEntryFeeDeclined, err)
		}
		return nil, fmt.Errorf("charge entry fee for %s: %w", debit.PlayerID, err)
	}
	return v.post(receipt), nil
}

// PayPrize credits a placement. Zero-value placements carry no money and
// write nothing.
func (v *Vault) PayPrize(ctx context.Context, db bun.IDB, credit tournamentdomain.PrizeCredit) (tournamentservice.LedgerPost, error) {
	if credit.AmountCents <= 0 {
		return nil, nil
	}
	receipt, err := v.poster.PostTx(ctx, db, vaultdomain.Posting{
		UserID:      credit.PlayerID,
		Kind:        vaultdomain.KindPrize,
		Direction:   vaultdomain.Credit,
		AmountCents: credit.AmountCents,
		Metadata: map[string]string{
			"tournament_id": credit.TournamentID.String(),
			"bucket":        string(credit.Bucket),
			"rank":          strconv.Itoa(credit.Rank),
		},
		IdempotencyKey: credit.IdempotencyKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("pay prize to %s: %w", credit.PlayerID, err)
	}
	return v.post(receipt), nil
}
