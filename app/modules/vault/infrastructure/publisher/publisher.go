// Package vaultpublisher announces committed ledger entries on the event bus.
package vaultpublisher

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	vaultevents "github.com/acain89/SkillGrid/app/events/vault"
	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
)

// EntryPublisher implements vaultservice.EntryNotifier over watermill.
type EntryPublisher struct {
	publisher message.Publisher
}

var _ vaultservice.EntryNotifier = (*EntryPublisher)(nil)

func New(publisher message.Publisher) *EntryPublisher {
	return &EntryPublisher{publisher: publisher}
}

func (p *EntryPublisher) EntryRecorded(ctx context.Context, e vaultdomain.Entry) error {
	msg, err := handlerwrapper.NewMessage(ctx, handlerwrapper.Result{
		Topic: vaultevents.EntryRecordedV1,
		Payload: vaultevents.EntryRecordedPayloadV1{
			EntryID:           e.ID,
			UserID:            e.UserID,
			Kind:              string(e.Kind),
			AmountCents:       e.AmountCents,
			BalanceAfterCents: e.BalanceAfterCents,
			CreatedAt:         e.CreatedAt,
		},
		Metadata: map[string]string{"user_id": e.UserID},
	})
	if err != nil {
		return err
	}
	if err := p.publisher.Publish(vaultevents.EntryRecordedV1, msg); err != nil {
		return fmt.Errorf("publish entry %s: %w", e.ID, err)
	}
	return nil
}
