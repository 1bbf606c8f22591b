package vaultqueue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/sony/gobreaker"
)

// ErrPayoutRejected means the rail refused the payout and retrying will not help.
var ErrPayoutRejected = errors.New("payout rejected by rail")

// PayoutRail moves money out to the user. Send must be idempotent per
// withdrawal ID.
type PayoutRail interface {
	Send(ctx context.Context, p vaultservice.Payout) error
}

// HTTPRail posts payouts as JSON to an external payout provider. Calls go
// through a circuit breaker so an outage fails fast instead of holding
// workers.
type HTTPRail struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewHTTPRail(url string, client *http.Client, logger *slog.Logger) *HTTPRail {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPRail{
		url:    url,
		client: client,
		logger: logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "payout-rail",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
			// Rejections are the provider answering; they say nothing about its health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrPayoutRejected)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Payout rail breaker changed state",
					attr.String("breaker", name),
					attr.String("from", from.String()),
					attr.String("to", to.String()),
				)
			},
		}),
	}
}

type payoutRequest struct {
	WithdrawalID string `json:"withdrawal_id"`
	UserID       string `json:"user_id"`
	AmountCents  int64  `json:"amount_cents"`
}

func (r *HTTPRail) Send(ctx context.Context, p vaultservice.Payout) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.send(ctx, p)
	})
	return err
}

func (r *HTTPRail) send(ctx context.Context, p vaultservice.Payout) error {
	body, err := json.Marshal(payoutRequest{
		WithdrawalID: p.WithdrawalID.String(),
		UserID:       p.UserID,
		AmountCents:  p.AmountCents,
	})
	if err != nil {
		return fmt.Errorf("marshal payout: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build payout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", p.WithdrawalID.String())

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send payout: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		// Already paid under this idempotency key.
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrPayoutRejected, resp.StatusCode, bytes.TrimSpace(msg))
	default:
		return fmt.Errorf("payout rail returned status %d", resp.StatusCode)
	}
}

// LogRail accepts every payout and only logs it. It stands in for the rail
// when no provider URL is configured.
type LogRail struct {
	logger *slog.Logger
}

func NewLogRail(logger *slog.Logger) *LogRail { return &LogRail{logger: logger} }

func (r *LogRail) Send(ctx context.Context, p vaultservice.Payout) error {
	r.logger.InfoContext(ctx, "Payout accepted by log rail",
		attr.String("withdrawal_id", p.WithdrawalID.String()),
		attr.String("user_id", p.UserID),
		attr.Int64("amount_cents", p.AmountCents),
	)
	return nil
}
