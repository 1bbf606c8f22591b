package vaultrouter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	vaultevents "github.com/acain89/SkillGrid/app/events/vault"
	vaulthandlers "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/handlers"
	"github.com/acain89/SkillGrid/internal/eventbus"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type channelBus struct {
	*gochannel.GoChannel
}

var _ eventbus.EventBus = channelBus{}

func (channelBus) CreateStream(context.Context, string, ...string) error { return nil }

func (channelBus) KeyValue(context.Context, string) (jetstream.KeyValue, error) { return nil, nil }

type recordingHandlers struct {
	deposits chan vaultevents.DepositConfirmedPayloadV1
}

var _ vaulthandlers.Handlers = (*recordingHandlers)(nil)

func (*recordingHandlers) HandleGetBalance(http.ResponseWriter, *http.Request) {}
func (*recordingHandlers) HandleGetHistory(http.ResponseWriter, *http.Request) {}
func (*recordingHandlers) HandleGetChart(http.ResponseWriter, *http.Request)   {}
func (*recordingHandlers) HandleWithdraw(http.ResponseWriter, *http.Request)   {}

func (h *recordingHandlers) HandleDepositConfirmed(_ context.Context, p *vaultevents.DepositConfirmedPayloadV1) ([]handlerwrapper.Result, error) {
	h.deposits <- *p
	return nil, nil
}

func TestVaultRouter_DeliversDeposits(t *testing.T) {
	t.Setenv(TestEnvironmentFlag, TestEnvironmentValue)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := channelBus{gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})}
	defer bus.Close()

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NopLogger{})
	require.NoError(t, err)

	handlers := &recordingHandlers{deposits: make(chan vaultevents.DepositConfirmedPayloadV1, 1)}
	vr := NewVaultRouter(logger, router, bus, bus, noop.NewTracerProvider().Tracer("test"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, vr.Configure(ctx, handlers))

	go func() { _ = router.Run(ctx) }()
	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	defer vr.Close()

	deposit := vaultevents.DepositConfirmedPayloadV1{UserID: "u1", AmountCents: 1500, ProviderReference: "pi_9"}
	data, err := json.Marshal(deposit)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(vaultevents.DepositConfirmedV1, message.NewMessage(watermill.NewUUID(), data)))

	select {
	case got := <-handlers.deposits:
		assert.Equal(t, deposit, got)
	case <-time.After(5 * time.Second):
		t.Fatal("deposit was not delivered")
	}
}
