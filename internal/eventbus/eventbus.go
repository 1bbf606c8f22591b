// Package eventbus connects watermill to NATS JetStream and provisions the
// streams and key-value buckets SkillGrid relies on.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventBus publishes and subscribes over JetStream subjects.
type EventBus interface {
	message.Publisher
	message.Subscriber
	// CreateStream ensures a stream exists and covers every subject given.
	CreateStream(ctx context.Context, name string, subjects ...string) error
	// KeyValue opens the named bucket, creating it when missing.
	KeyValue(ctx context.Context, bucket string) (jetstream.KeyValue, error)
}

// Streams lists the JetStream streams and the subject filters each one owns.
var Streams = map[string][]string{
	"match":      {"match.>"},
	"tournament": {"tournament.>"},
	"vault":      {"vault.>"},
}

type natsEventBus struct {
	publisher  *nats.Publisher
	subscriber *nats.Subscriber
	js         jetstream.JetStream
	conn       *nc.Conn
	logger     *slog.Logger

	streamMu       sync.Mutex
	createdStreams map[string]bool
}

var _ EventBus = (*natsEventBus)(nil)

// New connects to NATS, provisions Streams and returns a watermill-backed bus.
func New(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("NATS subscription error", attr.String("subject", s.Subject), attr.Error(err))
				return
			}
			logger.Error("NATS connection error", attr.Error(err))
		}),
	}

	conn, err := nc.Connect(natsURL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}
	jsConfig := nats.JetStreamConfig{
		AutoProvision: false,
		DurablePrefix: "skillgrid",
	}

	publisher, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         natsURL,
		NatsOptions: options,
		Marshaler:   marshaler,
		JetStream:   jsConfig,
	}, wmLogger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:              natsURL,
		QueueGroupPrefix: "skillgrid",
		SubscribersCount: 4,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     30 * time.Second,
		NatsOptions:      options,
		Unmarshaler:      marshaler,
		JetStream:        jsConfig,
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to create watermill subscriber: %w", err)
	}

	bus := &natsEventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		conn:           conn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}

	names := make([]string, 0, len(Streams))
	for name := range Streams {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := bus.CreateStream(ctx, name, Streams[name]...); err != nil {
			_ = bus.Close()
			return nil, err
		}
	}

	return bus, nil
}

func (b *natsEventBus) Publish(topic string, msgs ...*message.Message) error {
	for _, m := range msgs {
		if m.UUID == "" {
			m.UUID = watermill.NewUUID()
		}
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	b.logger.Debug("Published messages", attr.String("topic", topic), attr.Int("count", len(msgs)))
	return nil
}

func (b *natsEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	b.logger.Info("Subscription started", attr.String("topic", topic))
	return ch, nil
}

func (b *natsEventBus) CreateStream(ctx context.Context, name string, subjects ...string) error {
	if !isValidStreamName(name) {
		return fmt.Errorf("invalid stream name %q", name)
	}

	b.streamMu.Lock()
	defer b.streamMu.Unlock()

	if b.createdStreams[name] {
		return nil
	}

	stream, err := b.js.Stream(ctx, name)
	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := b.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:      name,
			Subjects:  subjects,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
		}); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}
		b.logger.Info("Stream created", attr.String("stream", name), attr.Any("subjects", subjects))
	case err != nil:
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	default:
		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info for %s: %w", name, err)
		}
		cfg := info.Config
		changed := false
		for _, s := range subjects {
			if !slices.Contains(cfg.Subjects, s) {
				cfg.Subjects = append(cfg.Subjects, s)
				changed = true
			}
		}
		if changed {
			if _, err := b.js.UpdateStream(ctx, cfg); err != nil {
				return fmt.Errorf("failed to update stream %s: %w", name, err)
			}
			b.logger.Info("Stream updated with new subjects", attr.String("stream", name))
		}
	}

	b.createdStreams[name] = true
	return nil
}

func (b *natsEventBus) KeyValue(ctx context.Context, bucket string) (jetstream.KeyValue, error) {
	kv, err := b.js.KeyValue(ctx, bucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, fmt.Errorf("failed to open bucket %s: %w", bucket, err)
	}

	kv, err = b.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  bucket,
		History: 1,
		TTL:     24 * time.Hour,
	})
	if errors.Is(err, jetstream.ErrBucketExists) {
		return b.js.KeyValue(ctx, bucket)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	b.logger.Info("Key-value bucket created", attr.String("bucket", bucket))
	return kv, nil
}

// Close releases the publisher, the subscriber and the NATS connection.
func (b *natsEventBus) Close() error {
	var errs []error
	if b.publisher != nil {
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if b.subscriber != nil {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.conn != nil {
		b.conn.Close()
	}
	return errors.Join(errs...)
}

func isValidStreamName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !isValidRune(r) {
			return false
		}
	}
	return true
}

func isValidRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}
