package testutils

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nats-io/nats.go/jetstream"
)

// ResetJetStreamState purges every message from the named streams. Missing
// streams are skipped.
func (env *TestEnvironment) ResetJetStreamState(ctx context.Context, streamNames ...string) error {
	if env.JetStream == nil {
		return errors.New("JetStream not initialized")
	}
	for _, name := range streamNames {
		stream, err := env.JetStream.Stream(ctx, name)
		if err != nil {
			if errors.Is(err, jetstream.ErrStreamNotFound) {
				continue
			}
			return fmt.Errorf("failed to access stream %s: %w", name, err)
		}
		if err := stream.Purge(ctx); err != nil {
			log.Printf("Warning: failed to purge stream %s: %v", name, err)
		}
	}
	return nil
}

// PurgeKeyValue deletes every key in bucket, if the bucket exists.
func (env *TestEnvironment) PurgeKeyValue(ctx context.Context, bucket string) error {
	kv, err := env.JetStream.KeyValue(ctx, bucket)
	if err != nil {
		if errors.Is(err, jetstream.ErrBucketNotFound) {
			return nil
		}
		return fmt.Errorf("failed to open bucket %s: %w", bucket, err)
	}
	keys, err := kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil
		}
		return fmt.Errorf("failed to list keys in %s: %w", bucket, err)
	}
	for _, k := range keys {
		if err := kv.Purge(ctx, k); err != nil {
			return fmt.Errorf("failed to purge %s/%s: %w", bucket, k, err)
		}
	}
	return nil
}
