// Package matchkv keeps live triathlon sessions in a JetStream key-value bucket.
package matchkv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	"github.com/nats-io/nats.go/jetstream"
)

// Bucket is the key-value bucket holding sessions.
const Bucket = "match_sessions"

// KVStore implements Store over jetstream.KeyValue.
type KVStore struct {
	kv jetstream.KeyValue
}

var _ Store = (*KVStore)(nil)

func NewKVStore(kv jetstream.KeyValue) *KVStore {
	return &KVStore{kv: kv}
}

func key(id matchdomain.MatchID) string { return "sessions." + string(id) }

func (s *KVStore) Get(ctx context.Context, id matchdomain.MatchID) (matchdomain.Session, error) {
	entry, err := s.kv.Get(ctx, key(id))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return matchdomain.Session{}, ErrNotFound
		}
		return matchdomain.Session{}, fmt.Errorf("get session %s: %w", id, err)
	}

	var sess matchdomain.Session
	if err := json.Unmarshal(entry.Value(), &sess); err != nil {
		return matchdomain.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	sess.Revision = entry.Revision()
	return sess, nil
}

func (s *KVStore) Create(ctx context.Context, sess matchdomain.Session) (matchdomain.Session, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return matchdomain.Session{}, fmt.Errorf("encode session %s: %w", sess.MatchID, err)
	}

	rev, err := s.kv.Create(ctx, key(sess.MatchID), data)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return matchdomain.Session{}, ErrExists
		}
		return matchdomain.Session{}, fmt.Errorf("create session %s: %w", sess.MatchID, err)
	}
	sess.Revision = rev
	return sess, nil
}

func (s *KVStore) Update(ctx context.Context, sess matchdomain.Session) (matchdomain.Session, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return matchdomain.Session{}, fmt.Errorf("encode session %s: %w", sess.MatchID, err)
	}

	rev, err := s.kv.Update(ctx, key(sess.MatchID), data, sess.Revision)
	if err != nil {
		if wrongRevision(err) {
			return matchdomain.Session{}, fmt.Errorf("%w: %s at revision %d", ErrConcurrentUpdate, sess.MatchID, sess.Revision)
		}
		return matchdomain.Session{}, fmt.Errorf("update session %s: %w", sess.MatchID, err)
	}
	sess.Revision = rev
	return sess, nil
}

func wrongRevision(err error) bool {
	var apiErr *jetstream.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence {
		return true
	}
	return errors.Is(err, jetstream.ErrKeyExists)
}
