package matchkv

import (
	"context"
	"testing"
	"time"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) matchdomain.Session {
	t.Helper()
	sess, err := matchdomain.NewSession(uuid.New(), 1, 3, "alice", "bob", gamedomain.Setup{}, time.Now().UTC())
	require.NoError(t, err)
	return sess
}

func TestKVStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	kv := NewFakeKeyValue()
	store := NewKVStore(kv)
	sess := newSession(t)

	created, err := store.Create(ctx, sess)
	require.NoError(t, err)
	assert.NotZero(t, created.Revision)

	got, err := store.Get(ctx, sess.MatchID)
	require.NoError(t, err)
	assert.Equal(t, created.Revision, got.Revision)
	assert.Equal(t, sess.MatchID, got.MatchID)
	assert.Equal(t, "alice", got.PlayerA)
	assert.Equal(t, "bob", got.PlayerB)
	assert.Contains(t, kv.data, "sessions."+sess.MatchID.String())

	_, err = store.Create(ctx, sess)
	assert.ErrorIs(t, err, ErrExists)
}

func TestKVStore_GetMissing(t *testing.T) {
	_, err := NewKVStore(NewFakeKeyValue()).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVStore_GetBackendError(t *testing.T) {
	kv := NewFakeKeyValue()
	kv.GetFunc = func(context.Context, string) (jetstream.KeyValueEntry, error) {
		return nil, errBucketGone
	}
	_, err := NewKVStore(kv).Get(context.Background(), "x.1.1")
	assert.ErrorIs(t, err, errBucketGone)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestKVStore_UpdateChecksRevision(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore(NewFakeKeyValue())

	created, err := store.Create(ctx, newSession(t))
	require.NoError(t, err)

	first := created
	first.BracketRecorded = true
	updated, err := store.Update(ctx, first)
	require.NoError(t, err)
	assert.Greater(t, updated.Revision, created.Revision)

	stale := created
	stale.PlayerA = "mallory"
	_, err = store.Update(ctx, stale)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)

	got, err := store.Get(ctx, created.MatchID)
	require.NoError(t, err)
	assert.True(t, got.BracketRecorded)
	assert.Equal(t, "alice", got.PlayerA)
}
