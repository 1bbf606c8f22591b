package matchintegrationtests

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	matchkv "github.com/acain89/SkillGrid/app/modules/match/infrastructure/kvstore"
	"github.com/acain89/SkillGrid/integration_tests/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testEnv     *testutils.TestEnvironment
	testEnvOnce sync.Once
	testEnvErr  error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if testEnv != nil {
		testEnv.Cleanup()
	}
	os.Exit(code)
}

func setupStore(t *testing.T) (context.Context, *matchkv.KVStore) {
	t.Helper()

	testEnvOnce.Do(func() {
		log.Println("Initializing match test environment...")
		testEnv, testEnvErr = testutils.NewTestEnvironment(t)
	})
	if testEnvErr != nil {
		t.Fatalf("Match test environment initialization failed: %v", testEnvErr)
	}

	resetCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testEnv.Reset(resetCtx); err != nil {
		t.Fatalf("Failed to reset environment: %v", err)
	}

	kv, err := testEnv.EventBus.KeyValue(testEnv.Ctx, matchkv.Bucket)
	require.NoError(t, err)
	return testEnv.Ctx, matchkv.NewKVStore(kv)
}

func newSession(t *testing.T) matchdomain.Session {
	t.Helper()
	sess, err := matchdomain.NewSession(uuid.New(), 0, 5, "alice", "bob", gamedomain.Setup{}, time.Now().UTC())
	require.NoError(t, err)
	return sess
}

func TestKVStore_CreateIsExclusive(t *testing.T) {
	ctx, store := setupStore(t)
	sess := newSession(t)

	created, err := store.Create(ctx, sess)
	require.NoError(t, err)
	assert.NotZero(t, created.Revision)

	_, err = store.Create(ctx, sess)
	assert.ErrorIs(t, err, matchkv.ErrExists)

	got, err := store.Get(ctx, sess.MatchID)
	require.NoError(t, err)
	assert.Equal(t, created.Revision, got.Revision)
	assert.Equal(t, sess.TournamentID, got.TournamentID)
	assert.Equal(t, 5, got.Match)
}

func TestKVStore_StaleRevisionIsRejected(t *testing.T) {
	ctx, store := setupStore(t)

	created, err := store.Create(ctx, newSession(t))
	require.NoError(t, err)

	first := created
	first.BracketRecorded = true
	updated, err := store.Update(ctx, first)
	require.NoError(t, err)
	assert.Greater(t, updated.Revision, created.Revision)

	stale := created
	stale.UpdatedAt = time.Now().UTC()
	_, err = store.Update(ctx, stale)
	assert.ErrorIs(t, err, matchkv.ErrConcurrentUpdate)

	got, err := store.Get(ctx, created.MatchID)
	require.NoError(t, err)
	assert.True(t, got.BracketRecorded)
	assert.Equal(t, updated.Revision, got.Revision)
}

func TestKVStore_ConcurrentWritersOneWins(t *testing.T) {
	ctx, store := setupStore(t)

	created, err := store.Create(ctx, newSession(t))
	require.NoError(t, err)

	const writers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		conflict int
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, created)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, matchkv.ErrConcurrentUpdate):
				conflict++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, conflict)
}

func TestKVStore_GetMissing(t *testing.T) {
	ctx, store := setupStore(t)
	_, err := store.Get(ctx, matchdomain.MatchID("nope.0.0"))
	assert.ErrorIs(t, err, matchkv.ErrNotFound)
}
