package matchservice

import (
	"context"
	"sync"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	matchkv "github.com/acain89/SkillGrid/app/modules/match/infrastructure/kvstore"
	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
)

// ------------------------
// Fake Session Store
// ------------------------

// FakeStore keeps sessions in memory with per-key revisions.
type FakeStore struct {
	mu    sync.Mutex
	trace []string
	rows  map[matchdomain.MatchID]matchdomain.Session
	seq   uint64

	GetFunc    func(ctx context.Context, id matchdomain.MatchID) (matchdomain.Session, error)
	CreateFunc func(ctx context.Context, s matchdomain.Session) (matchdomain.Session, error)
	UpdateFunc func(ctx context.Context, s matchdomain.Session) (matchdomain.Session, error)
}

var _ matchkv.Store = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{trace: []string{}, rows: map[matchdomain.MatchID]matchdomain.Session{}}
}

func (f *FakeStore) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeStore) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

func (f *FakeStore) Stored(id matchdomain.MatchID) matchdomain.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

func (f *FakeStore) Get(ctx context.Context, id matchdomain.MatchID) (matchdomain.Session, error) {
	f.record("Get")
	if f.GetFunc != nil {
		return f.GetFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return matchdomain.Session{}, matchkv.ErrNotFound
	}
	return s, nil
}

func (f *FakeStore) Create(ctx context.Context, s matchdomain.Session) (matchdomain.Session, error) {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, s)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[s.MatchID]; ok {
		return matchdomain.Session{}, matchkv.ErrExists
	}
	f.seq++
	s.Revision = f.seq
	f.rows[s.MatchID] = s
	return s, nil
}

func (f *FakeStore) Update(ctx context.Context, s matchdomain.Session) (matchdomain.Session, error) {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, s)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.rows[s.MatchID]; !ok || cur.Revision != s.Revision {
		return matchdomain.Session{}, matchkv.ErrConcurrentUpdate
	}
	f.seq++
	s.Revision = f.seq
	f.rows[s.MatchID] = s
	return s, nil
}

// ------------------------
// Fake Bracket Recorder
// ------------------------

type FakeBracketRecorder struct {
	trace   []string
	Winners []gamedomain.Seat

	RecordMatchWinnerFunc func(ctx context.Context, sess matchdomain.Session, winner gamedomain.Seat) (BracketResult, error)
}

var _ BracketRecorder = (*FakeBracketRecorder)(nil)

func (f *FakeBracketRecorder) RecordMatchWinner(ctx context.Context, sess matchdomain.Session, winner gamedomain.Seat) (BracketResult, error) {
	f.trace = append(f.trace, "RecordMatchWinner")
	f.Winners = append(f.Winners, winner)
	if f.RecordMatchWinnerFunc != nil {
		return f.RecordMatchWinnerFunc(ctx, sess, winner)
	}
	return BracketResult{Loser: &Standing{PlayerID: sess.PlayerAt(winner.Opponent()), Bucket: tournamentdomain.BucketNinth, Rank: 16}}, nil
}

func (f *FakeBracketRecorder) Trace() []string { return f.trace }

// ------------------------
// Fake Wall Generator
// ------------------------

type FakeWalls struct {
	Games []int
}

var _ WallGenerator = (*FakeWalls)(nil)

func (f *FakeWalls) Setup(_ matchdomain.MatchID, game int) gamedomain.Setup {
	f.Games = append(f.Games, game)
	return gamedomain.Setup{}
}
