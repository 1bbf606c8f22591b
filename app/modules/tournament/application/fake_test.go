package tournamentservice

import (
	"context"
	"sync"
	"time"

	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	tournamentdb "github.com/acain89/SkillGrid/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Tournament Repo
// ------------------------

// FakeTournamentRepository keeps tournaments in memory unless a Func hook
// overrides the call.
type FakeTournamentRepository struct {
	mu    sync.Mutex
	trace []string
	rows  map[uuid.UUID]tournamentdomain.Tournament

	CreateTournamentFunc       func(ctx context.Context, db bun.IDB, t *tournamentdomain.Tournament) error
	GetTournamentFunc          func(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamentdomain.Tournament, error)
	GetTournamentForUpdateFunc func(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamentdomain.Tournament, error)
	UpdateTournamentFunc       func(ctx context.Context, db bun.IDB, t *tournamentdomain.Tournament) error
	ListTournamentsFunc        func(ctx context.Context, db bun.IDB, status tournamentdomain.Status, limit int) ([]tournamentdomain.Tournament, error)
}

func NewFakeTournamentRepository() *FakeTournamentRepository {
	return &FakeTournamentRepository{
		trace: []string{},
		rows:  map[uuid.UUID]tournamentdomain.Tournament{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeTournamentRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeTournamentRepository) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

// Seed stores t as if it had been created earlier.
func (f *FakeTournamentRepository) Seed(t tournamentdomain.Tournament) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[t.ID] = t
}

func (f *FakeTournamentRepository) Stored(id uuid.UUID) tournamentdomain.Tournament {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

func (f *FakeTournamentRepository) CreateTournament(ctx context.Context, db bun.IDB, t *tournamentdomain.Tournament) error {
	f.record("CreateTournament")
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, db, t)
	}
	f.Seed(*t)
	return nil
}

func (f *FakeTournamentRepository) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamentdomain.Tournament, error) {
	f.record("GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, db, id)
	}
	return f.load(id)
}

func (f *FakeTournamentRepository) GetTournamentForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamentdomain.Tournament, error) {
	f.record("GetTournamentForUpdate")
	if f.GetTournamentForUpdateFunc != nil {
		return f.GetTournamentForUpdateFunc(ctx, db, id)
	}
	return f.load(id)
}

func (f *FakeTournamentRepository) UpdateTournament(ctx context.Context, db bun.IDB, t *tournamentdomain.Tournament) error {
	f.record("UpdateTournament")
	if f.UpdateTournamentFunc != nil {
		return f.UpdateTournamentFunc(ctx, db, t)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[t.ID].Version != t.Version {
		return tournamentdb.ErrVersionConflict
	}
	t.Version++
	f.rows[t.ID] = *t
	return nil
}

func (f *FakeTournamentRepository) ListTournaments(ctx context.Context, db bun.IDB, status tournamentdomain.Status, limit int) ([]tournamentdomain.Tournament, error) {
	f.record("ListTournaments")
	if f.ListTournamentsFunc != nil {
		return f.ListTournamentsFunc(ctx, db, status, limit)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tournamentdomain.Tournament
	for _, t := range f.rows {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *FakeTournamentRepository) load(id uuid.UUID) (tournamentdomain.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return tournamentdomain.Tournament{}, tournamentdb.ErrNotFound
	}
	return t, nil
}

var _ tournamentdb.Repository = (*FakeTournamentRepository)(nil)

// ------------------------
// Fake Ledger
// ------------------------

type FakeLedger struct {
	mu        sync.Mutex
	trace     []string
	Fees      []tournamentdomain.EntryFeeDebit
	Credits   []tournamentdomain.PrizeCredit
	Announced []string

	ChargeEntryFeeFunc func(ctx context.Context, db bun.IDB, debit tournamentdomain.EntryFeeDebit) error
	PayPrizeFunc       func(ctx context.Context, db bun.IDB, credit tournamentdomain.PrizeCredit) error
}

func (f *FakeLedger) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeLedger) ChargeEntryFee(ctx context.Context, db bun.IDB, debit tournamentdomain.EntryFeeDebit) (LedgerPost, error) {
	f.mu.Lock()
	f.trace = append(f.trace, "ChargeEntryFee")
	f.mu.Unlock()
	if f.ChargeEntryFeeFunc != nil {
		if err := f.ChargeEntryFeeFunc(ctx, db, debit); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fees = append(f.Fees, debit)
	return &fakePost{ledger: f, key: debit.IdempotencyKey()}, nil
}

func (f *FakeLedger) PayPrize(ctx context.Context, db bun.IDB, credit tournamentdomain.PrizeCredit) (LedgerPost, error) {
	f.mu.Lock()
	f.trace = append(f.trace, "PayPrize")
	f.mu.Unlock()
	if f.PayPrizeFunc != nil {
		if err := f.PayPrizeFunc(ctx, db, credit); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Credits = append(f.Credits, credit)
	return &fakePost{ledger: f, key: credit.IdempotencyKey()}, nil
}

func (f *FakeLedger) Paid(playerID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, c := range f.Credits {
		if c.PlayerID == playerID {
			total += c.AmountCents
		}
	}
	return total
}

// AnnouncedKeys returns the idempotency keys of announced posts in order.
func (f *FakeLedger) AnnouncedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Announced...)
}

type fakePost struct {
	ledger *FakeLedger
	key    string
}

func (p *fakePost) Announce(ctx context.Context) {
	p.ledger.mu.Lock()
	defer p.ledger.mu.Unlock()
	p.ledger.Announced = append(p.ledger.Announced, p.key)
}

var _ Ledger = (*FakeLedger)(nil)

// ------------------------
// Fake Round Scheduler
// ------------------------

type scheduledStart struct {
	TournamentID uuid.UUID
	Round        int
	StartsAt     time.Time
}

type FakeRoundScheduler struct {
	Scheduled []scheduledStart

	ScheduleRoundStartFunc func(ctx context.Context, tournamentID uuid.UUID, round int, startsAt time.Time) error
}

func (f *FakeRoundScheduler) ScheduleRoundStart(ctx context.Context, tournamentID uuid.UUID, round int, startsAt time.Time) error {
	if f.ScheduleRoundStartFunc != nil {
		if err := f.ScheduleRoundStartFunc(ctx, tournamentID, round, startsAt); err != nil {
			return err
		}
	}
	f.Scheduled = append(f.Scheduled, scheduledStart{TournamentID: tournamentID, Round: round, StartsAt: startsAt})
	return nil
}

var _ RoundScheduler = (*FakeRoundScheduler)(nil)
