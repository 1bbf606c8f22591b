package tournamenthandlers

import (
	"context"
	"errors"

	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/google/uuid"
)

// ------------------------
// Fake Tournament Service
// ------------------------

type FakeService struct {
	trace []string

	CreateTournamentFunc         func(ctx context.Context, req tournamentservice.CreateTournamentRequest) (tournamentservice.TournamentResult, error)
	JoinTournamentFunc           func(ctx context.Context, id uuid.UUID, player tournamentdomain.Player) (tournamentservice.TournamentResult, error)
	RecordBracketMatchResultFunc func(ctx context.Context, id uuid.UUID, round, match int, winningSeat tournamentdomain.Seat) (tournamentservice.MatchOutcomeResult, error)
	GetTournamentFunc            func(ctx context.Context, id uuid.UUID) (tournamentservice.TournamentResult, error)
	ListTournamentsFunc          func(ctx context.Context, status tournamentdomain.Status, limit int) (tournamentservice.TournamentListResult, error)
}

var _ tournamentservice.Service = (*FakeService)(nil)

func (f *FakeService) Trace() []string { return f.trace }

var errNotImplemented = errors.New("not implemented")

func (f *FakeService) CreateTournament(ctx context.Context, req tournamentservice.CreateTournamentRequest) (tournamentservice.TournamentResult, error) {
	f.trace = append(f.trace, "CreateTournament")
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, req)
	}
	return tournamentservice.TournamentResult{}, errNotImplemented
}

func (f *FakeService) JoinTournament(ctx context.Context, id uuid.UUID, player tournamentdomain.Player) (tournamentservice.TournamentResult, error) {
	f.trace = append(f.trace, "JoinTournament")
	if f.JoinTournamentFunc != nil {
		return f.JoinTournamentFunc(ctx, id, player)
	}
	return tournamentservice.TournamentResult{}, errNotImplemented
}

func (f *FakeService) RecordBracketMatchResult(ctx context.Context, id uuid.UUID, round, match int, winningSeat tournamentdomain.Seat) (tournamentservice.MatchOutcomeResult, error) {
	f.trace = append(f.trace, "RecordBracketMatchResult")
	if f.RecordBracketMatchResultFunc != nil {
		return f.RecordBracketMatchResultFunc(ctx, id, round, match, winningSeat)
	}
	return tournamentservice.MatchOutcomeResult{}, errNotImplemented
}

func (f *FakeService) GetTournament(ctx context.Context, id uuid.UUID) (tournamentservice.TournamentResult, error) {
	f.trace = append(f.trace, "GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, id)
	}
	return tournamentservice.TournamentResult{}, errNotImplemented
}

func (f *FakeService) ListTournaments(ctx context.Context, status tournamentdomain.Status, limit int) (tournamentservice.TournamentListResult, error) {
	f.trace = append(f.trace, "ListTournaments")
	if f.ListTournamentsFunc != nil {
		return f.ListTournamentsFunc(ctx, status, limit)
	}
	return results.SuccessResult[[]tournamentdomain.Tournament, error](nil), nil
}

func (f *FakeService) GetBracketMatch(ctx context.Context, id uuid.UUID, round, match int) (tournamentservice.BracketMatchResult, error) {
	f.trace = append(f.trace, "GetBracketMatch")
	return tournamentservice.BracketMatchResult{}, errNotImplemented
}

func (f *FakeService) StartRound(ctx context.Context, id uuid.UUID, round int) (tournamentservice.RoundStartResult, error) {
	f.trace = append(f.trace, "StartRound")
	return tournamentservice.RoundStartResult{}, errNotImplemented
}

// ------------------------
// Fake Outcome Publisher
// ------------------------

type FakeOutcomePublisher struct {
	Published []tournamentservice.MatchOutcome

	PublishOutcomeFunc func(ctx context.Context, out tournamentservice.MatchOutcome) error
}

var _ OutcomePublisher = (*FakeOutcomePublisher)(nil)

func (f *FakeOutcomePublisher) PublishOutcome(ctx context.Context, out tournamentservice.MatchOutcome) error {
	f.Published = append(f.Published, out)
	if f.PublishOutcomeFunc != nil {
		return f.PublishOutcomeFunc(ctx, out)
	}
	return nil
}
