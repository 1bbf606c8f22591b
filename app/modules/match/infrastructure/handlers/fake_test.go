package matchhandlers

import (
	"context"
	"errors"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchservice "github.com/acain89/SkillGrid/app/modules/match/application"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
)

// ------------------------
// Fake Match Service
// ------------------------

type FakeService struct {
	trace []string

	OpenSessionFunc            func(ctx context.Context, req matchservice.OpenSessionRequest) (matchservice.SessionResult, error)
	ApplyGameMoveFunc          func(ctx context.Context, id matchdomain.MatchID, seat gamedomain.Seat, move gamedomain.Move) (matchservice.MoveResult, error)
	ReportSeriesGameResultFunc func(ctx context.Context, id matchdomain.MatchID, gameType gamedomain.GameType, gameNumber int, winner gamedomain.Seat) (matchservice.TriathlonReportResult, error)
	GetSessionFunc             func(ctx context.Context, id matchdomain.MatchID) (matchservice.SessionResult, error)
}

var _ matchservice.Service = (*FakeService)(nil)

var errNotImplemented = errors.New("not implemented")

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) OpenSession(ctx context.Context, req matchservice.OpenSessionRequest) (matchservice.SessionResult, error) {
	f.trace = append(f.trace, "OpenSession")
	if f.OpenSessionFunc != nil {
		return f.OpenSessionFunc(ctx, req)
	}
	return matchservice.SessionResult{}, errNotImplemented
}

func (f *FakeService) ApplyGameMove(ctx context.Context, id matchdomain.MatchID, seat gamedomain.Seat, move gamedomain.Move) (matchservice.MoveResult, error) {
	f.trace = append(f.trace, "ApplyGameMove")
	if f.ApplyGameMoveFunc != nil {
		return f.ApplyGameMoveFunc(ctx, id, seat, move)
	}
	return matchservice.MoveResult{}, errNotImplemented
}

func (f *FakeService) ReportSeriesGameResult(ctx context.Context, id matchdomain.MatchID, gameType gamedomain.GameType, gameNumber int, winner gamedomain.Seat) (matchservice.TriathlonReportResult, error) {
	f.trace = append(f.trace, "ReportSeriesGameResult")
	if f.ReportSeriesGameResultFunc != nil {
		return f.ReportSeriesGameResultFunc(ctx, id, gameType, gameNumber, winner)
	}
	return matchservice.TriathlonReportResult{}, errNotImplemented
}

func (f *FakeService) GetSession(ctx context.Context, id matchdomain.MatchID) (matchservice.SessionResult, error) {
	f.trace = append(f.trace, "GetSession")
	if f.GetSessionFunc != nil {
		return f.GetSessionFunc(ctx, id)
	}
	return matchservice.SessionResult{}, errNotImplemented
}
