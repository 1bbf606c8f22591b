package matchservice

import (
	"context"
	"errors"
	"fmt"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	matchkv "github.com/acain89/SkillGrid/app/modules/match/infrastructure/kvstore"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/acain89/SkillGrid/internal/results"
)

// OpenSession starts the triathlon for a ready bracket match. Opening a
// match that already has a session returns the existing one.
func (s *MatchService) OpenSession(ctx context.Context, req OpenSessionRequest) (SessionResult, error) {
	id := matchdomain.NewMatchID(req.TournamentID, req.Round, req.Match)
	unlock := s.locks.Lock(id.String())
	defer unlock()

	return withTelemetry(s, ctx, "OpenSession", id.String(), func(ctx context.Context) (SessionResult, error) {
		sess, err := matchdomain.NewSession(req.TournamentID, req.Round, req.Match, req.PlayerA, req.PlayerB, s.walls.Setup(id, 1), s.now())
		if err != nil {
			return results.FailureResult[matchdomain.Session, error](err), nil
		}

		created, err := s.store.Create(ctx, sess)
		if err == nil {
			return results.SuccessResult[matchdomain.Session, error](created), nil
		}
		if !errors.Is(err, matchkv.ErrExists) {
			return SessionResult{}, err
		}

		existing, err := s.store.Get(ctx, id)
		if err != nil {
			return SessionResult{}, err
		}
		s.logger.InfoContext(ctx, "Session already open",
			attr.ExtractCorrelationID(ctx),
			attr.String("match_id", id.String()),
		)
		return results.SuccessResult[matchdomain.Session, error](existing), nil
	})
}

// GetSession returns the live state of a match.
func (s *MatchService) GetSession(ctx context.Context, id matchdomain.MatchID) (SessionResult, error) {
	return withTelemetry(s, ctx, "GetSession", id.String(), func(ctx context.Context) (SessionResult, error) {
		sess, failure, err := s.load(ctx, id)
		if err != nil || failure != nil {
			return SessionResult{Failure: failure}, err
		}
		return results.SuccessResult[matchdomain.Session, error](sess), nil
	})
}

// ApplyGameMove plays a move for seat in the active series. A move that ends
// a game is recorded, and a move that decides the match is sent to the
// bracket.
func (s *MatchService) ApplyGameMove(ctx context.Context, id matchdomain.MatchID, seat gamedomain.Seat, move gamedomain.Move) (MoveResult, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	return withTelemetry(s, ctx, "ApplyGameMove", id.String(), func(ctx context.Context) (MoveResult, error) {
		sess, failure, err := s.load(ctx, id)
		if err != nil || failure != nil {
			return MoveResult{Failure: failure}, err
		}

		tri, rec, err := sess.Triathlon.ApplyMove(move, seat, s.walls.Setup(id, nextGame(sess.Triathlon)))
		if err != nil {
			return results.FailureResult[MoveOutcome, error](err), nil
		}

		sess.Triathlon = tri
		sess.UpdatedAt = s.now()
		sess, err = s.store.Update(ctx, sess)
		if err != nil {
			if errors.Is(err, matchkv.ErrConcurrentUpdate) {
				return results.FailureResult[MoveOutcome, error](err), nil
			}
			return MoveResult{}, err
		}

		out := MoveOutcome{Session: sess, Event: rec.Event, Game: rec.GameType, Number: rec.GameNumber}
		if rec.Result == nil {
			return results.SuccessResult[MoveOutcome, error](out), nil
		}

		sess, report, failure, err := s.settle(ctx, sess, *rec.Result)
		if err != nil || failure != nil {
			return MoveResult{Failure: failure}, err
		}
		out.Session = sess
		out.Report = &report
		return results.SuccessResult[MoveOutcome, error](out), nil
	})
}

// ReportSeriesGameResult records the winner of one game. gameNumber 0 means
// the game in play, a lower number than expected is a duplicate, and a
// winner of SeatNone is a draw.
func (s *MatchService) ReportSeriesGameResult(ctx context.Context, id matchdomain.MatchID, gameType gamedomain.GameType, gameNumber int, winner gamedomain.Seat) (TriathlonReportResult, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	return withTelemetry(s, ctx, "ReportSeriesGameResult", id.String(), func(ctx context.Context) (TriathlonReportResult, error) {
		if gameNumber < 0 {
			return results.FailureResult[TriathlonReport, error](fmt.Errorf("%w: game number %d", matchdomain.ErrInvalidResult, gameNumber)), nil
		}

		sess, failure, err := s.load(ctx, id)
		if err != nil || failure != nil {
			return TriathlonReportResult{Failure: failure}, err
		}

		tri, rec, err := sess.Triathlon.RecordGame(gameType, gameNumber, winner, s.walls.Setup(id, nextGame(sess.Triathlon)))
		if err != nil {
			return results.FailureResult[TriathlonReport, error](err), nil
		}

		if rec.Duplicate {
			s.logger.InfoContext(ctx, "Duplicate game result ignored",
				attr.ExtractCorrelationID(ctx),
				attr.String("match_id", id.String()),
				attr.String("game_type", string(gameType)),
				attr.Int("game_number", rec.GameNumber),
			)
		} else {
			sess.Triathlon = tri
			sess.UpdatedAt = s.now()
			sess, err = s.store.Update(ctx, sess)
			if err != nil {
				if errors.Is(err, matchkv.ErrConcurrentUpdate) {
					return results.FailureResult[TriathlonReport, error](err), nil
				}
				return TriathlonReportResult{}, err
			}
		}

		_, report, failure, err := s.settle(ctx, sess, rec)
		if err != nil || failure != nil {
			return TriathlonReportResult{Failure: failure}, err
		}
		return results.SuccessResult[TriathlonReport, error](report), nil
	})
}

// load fetches a session. A bad ID or a missing session is a failure.
func (s *MatchService) load(ctx context.Context, id matchdomain.MatchID) (matchdomain.Session, *error, error) {
	if _, _, _, err := id.Parse(); err != nil {
		return matchdomain.Session{}, &err, nil
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, matchkv.ErrNotFound) {
			failure := fmt.Errorf("%w: %s", ErrSessionNotFound, id)
			return matchdomain.Session{}, &failure, nil
		}
		return matchdomain.Session{}, nil, err
	}
	return sess, nil, nil
}

// settle builds the report for a recorded game. Once the match is decided
// the bracket is told the winner on every report, since it answers replays
// with the original placements. The session is marked recorded after the
// first success.
func (s *MatchService) settle(ctx context.Context, sess matchdomain.Session, rec matchdomain.GameRecord) (matchdomain.Session, TriathlonReport, *error, error) {
	report := newReport(sess, rec)
	if !sess.Triathlon.Decided() {
		return sess, report, nil, nil
	}

	br, err := s.bracket.RecordMatchWinner(ctx, sess, sess.Triathlon.Winner)
	if err != nil {
		if errors.Is(err, ErrBracketRejected) {
			return sess, TriathlonReport{}, &err, nil
		}
		return sess, TriathlonReport{}, nil, fmt.Errorf("record %s in bracket: %w", sess.MatchID, err)
	}
	report.applyBracket(br)

	if sess.BracketRecorded {
		return sess, report, nil, nil
	}
	sess.BracketRecorded = true
	sess.UpdatedAt = s.now()
	updated, err := s.store.Update(ctx, sess)
	if err != nil {
		if errors.Is(err, matchkv.ErrConcurrentUpdate) {
			return sess, TriathlonReport{}, &err, nil
		}
		return sess, TriathlonReport{}, nil, err
	}

	s.logger.InfoContext(ctx, "Match decided",
		attr.ExtractCorrelationID(ctx),
		attr.String("match_id", sess.MatchID.String()),
		attr.String("winner", sess.PlayerAt(sess.Triathlon.Winner)),
		attr.String("status", string(report.Status)),
		attr.Bool("decided_by_default", sess.Triathlon.DecidedByDefault),
	)
	return updated, report, nil, nil
}

// nextGame numbers the game a result would start: games already played plus
// the one in play, plus one.
func nextGame(tri matchdomain.Triathlon) int {
	n := 2
	for _, s := range tri.Series {
		n += s.GamesPlayed
	}
	return n
}
