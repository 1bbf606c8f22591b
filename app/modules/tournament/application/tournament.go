package tournamentservice

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	tournamentdb "github.com/acain89/SkillGrid/app/modules/tournament/infrastructure/repositories"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateTournament opens a tournament and charges every seated player.
// A full field starts immediately.
func (s *TournamentService) CreateTournament(ctx context.Context, req CreateTournamentRequest) (TournamentResult, error) {
	id := uuid.New()

	return withTelemetry(s, ctx, "CreateTournament", id.String(), func(ctx context.Context) (TournamentResult, error) {
		var (
			ready []tournamentdomain.MatchReady
			posts []LedgerPost
		)

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (TournamentResult, error) {
			posts = nil
			t, fx, err := tournamentdomain.New(id, req.Tier, req.Format, req.EntryFeeCents, req.Players, s.now())
			if err != nil {
				return results.FailureResult[tournamentdomain.Tournament, error](err), nil
			}
			if err := s.repo.CreateTournament(ctx, db, &t); err != nil {
				return TournamentResult{}, err
			}
			posts, err = s.chargeEntryFees(ctx, db, fx.EntryFees)
			if err != nil {
				if errors.Is(err, ErrEntryFeeDeclined) {
					return results.FailureResult[tournamentdomain.Tournament, error](err), errAbort
				}
				return TournamentResult{}, err
			}
			ready = fx.Ready
			return results.SuccessResult[tournamentdomain.Tournament, error](t), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}
		announce(ctx, posts)

		if err := s.scheduleRounds(ctx, id, ready); err != nil {
			return result, err
		}
		return result, nil
	})
}

// JoinTournament seats a player in a waiting lobby and charges the entry fee.
// The sixteenth player starts the tournament.
func (s *TournamentService) JoinTournament(ctx context.Context, id uuid.UUID, player tournamentdomain.Player) (TournamentResult, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	return withTelemetry(s, ctx, "JoinTournament", id.String(), func(ctx context.Context) (TournamentResult, error) {
		var (
			ready []tournamentdomain.MatchReady
			posts []LedgerPost
		)

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (TournamentResult, error) {
			posts = nil
			t, err := s.repo.GetTournamentForUpdate(ctx, db, id)
			if err != nil {
				if errors.Is(err, tournamentdb.ErrNotFound) {
					return results.FailureResult[tournamentdomain.Tournament, error](ErrTournamentNotFound), nil
				}
				return TournamentResult{}, err
			}

			next, fx, err := t.Join(player, s.now())
			if err != nil {
				return results.FailureResult[tournamentdomain.Tournament, error](err), nil
			}
			posts, err = s.chargeEntryFees(ctx, db, fx.EntryFees)
			if err != nil {
				if errors.Is(err, ErrEntryFeeDeclined) {
					return results.FailureResult[tournamentdomain.Tournament, error](err), errAbort
				}
				return TournamentResult{}, err
			}
			if err := s.repo.UpdateTournament(ctx, db, &next); err != nil {
				return TournamentResult{}, err
			}

			ready = fx.Ready
			return results.SuccessResult[tournamentdomain.Tournament, error](next), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}
		announce(ctx, posts)

		if err := s.scheduleRounds(ctx, id, ready); err != nil {
			return result, err
		}
		return result, nil
	})
}

// RecordBracketMatchResult completes a bracket match. Prize credits are
// posted in the same transaction as the bracket update. A replay with the
// same winner reports the original outcome and pays nothing.
func (s *TournamentService) RecordBracketMatchResult(ctx context.Context, id uuid.UUID, round, match int, winningSeat tournamentdomain.Seat) (MatchOutcomeResult, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	return withTelemetry(s, ctx, "RecordBracketMatchResult", id.String(), func(ctx context.Context) (MatchOutcomeResult, error) {
		var (
			ready []tournamentdomain.MatchReady
			posts []LedgerPost
		)

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (MatchOutcomeResult, error) {
			posts = nil
			t, err := s.repo.GetTournamentForUpdate(ctx, db, id)
			if err != nil {
				if errors.Is(err, tournamentdb.ErrNotFound) {
					return results.FailureResult[MatchOutcome, error](ErrTournamentNotFound), nil
				}
				return MatchOutcomeResult{}, err
			}

			next, out, fx, err := t.RecordMatchResult(round, match, winningSeat, s.now(), s.nextRoundDelay)
			if err != nil {
				if errors.Is(err, tournamentdomain.ErrInvariantViolation) {
					return MatchOutcomeResult{}, err
				}
				return results.FailureResult[MatchOutcome, error](err), nil
			}

			if out.Duplicate {
				s.logger.InfoContext(ctx, "Duplicate bracket result ignored",
					attr.ExtractCorrelationID(ctx),
					attr.String("tournament_id", id.String()),
					attr.Int("round", round),
					attr.Int("match", match),
				)
				ready = t.PendingReady()
				return results.SuccessResult[MatchOutcome, error](toMatchOutcome(t, out)), nil
			}

			if err := s.repo.UpdateTournament(ctx, db, &next); err != nil {
				return MatchOutcomeResult{}, err
			}
			for _, credit := range fx.Credits {
				post, err := s.ledger.PayPrize(ctx, db, credit)
				if err != nil {
					return MatchOutcomeResult{}, fmt.Errorf("pay %s prize to %s: %w", credit.Bucket, credit.PlayerID, err)
				}
				if post != nil {
					posts = append(posts, post)
				}
			}

			ready = fx.Ready
			return results.SuccessResult[MatchOutcome, error](toMatchOutcome(next, out)), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}
		announce(ctx, posts)

		if err := s.scheduleRounds(ctx, id, ready); err != nil {
			return result, err
		}
		return result, nil
	})
}

// GetTournament retrieves a tournament by ID.
func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (TournamentResult, error) {
	return withTelemetry(s, ctx, "GetTournament", id.String(), func(ctx context.Context) (TournamentResult, error) {
		t, err := s.repo.GetTournament(ctx, nil, id)
		if err != nil {
			if errors.Is(err, tournamentdb.ErrNotFound) {
				return results.FailureResult[tournamentdomain.Tournament, error](ErrTournamentNotFound), nil
			}
			return TournamentResult{}, err
		}
		return results.SuccessResult[tournamentdomain.Tournament, error](t), nil
	})
}

// ListTournaments lists the newest tournaments. An empty status lists all.
func (s *TournamentService) ListTournaments(ctx context.Context, status tournamentdomain.Status, limit int) (TournamentListResult, error) {
	return withTelemetry(s, ctx, "ListTournaments", "", func(ctx context.Context) (TournamentListResult, error) {
		if status != "" && !status.Valid() {
			return results.FailureResult[[]tournamentdomain.Tournament, error](fmt.Errorf("unknown status %q", status)), nil
		}
		list, err := s.repo.ListTournaments(ctx, nil, status, limit)
		if err != nil {
			return TournamentListResult{}, err
		}
		return results.SuccessResult[[]tournamentdomain.Tournament, error](list), nil
	})
}

// GetBracketMatch returns one bracket match.
func (s *TournamentService) GetBracketMatch(ctx context.Context, id uuid.UUID, round, match int) (BracketMatchResult, error) {
	return withTelemetry(s, ctx, "GetBracketMatch", id.String(), func(ctx context.Context) (BracketMatchResult, error) {
		t, err := s.repo.GetTournament(ctx, nil, id)
		if err != nil {
			if errors.Is(err, tournamentdb.ErrNotFound) {
				return results.FailureResult[tournamentdomain.Match, error](ErrTournamentNotFound), nil
			}
			return BracketMatchResult{}, err
		}
		m, ok := t.Match(round, match)
		if !ok {
			return results.FailureResult[tournamentdomain.Match, error](
				fmt.Errorf("%w: round %d match %d", tournamentdomain.ErrMatchNotFound, round, match),
			), nil
		}
		return results.SuccessResult[tournamentdomain.Match, error](m), nil
	})
}

// StartRound moves a round's ready matches to in-progress and returns every
// match of the round that is in progress, including ones started earlier.
func (s *TournamentService) StartRound(ctx context.Context, id uuid.UUID, round int) (RoundStartResult, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	return withTelemetry(s, ctx, "StartRound", id.String(), func(ctx context.Context) (RoundStartResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RoundStartResult, error) {
			t, err := s.repo.GetTournamentForUpdate(ctx, db, id)
			if err != nil {
				if errors.Is(err, tournamentdb.ErrNotFound) {
					return results.FailureResult[RoundStart, error](ErrTournamentNotFound), nil
				}
				return RoundStartResult{}, err
			}

			next, started, err := t.StartRound(round, s.now())
			if err != nil {
				return results.FailureResult[RoundStart, error](err), nil
			}
			if len(started) > 0 {
				if err := s.repo.UpdateTournament(ctx, db, &next); err != nil {
					return RoundStartResult{}, err
				}
			}

			out := RoundStart{TournamentID: id, Round: round}
			for _, m := range next.Rounds[round].Matches {
				if m.Status == tournamentdomain.MatchStatusInProgress {
					out.Matches = append(out.Matches, m)
				}
			}
			return results.SuccessResult[RoundStart, error](out), nil
		})
	})
}

func (s *TournamentService) chargeEntryFees(ctx context.Context, db bun.IDB, fees []tournamentdomain.EntryFeeDebit) ([]LedgerPost, error) {
	var posts []LedgerPost
	for _, fee := range fees {
		post, err := s.ledger.ChargeEntryFee(ctx, db, fee)
		if err != nil {
			return nil, fmt.Errorf("charge entry fee to %s: %w", fee.PlayerID, err)
		}
		if post != nil {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

// announce runs once the transaction that made posts has committed.
func announce(ctx context.Context, posts []LedgerPost) {
	for _, p := range posts {
		p.Announce(ctx)
	}
}

// scheduleRounds asks for one start per round, at the earliest start time
// among that round's ready matches.
func (s *TournamentService) scheduleRounds(ctx context.Context, id uuid.UUID, ready []tournamentdomain.MatchReady) error {
	if len(ready) == 0 {
		return nil
	}
	starts := map[int]time.Time{}
	for _, r := range ready {
		if at, ok := starts[r.Round]; !ok || r.StartsAt.Before(at) {
			starts[r.Round] = r.StartsAt
		}
	}
	for _, round := range slices.Sorted(maps.Keys(starts)) {
		if err := s.scheduler.ScheduleRoundStart(ctx, id, round, starts[round]); err != nil {
			return fmt.Errorf("schedule round %d start: %w", round, err)
		}
		s.logger.InfoContext(ctx, "Round start scheduled",
			attr.ExtractCorrelationID(ctx),
			attr.String("tournament_id", id.String()),
			attr.Int("round", round),
			attr.Time("starts_at", starts[round]),
		)
	}
	return nil
}

func toMatchOutcome(t tournamentdomain.Tournament, out tournamentdomain.Outcome) MatchOutcome {
	return MatchOutcome{
		Tournament:        t,
		Match:             out.Match,
		Placement:         out.Placement,
		ChampionPlacement: out.ChampionPlacement,
		Duplicate:         out.Duplicate,
		RoundFinished:     out.RoundFinished,
		Completed:         out.Completed,
	}
}
