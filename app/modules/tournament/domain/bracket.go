package tournamentdomain

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Outcome describes what recording a match result did.
type Outcome struct {
	Match             Match
	Placement         *Placement
	ChampionPlacement *Placement
	Duplicate         bool
	RoundFinished     bool
	Completed         bool
}

// New creates a tournament. Zero entryFeeCents takes the tier's fee; any
// other value must equal it. With sixteen players the bracket is built and
// the tournament starts running; with fewer it waits in the lobby.
func New(id uuid.UUID, tier Tier, format PayoutFormat, entryFeeCents int64, players []Player, now time.Time) (Tournament, Effects, error) {
	if !tier.Valid() {
		return Tournament{}, Effects{}, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}
	if !format.Valid() {
		return Tournament{}, Effects{}, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	if entryFeeCents == 0 {
		entryFeeCents = tier.EntryFeeCents()
	}
	if entryFeeCents != tier.EntryFeeCents() {
		return Tournament{}, Effects{}, fmt.Errorf("%w: %s costs %d, got %d", ErrInvalidEntryFee, tier, tier.EntryFeeCents(), entryFeeCents)
	}
	if len(players) > BracketSize {
		return Tournament{}, Effects{}, fmt.Errorf("%w: %d players", ErrInvalidPlayers, len(players))
	}

	t := Tournament{
		ID:            id,
		Tier:          tier,
		Format:        format,
		EntryFeeCents: entryFeeCents,
		Placements:    map[string]Placement{},
		Status:        StatusWaiting,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var fx Effects
	for _, p := range players {
		var err error
		var joinFx Effects
		t, joinFx, err = t.Join(p, now)
		if err != nil {
			return Tournament{}, Effects{}, err
		}
		fx.EntryFees = append(fx.EntryFees, joinFx.EntryFees...)
		fx.Ready = append(fx.Ready, joinFx.Ready...)
	}
	return t, fx, nil
}

// Join seats a player in the lobby and charges the entry fee. The sixteenth
// player builds the bracket.
func (t Tournament) Join(p Player, now time.Time) (Tournament, Effects, error) {
	if t.Status != StatusWaiting {
		return t, Effects{}, ErrNotWaiting
	}
	if p.ID == "" {
		return t, Effects{}, fmt.Errorf("%w: empty player id", ErrInvalidPlayers)
	}
	if t.HasPlayer(p.ID) {
		return t, Effects{}, fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID)
	}
	if len(t.Players) >= BracketSize {
		return t, Effects{}, ErrTournamentFull
	}

	next := t.clone()
	next.Players = append(next.Players, p)
	next.UpdatedAt = now

	fx := Effects{EntryFees: []EntryFeeDebit{{
		TournamentID: t.ID,
		PlayerID:     p.ID,
		AmountCents:  t.EntryFeeCents,
	}}}

	if len(next.Players) == BracketSize {
		next.buildBracket(now)
		for _, m := range next.Rounds[0].Matches {
			fx.Ready = append(fx.Ready, readyEffect(next.ID, m))
		}
	}
	return next, fx, nil
}

// buildBracket seeds round 0 in registration order.
func (t *Tournament) buildBracket(now time.Time) {
	t.Rounds = make([]Round, RoundCount)
	for r := range RoundCount {
		matches := make([]Match, RoundSizes[r])
		for i := range matches {
			matches[i] = Match{Round: r, Index: i, Status: MatchStatusPending}
		}
		t.Rounds[r] = Round{Index: r, Matches: matches}
	}
	for i := range t.Rounds[0].Matches {
		m := &t.Rounds[0].Matches[i]
		m.SeatA = t.Players[2*i].ID
		m.SeatB = t.Players[2*i+1].ID
		m.Status = MatchStatusReady
		m.StartsAt = &now
	}
	t.Status = StatusRunning
	t.CurrentRound = 0
}

// StartRound moves every ready match of round to in-progress. Starting a
// round twice is harmless.
func (t Tournament) StartRound(round int, now time.Time) (Tournament, []Match, error) {
	if t.Status != StatusRunning {
		return t, nil, ErrNotRunning
	}
	if round < 0 || round >= len(t.Rounds) {
		return t, nil, fmt.Errorf("%w: round %d", ErrMatchNotFound, round)
	}

	next := t.clone()
	var started []Match
	for i := range next.Rounds[round].Matches {
		m := &next.Rounds[round].Matches[i]
		if m.Status == MatchStatusReady {
			m.Status = MatchStatusInProgress
			started = append(started, *m)
		}
	}
	if len(started) > 0 {
		next.UpdatedAt = now
	}
	return next, started, nil
}

// RecordMatchResult completes a match for the player in winningSeat, places
// the loser, and advances the winner. Replaying a result with the same
// winner returns the original outcome and no effects.
func (t Tournament) RecordMatchResult(round, index int, winningSeat Seat, now time.Time, nextRoundDelay time.Duration) (Tournament, Outcome, Effects, error) {
	if t.Status == StatusWaiting {
		return t, Outcome{}, Effects{}, ErrNotRunning
	}
	m, ok := t.Match(round, index)
	if !ok {
		return t, Outcome{}, Effects{}, fmt.Errorf("%w: round %d match %d", ErrMatchNotFound, round, index)
	}
	if !winningSeat.Valid() {
		return t, Outcome{}, Effects{}, fmt.Errorf("%w: %q", ErrInvalidSeat, winningSeat)
	}

	if m.Status == MatchStatusComplete {
		if m.Winner != m.PlayerAt(winningSeat) {
			return t, Outcome{}, Effects{}, fmt.Errorf("%w: round %d match %d went to %s", ErrMatchAlreadyDecided, round, index, m.Winner)
		}
		return t, t.replayOutcome(m), Effects{}, nil
	}
	if t.Status != StatusRunning {
		return t, Outcome{}, Effects{}, ErrNotRunning
	}
	if m.Status != MatchStatusReady && m.Status != MatchStatusInProgress {
		return t, Outcome{}, Effects{}, fmt.Errorf("%w: round %d match %d is %s", ErrMatchNotReady, round, index, m.Status)
	}

	next := t.clone()
	next.UpdatedAt = now

	winner := m.PlayerAt(winningSeat)
	loser := m.PlayerAt(opposite(winningSeat))
	if winner == "" || loser == "" {
		return t, Outcome{}, Effects{}, fmt.Errorf("%w: round %d match %d has an empty seat", ErrInvariantViolation, round, index)
	}

	done := &next.Rounds[round].Matches[index]
	done.Winner = winner
	done.Loser = loser
	done.Status = MatchStatusComplete
	done.CompletedAt = &now

	var fx Effects
	out := Outcome{}

	bucket, err := LoserBucket(round)
	if err != nil {
		return t, Outcome{}, Effects{}, err
	}
	lp, err := next.place(loser, bucket, round)
	if err != nil {
		return t, Outcome{}, Effects{}, err
	}
	out.Placement = &lp
	if lp.PrizeCents > 0 {
		fx.Credits = append(fx.Credits, creditFor(t.ID, lp))
	}

	if round == FinalRound {
		cp, err := next.place(winner, BucketFirst, round)
		if err != nil {
			return t, Outcome{}, Effects{}, err
		}
		out.ChampionPlacement = &cp
		if cp.PrizeCents > 0 {
			fx.Credits = append(fx.Credits, creditFor(t.ID, cp))
		}
		if len(next.Placements) != BracketSize {
			return t, Outcome{}, Effects{}, fmt.Errorf("%w: %d placements at completion", ErrInvariantViolation, len(next.Placements))
		}
		next.Champion = winner
		next.Status = StatusComplete
		next.CompletedAt = &now
		out.RoundFinished = true
		out.Completed = true
		fx.Completed = true
		out.Match = *done
		return next, out, fx, nil
	}

	slot := &next.Rounds[round+1].Matches[index/2]
	seat := &slot.SeatA
	if index%2 == 1 {
		seat = &slot.SeatB
	}
	if *seat != "" && *seat != winner {
		return t, Outcome{}, Effects{}, fmt.Errorf("%w: round %d match %d seat already holds %s", ErrInvariantViolation, round+1, index/2, *seat)
	}
	*seat = winner

	if next.Rounds[round].Finished() {
		startsAt := now.Add(nextRoundDelay)
		for i := range next.Rounds[round+1].Matches {
			nm := &next.Rounds[round+1].Matches[i]
			if nm.SeatA == "" || nm.SeatB == "" {
				return t, Outcome{}, Effects{}, fmt.Errorf("%w: round %d match %d missing a seat after round %d finished", ErrInvariantViolation, round+1, i, round)
			}
			nm.Status = MatchStatusReady
			nm.StartsAt = &startsAt
			fx.Ready = append(fx.Ready, readyEffect(t.ID, *nm))
		}
		next.CurrentRound = round + 1
		out.RoundFinished = true
	}

	out.Match = *done
	return next, out, fx, nil
}

// PendingReady lists the current round's matches that are ready but not yet
// started, so their start can be scheduled again after a lost notification.
func (t Tournament) PendingReady() []MatchReady {
	if t.Status != StatusRunning || t.CurrentRound >= len(t.Rounds) {
		return nil
	}
	var out []MatchReady
	for _, m := range t.Rounds[t.CurrentRound].Matches {
		if m.Status == MatchStatusReady {
			out = append(out, readyEffect(t.ID, m))
		}
	}
	return out
}

// place records a player's final standing. Ranks count down from the
// bucket's worst rank in completion order.
func (t *Tournament) place(playerID string, bucket Bucket, round int) (Placement, error) {
	if existing, ok := t.Placements[playerID]; ok {
		return Placement{}, fmt.Errorf("%w: %s already placed %s", ErrInvariantViolation, playerID, existing.Bucket)
	}
	taken := 0
	for _, p := range t.Placements {
		if p.Bucket == bucket {
			taken++
		}
	}
	rank := bucket.WorstRank() - taken
	if rank < bucket.BestRank() {
		return Placement{}, fmt.Errorf("%w: bucket %s is full", ErrInvariantViolation, bucket)
	}
	prize, err := Prize(t.Tier, t.Format, bucket)
	if err != nil {
		return Placement{}, err
	}
	p := Placement{
		PlayerID:   playerID,
		Bucket:     bucket,
		Rank:       rank,
		Round:      round,
		PrizeCents: prize,
	}
	t.Placements[playerID] = p
	return p, nil
}

func (t Tournament) replayOutcome(m Match) Outcome {
	out := Outcome{Match: m, Duplicate: true}
	if p, ok := t.Placements[m.Loser]; ok {
		out.Placement = &p
	}
	if m.Round == FinalRound {
		if p, ok := t.Placements[m.Winner]; ok {
			out.ChampionPlacement = &p
		}
		out.Completed = true
	}
	return out
}

func (t Tournament) clone() Tournament {
	next := t
	next.Players = slices.Clone(t.Players)
	next.Placements = maps.Clone(t.Placements)
	if next.Placements == nil {
		next.Placements = map[string]Placement{}
	}
	if t.Rounds != nil {
		next.Rounds = make([]Round, len(t.Rounds))
		for i, r := range t.Rounds {
			next.Rounds[i] = Round{Index: r.Index, Matches: slices.Clone(r.Matches)}
		}
	}
	return next
}

func opposite(s Seat) Seat {
	if s == SeatA {
		return SeatB
	}
	return SeatA
}

func creditFor(id uuid.UUID, p Placement) PrizeCredit {
	return PrizeCredit{
		TournamentID: id,
		PlayerID:     p.PlayerID,
		Bucket:       p.Bucket,
		Rank:         p.Rank,
		AmountCents:  p.PrizeCents,
	}
}

func readyEffect(id uuid.UUID, m Match) MatchReady {
	fx := MatchReady{
		TournamentID: id,
		Round:        m.Round,
		Match:        m.Index,
		SeatA:        m.SeatA,
		SeatB:        m.SeatB,
	}
	if m.StartsAt != nil {
		fx.StartsAt = *m.StartsAt
	}
	return fx
}
