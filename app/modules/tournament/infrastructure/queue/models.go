package tournamentqueue

// RoundStartJob starts a bracket round at its scheduled time and announces
// each of its matches.
type RoundStartJob struct {
	TournamentID string `json:"tournament_id"`
	Round        int    `json:"round"`
}

// Kind returns the job type identifier for River
func (RoundStartJob) Kind() string { return "tournament_round_start" }
