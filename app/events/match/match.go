// Package matchevents holds the live match topics and their payloads.
package matchevents

const (
	// GameResultReportedV1 carries a game result decided outside the engines,
	// such as a forfeit reported by the game client host.
	GameResultReportedV1 = "match.game.result.reported.v1"
)

// GameResultReportedPayloadV1 reports the winner of one game of a series.
// GameNumber 0 means the game currently being played. An empty WinningSeat
// is a draw.
type GameResultReportedPayloadV1 struct {
	MatchID     string `json:"match_id"`
	GameType    string `json:"game_type"`
	GameNumber  int    `json:"game_number"`
	WinningSeat string `json:"winning_seat"`
}
