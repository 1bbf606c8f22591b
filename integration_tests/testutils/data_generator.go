package testutils

import (
	"time"

	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator builds players for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator. Without a seed the clock is used.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s))}
}

// GeneratePlayers returns n players with distinct IDs.
func (g *TestDataGenerator) GeneratePlayers(n int) []tournamentdomain.Player {
	players := make([]tournamentdomain.Player, n)
	for i := range players {
		players[i] = tournamentdomain.Player{
			ID:          g.faker.UUID(),
			DisplayName: g.faker.Username(),
		}
	}
	return players
}
