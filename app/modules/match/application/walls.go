package matchservice

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
)

// SeededWalls derives each game's Grid-Trap walls from a server seed and the
// game's position in the match, so a replayed setup is identical.
type SeededWalls struct {
	seed uint64
}

var _ WallGenerator = SeededWalls{}

func NewSeededWalls(seed uint64) SeededWalls { return SeededWalls{seed: seed} }

func (w SeededWalls) Setup(id matchdomain.MatchID, game int) gamedomain.Setup {
	h := fnv.New64a()
	h.Write([]byte(id))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(game))
	h.Write(n[:])

	rng := rand.New(rand.NewPCG(w.seed, h.Sum64()))
	return gamedomain.Setup{StaticWalls: gamedomain.GenerateStaticWalls(rng)}
}
