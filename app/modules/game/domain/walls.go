package gamedomain

import "math/rand/v2"

const (
	minStaticWalls = 15
	maxStaticWalls = 20
	outerBand      = 3
)

// GenerateStaticWalls picks 15 to 20 wall cells from the outer three rows and
// columns, never on a start cell. The same source yields the same layout.
func GenerateStaticWalls(rng *rand.Rand) []Coord {
	var candidates []Coord
	for r := 0; r < GridTrapSize; r++ {
		for c := 0; c < GridTrapSize; c++ {
			outerRow := r < outerBand || r >= GridTrapSize-outerBand
			outerCol := c < outerBand || c >= GridTrapSize-outerBand
			if !outerRow && !outerCol {
				continue
			}
			cell := Coord{Row: r, Col: c}
			if cell == GridTrapStartA || cell == GridTrapStartB {
				continue
			}
			candidates = append(candidates, cell)
		}
	}

	target := minStaticWalls + rng.IntN(maxStaticWalls-minStaticWalls+1)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:target]
}
