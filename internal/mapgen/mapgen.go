// Package mapgen places homeworlds and regular planets on a fresh
// game's grid and seeds each homeworld with its starting factory and
// two light mechs. It runs exactly once, at the `waiting -> active`
// transition.
package mapgen

import (
	"fmt"
	"math"
	"math/rand"

	"warbots/internal/grid"
	"warbots/internal/model"
)

// homeworldMinDistance is the minimum Euclidean distance required
// between any two homeworlds.
const homeworldMinDistance = 10.0

// planetMinDistance is the minimum Euclidean distance a regular
// planet must keep from any homeworld or other regular planet.
const planetMinDistance = 4.5

// homeworldMaxAttemptsPerPlayer is the per-player attempt budget
// before homeworld placement is declared failed.
const homeworldMaxAttemptsPerPlayer = 1000

// edgeMarginFraction is the band width, as a fraction of grid size,
// within which the first half of homeworld placement attempts are
// restricted to lie near an edge.
const edgeMarginFraction = 0.10

// IDGenerator mints a fresh unique identifier; callers typically pass
// a closure around `uuid.New().String()`.
type IDGenerator func() string

// Result bundles everything map generation produced for a game.
type Result struct {
	Planets   []*model.Planet
	Buildings []*model.Building
	Mechs     []*model.Mech
}

// ErrHomeworldPlacementFailed is returned when a player's homeworld
// could not be placed within the attempt budget.
var ErrHomeworldPlacementFailed = fmt.Errorf("failed to place homeworld within attempt budget")

// Generate runs map generation for a newly-started game. `players`
// must be in join order; `seed` is the game's own creation-time RNG
// seed (see `pkg/fingerprint.Seed`) so that the layout is itself
// replayable.
func Generate(gameID string, gridSize int, players []*model.Player, seed int64, newID IDGenerator) (*Result, error) {
	rng := rand.New(rand.NewSource(seed))

	dict := shuffledNames(rng)
	nextName := func(n int) string {
		if n < len(dict) {
			return dict[n]
		}
		return fmt.Sprintf("Planet-%d", n+1)
	}
	nameIdx := 0
	drawName := func() string {
		name := nextName(nameIdx)
		nameIdx++
		return name
	}

	res := &Result{}

	homeworldCoords, err := placeHomeworlds(rng, gridSize, len(players))
	if err != nil {
		return nil, err
	}

	for i, p := range players {
		coords := homeworldCoords[i]
		planet := model.NewHomeworld(newID(), gameID, coords, p.ID, drawName())
		res.Planets = append(res.Planets, planet)

		factory, err := model.NewBuilding(newID(), planet.ID, model.Factory)
		if err != nil {
			return nil, err
		}
		res.Buildings = append(res.Buildings, factory)

		m1, err := model.NewMech(newID(), gameID, p.ID, model.Light, coords, "Light-0001")
		if err != nil {
			return nil, err
		}
		m2, err := model.NewMech(newID(), gameID, p.ID, model.Light, coords, "Light-0002")
		if err != nil {
			return nil, err
		}
		res.Mechs = append(res.Mechs, m1, m2)
	}

	target := int(math.Floor(float64(gridSize)*float64(gridSize)*0.10)) - len(players)
	if target > 0 {
		occupied := append([]grid.Coord{}, homeworldCoords...)
		maxAttempts := 100 * target

		placed := 0
		attempts := 0
		for placed < target && attempts < maxAttempts {
			attempts++

			candidate := grid.New(rng.Intn(gridSize), rng.Intn(gridSize))
			if tooClose(candidate, occupied, planetMinDistance) {
				continue
			}

			income := rng.Intn(3) + 1
			planet, perr := model.NewPlanet(newID(), gameID, candidate, income, drawName())
			if perr != nil {
				continue
			}

			res.Planets = append(res.Planets, planet)
			occupied = append(occupied, candidate)
			placed++
		}
	}

	return res, nil
}

// placeHomeworlds samples one homeworld coordinate per player,
// honoring the edge-then-anywhere attempt split and the minimum
// mutual distance.
func placeHomeworlds(rng *rand.Rand, gridSize, playerCount int) ([]grid.Coord, error) {
	margin := int(float64(gridSize) * edgeMarginFraction)
	if margin < 1 {
		margin = 1
	}

	placed := make([]grid.Coord, 0, playerCount)

	for i := 0; i < playerCount; i++ {
		found := false

		for attempt := 0; attempt < homeworldMaxAttemptsPerPlayer; attempt++ {
			var candidate grid.Coord
			if attempt < homeworldMaxAttemptsPerPlayer/2 {
				candidate = sampleEdge(rng, gridSize, margin)
			} else {
				candidate = grid.New(rng.Intn(gridSize), rng.Intn(gridSize))
			}

			if tooClose(candidate, placed, homeworldMinDistance) {
				continue
			}

			placed = append(placed, candidate)
			found = true
			break
		}

		if !found {
			return nil, ErrHomeworldPlacementFailed
		}
	}

	return placed, nil
}

// sampleEdge samples a coordinate within `margin` tiles of one of
// the four edges of the board, picked uniformly at random.
func sampleEdge(rng *rand.Rand, gridSize, margin int) grid.Coord {
	switch rng.Intn(4) {
	case 0: // top edge
		return grid.New(rng.Intn(gridSize), rng.Intn(margin))
	case 1: // bottom edge
		return grid.New(rng.Intn(gridSize), gridSize-1-rng.Intn(margin))
	case 2: // left edge
		return grid.New(rng.Intn(margin), rng.Intn(gridSize))
	default: // right edge
		return grid.New(gridSize-1-rng.Intn(margin), rng.Intn(gridSize))
	}
}

// tooClose reports whether `candidate` lies within `minDist`
// (Euclidean) of any coordinate in `others`.
func tooClose(candidate grid.Coord, others []grid.Coord, minDist float64) bool {
	threshold := minDist * minDist
	for _, o := range others {
		if float64(grid.Euclidean2(candidate, o)) < threshold {
			return true
		}
	}
	return false
}

// shuffledNames returns a Fisher-Yates shuffled copy of the embedded
// name dictionary.
func shuffledNames(rng *rand.Rand) []string {
	out := make([]string, len(names))
	copy(out, names)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
