package ai

import (
	"math/rand"

	"warbots/internal/grid"
	"warbots/internal/model"
)

// OneStepToward returns the single Chebyshev step from `from` that
// makes the most progress toward `to`: the dominant axis moves first;
// when both axes are equally far, both move (a diagonal step); a move
// that would leave the grid is replaced by the orthogonal-only
// fallback along whichever axis stays in bounds.
func OneStepToward(from, to grid.Coord, gridSize int) grid.Coord {
	if from.Equals(to) {
		return from
	}

	dx := sign(to.X - from.X)
	dy := sign(to.Y - from.Y)

	// Only the dominant axis moves unless both are equally far.
	distX := (to.X - from.X) * dx
	distY := (to.Y - from.Y) * dy
	switch {
	case distX > distY:
		dy = 0
	case distY > distX:
		dx = 0
	}

	candidate := grid.New(from.X+dx, from.Y+dy)
	if candidate.InBounds(gridSize) {
		return candidate
	}

	onlyX := grid.New(from.X+dx, from.Y)
	if dx != 0 && onlyX.InBounds(gridSize) {
		return onlyX
	}

	onlyY := grid.New(from.X, from.Y+dy)
	if dy != 0 && onlyY.InBounds(gridSize) {
		return onlyY
	}

	return from
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// frontierDirections are the 8 candidate headings frontier
// exploration scores, expressed as unit (dx, dy) steps.
var frontierDirections = []grid.Coord{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

// BestFrontierDirection scores each of the 8 headings from `from` by
// counting how many tiles within 5 steps along that heading fall
// outside the view's current fog-of-war, and returns the
// highest-scoring heading (ties broken by iteration order, which is
// fixed, keeping the policy deterministic for a given seed).
func BestFrontierDirection(v *View, from grid.Coord) grid.Coord {
	best := frontierDirections[0]
	bestScore := -1

	for _, dir := range frontierDirections {
		score := 0
		for step := 1; step <= 5; step++ {
			c := grid.New(from.X+dir.X*step, from.Y+dir.Y*step)
			if !c.InBounds(v.GridSize) {
				break
			}
			if !v.Visible(c) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = dir
		}
	}

	return best
}

// attackGroup is a tile hosting enough of the player's own heavy and
// assault mechs to be worth launching as an offensive.
type attackGroup struct {
	Coords grid.Coord
	Mechs  []*model.Mech
}

// IdentifyAttackGroups finds every tile where this player has at
// least `minStrength` combined heavy+assault mechs co-located, the
// shared notion of "an attack group is ready" across strategies.
func IdentifyAttackGroups(v *View, minStrength int) []attackGroup {
	byTile := make(map[grid.Coord][]*model.Mech)
	for _, m := range v.OwnMechs {
		if m.Type == model.Heavy || m.Type == model.Assault {
			byTile[m.Coords] = append(byTile[m.Coords], m)
		}
	}

	var out []attackGroup
	for coords, mechs := range byTile {
		if len(mechs) >= minStrength {
			out = append(out, attackGroup{Coords: coords, Mechs: mechs})
		}
	}
	return out
}

// CombatStrength is a coarse per-mech-type offensive weight used by
// strategies deciding whether a force is strong enough to attack.
func CombatStrength(mechs []*model.Mech) int {
	total := 0
	for _, m := range mechs {
		switch m.Type {
		case model.Light:
			total++
		case model.Medium:
			total += 2
		case model.Heavy:
			total += 3
		case model.Assault:
			total += 4
		}
	}
	return total
}

// NearestUndefendedEnemyPlanet scans the view's visible planets for
// the closest one neither owned by this player nor hosting an alive
// fortification, starting the search from `from`.
func NearestUndefendedEnemyPlanet(v *View, from grid.Coord) (grid.Coord, bool) {
	best := grid.Coord{}
	bestDist := -1
	found := false

	for _, p := range v.VisiblePlanets {
		if p.OwnerID == v.PlayerID {
			continue
		}
		if hasFortification(v, p.ID) {
			continue
		}
		d := grid.Chebyshev(from, p.Coords)
		if !found || d < bestDist {
			found = true
			bestDist = d
			best = p.Coords
		}
	}

	return best, found
}

func hasFortification(v *View, planetID string) bool {
	for _, b := range v.Buildings[planetID] {
		if b.Type == model.Fortification && b.Alive() {
			return true
		}
	}
	return false
}

// shuffledMechs returns a deterministic random permutation of `mechs`
// driven by `rng`, used wherever a strategy must pick "some" of its
// units without favoring any particular one.
func shuffledMechs(mechs []*model.Mech, rng *rand.Rand) []*model.Mech {
	out := make([]*model.Mech, len(mechs))
	copy(out, mechs)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
