// Package visibility computes the fog-of-war tile set a player can
// currently see. The function is pure, deterministic and idempotent:
// given the same planets and mechs it always returns the same set,
// with no memory of previously-seen tiles and no line-of-sight
// obstruction.
package visibility

import (
	"warbots/internal/grid"
	"warbots/internal/model"
)

// PlanetRadius is the Chebyshev radius a player's own planet
// illuminates.
const PlanetRadius = 3

// MechRadius is the Chebyshev radius a player's own mech
// illuminates.
const MechRadius = 2

// Compute returns the set of tiles visible to a player owning
// `planets` and `mechs` on a grid of the given size. The result is
// the union of each owned planet's radius-3 window and each owned
// mech's radius-2 window, clipped to grid bounds.
func Compute(gridSize int, planets []*model.Planet, mechs []*model.Mech) map[grid.Coord]struct{} {
	seen := make(map[grid.Coord]struct{})

	for _, p := range planets {
		for _, c := range grid.Window(p.Coords, PlanetRadius, gridSize) {
			seen[c] = struct{}{}
		}
	}

	for _, m := range mechs {
		for _, c := range grid.Window(m.Coords, MechRadius, gridSize) {
			seen[c] = struct{}{}
		}
	}

	return seen
}

// Visible reports whether `tile` is visible given the precomputed
// set returned by `Compute`.
func Visible(seen map[grid.Coord]struct{}, tile grid.Coord) bool {
	_, ok := seen[tile]
	return ok
}
