package ai

import (
	"math/rand"

	"warbots/internal/grid"
	"warbots/internal/model"
)

// genericStrategy adapts its build order to whatever its budget
// allows (fortifications first, then mechs), attempts to reclaim its
// original homeworld if it has fallen to another player, and otherwise
// sends every group of 3 or more heavy/assault mechs toward the
// weakest visible enemy force (no strength comparison is made). It is
// the fallback for any strategy tag the engine doesn't recognize.
type genericStrategy struct{}

func (genericStrategy) ProduceOrders(v *View, rng *rand.Rand) model.Orders {
	var orders model.Orders

	buildFortifications(v, &orders)

	affordable := model.Light
	for _, t := range []model.MechType{model.Assault, model.Heavy, model.Medium, model.Light} {
		if v.Credits >= model.MechCost(t) {
			affordable = t
			break
		}
	}
	buildOneMechPerFactory(v, affordable, &orders)

	if home, ok := lostHomeworld(v); ok {
		for _, group := range IdentifyAttackGroups(v, 1) {
			moveGroupToward(v, group, home, &orders)
		}
	} else if target, ok := weakestVisibleEnemy(v); ok {
		for _, group := range IdentifyAttackGroups(v, 3) {
			moveGroupToward(v, group, target, &orders)
		}
	}

	for _, m := range v.OwnMechs {
		if m.Type == model.Light {
			scoutTarget(v, m, &orders)
		}
	}

	return orders
}

// lostHomeworld reports this player's original homeworld coordinates
// if it is currently visible and no longer theirs.
func lostHomeworld(v *View) (grid.Coord, bool) {
	for _, p := range v.VisiblePlanets {
		if p.Homeworld && p.OriginalOwnerID == v.PlayerID && p.OwnerID != v.PlayerID {
			return p.Coords, true
		}
	}
	return grid.Coord{}, false
}

// weakestVisibleEnemy finds the tile hosting the smallest visible
// enemy force, a "finish them off" target for an otherwise idle
// attack group.
func weakestVisibleEnemy(v *View) (grid.Coord, bool) {
	byTile := make(map[grid.Coord][]*model.Mech)
	for _, m := range v.VisibleMechs {
		if m.OwnerID == v.PlayerID {
			continue
		}
		byTile[m.Coords] = append(byTile[m.Coords], m)
	}

	var best grid.Coord
	bestStrength := -1
	found := false

	for coords, mechs := range byTile {
		s := CombatStrength(mechs)
		if !found || s < bestStrength {
			found = true
			bestStrength = s
			best = coords
		}
	}

	return best, found
}
