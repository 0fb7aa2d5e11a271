package ai

import (
	"math/rand"

	"warbots/internal/model"
)

// expansionistStrategy races to 10 scouts, then builds heavies and
// assaults in a 3:1 ratio, skipping any factory planet where 4 or
// more of its own mechs (of any type) already stand. Every tile with
// at least 4 co-located heavy/assault mechs is launched at the
// nearest undefended enemy planet.
type expansionistStrategy struct{}

const expansionistScoutTarget = 10
const expansionGroupSize = 4
const expansionMaxPerPlanet = 4

func (expansionistStrategy) ProduceOrders(v *View, rng *rand.Rand) model.Orders {
	var orders model.Orders

	if countByType(v.OwnMechs, model.Light) < expansionistScoutTarget {
		buildOneMechPerFactory(v, model.Light, &orders)
	} else {
		heavy := countByType(v.OwnMechs, model.Heavy)
		assault := countByType(v.OwnMechs, model.Assault)

		next := model.Heavy
		if heavy >= assault*3 {
			next = model.Assault
		}

		budget := v.Credits
		cost := model.MechCost(next)
		for _, p := range v.OwnPlanets {
			if !v.HasBuilding(p.ID, model.Factory) {
				continue
			}
			builtHere := 0
			for _, m := range v.OwnMechs {
				if m.Coords.Equals(p.Coords) {
					builtHere++
				}
			}
			if builtHere >= expansionMaxPerPlanet {
				continue
			}
			if budget < cost {
				break
			}
			orders.Builds = append(orders.Builds, model.NewBuildMech(p.ID, next))
			budget -= cost
		}
	}

	for _, m := range v.OwnMechs {
		if m.Type == model.Light {
			scoutTarget(v, m, &orders)
		}
	}

	for _, group := range IdentifyAttackGroups(v, expansionGroupSize) {
		target, ok := NearestUndefendedEnemyPlanet(v, group.Coords)
		if !ok {
			continue
		}
		moveGroupToward(v, group, target, &orders)
	}

	return orders
}
