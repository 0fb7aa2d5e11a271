package ai

import (
	"math/rand"

	"warbots/internal/model"
)

// defensiveStrategy prioritizes fortifications on every owned planet,
// keeps its scout count low, and only ever attacks an undefended
// target once it can field at least 6 offensive strength.
type defensiveStrategy struct{}

const defensiveScoutCap = 5
const defensiveAttackThreshold = 6

func (defensiveStrategy) ProduceOrders(v *View, rng *rand.Rand) model.Orders {
	var orders model.Orders

	buildFortifications(v, &orders)

	if countByType(v.OwnMechs, model.Light) < defensiveScoutCap {
		buildOneMechPerFactory(v, model.Light, &orders)
	} else {
		buildOneMechPerFactory(v, model.Heavy, &orders)
	}

	for _, group := range IdentifyAttackGroups(v, 1) {
		if CombatStrength(group.Mechs) < defensiveAttackThreshold {
			continue
		}
		target, ok := NearestUndefendedEnemyPlanet(v, group.Coords)
		if !ok {
			continue
		}
		moveGroupToward(v, group, target, &orders)
	}

	return orders
}
