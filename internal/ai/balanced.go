package ai

import (
	"math/rand"

	"warbots/internal/model"
)

// balancedStrategy builds a modest scout force (light mechs) early,
// then settles into a medium/heavy/assault mix at roughly 2:2:1, and
// only commits an attack group once its combined offensive strength
// reaches 4.
type balancedStrategy struct{}

const balancedScoutTarget = 7
const balancedAttackThreshold = 4

func (balancedStrategy) ProduceOrders(v *View, rng *rand.Rand) model.Orders {
	var orders model.Orders

	lightCount := countByType(v.OwnMechs, model.Light)
	if lightCount < balancedScoutTarget {
		buildOneMechPerFactory(v, model.Light, &orders)
	} else {
		medium := countByType(v.OwnMechs, model.Medium)
		heavy := countByType(v.OwnMechs, model.Heavy)
		assault := countByType(v.OwnMechs, model.Assault)

		next := model.Medium
		switch {
		case heavy < medium:
			next = model.Heavy
		case assault*2 < heavy:
			next = model.Assault
		}
		buildOneMechPerFactory(v, next, &orders)
	}

	for _, m := range v.OwnMechs {
		if m.Type == model.Light {
			scoutTarget(v, m, &orders)
		}
	}

	for _, group := range IdentifyAttackGroups(v, 1) {
		if CombatStrength(group.Mechs) < balancedAttackThreshold {
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
