package ai

import (
	"math/rand"

	"warbots/internal/model"
)

// infestorStrategy mass-produces light and medium mechs at a 2:1
// ratio, runs one factory per two owned planets, and spreads every
// idle mech toward unexplored territory rather than massing.
type infestorStrategy struct{}

func (infestorStrategy) ProduceOrders(v *View, rng *rand.Rand) model.Orders {
	var orders model.Orders

	light := countByType(v.OwnMechs, model.Light)
	medium := countByType(v.OwnMechs, model.Medium)

	next := model.Light
	if light >= medium*2 {
		next = model.Medium
	}

	budget := v.Credits
	cost := model.MechCost(next)
	factoryPlanets := 0
	for _, p := range v.OwnPlanets {
		if v.HasBuilding(p.ID, model.Factory) {
			factoryPlanets++
		}
	}
	allowedFactories := (len(v.OwnPlanets) + 1) / 2
	used := 0

	for _, p := range v.OwnPlanets {
		if !v.HasBuilding(p.ID, model.Factory) {
			if factoryPlanets >= allowedFactories {
				continue
			}
			if budget >= model.BuildingCost(model.Factory) {
				orders.Builds = append(orders.Builds, model.NewBuildBuilding(p.ID, model.Factory))
				budget -= model.BuildingCost(model.Factory)
				factoryPlanets++
			}
			continue
		}
		if used >= allowedFactories {
			continue
		}
		if budget < cost {
			break
		}
		orders.Builds = append(orders.Builds, model.NewBuildMech(p.ID, next))
		budget -= cost
		used++
	}

	for _, m := range v.OwnMechs {
		scoutTarget(v, m, &orders)
	}

	return orders
}
