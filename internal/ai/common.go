package ai

import (
	"warbots/internal/grid"
	"warbots/internal/model"
)

// countByType counts how many of `mechs` are of type `t`.
func countByType(mechs []*model.Mech, t model.MechType) int {
	n := 0
	for _, m := range mechs {
		if m.Type == t {
			n++
		}
	}
	return n
}

// buildOneMechPerFactory orders one mech of type `t` from every
// factory this player owns, stopping once the view's current credits
// are spent. The budget starts from the full credit balance on every
// call, so builds already in `orders` are not subtracted from it;
// affordability of the whole submission is re-checked by the Order
// Validator.
func buildOneMechPerFactory(v *View, t model.MechType, orders *model.Orders) {
	budget := v.Credits
	cost := model.MechCost(t)

	for _, p := range v.OwnPlanets {
		if !v.HasBuilding(p.ID, model.Factory) {
			continue
		}
		if budget < cost {
			break
		}
		orders.Builds = append(orders.Builds, model.NewBuildMech(p.ID, t))
		budget -= cost
	}
}

// buildFortifications orders a fortification on every owned planet
// that does not yet have one, up to the current credit budget.
func buildFortifications(v *View, orders *model.Orders) {
	budget := v.Credits
	cost := model.BuildingCost(model.Fortification)

	for _, p := range v.OwnPlanets {
		if v.HasBuilding(p.ID, model.Fortification) {
			continue
		}
		if budget < cost {
			break
		}
		orders.Builds = append(orders.Builds, model.NewBuildBuilding(p.ID, model.Fortification))
		budget -= cost
	}
}

// moveGroupToward issues a one-step move order for every mech in
// `group` toward `target`.
func moveGroupToward(v *View, group attackGroup, target grid.Coord, orders *model.Orders) {
	for _, m := range group.Mechs {
		to := OneStepToward(m.Coords, target, v.GridSize)
		if to.Equals(m.Coords) {
			continue
		}
		orders.Moves = append(orders.Moves, model.Move{MechID: m.ID, To: to})
	}
}
