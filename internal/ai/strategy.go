package ai

import (
	"math/rand"

	"warbots/internal/grid"
	"warbots/internal/model"
)

// Strategy is the single capability every AI policy exposes: given a
// player's current view, produce the orders it wants to submit this
// turn. Implementations never touch the store directly and never
// block; the Dispatcher runs them on a cooperative task and filters
// their output through `internal/validate.Filter` exactly like any
// other submission, so a strategy bug can produce nonsense orders but
// never corrupt state.
type Strategy interface {
	ProduceOrders(view *View, rng *rand.Rand) model.Orders
}

// For resolves a strategy tag to its implementation. Generic is
// returned for any unrecognized tag, matching the teacher's
// fall-through-to-sane-default convention for enum-keyed lookups.
func For(tag model.AIStrategyTag) Strategy {
	switch tag {
	case model.Balanced:
		return balancedStrategy{}
	case model.Expansionist:
		return expansionistStrategy{}
	case model.Infestor:
		return infestorStrategy{}
	case model.Defensive:
		return defensiveStrategy{}
	default:
		return genericStrategy{}
	}
}

// scoutTarget issues a move order for `mech` one step toward the best
// frontier direction from its current tile, the shared "go explore"
// behavior several strategies fall back on once their build queue is
// empty.
func scoutTarget(v *View, mech *model.Mech, orders *model.Orders) {
	dir := BestFrontierDirection(v, mech.Coords)
	aim := grid.New(mech.Coords.X+dir.X*5, mech.Coords.Y+dir.Y*5)
	to := OneStepToward(mech.Coords, aim, v.GridSize)
	if to.Equals(mech.Coords) {
		return
	}
	orders.Moves = append(orders.Moves, model.Move{MechID: mech.ID, To: to})
}
