// Package validate implements the single set of per-order rules used
// both to strictly validate a human submission (reject the whole
// thing on the first error) and to filter an AI submission
// (keep only the valid subset, discarding the rest with reasons).
package validate

import (
	"fmt"

	"warbots/internal/grid"
	"warbots/internal/model"
)

// View is the narrow slice of game state a validation pass needs: it
// takes only the read methods required, rather than the whole store
// (Design Notes §9).
type View interface {
	MechByID(mechID string) (*model.Mech, bool)
	PlanetByID(planetID string) (*model.Planet, bool)
	BuildingsOn(planetID string) []*model.Building
	GridSize() int
}

// Rejection pairs a discarded order with a human-readable reason,
// used by the AI-facing filtering mode.
type Rejection struct {
	Reason string
}

// Error is returned by strict validation: the first violated rule,
// wrapping a human-readable reason surfaced to the caller as-is.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

// planBudget tracks the mech-build-per-factory and credit-budget
// constraints across a single submission's build orders.
type planBudget struct {
	factoriesUsed map[string]bool
	buildingTypesUsed map[string]map[model.BuildingType]bool
	spent int
}

func newPlanBudget() *planBudget {
	return &planBudget{
		factoriesUsed:     make(map[string]bool),
		buildingTypesUsed: make(map[string]map[model.BuildingType]bool),
	}
}

// Strict validates an entire submission and returns the first
// violated rule, or nil if every order is valid against `view` and
// `playerID`'s current credits. No order is applied; this function
// only reports.
func Strict(view View, playerID string, credits int, orders model.Orders) error {
	budget := newPlanBudget()

	for _, mv := range orders.Moves {
		if err := validateMove(view, playerID, mv); err != nil {
			return err
		}
	}

	for _, b := range orders.Builds {
		if err := validateBuild(view, playerID, b, budget); err != nil {
			return err
		}
		budget.spent += b.Cost()
	}

	if budget.spent > 0 && budget.spent > credits {
		return &Error{Reason: "Insufficient credits for submitted builds"}
	}

	return nil
}

// Filter keeps only the valid subset of `orders` for an AI
// submission, discarding anything invalid with its rejection reason.
// Unlike Strict, one rejected order does not reject the rest.
func Filter(view View, playerID string, credits int, orders model.Orders) (model.Orders, []Rejection) {
	budget := newPlanBudget()
	var kept model.Orders
	var rejected []Rejection

	for _, mv := range orders.Moves {
		if err := validateMove(view, playerID, mv); err != nil {
			rejected = append(rejected, Rejection{Reason: err.Error()})
			continue
		}
		kept.Moves = append(kept.Moves, mv)
	}

	spent := 0
	for _, b := range orders.Builds {
		if err := validateBuild(view, playerID, b, budget); err != nil {
			rejected = append(rejected, Rejection{Reason: err.Error()})
			continue
		}
		if spent+b.Cost() > credits {
			rejected = append(rejected, Rejection{Reason: "Insufficient credits for build"})
			continue
		}

		spent += b.Cost()
		budget.spent += b.Cost()
		kept.Builds = append(kept.Builds, b)
	}

	return kept, rejected
}

func validateMove(view View, playerID string, mv model.Move) error {
	mech, ok := view.MechByID(mv.MechID)
	if !ok {
		return &Error{Reason: "Unknown mech"}
	}
	if mech.OwnerID != playerID {
		return &Error{Reason: "Mech is not owned by the submitting player"}
	}
	if !mv.To.InBounds(view.GridSize()) {
		return &Error{Reason: "Invalid move destination"}
	}
	if grid.Chebyshev(mech.Coords, mv.To) != 1 {
		return &Error{Reason: "Invalid move destination"}
	}
	return nil
}

func validateBuild(view View, playerID string, b model.Build, budget *planBudget) error {
	if !b.Valid() {
		return &Error{Reason: "Malformed build order"}
	}

	planet, ok := view.PlanetByID(b.PlanetID())
	if !ok {
		return &Error{Reason: "Unknown planet"}
	}
	if planet.OwnerID != playerID {
		return &Error{Reason: "Planet is not owned by the submitting player"}
	}

	if b.Mech != nil {
		return validateBuildMech(view, planet, b.Mech, budget)
	}
	return validateBuildBuilding(view, planet, b.Building, budget)
}

func validateBuildMech(view View, planet *model.Planet, b *model.BuildMech, budget *planBudget) error {
	if !model.ValidMechType(b.MechType) {
		return &Error{Reason: "Unknown mech type"}
	}

	hasFactory := false
	for _, bld := range view.BuildingsOn(planet.ID) {
		if bld.Type == model.Factory {
			hasFactory = true
			break
		}
	}
	if !hasFactory {
		return &Error{Reason: "Planet has no factory"}
	}

	if budget.factoriesUsed[planet.ID] {
		return &Error{Reason: "Each factory can only produce 1 mech per turn"}
	}
	budget.factoriesUsed[planet.ID] = true

	return nil
}

func validateBuildBuilding(view View, planet *model.Planet, b *model.BuildBuilding, budget *planBudget) error {
	if !model.ValidBuildingType(b.BuildingType) {
		return &Error{Reason: "Unknown building type"}
	}

	for _, bld := range view.BuildingsOn(planet.ID) {
		if bld.Type == b.BuildingType {
			return &Error{Reason: fmt.Sprintf("Planet already has a %s", b.BuildingType)}
		}
	}

	used := budget.buildingTypesUsed[planet.ID]
	if used == nil {
		used = make(map[model.BuildingType]bool)
		budget.buildingTypesUsed[planet.ID] = used
	}
	if used[b.BuildingType] {
		return &Error{Reason: fmt.Sprintf("Planet already has a pending %s this turn", b.BuildingType)}
	}
	used[b.BuildingType] = true

	return nil
}
