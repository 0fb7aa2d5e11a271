// Package ai implements the pluggable AI strategy contract: a
// strategy consumes the same fog-of-war-filtered view served to
// humans and produces an Orders value, which the Turn Dispatcher then
// runs through the Order Validator in "keep-valid" mode exactly like
// any other submission.
package ai

import (
	"warbots/internal/data"
	"warbots/internal/grid"
	"warbots/internal/model"
	"warbots/internal/visibility"
)

// View is the read-only projection an AI strategy plans against: its
// own mechs and planets, plus whatever of the board (planets with
// their buildings, and mechs) its own fog-of-war currently reveals.
type View struct {
	GameID   string
	PlayerID string
	GridSize int
	Turn     int
	Credits  int

	OwnMechs   []*model.Mech
	OwnPlanets []*model.Planet

	VisiblePlanets []*model.Planet
	VisibleMechs   []*model.Mech

	Buildings map[string][]*model.Building

	seen map[grid.Coord]struct{}
}

// BuildView assembles a player's View from the store, mirroring the
// same visibility computation a `/state` request would serve to that
// player.
func BuildView(store data.Store, gameID, playerID string) *View {
	game, ok := store.GameByID(gameID)
	if !ok {
		return &View{GameID: gameID, PlayerID: playerID, Buildings: map[string][]*model.Building{}}
	}

	player, _ := store.PlayerByID(playerID)

	allPlanets := store.PlanetsFor(gameID)
	allMechs := store.MechsForGame(gameID)

	var ownPlanets, visiblePlanets []*model.Planet
	var ownMechs, visibleMechs []*model.Mech

	for _, p := range allPlanets {
		if p.OwnerID == playerID {
			ownPlanets = append(ownPlanets, p)
		}
	}
	for _, m := range allMechs {
		if m.OwnerID == playerID {
			ownMechs = append(ownMechs, m)
		}
	}

	seen := visibility.Compute(game.GridSize, ownPlanets, ownMechs)

	for _, p := range allPlanets {
		if visibility.Visible(seen, p.Coords) {
			visiblePlanets = append(visiblePlanets, p)
		}
	}
	for _, m := range allMechs {
		if visibility.Visible(seen, m.Coords) {
			visibleMechs = append(visibleMechs, m)
		}
	}

	buildings := make(map[string][]*model.Building, len(visiblePlanets))
	for _, p := range visiblePlanets {
		buildings[p.ID] = store.BuildingsOn(p.ID)
	}

	credits := 0
	if player != nil {
		credits = player.Credits
	}

	return &View{
		GameID:         gameID,
		PlayerID:       playerID,
		GridSize:       game.GridSize,
		Turn:           game.CurrentTurn,
		Credits:        credits,
		OwnMechs:       ownMechs,
		OwnPlanets:     ownPlanets,
		VisiblePlanets: visiblePlanets,
		VisibleMechs:   visibleMechs,
		Buildings:      buildings,
		seen:           seen,
	}
}

// Visible reports whether `c` lies in this view's fog-of-war.
func (v *View) Visible(c grid.Coord) bool {
	return visibility.Visible(v.seen, c)
}

// BuildingsOn returns the buildings on a planet this player can
// currently see (empty for any planet outside its fog-of-war).
func (v *View) BuildingsOn(planetID string) []*model.Building {
	return v.Buildings[planetID]
}

// HasBuilding reports whether one of this player's own planets
// already hosts a building of the given type.
func (v *View) HasBuilding(planetID string, t model.BuildingType) bool {
	for _, b := range v.Buildings[planetID] {
		if b.Type == t {
			return true
		}
	}
	return false
}

// MechsAt returns the visible mechs (own or enemy) standing on `c`.
func (v *View) MechsAt(c grid.Coord) []*model.Mech {
	var out []*model.Mech
	for _, m := range v.VisibleMechs {
		if m.Coords.Equals(c) {
			out = append(out, m)
		}
	}
	return out
}

// EnemyMechsAt returns the visible enemy mechs standing on `c`.
func (v *View) EnemyMechsAt(c grid.Coord) []*model.Mech {
	var out []*model.Mech
	for _, m := range v.MechsAt(c) {
		if m.OwnerID != v.PlayerID {
			out = append(out, m)
		}
	}
	return out
}
