package data

import "warbots/internal/model"

// GameView adapts a Store to the narrow `validate.View` interface
// for a single game, so the Order Validator never sees the store as
// a whole (Design Notes §9).
type GameView struct {
	Store  Store
	GameID string
}

func (v GameView) MechByID(mechID string) (*model.Mech, bool) {
	m, ok := v.Store.MechByID(mechID)
	if !ok || m.GameID != v.GameID {
		return nil, false
	}
	return m, true
}

func (v GameView) PlanetByID(planetID string) (*model.Planet, bool) {
	p, ok := v.Store.PlanetByID(planetID)
	if !ok || p.GameID != v.GameID {
		return nil, false
	}
	return p, true
}

func (v GameView) BuildingsOn(planetID string) []*model.Building {
	return v.Store.BuildingsOn(planetID)
}

func (v GameView) GridSize() int {
	g, ok := v.Store.GameByID(v.GameID)
	if !ok {
		return 0
	}
	return g.GridSize
}
