package model

import (
	"fmt"

	"warbots/internal/grid"
)

// UnownedPlayerID is the sentinel owner id of a planet with no
// current owner (neutral).
const UnownedPlayerID = ""

// Planet is a fixed tile on the grid that generates income for its
// owner and can host up to one building of each type.
//
// `OriginalOwnerID` records who started the game on this tile when
// `Homeworld` is true, enabling homeworld-reclaim logic in AI
// strategies; it never changes once set.
type Planet struct {
	ID              string
	GameID          string
	Coords          grid.Coord
	BaseIncome      int
	OwnerID         string
	Homeworld       bool
	OriginalOwnerID string
	Name            string
}

// NewPlanet validates and returns a fresh, unowned planet.
func NewPlanet(id, gameID string, coords grid.Coord, baseIncome int, name string) (*Planet, error) {
	if baseIncome < 1 || baseIncome > 5 {
		return nil, fmt.Errorf("invalid base income %d", baseIncome)
	}

	return &Planet{
		ID:         id,
		GameID:     gameID,
		Coords:     coords,
		BaseIncome: baseIncome,
		OwnerID:    UnownedPlayerID,
		Name:       name,
	}, nil
}

// NewHomeworld returns a homeworld planet for the given owner: base
// income 5, original owner recorded for reclaim purposes.
func NewHomeworld(id, gameID string, coords grid.Coord, ownerID, name string) *Planet {
	return &Planet{
		ID:              id,
		GameID:          gameID,
		Coords:          coords,
		BaseIncome:      5,
		OwnerID:         ownerID,
		Homeworld:       true,
		OriginalOwnerID: ownerID,
		Name:            name,
	}
}

// Owned reports whether the planet currently belongs to a player.
func (p *Planet) Owned() bool {
	return p.OwnerID != UnownedPlayerID
}
