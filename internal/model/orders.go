package model

import (
	"fmt"

	"warbots/internal/grid"
)

// Move is an order to relocate a single mech one Chebyshev step.
type Move struct {
	MechID string
	To     grid.Coord
}

// Build is a tagged variant replacing the wire format's
// duck-typed `{type: "mech"|"building", ...}` shape: exactly one of
// `Mech` or `Building` is non-nil.
type Build struct {
	Mech     *BuildMech
	Building *BuildBuilding
}

// BuildMech orders a new mech of `MechType` on `PlanetID`.
type BuildMech struct {
	PlanetID string
	MechType MechType
}

// BuildBuilding orders a new building of `BuildingType` on
// `PlanetID`.
type BuildBuilding struct {
	PlanetID     string
	BuildingType BuildingType
}

// NewBuildMech wraps a mech-build request as a Build variant.
func NewBuildMech(planetID string, t MechType) Build {
	return Build{Mech: &BuildMech{PlanetID: planetID, MechType: t}}
}

// NewBuildBuilding wraps a building-build request as a Build variant.
func NewBuildBuilding(planetID string, t BuildingType) Build {
	return Build{Building: &BuildBuilding{PlanetID: planetID, BuildingType: t}}
}

// PlanetID returns the target planet of this build order regardless
// of its concrete kind.
func (b Build) PlanetID() string {
	if b.Mech != nil {
		return b.Mech.PlanetID
	}
	if b.Building != nil {
		return b.Building.PlanetID
	}
	return ""
}

// Cost returns the credit cost of this build order.
func (b Build) Cost() int {
	if b.Mech != nil {
		return MechCost(b.Mech.MechType)
	}
	if b.Building != nil {
		return BuildingCost(b.Building.BuildingType)
	}
	return 0
}

// Valid reports whether exactly one of the two variants is set.
func (b Build) Valid() bool {
	return (b.Mech == nil) != (b.Building == nil)
}

// Orders is a single player's submission for one turn: a set of
// moves and a set of builds, exactly as the §6 wire format encodes
// them.
type Orders struct {
	Moves  []Move
	Builds []Build
}

// ErrMalformedBuild is returned when a Build has neither or both
// variants set.
var ErrMalformedBuild = fmt.Errorf("build order must set exactly one of mech or building")
