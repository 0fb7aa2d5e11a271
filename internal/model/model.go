// Package model defines the value types shared by every other
// component: games, players, planets, buildings, mechs, turn
// submissions and combat logs. Types in this package carry no
// behavior beyond constructors and the invariants they are
// responsible for guaranteeing at construction time; the rules that
// govern how these values change turn to turn live in
// `internal/validate`, `internal/combat` and `internal/turn`.
package model

import "fmt"

// GameStatus describes where a game currently sits in its lifecycle.
type GameStatus string

// The three states a Game can be in, matching §2's Turn Dispatcher
// state machine (Waiting, Active, Finished).
const (
	StatusWaiting  GameStatus = "waiting"
	StatusActive   GameStatus = "active"
	StatusFinished GameStatus = "finished"
)

// MechType enumerates the four known kinds of mech along with the
// canonical cost, maintenance and max-hp tables associated to them.
type MechType string

// The four mech types.
const (
	Light   MechType = "light"
	Medium  MechType = "medium"
	Heavy   MechType = "heavy"
	Assault MechType = "assault"
)

// ValidMechType reports whether `t` is one of the four known kinds.
func ValidMechType(t MechType) bool {
	switch t {
	case Light, Medium, Heavy, Assault:
		return true
	default:
		return false
	}
}

// MechCost returns the credit cost to build a mech of type `t`.
func MechCost(t MechType) int {
	switch t {
	case Light:
		return 2
	case Medium:
		return 5
	case Heavy:
		return 12
	case Assault:
		return 20
	default:
		return 0
	}
}

// MechMaxHP returns the maximum (and starting) hp of a freshly built
// mech of type `t`. The medium value (10) is fixed by the build-order
// worked example; the others are scaled consistently with it.
func MechMaxHP(t MechType) int {
	switch t {
	case Light:
		return 8
	case Medium:
		return 10
	case Heavy:
		return 16
	case Assault:
		return 24
	default:
		return 0
	}
}

// MechMaintenance returns the per-turn maintenance credit cost of a
// mech of type `t`.
func MechMaintenance(t MechType) int {
	switch t {
	case Light:
		return 1
	case Medium:
		return 2
	case Heavy:
		return 3
	case Assault:
		return 4
	default:
		return 0
	}
}

// BuildingType enumerates the three kinds of building a planet may
// host, at most one of each per planet.
type BuildingType string

// The three building types.
const (
	Mining       BuildingType = "mining"
	Factory      BuildingType = "factory"
	Fortification BuildingType = "fortification"
)

// ValidBuildingType reports whether `t` is one of the three known
// kinds.
func ValidBuildingType(t BuildingType) bool {
	switch t {
	case Mining, Factory, Fortification:
		return true
	default:
		return false
	}
}

// BuildingCost returns the credit cost to build a building of type
// `t`.
func BuildingCost(t BuildingType) int {
	switch t {
	case Mining:
		return 10
	case Factory:
		return 30
	case Fortification:
		return 25
	default:
		return 0
	}
}

// FortificationMaxHP is the hp a newly-built fortification starts
// with and the ceiling its repair stage cannot exceed.
const FortificationMaxHP = 30

// FortificationRepairPerTurn is how much hp a fortification heals
// during stage 9 of the turn pipeline, when owned by a non
// maintenance-failed player.
const FortificationRepairPerTurn = 5

// MechRepairPerTurn is how much hp a garrisoned mech heals during
// stage 9, capped at its max hp.
const MechRepairPerTurn = 2

// ErrInvalidMechType is returned by constructors given an unknown
// mech type.
var ErrInvalidMechType = fmt.Errorf("invalid mech type")

// ErrInvalidBuildingType is returned by constructors given an
// unknown building type.
var ErrInvalidBuildingType = fmt.Errorf("invalid building type")
