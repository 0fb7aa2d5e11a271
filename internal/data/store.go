// Package data isolates persistence from game logic: a narrow
// `Store` capability exposes per-entity query methods
// (`PlanetsFor`, `MechsAt`, `UpdateMechCoords`, `DeleteBuildingsOn`,
// ...) so that the Turn Processor, Combat Resolver, Order Validator
// and AI strategies never see a query string. Two concrete
// implementations are provided: an in-memory store (the primary
// implementation, used in tests and suitable for a single-process
// deployment) and a SQL-backed store driven through `pkg/db.Conn`
// (Postgres or sqlite).
package data

import (
	"warbots/internal/grid"
	"warbots/internal/model"
)

// Store is the full persistence capability the engine depends on.
// Every method that can fail returns an error; lookups return an
// "ok" boolean instead, following the teacher's `Proxy` convention of
// treating "not found" as a normal, non-erroring outcome.
type Store interface {
	GameByID(id string) (*model.Game, bool)
	SaveGame(g *model.Game) error
	DeleteGame(id string) error
	AllGames() []*model.Game

	PlayersFor(gameID string) []*model.Player
	PlayerByID(id string) (*model.Player, bool)
	SavePlayer(p *model.Player) error

	PlanetsFor(gameID string) []*model.Planet
	PlanetByID(id string) (*model.Planet, bool)
	PlanetAt(gameID string, coords grid.Coord) (*model.Planet, bool)
	SavePlanet(p *model.Planet) error

	BuildingsOn(planetID string) []*model.Building
	SaveBuilding(b *model.Building) error
	DeleteBuilding(id string) error
	DeleteBuildingsOn(planetID string) error

	MechsFor(gameID, ownerID string) []*model.Mech
	MechByID(id string) (*model.Mech, bool)
	MechsAt(gameID string, coords grid.Coord) []*model.Mech
	MechsForGame(gameID string) []*model.Mech
	SaveMech(m *model.Mech) error
	DeleteMech(id string) error
	UpdateMechCoords(mechID string, coords grid.Coord) error

	SubmissionFor(gameID, playerID string, turn int) (*model.TurnSubmission, bool)
	SaveSubmission(s *model.TurnSubmission) error

	PendingDraftFor(gameID, playerID string) (model.Orders, bool)
	SavePendingDraft(gameID, playerID string, orders model.Orders) error
	ClearPendingDraft(gameID, playerID string) error

	AppendCombatLog(l *model.CombatLog) error
	CombatLogsFor(gameID string, turn int) []*model.CombatLog
}
