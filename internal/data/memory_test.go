package data

import (
	"testing"
	"time"

	"warbots/internal/grid"
	"warbots/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveGameThenGameByIDRoundTrips(t *testing.T) {
	store := NewMemoryStore()

	game, err := model.NewGame("game-1", "fixture", 25, 2, 30*time.Second)
	require.NoError(t, err)
	require.NoError(t, store.SaveGame(game))

	got, ok := store.GameByID("game-1")
	require.True(t, ok)
	assert.Equal(t, "fixture", got.Name)

	_, ok = store.GameByID("no-such-game")
	assert.False(t, ok)
}

func TestPlanetAtFindsAPlanetByCoordinatesWithinAGame(t *testing.T) {
	store := NewMemoryStore()

	planet := model.NewHomeworld("planet-1", "game-1", grid.New(5, 5), "player-1", "Home")
	require.NoError(t, store.SavePlanet(planet))

	got, ok := store.PlanetAt("game-1", grid.New(5, 5))
	require.True(t, ok)
	assert.Equal(t, "planet-1", got.ID)

	_, ok = store.PlanetAt("game-1", grid.New(6, 6))
	assert.False(t, ok)

	_, ok = store.PlanetAt("game-2", grid.New(5, 5))
	assert.False(t, ok)
}

func TestMechsAtReturnsEveryMechOnATile(t *testing.T) {
	store := NewMemoryStore()

	m1, err := model.NewMech("mech-1", "game-1", "player-1", model.Light, grid.New(3, 3), "Light-0001")
	require.NoError(t, err)
	m2, err := model.NewMech("mech-2", "game-1", "player-1", model.Light, grid.New(3, 3), "Light-0002")
	require.NoError(t, err)
	m3, err := model.NewMech("mech-3", "game-1", "player-1", model.Light, grid.New(4, 4), "Light-0003")
	require.NoError(t, err)

	require.NoError(t, store.SaveMech(m1))
	require.NoError(t, store.SaveMech(m2))
	require.NoError(t, store.SaveMech(m3))

	here := store.MechsAt("game-1", grid.New(3, 3))
	assert.Len(t, here, 2)
}

func TestUpdateMechCoordsMovesAMechInPlace(t *testing.T) {
	store := NewMemoryStore()

	m, err := model.NewMech("mech-1", "game-1", "player-1", model.Light, grid.New(3, 3), "Light-0001")
	require.NoError(t, err)
	require.NoError(t, store.SaveMech(m))

	require.NoError(t, store.UpdateMechCoords("mech-1", grid.New(4, 3)))

	got, ok := store.MechByID("mech-1")
	require.True(t, ok)
	assert.Equal(t, grid.New(4, 3), got.Coords)

	assert.Empty(t, store.MechsAt("game-1", grid.New(3, 3)))
	assert.Len(t, store.MechsAt("game-1", grid.New(4, 3)), 1)
}

func TestDeleteBuildingsOnRemovesOnlyThatPlanetsBuildings(t *testing.T) {
	store := NewMemoryStore()

	b1, err := model.NewBuilding("bld-1", "planet-1", model.Factory)
	require.NoError(t, err)
	b2, err := model.NewBuilding("bld-2", "planet-2", model.Factory)
	require.NoError(t, err)
	require.NoError(t, store.SaveBuilding(b1))
	require.NoError(t, store.SaveBuilding(b2))

	require.NoError(t, store.DeleteBuildingsOn("planet-1"))

	assert.Empty(t, store.BuildingsOn("planet-1"))
	assert.Len(t, store.BuildingsOn("planet-2"), 1)
}

func TestDeleteBuildingRemovesOnlyThatBuilding(t *testing.T) {
	store := NewMemoryStore()

	b1, err := model.NewBuilding("bld-1", "planet-1", model.Fortification)
	require.NoError(t, err)
	b2, err := model.NewBuilding("bld-2", "planet-1", model.Factory)
	require.NoError(t, err)
	require.NoError(t, store.SaveBuilding(b1))
	require.NoError(t, store.SaveBuilding(b2))

	require.NoError(t, store.DeleteBuilding("bld-1"))

	got := store.BuildingsOn("planet-1")
	require.Len(t, got, 1)
	assert.Equal(t, "bld-2", got[0].ID)
}

func TestPendingDraftLifecycle(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.PendingDraftFor("game-1", "player-1")
	assert.False(t, ok)

	orders := model.Orders{Moves: []model.Move{{MechID: "mech-1", To: grid.New(1, 1)}}}
	require.NoError(t, store.SavePendingDraft("game-1", "player-1", orders))

	got, ok := store.PendingDraftFor("game-1", "player-1")
	require.True(t, ok)
	assert.Len(t, got.Moves, 1)

	require.NoError(t, store.ClearPendingDraft("game-1", "player-1"))
	_, ok = store.PendingDraftFor("game-1", "player-1")
	assert.False(t, ok)
}

func TestSubmissionForDistinguishesByTurn(t *testing.T) {
	store := NewMemoryStore()

	sub1 := model.NewTurnSubmission("sub-1", "game-1", "player-1", 1, model.Orders{}, time.Now())
	sub2 := model.NewTurnSubmission("sub-2", "game-1", "player-1", 2, model.Orders{}, time.Now())
	require.NoError(t, store.SaveSubmission(sub1))
	require.NoError(t, store.SaveSubmission(sub2))

	got, ok := store.SubmissionFor("game-1", "player-1", 1)
	require.True(t, ok)
	assert.Equal(t, "sub-1", got.ID)

	got, ok = store.SubmissionFor("game-1", "player-1", 2)
	require.True(t, ok)
	assert.Equal(t, "sub-2", got.ID)

	_, ok = store.SubmissionFor("game-1", "player-1", 3)
	assert.False(t, ok)
}

func TestCombatLogsForFiltersByGameAndTurn(t *testing.T) {
	store := NewMemoryStore()

	l1 := model.NewCombatLog("log-1", "game-1", 1, model.LogIncome)
	l2 := model.NewCombatLog("log-2", "game-1", 2, model.LogIncome)
	l3 := model.NewCombatLog("log-3", "game-2", 1, model.LogIncome)
	require.NoError(t, store.AppendCombatLog(l1))
	require.NoError(t, store.AppendCombatLog(l2))
	require.NoError(t, store.AppendCombatLog(l3))

	got := store.CombatLogsFor("game-1", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "log-1", got[0].ID)
}

func TestDeleteGameCascadesEveryOwnedEntity(t *testing.T) {
	store := NewMemoryStore()

	game, err := model.NewGame("game-1", "fixture", 25, 2, 30*time.Second)
	require.NoError(t, err)
	require.NoError(t, store.SaveGame(game))

	player, err := model.NewPlayer("player-1", "game-1", 1, "Red", "red")
	require.NoError(t, err)
	require.NoError(t, store.SavePlayer(player))

	planet := model.NewHomeworld("planet-1", "game-1", grid.New(1, 1), "player-1", "Home")
	require.NoError(t, store.SavePlanet(planet))

	building, err := model.NewBuilding("bld-1", "planet-1", model.Factory)
	require.NoError(t, err)
	require.NoError(t, store.SaveBuilding(building))

	mech, err := model.NewMech("mech-1", "game-1", "player-1", model.Light, grid.New(1, 1), "Light-0001")
	require.NoError(t, err)
	require.NoError(t, store.SaveMech(mech))

	sub := model.NewTurnSubmission("sub-1", "game-1", "player-1", 1, model.Orders{}, time.Now())
	require.NoError(t, store.SaveSubmission(sub))

	require.NoError(t, store.DeleteGame("game-1"))

	_, ok := store.GameByID("game-1")
	assert.False(t, ok)
	assert.Empty(t, store.PlayersFor("game-1"))
	assert.Empty(t, store.PlanetsFor("game-1"))
	assert.Empty(t, store.BuildingsOn("planet-1"))
	assert.Empty(t, store.MechsForGame("game-1"))
	_, ok = store.SubmissionFor("game-1", "player-1", 1)
	assert.False(t, ok)
}
