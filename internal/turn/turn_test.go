package turn

import (
	"testing"
	"time"

	"warbots/internal/data"
	"warbots/internal/grid"
	"warbots/internal/model"
	"warbots/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixture returns a two-player active game with one homeworld each
// and a Processor bound to the same memory store, ready for Process.
func newFixture(t *testing.T) (*data.MemoryStore, *Processor, *model.Game, *model.Player, *model.Player) {
	t.Helper()

	store := data.NewMemoryStore()
	newID := testsupport.SequentialIDs()
	proc := NewProcessor(store, newID, testsupport.NopLogger{})

	game, err := model.NewGame(newID(), "fixture", 25, 2, 30*time.Second)
	require.NoError(t, err)
	game.Status = model.StatusActive
	game.CurrentTurn = 1
	require.NoError(t, store.SaveGame(game))

	p1, err := model.NewPlayer(newID(), game.ID, 1, "Red Empire", "red")
	require.NoError(t, err)
	p2, err := model.NewPlayer(newID(), game.ID, 2, "Blue Empire", "blue")
	require.NoError(t, err)
	require.NoError(t, store.SavePlayer(p1))
	require.NoError(t, store.SavePlayer(p2))

	home1 := model.NewHomeworld(newID(), game.ID, grid.New(1, 1), p1.ID, "Red Home")
	home2 := model.NewHomeworld(newID(), game.ID, grid.New(20, 20), p2.ID, "Blue Home")
	require.NoError(t, store.SavePlanet(home1))
	require.NoError(t, store.SavePlanet(home2))

	return store, proc, game, p1, p2
}

func TestProcessIncomeCreditsEachOwnedPlanet(t *testing.T) {
	store, proc, game, p1, _ := newFixture(t)

	outcome, err := proc.Process(game.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, outcome.Finished)

	updated, ok := store.PlayerByID(p1.ID)
	require.True(t, ok)
	assert.Equal(t, 5, updated.Credits, "a lone homeworld grants its base income of 5")
}

func TestProcessMiningBuildingAddsFlatIncome(t *testing.T) {
	store, proc, game, p1, _ := newFixture(t)

	home, ok := store.PlanetAt(game.ID, grid.New(1, 1))
	require.True(t, ok)
	mine, err := model.NewBuilding("bld-1", home.ID, model.Mining)
	require.NoError(t, err)
	require.NoError(t, store.SaveBuilding(mine))

	_, err = proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	updated, _ := store.PlayerByID(p1.ID)
	assert.Equal(t, 7, updated.Credits, "base income 5 plus a flat 2 from the mining building")
}

func TestProcessMaintenanceInGoodStandingHealsGarrisonedMech(t *testing.T) {
	store, proc, game, p1, _ := newFixture(t)

	home, _ := store.PlanetAt(game.ID, grid.New(1, 1))
	mech, err := model.NewMech("mech-1", game.ID, p1.ID, model.Light, home.Coords, "Light-0001")
	require.NoError(t, err)
	mech.HP = mech.MaxHP - 3
	startHP := mech.HP
	require.NoError(t, store.SaveMech(mech))

	p1.Credits = 0
	require.NoError(t, store.SavePlayer(p1))

	_, err = proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	// Income (5) then maintenance (1, light mech) leaves the player in
	// the black, so this turn should NOT starve repair.
	updatedMech, _ := store.MechByID(mech.ID)
	assert.Equal(t, startHP+model.MechRepairPerTurn, updatedMech.HP)

	updatedPlayer, _ := store.PlayerByID(p1.ID)
	assert.Equal(t, 4, updatedPlayer.Credits)
}

func TestProcessMaintenanceFailureStarvesRepairWithNeglectDamage(t *testing.T) {
	store, proc, game, p1, _ := newFixture(t)

	home, _ := store.PlanetAt(game.ID, grid.New(1, 1))
	mech, err := model.NewMech("mech-1", game.ID, p1.ID, model.Assault, home.Coords, "Assault-0001")
	require.NoError(t, err)
	require.NoError(t, store.SaveMech(mech))
	mech2, err := model.NewMech("mech-2", game.ID, p1.ID, model.Assault, home.Coords, "Assault-0002")
	require.NoError(t, err)
	require.NoError(t, store.SaveMech(mech2))

	startHP := mech.HP

	// Income (5) cannot cover two assault mechs' maintenance (4 each,
	// 8 total), so the player goes into debt and fails maintenance.
	p1.Credits = 0
	require.NoError(t, store.SavePlayer(p1))

	_, err = proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	updatedMech, _ := store.MechByID(mech.ID)
	assert.Equal(t, startHP-1, updatedMech.HP, "a maintenance-failed owner's mech takes neglect damage instead of healing")

	updatedPlayer, _ := store.PlayerByID(p1.ID)
	assert.Less(t, updatedPlayer.Credits, 0)
}

func TestProcessDebtForgivenessZeroesNegativeCreditsAtTurnStart(t *testing.T) {
	store, proc, game, p1, _ := newFixture(t)

	p1.Credits = -7
	require.NoError(t, store.SavePlayer(p1))

	_, err := proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	// Debt forgiveness (stage 2) runs before income accrues, so the
	// player should end the turn with exactly this turn's income.
	updated, _ := store.PlayerByID(p1.ID)
	assert.Equal(t, 5, updated.Credits)
}

func TestProcessMovementRelocatesOwnedMechAndIgnoresForeignOrder(t *testing.T) {
	store, proc, game, p1, p2 := newFixture(t)

	home, _ := store.PlanetAt(game.ID, grid.New(1, 1))
	mech, err := model.NewMech("mech-1", game.ID, p1.ID, model.Light, home.Coords, "Light-0001")
	require.NoError(t, err)
	require.NoError(t, store.SaveMech(mech))

	orders := model.Orders{Moves: []model.Move{{MechID: mech.ID, To: grid.New(2, 1)}}}
	sub := model.NewTurnSubmission("sub-1", game.ID, p1.ID, game.CurrentTurn, orders, time.Now())
	require.NoError(t, store.SaveSubmission(sub))

	// p2 has no mech at all; its submission targeting p1's mech must
	// be silently ignored by the ownership check in stageMovement.
	foreign := model.Orders{Moves: []model.Move{{MechID: mech.ID, To: grid.New(5, 5)}}}
	foreignSub := model.NewTurnSubmission("sub-2", game.ID, p2.ID, game.CurrentTurn, foreign, time.Now())
	require.NoError(t, store.SaveSubmission(foreignSub))

	_, err = proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	moved, ok := store.MechByID(mech.ID)
	require.True(t, ok)
	assert.Equal(t, grid.New(2, 1), moved.Coords)
}

func TestProcessBuildOrderDeductsCostAndAssignsSequentialDesignation(t *testing.T) {
	store, proc, game, p1, _ := newFixture(t)

	home, _ := store.PlanetAt(game.ID, grid.New(1, 1))
	factory, err := model.NewBuilding("bld-1", home.ID, model.Factory)
	require.NoError(t, err)
	require.NoError(t, store.SaveBuilding(factory))
	p1.Credits = 10
	require.NoError(t, store.SavePlayer(p1))

	orders := model.Orders{Builds: []model.Build{model.NewBuildMech(home.ID, model.Light)}}
	sub := model.NewTurnSubmission("sub-1", game.ID, p1.ID, game.CurrentTurn, orders, time.Now())
	require.NoError(t, store.SaveSubmission(sub))

	_, err = proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	mechs := store.MechsFor(game.ID, p1.ID)
	require.Len(t, mechs, 1)
	assert.Equal(t, "Light-0001", mechs[0].Designation)

	updated, _ := store.PlayerByID(p1.ID)
	assert.Equal(t, 10+5-model.MechCost(model.Light)-model.MechMaintenance(model.Light), updated.Credits, "build cost is deducted in stage 6, this turn's income credited in stage 7, and the new mech's upkeep charged in stage 8")
}

func TestProcessEliminatesPlayerWithNoPlanetsOrMechsAndDeclaresWinner(t *testing.T) {
	store, proc, game, p1, p2 := newFixture(t)

	// Strip p2 of its only planet so it owns nothing and fields no
	// mechs; the pipeline should eliminate it and end the game with
	// p1 as the sole survivor.
	home2, ok := store.PlanetAt(game.ID, grid.New(20, 20))
	require.True(t, ok)
	require.NoError(t, store.DeleteBuildingsOn(home2.ID))
	home2.OwnerID = p1.ID
	require.NoError(t, store.SavePlanet(home2))

	outcome, err := proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	assert.True(t, outcome.Finished)
	assert.Equal(t, p1.ID, outcome.WinnerID)

	finishedGame, _ := store.GameByID(game.ID)
	assert.Equal(t, model.StatusFinished, finishedGame.Status)

	eliminated, _ := store.PlayerByID(p2.ID)
	assert.True(t, eliminated.Eliminated)
}

func TestProcessMaintenanceFailureDestroysMechReachingZeroHP(t *testing.T) {
	store, proc, game, p1, _ := newFixture(t)

	home, _ := store.PlanetAt(game.ID, grid.New(1, 1))
	mech, err := model.NewMech("mech-1", game.ID, p1.ID, model.Assault, home.Coords, "Assault-0001")
	require.NoError(t, err)
	mech.HP = 1
	require.NoError(t, store.SaveMech(mech))
	mech2, err := model.NewMech("mech-2", game.ID, p1.ID, model.Assault, home.Coords, "Assault-0002")
	require.NoError(t, err)
	require.NoError(t, store.SaveMech(mech2))

	mech2StartHP := mech2.HP

	// Income (5) cannot cover two assault mechs' maintenance (8
	// total), so the owner fails maintenance and takes 1 hp of
	// neglect damage; mech-1 was already at 1 hp and must not survive
	// at 0 hp.
	p1.Credits = 0
	require.NoError(t, store.SavePlayer(p1))

	_, err = proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	_, ok := store.MechByID(mech.ID)
	assert.False(t, ok, "a mech whose neglect damage drops it to 0 hp must be deleted, not persisted at 0")

	updatedMech2, ok := store.MechByID(mech2.ID)
	require.True(t, ok)
	assert.Equal(t, mech2StartHP-1, updatedMech2.HP)
}

func TestProcessMaintenanceFailureRemovesFortificationAtZeroHP(t *testing.T) {
	store, proc, game, p1, _ := newFixture(t)

	home, _ := store.PlanetAt(game.ID, grid.New(1, 1))
	fort, err := model.NewBuilding("fort-1", home.ID, model.Fortification)
	require.NoError(t, err)
	fort.HP = 1
	require.NoError(t, store.SaveBuilding(fort))

	mech, err := model.NewMech("mech-1", game.ID, p1.ID, model.Assault, home.Coords, "Assault-0001")
	require.NoError(t, err)
	mech2, err := model.NewMech("mech-2", game.ID, p1.ID, model.Assault, home.Coords, "Assault-0002")
	require.NoError(t, err)
	require.NoError(t, store.SaveMech(mech))
	require.NoError(t, store.SaveMech(mech2))

	p1.Credits = 0
	require.NoError(t, store.SavePlayer(p1))

	_, err = proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	buildings := store.BuildingsOn(home.ID)
	for _, b := range buildings {
		assert.NotEqual(t, "fort-1", b.ID, "a fortification whose neglect damage drops it to 0 hp must be removed, per the hp-bound invariant")
	}
}

func TestProcessCombatBattleLogCarriesTheResolversDetailedPayload(t *testing.T) {
	store, proc, game, p1, p2 := newFixture(t)

	coords := grid.New(10, 10)
	m1, err := model.NewMech("mech-1", game.ID, p1.ID, model.Light, coords, "Light-0001")
	require.NoError(t, err)
	m2, err := model.NewMech("mech-2", game.ID, p2.ID, model.Light, coords, "Light-0001")
	require.NoError(t, err)
	require.NoError(t, store.SaveMech(m1))
	require.NoError(t, store.SaveMech(m2))

	_, err = proc.Process(game.ID, time.Now())
	require.NoError(t, err)

	logs := store.CombatLogsFor(game.ID, 1)
	var battle *model.CombatLog
	for _, l := range logs {
		if l.Type == model.LogBattle {
			battle = l
		}
	}
	require.NotNil(t, battle, "a battle between co-located mechs of different owners must log a LogBattle record")
	assert.NotEmpty(t, battle.Payload, "the battle record must carry the resolver's round-by-round log for later replay")
}

func TestProcessAdvanceResetsSubmissionFlagsAndIncrementsTurn(t *testing.T) {
	store, proc, game, p1, p2 := newFixture(t)

	p1.SubmittedThisTurn = true
	p2.SubmittedThisTurn = true
	require.NoError(t, store.SavePlayer(p1))
	require.NoError(t, store.SavePlayer(p2))

	outcome, err := proc.Process(game.ID, time.Now())
	require.NoError(t, err)
	require.False(t, outcome.Finished)
	assert.Equal(t, 2, outcome.NewTurn)

	updated1, _ := store.PlayerByID(p1.ID)
	updated2, _ := store.PlayerByID(p2.ID)
	assert.False(t, updated1.SubmittedThisTurn)
	assert.False(t, updated2.SubmittedThisTurn)

	updatedGame, _ := store.GameByID(game.ID)
	assert.Equal(t, 2, updatedGame.CurrentTurn)
}

func TestProcessRejectsInactiveGame(t *testing.T) {
	store, proc, game, _, _ := newFixture(t)

	game.Status = model.StatusWaiting
	require.NoError(t, store.SaveGame(game))

	_, err := proc.Process(game.ID, time.Now())
	assert.Error(t, err)
}
