package combat

import (
	"math/rand"
	"testing"

	"warbots/internal/grid"
	"warbots/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMech(t *testing.T, id string, mt model.MechType, owner string) *model.Mech {
	t.Helper()
	m, err := model.NewMech(id, "game-1", owner, mt, grid.New(5, 5), "X-0001")
	require.NoError(t, err)
	return m
}

func TestResolveUndefendedTileLetsLoneAttackerWinUnopposed(t *testing.T) {
	attacker := mustMech(t, "atk-1", model.Assault, "player-2")

	in := Input{
		ForcesByOwner: map[string][]*model.Mech{
			"player-2": {attacker},
		},
		DefenderID: "",
	}

	result := Resolve(in, rand.New(rand.NewSource(1)))

	assert.Equal(t, "player-2", result.WinnerID)
	require.Len(t, result.SurvivingMechs, 1)
	assert.Equal(t, "atk-1", result.SurvivingMechs[0].ID)
	assert.False(t, result.FortSurvived)
}

func TestResolveOverwhelmingDefenderWinsWithoutTakingLosses(t *testing.T) {
	defender := mustMech(t, "def-1", model.Assault, "player-1")
	defender2 := mustMech(t, "def-2", model.Assault, "player-1")
	attacker := mustMech(t, "atk-1", model.Light, "player-2")
	attacker.HP = 1

	in := Input{
		ForcesByOwner: map[string][]*model.Mech{
			"player-1": {defender, defender2},
			"player-2": {attacker},
		},
		DefenderID: "player-1",
	}

	result := Resolve(in, rand.New(rand.NewSource(7)))

	assert.Equal(t, "player-1", result.WinnerID)
	assert.NotEmpty(t, result.SurvivingMechs)
	for _, m := range result.SurvivingMechs {
		assert.Equal(t, "player-1", m.OwnerID)
	}

	casualties, ok := result.Casualties["player-2"]
	require.True(t, ok)
	assert.Equal(t, 1, casualties.Initial)
	assert.Equal(t, 0, casualties.Survivors)
}

func TestResolveFortificationStrikesDuringBattle(t *testing.T) {
	fort, err := model.NewBuilding("fort-1", "planet-1", model.Fortification)
	require.NoError(t, err)

	defender := mustMech(t, "def-1", model.Light, "player-1")
	attacker := mustMech(t, "atk-1", model.Light, "player-2")

	in := Input{
		ForcesByOwner: map[string][]*model.Mech{
			"player-1": {defender},
			"player-2": {attacker},
		},
		Fort:       fort,
		DefenderID: "player-1",
	}

	result := Resolve(in, rand.New(rand.NewSource(3)))

	require.NotNil(t, result.Log)
	foundFortStrike := false
	for _, rec := range result.Log {
		if rec.Kind == "attack" && rec.RollerID == "fortification" {
			foundFortStrike = true
			break
		}
	}
	assert.True(t, foundFortStrike, "fortification should strike at least once across the battle")
}

func TestResolveMultiPartyBattleLeavesExactlyOneWinner(t *testing.T) {
	defender := mustMech(t, "def-1", model.Heavy, "player-1")
	atk1 := mustMech(t, "atk-1", model.Assault, "player-2")
	atk2 := mustMech(t, "atk-2", model.Medium, "player-3")

	in := Input{
		ForcesByOwner: map[string][]*model.Mech{
			"player-1": {defender},
			"player-2": {atk1},
			"player-3": {atk2},
		},
		DefenderID: "player-1",
	}

	result := Resolve(in, rand.New(rand.NewSource(42)))

	assert.NotEmpty(t, result.WinnerID)
	for _, m := range result.SurvivingMechs {
		assert.Equal(t, result.WinnerID, m.OwnerID)
	}
}

func TestResolveIsDeterministicForAFixedSeed(t *testing.T) {
	build := func() Input {
		return Input{
			ForcesByOwner: map[string][]*model.Mech{
				"player-1": {mustMech(t, "def-1", model.Heavy, "player-1")},
				"player-2": {mustMech(t, "atk-1", model.Assault, "player-2")},
			},
			DefenderID: "player-1",
		}
	}

	r1 := Resolve(build(), rand.New(rand.NewSource(99)))
	r2 := Resolve(build(), rand.New(rand.NewSource(99)))

	assert.Equal(t, r1.WinnerID, r2.WinnerID)
	assert.Equal(t, len(r1.Log), len(r2.Log))
	assert.Equal(t, r1.Casualties, r2.Casualties)
}
