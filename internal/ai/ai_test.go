package ai

import (
	"math/rand"
	"testing"

	"warbots/internal/grid"
	"warbots/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFallsThroughToGenericForUnknownTag(t *testing.T) {
	_, ok := For(model.AIStrategyTag("made-up")).(genericStrategy)
	assert.True(t, ok)

	_, ok = For(model.Balanced).(balancedStrategy)
	assert.True(t, ok)
	_, ok = For(model.Defensive).(defensiveStrategy)
	assert.True(t, ok)
	_, ok = For(model.Infestor).(infestorStrategy)
	assert.True(t, ok)
	_, ok = For(model.Expansionist).(expansionistStrategy)
	assert.True(t, ok)
}

func TestOneStepTowardPicksDiagonalWhenBothAxesFar(t *testing.T) {
	to := OneStepToward(grid.New(0, 0), grid.New(5, 5), 25)
	assert.Equal(t, grid.New(1, 1), to)
}

func TestOneStepTowardStaysPutWhenNoInBoundsStepExists(t *testing.T) {
	// On the +X edge with a target further off the grid in X only,
	// neither the dominant-axis step nor any fallback stays in bounds,
	// so the mech does not move.
	to := OneStepToward(grid.New(24, 12), grid.New(30, 12), 25)
	assert.Equal(t, grid.New(24, 12), to, "already at the edge toward +X, no in-bounds step exists")
}

func TestIdentifyAttackGroupsRequiresMinimumCoLocatedStrength(t *testing.T) {
	home := grid.New(10, 10)
	heavy1, _ := model.NewMech("m1", "g1", "p1", model.Heavy, home, "Heavy-0001")
	heavy2, _ := model.NewMech("m2", "g1", "p1", model.Heavy, home, "Heavy-0002")
	lonely, _ := model.NewMech("m3", "g1", "p1", model.Assault, grid.New(3, 3), "Assault-0001")

	v := &View{PlayerID: "p1", OwnMechs: []*model.Mech{heavy1, heavy2, lonely}}

	groups := IdentifyAttackGroups(v, 2)
	require.Len(t, groups, 1)
	assert.Equal(t, home, groups[0].Coords)
	assert.Len(t, groups[0].Mechs, 2)
}

func TestCombatStrengthWeighsHeavierMechsMore(t *testing.T) {
	light, _ := model.NewMech("m1", "g1", "p1", model.Light, grid.New(0, 0), "Light-0001")
	assault, _ := model.NewMech("m2", "g1", "p1", model.Assault, grid.New(0, 0), "Assault-0001")

	assert.Equal(t, 1, CombatStrength([]*model.Mech{light}))
	assert.Equal(t, 4, CombatStrength([]*model.Mech{assault}))
	assert.Equal(t, 5, CombatStrength([]*model.Mech{light, assault}))
}

func TestGenericStrategyFortifiesThenBuildsFromFactoryWhenAffordable(t *testing.T) {
	home, err := model.NewPlanet("planet-1", "game-1", grid.New(5, 5), 5, "Homeworld")
	require.NoError(t, err)
	home.OwnerID = "player-1"

	factory, err := model.NewBuilding("bld-1", home.ID, model.Factory)
	require.NoError(t, err)

	v := &View{
		GameID:     "game-1",
		PlayerID:   "player-1",
		GridSize:   25,
		Credits:    model.BuildingCost(model.Fortification) + model.MechCost(model.Assault),
		OwnPlanets: []*model.Planet{home},
		Buildings:  map[string][]*model.Building{home.ID: {factory}},
	}

	orders := genericStrategy{}.ProduceOrders(v, rand.New(rand.NewSource(1)))

	require.Len(t, orders.Builds, 2)
	assert.NotNil(t, orders.Builds[0].Building)
	assert.Equal(t, model.Fortification, orders.Builds[0].Building.BuildingType)
	assert.NotNil(t, orders.Builds[1].Mech)
	assert.Equal(t, model.Assault, orders.Builds[1].Mech.MechType, "the richest affordable mech type is chosen first")
}

func TestGenericStrategySendsIdleLightMechsScouting(t *testing.T) {
	mech, err := model.NewMech("mech-1", "game-1", "player-1", model.Light, grid.New(12, 12), "Light-0001")
	require.NoError(t, err)

	view := &View{
		GameID:   "game-1",
		PlayerID: "player-1",
		GridSize: 25,
		OwnMechs: []*model.Mech{mech},
	}

	orders := genericStrategy{}.ProduceOrders(view, rand.New(rand.NewSource(1)))

	require.Len(t, orders.Moves, 1)
	assert.Equal(t, mech.ID, orders.Moves[0].MechID)
	assert.NotEqual(t, mech.Coords, orders.Moves[0].To)
}
