package mapgen

import (
	"testing"

	"warbots/internal/model"
	"warbots/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPlayers(t *testing.T) []*model.Player {
	t.Helper()
	p1, err := model.NewPlayer("player-1", "game-1", 1, "Red", "red")
	require.NoError(t, err)
	p2, err := model.NewPlayer("player-2", "game-1", 2, "Blue", "blue")
	require.NoError(t, err)
	return []*model.Player{p1, p2}
}

func TestGenerateProducesOneHomeworldPerPlayerWithStartingAssets(t *testing.T) {
	players := twoPlayers(t)
	newID := testsupport.SequentialIDs()

	result, err := Generate("game-1", 25, players, 42, newID)
	require.NoError(t, err)

	var homeworlds []*model.Planet
	for _, p := range result.Planets {
		if p.Homeworld {
			homeworlds = append(homeworlds, p)
		}
	}
	require.Len(t, homeworlds, 2)

	owners := make(map[string]bool)
	for _, h := range homeworlds {
		owners[h.OwnerID] = true
		assert.Equal(t, h.OwnerID, h.OriginalOwnerID)
		assert.Equal(t, 5, h.BaseIncome)
	}
	assert.True(t, owners["player-1"])
	assert.True(t, owners["player-2"])

	assert.Len(t, result.Mechs, 4)
	for _, m := range result.Mechs {
		assert.Equal(t, model.Light, m.Type)
	}

	var factories int
	for _, b := range result.Buildings {
		if b.Type == model.Factory {
			factories++
		}
	}
	assert.Equal(t, 2, factories)
}

func TestGenerateKeepsHomeworldsApart(t *testing.T) {
	players := twoPlayers(t)
	newID := testsupport.SequentialIDs()

	result, err := Generate("game-1", 25, players, 7, newID)
	require.NoError(t, err)

	var homeworldCoords []model.Planet
	for _, p := range result.Planets {
		if p.Homeworld {
			homeworldCoords = append(homeworldCoords, *p)
		}
	}
	require.Len(t, homeworldCoords, 2)

	a, b := homeworldCoords[0].Coords, homeworldCoords[1].Coords
	dx, dy := a.X-b.X, a.Y-b.Y
	distSquared := dx*dx + dy*dy
	assert.GreaterOrEqual(t, distSquared, int(homeworldMinDistance*homeworldMinDistance))
}

func TestGenerateIsDeterministicForAFixedSeed(t *testing.T) {
	players := twoPlayers(t)

	r1, err := Generate("game-1", 25, players, 99, testsupport.SequentialIDs())
	require.NoError(t, err)
	r2, err := Generate("game-1", 25, players, 99, testsupport.SequentialIDs())
	require.NoError(t, err)

	require.Equal(t, len(r1.Planets), len(r2.Planets))
	for i := range r1.Planets {
		assert.Equal(t, r1.Planets[i].Coords, r2.Planets[i].Coords)
		assert.Equal(t, r1.Planets[i].Name, r2.Planets[i].Name)
	}
}

func TestGenerateAssignsDistinctPlanetNamesFromTheDictionary(t *testing.T) {
	players := twoPlayers(t)
	newID := testsupport.SequentialIDs()

	result, err := Generate("game-1", 25, players, 13, newID)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, p := range result.Planets {
		assert.False(t, seen[p.Name], "planet name %q reused", p.Name)
		seen[p.Name] = true
	}
}
