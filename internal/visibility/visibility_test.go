package visibility

import (
	"testing"

	"warbots/internal/grid"
	"warbots/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeIncludesPlanetRadiusThreeWindow(t *testing.T) {
	planet := model.NewHomeworld("planet-1", "game-1", grid.New(10, 10), "player-1", "Home")

	seen := Compute(25, []*model.Planet{planet}, nil)

	assert.True(t, Visible(seen, grid.New(10, 10)))
	assert.True(t, Visible(seen, grid.New(13, 10)))
	assert.True(t, Visible(seen, grid.New(10, 13)))
	assert.False(t, Visible(seen, grid.New(14, 10)))
}

func TestComputeIncludesMechRadiusTwoWindow(t *testing.T) {
	mech, err := model.NewMech("mech-1", "game-1", "player-1", model.Light, grid.New(10, 10), "Light-0001")
	require.NoError(t, err)

	seen := Compute(25, nil, []*model.Mech{mech})

	assert.True(t, Visible(seen, grid.New(12, 10)))
	assert.False(t, Visible(seen, grid.New(13, 10)))
}

func TestComputeClipsWindowToGridBounds(t *testing.T) {
	planet := model.NewHomeworld("planet-1", "game-1", grid.New(0, 0), "player-1", "Corner")

	seen := Compute(25, []*model.Planet{planet}, nil)

	for tile := range seen {
		assert.True(t, tile.X >= 0 && tile.Y >= 0)
	}
	assert.False(t, Visible(seen, grid.New(-1, 0)))
}

func TestComputeUnionsMultipleSources(t *testing.T) {
	planet := model.NewHomeworld("planet-1", "game-1", grid.New(2, 2), "player-1", "Home")
	mech, err := model.NewMech("mech-1", "game-1", "player-1", model.Light, grid.New(20, 20), "Light-0001")
	require.NoError(t, err)

	seen := Compute(25, []*model.Planet{planet}, []*model.Mech{mech})

	assert.True(t, Visible(seen, grid.New(2, 2)))
	assert.True(t, Visible(seen, grid.New(20, 20)))
}

func TestVisibleReportsFalseForUnseenTile(t *testing.T) {
	seen := Compute(25, nil, nil)
	assert.False(t, Visible(seen, grid.New(5, 5)))
}
