package data

import (
	"sync"

	"warbots/internal/grid"
)

// VisibilityCache memoizes a player's visible-tile set per
// (player, turn): repeated `/state` polling within a turn should not
// recompute a potentially large tile set from scratch. Each entry
// records the turn it was computed for, so Get ignores it once the
// turn has advanced.
type VisibilityCache struct {
	mu      sync.Mutex
	turn    map[string]int
	tiles   map[string]map[grid.Coord]struct{}
}

// NewVisibilityCache returns an empty cache.
func NewVisibilityCache() *VisibilityCache {
	return &VisibilityCache{
		turn:  make(map[string]int),
		tiles: make(map[string]map[grid.Coord]struct{}),
	}
}

// Get returns the cached tile set for playerID at the given turn, if
// present and still current.
func (c *VisibilityCache) Get(playerID string, turn int) (map[grid.Coord]struct{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.turn[playerID] != turn {
		return nil, false
	}
	tiles, ok := c.tiles[playerID]
	return tiles, ok
}

// Put stores the computed tile set for playerID at the given turn.
func (c *VisibilityCache) Put(playerID string, turn int, tiles map[grid.Coord]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turn[playerID] = turn
	c.tiles[playerID] = tiles
}

// InvalidateGame drops every cached entry for the given player ids,
// called by the game-deletion route before a game is removed.
func (c *VisibilityCache) InvalidateGame(playerIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range playerIDs {
		delete(c.turn, id)
		delete(c.tiles, id)
	}
}
