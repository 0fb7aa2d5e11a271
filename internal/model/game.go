package model

import (
	"fmt"
	"time"
)

// Allowed grid sizes and player counts, per §3.
var (
	ValidGridSizes = []int{25, 50, 100}
	MinPlayers     = 2
	MaxPlayers     = 8
	MinTurnTimer   = 30 * time.Second
	MaxTurnTimer   = 7 * 24 * time.Hour
)

// Game is the top-level aggregate: a grid, a roster of players, and
// the planets/buildings/mechs that live on that grid. Deleting a
// game cascades to everything it owns.
//
// `CurrentTurn` is 0 while the game is waiting and becomes 1 the
// moment it starts; `TurnDeadline` is only meaningful while `Status`
// is `StatusActive`.
type Game struct {
	ID           string
	Name         string
	GridSize     int
	MaxPlayers   int
	TurnTimer    time.Duration
	Status       GameStatus
	CurrentTurn  int
	TurnDeadline time.Time
	WinnerID     string
}

// NewGame validates the creation parameters and returns a freshly
// waiting game. `id` is expected to already be a fresh identifier
// (callers mint it with `github.com/google/uuid`).
func NewGame(id, name string, gridSize, maxPlayers int, turnTimer time.Duration) (*Game, error) {
	if !validGridSize(gridSize) {
		return nil, fmt.Errorf("invalid grid size %d", gridSize)
	}
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		return nil, fmt.Errorf("invalid max players %d", maxPlayers)
	}
	if turnTimer < MinTurnTimer || turnTimer > MaxTurnTimer {
		return nil, fmt.Errorf("invalid turn timer %s", turnTimer)
	}

	return &Game{
		ID:         id,
		Name:       name,
		GridSize:   gridSize,
		MaxPlayers: maxPlayers,
		TurnTimer:  turnTimer,
		Status:     StatusWaiting,
	}, nil
}

func validGridSize(size int) bool {
	for _, v := range ValidGridSizes {
		if v == size {
			return true
		}
	}
	return false
}
