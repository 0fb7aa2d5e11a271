package model

import "time"

// TurnSubmission records the orders a player submitted for a given
// turn, retained for audit after processing. Unique per (game,
// player, turn).
type TurnSubmission struct {
	ID        string
	GameID    string
	PlayerID  string
	Turn      int
	Orders    Orders
	Timestamp time.Time
}

// NewTurnSubmission returns a submission record stamped with the
// current time.
func NewTurnSubmission(id, gameID, playerID string, turn int, orders Orders, now time.Time) *TurnSubmission {
	return &TurnSubmission{
		ID:        id,
		GameID:    gameID,
		PlayerID:  playerID,
		Turn:      turn,
		Orders:    orders,
		Timestamp: now,
	}
}
