package model

import "fmt"

// AIStrategyTag names one of the five shipped AI strategies, stored
// on a Player so that the Turn Dispatcher knows which policy to
// invoke for that player's AI-generated orders.
type AIStrategyTag string

// The five named strategies from §4.6.
const (
	Balanced     AIStrategyTag = "balanced"
	Expansionist AIStrategyTag = "expansionist"
	Infestor     AIStrategyTag = "infestor"
	Defensive    AIStrategyTag = "defensive"
	Generic      AIStrategyTag = "generic"
)

// Player is one seat in a Game: either a human (`IsAI` false, `AIStrategy`
// ignored) or an AI-controlled seat running one of the named
// strategies.
type Player struct {
	ID            string
	GameID        string
	Number        int
	IsAI          bool
	AIStrategy    AIStrategyTag
	EmpireName    string
	EmpireColor   string
	Credits       int
	Eliminated    bool
	SubmittedThisTurn bool
}

// NewPlayer validates the join parameters and returns a fresh,
// non-eliminated player with zero credits (credits accrue starting
// turn 1's income stage).
func NewPlayer(id, gameID string, number int, empireName, empireColor string) (*Player, error) {
	if number < 1 {
		return nil, fmt.Errorf("invalid player number %d", number)
	}
	if empireName == "" {
		return nil, fmt.Errorf("empire name must not be empty")
	}
	if empireColor == "" {
		return nil, fmt.Errorf("empire color must not be empty")
	}

	return &Player{
		ID:          id,
		GameID:      gameID,
		Number:      number,
		EmpireName:  empireName,
		EmpireColor: empireColor,
	}, nil
}

// NewAIPlayer is like NewPlayer but marks the seat as AI-controlled
// under the given strategy.
func NewAIPlayer(id, gameID string, number int, empireName, empireColor string, strategy AIStrategyTag) (*Player, error) {
	p, err := NewPlayer(id, gameID, number, empireName, empireColor)
	if err != nil {
		return nil, err
	}

	p.IsAI = true
	p.AIStrategy = strategy

	return p, nil
}

// Active reports whether this player is still in the game (i.e. has
// not been eliminated). Only active players participate in the
// all-submitted gate and in win-condition checks.
func (p *Player) Active() bool {
	return !p.Eliminated
}
