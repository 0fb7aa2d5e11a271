package routes

import (
	"encoding/json"
	"fmt"

	"warbots/internal/grid"
	"warbots/internal/model"
	"warbots/pkg/duration"
)

// This file translates between §6's wire shapes and the engine's
// `model` types. IDs are transmitted as strings throughout, matching
// the engine's uuid-based identifiers; §6's worked example writes
// them as bare `N` only to keep the grammar terse.

// moveWire is one entry of an orders submission's `moves` array.
type moveWire struct {
	MechID string `json:"mechId"`
	ToX    int    `json:"toX"`
	ToY    int    `json:"toY"`
}

// buildWire is one entry of an orders submission's `builds` array;
// exactly one of MechType/BuildingType is populated, selected by
// `Type`.
type buildWire struct {
	PlanetID     string `json:"planetId"`
	Type         string `json:"type"`
	MechType     string `json:"mechType,omitempty"`
	BuildingType string `json:"buildingType,omitempty"`
}

// ordersWire is the full orders submission body for both the submit
// and save-draft endpoints.
type ordersWire struct {
	Moves  []moveWire  `json:"moves"`
	Builds []buildWire `json:"builds"`
}

// toModel converts a wire submission into model.Orders, rejecting any
// build entry whose `type` or nested type tag isn't recognized;
// moves are passed through since grid-bounds and mech-ownership
// checks belong to the validator, not the wire decoder.
func (w ordersWire) toModel() (model.Orders, error) {
	var orders model.Orders

	for _, m := range w.Moves {
		orders.Moves = append(orders.Moves, model.Move{
			MechID: m.MechID,
			To:     grid.New(m.ToX, m.ToY),
		})
	}

	for _, b := range w.Builds {
		switch b.Type {
		case "mech":
			t := model.MechType(b.MechType)
			if !model.ValidMechType(t) {
				return model.Orders{}, fmt.Errorf("invalid mech type %q", b.MechType)
			}
			orders.Builds = append(orders.Builds, model.NewBuildMech(b.PlanetID, t))
		case "building":
			t := model.BuildingType(b.BuildingType)
			if !model.ValidBuildingType(t) {
				return model.Orders{}, fmt.Errorf("invalid building type %q", b.BuildingType)
			}
			orders.Builds = append(orders.Builds, model.NewBuildBuilding(b.PlanetID, t))
		default:
			return model.Orders{}, fmt.Errorf("invalid build type %q", b.Type)
		}
	}

	return orders, nil
}

// decodeOrders reads and converts a request body's orders payload.
func decodeOrders(body []byte) (model.Orders, error) {
	var w ordersWire
	if err := json.Unmarshal(body, &w); err != nil {
		return model.Orders{}, fmt.Errorf("malformed orders payload: %v", err)
	}
	return w.toModel()
}

// gameWire is the lobby-facing projection of a Game: enough to list
// and join it, without the per-player fog-of-war detail `stateWire`
// carries.
type gameWire struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	GridSize    int               `json:"gridSize"`
	MaxPlayers  int               `json:"maxPlayers"`
	TurnTimer   duration.Duration `json:"turnTimer"`
	Status      string            `json:"status"`
	CurrentTurn int               `json:"currentTurn"`
	PlayerCount int               `json:"playerCount"`
	WinnerID    string            `json:"winnerId,omitempty"`
}

func toGameWire(g *model.Game, playerCount int) gameWire {
	return gameWire{
		ID:          g.ID,
		Name:        g.Name,
		GridSize:    g.GridSize,
		MaxPlayers:  g.MaxPlayers,
		TurnTimer:   duration.NewDuration(g.TurnTimer),
		Status:      string(g.Status),
		CurrentTurn: g.CurrentTurn,
		PlayerCount: playerCount,
		WinnerID:    g.WinnerID,
	}
}

// myGameWire is the same projection with the caller's own per-player
// context folded in, for the "list my games" endpoint.
type myGameWire struct {
	gameWire
	PlayerID          string `json:"playerId"`
	Number            int    `json:"number"`
	EmpireName        string `json:"empireName"`
	EmpireColor       string `json:"empireColor"`
	Credits           int    `json:"credits"`
	Eliminated        bool   `json:"eliminated"`
	SubmittedThisTurn bool   `json:"submittedThisTurn"`
	Host              bool   `json:"host"`
}

func toMyGameWire(g *model.Game, p *model.Player, playerCount int) myGameWire {
	return myGameWire{
		gameWire:          toGameWire(g, playerCount),
		PlayerID:          p.ID,
		Number:            p.Number,
		EmpireName:        p.EmpireName,
		EmpireColor:       p.EmpireColor,
		Credits:           p.Credits,
		Eliminated:        p.Eliminated,
		SubmittedThisTurn: p.SubmittedThisTurn,
		Host:              p.Number == 1,
	}
}

// planetWire is the fog-filtered projection of a Planet served in a
// state snapshot.
type planetWire struct {
	ID         string `json:"id"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	BaseIncome int    `json:"baseIncome"`
	OwnerID    string `json:"ownerId,omitempty"`
	Homeworld  bool   `json:"homeworld"`
	Name       string `json:"name"`
	Buildings  []buildingWire `json:"buildings,omitempty"`
}

type buildingWire struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	HP   int    `json:"hp,omitempty"`
}

func toPlanetWire(p *model.Planet, buildings []*model.Building) planetWire {
	w := planetWire{
		ID:         p.ID,
		X:          p.Coords.X,
		Y:          p.Coords.Y,
		BaseIncome: p.BaseIncome,
		OwnerID:    p.OwnerID,
		Homeworld:  p.Homeworld,
		Name:       p.Name,
	}
	for _, b := range buildings {
		w.Buildings = append(w.Buildings, buildingWire{ID: b.ID, Type: string(b.Type), HP: b.HP})
	}
	return w
}

// mechWire is the fog-filtered projection of a Mech served in a
// state snapshot.
type mechWire struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Type        string `json:"type"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"maxHp"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Designation string `json:"designation"`
}

func toMechWire(m *model.Mech) mechWire {
	return mechWire{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Type:        string(m.Type),
		HP:          m.HP,
		MaxHP:       m.MaxHP,
		X:           m.Coords.X,
		Y:           m.Coords.Y,
		Designation: m.Designation,
	}
}

// tileWire is one coordinate of the caller's visible-tile set.
type tileWire struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// stateWire is the fog-filtered per-player projection §6 promises
// for the state endpoint: own planets/mechs in full, everything else
// clipped to what visibility.Compute currently illuminates.
type stateWire struct {
	Game         gameWire     `json:"game"`
	Credits      int          `json:"credits"`
	Planets      []planetWire `json:"planets"`
	Mechs        []mechWire   `json:"mechs"`
	VisibleTiles []tileWire   `json:"visibleTiles"`
	DeadlineUnix int64        `json:"turnDeadlineUnix,omitempty"`
}
