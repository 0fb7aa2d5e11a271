package routes

import (
	"net/http"

	"warbots/internal/model"
	"warbots/internal/visibility"
)

// gameState serves the fog-filtered projection of gameID for the
// requesting player: their own planets, mechs and credits in full,
// and everything else clipped to what visibility.Compute currently
// illuminates, per §3/§4.1.
func (s *Server) gameState(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDFromPath(r)
	playerID := requestingPlayer(r)

	game, ok := s.store.GameByID(gameID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown game")
		return
	}

	player, ok := s.store.PlayerByID(playerID)
	if !ok || player.GameID != gameID {
		writeError(w, http.StatusUnauthorized, "not a player in this game")
		return
	}

	allPlanets := s.store.PlanetsFor(gameID)
	allMechs := s.store.MechsForGame(gameID)

	var ownPlanets []*model.Planet
	var ownMechs []*model.Mech
	for _, p := range allPlanets {
		if p.OwnerID == playerID {
			ownPlanets = append(ownPlanets, p)
		}
	}
	for _, m := range allMechs {
		if m.OwnerID == playerID {
			ownMechs = append(ownMechs, m)
		}
	}

	seen, cached := s.visCache.Get(playerID, game.CurrentTurn)
	if !cached {
		seen = visibility.Compute(game.GridSize, ownPlanets, ownMechs)
		s.visCache.Put(playerID, game.CurrentTurn, seen)
	}

	out := stateWire{
		Game:    toGameWire(game, len(s.store.PlayersFor(gameID))),
		Credits: player.Credits,
	}

	for _, p := range allPlanets {
		if p.OwnerID == playerID || visibility.Visible(seen, p.Coords) {
			out.Planets = append(out.Planets, toPlanetWire(p, s.store.BuildingsOn(p.ID)))
		}
	}

	for _, m := range allMechs {
		if m.OwnerID == playerID || visibility.Visible(seen, m.Coords) {
			out.Mechs = append(out.Mechs, toMechWire(m))
		}
	}

	for tile := range seen {
		out.VisibleTiles = append(out.VisibleTiles, tileWire{X: tile.X, Y: tile.Y})
	}

	if game.Status == model.StatusActive {
		out.DeadlineUnix = game.TurnDeadline.Unix()
	}

	writeJSON(w, http.StatusOK, out)
}
