package routes

import (
	"io"
	"net/http"

	"warbots/internal/model"
	"warbots/pkg/duration"
)

// colorPalette is the fixed set of empire colors a game can assign;
// §3 only requires colors be pairwise distinct per game, not that
// they come from any particular set, so this package picks one.
var colorPalette = []string{
	"red", "blue", "green", "yellow", "purple", "orange", "teal", "magenta",
}

// listOpenGames serves every game still accepting players.
func (s *Server) listOpenGames(w http.ResponseWriter, r *http.Request) {
	var out []gameWire
	for _, g := range s.store.AllGames() {
		if g.Status != model.StatusWaiting {
			continue
		}
		out = append(out, toGameWire(g, len(s.store.PlayersFor(g.ID))))
	}
	writeJSON(w, http.StatusOK, out)
}

// listMyGames serves every game the requesting player has a seat in,
// along with that seat's own context.
func (s *Server) listMyGames(w http.ResponseWriter, r *http.Request) {
	playerID := requestingPlayer(r)
	if playerID == "" {
		writeError(w, http.StatusUnauthorized, "missing X-Player-Id header")
		return
	}

	var out []myGameWire
	for _, g := range s.store.AllGames() {
		for _, p := range s.store.PlayersFor(g.ID) {
			if p.ID != playerID {
				continue
			}
			out = append(out, toMyGameWire(g, p, len(s.store.PlayersFor(g.ID))))
			break
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// createGameWire is the request body for POST /games.
type createGameWire struct {
	Name        string            `json:"name"`
	GridSize    int               `json:"gridSize"`
	MaxPlayers  int               `json:"maxPlayers"`
	TurnTimer   duration.Duration `json:"turnTimer"`
	EmpireName  string            `json:"empireName"`
	EmpireColor string            `json:"empireColor"`
}

// createGame creates a fresh waiting game and seats the caller as
// player 1 (the host); the map itself isn't generated until
// StartGame transitions the game to active.
func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var in createGameWire
	if err := decodeJSON(body, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validColor(in.EmpireColor) {
		writeError(w, http.StatusBadRequest, "invalid empire color")
		return
	}

	gameID := s.newID()
	game, err := model.NewGame(gameID, in.Name, in.GridSize, in.MaxPlayers, in.TurnTimer.Duration)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	host, err := model.NewPlayer(s.newID(), gameID, 1, in.EmpireName, in.EmpireColor)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveGame(game); err != nil {
		writeError(w, http.StatusInternalServerError, "cannot persist game")
		return
	}
	if err := s.store.SavePlayer(host); err != nil {
		writeError(w, http.StatusInternalServerError, "cannot persist player")
		return
	}

	writeJSON(w, http.StatusCreated, toMyGameWire(game, host, 1))
}

// joinGameWire is the request body for POST /games/{id}/join.
type joinGameWire struct {
	EmpireName  string `json:"empireName"`
	EmpireColor string `json:"empireColor"`
}

// joinGame seats a new player in a still-waiting game.
func (s *Server) joinGame(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDFromPath(r)
	game, ok := s.store.GameByID(gameID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown game")
		return
	}
	if game.Status != model.StatusWaiting {
		writeError(w, http.StatusBadRequest, "game is not accepting players")
		return
	}

	existing := s.store.PlayersFor(gameID)
	if len(existing) >= game.MaxPlayers {
		writeError(w, http.StatusBadRequest, "game is full")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}
	var in joinGameWire
	if err := decodeJSON(body, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validColor(in.EmpireColor) {
		writeError(w, http.StatusBadRequest, "invalid empire color")
		return
	}
	for _, p := range existing {
		if p.EmpireColor == in.EmpireColor {
			writeError(w, http.StatusBadRequest, "color already taken")
			return
		}
	}

	player, err := model.NewPlayer(s.newID(), gameID, len(existing)+1, in.EmpireName, in.EmpireColor)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SavePlayer(player); err != nil {
		writeError(w, http.StatusInternalServerError, "cannot persist player")
		return
	}

	s.games.NotifyPlayerJoined(gameID)

	writeJSON(w, http.StatusOK, toMyGameWire(game, player, len(existing)+1))
}

// colorsWire is the response body for GET /games/{id}/colors.
type colorsWire struct {
	Available []string `json:"available"`
	All       []string `json:"all"`
}

// availableColors reports which palette entries remain unclaimed.
func (s *Server) availableColors(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDFromPath(r)
	if _, ok := s.store.GameByID(gameID); !ok {
		writeError(w, http.StatusNotFound, "unknown game")
		return
	}

	taken := make(map[string]bool)
	for _, p := range s.store.PlayersFor(gameID) {
		taken[p.EmpireColor] = true
	}

	var available []string
	for _, c := range colorPalette {
		if !taken[c] {
			available = append(available, c)
		}
	}

	writeJSON(w, http.StatusOK, colorsWire{Available: available, All: colorPalette})
}

// startGame transitions a waiting game to active; only the host (the
// player seated in slot 1) may do so.
func (s *Server) startGame(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDFromPath(r)
	playerID := requestingPlayer(r)

	player, ok := s.store.PlayerByID(playerID)
	if !ok || player.GameID != gameID {
		writeError(w, http.StatusUnauthorized, "not a player in this game")
		return
	}
	if player.Number != 1 {
		writeError(w, http.StatusForbidden, "only the host can start the game")
		return
	}

	players := s.store.PlayersFor(gameID)
	if len(players) < model.MinPlayers {
		writeError(w, http.StatusBadRequest, "not enough players")
		return
	}
	seen := make(map[string]bool)
	for _, p := range players {
		if seen[p.EmpireColor] {
			writeError(w, http.StatusBadRequest, "empire colors are not unique")
			return
		}
		seen[p.EmpireColor] = true
	}

	if err := s.games.StartGame(gameID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// deleteGame removes a game and everything it owns; only the host
// may do so.
func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDFromPath(r)
	playerID := requestingPlayer(r)

	player, ok := s.store.PlayerByID(playerID)
	if !ok || player.GameID != gameID {
		writeError(w, http.StatusUnauthorized, "not a player in this game")
		return
	}
	if player.Number != 1 {
		writeError(w, http.StatusForbidden, "only the host can delete the game")
		return
	}

	var playerIDs []string
	for _, p := range s.store.PlayersFor(gameID) {
		playerIDs = append(playerIDs, p.ID)
	}

	if err := s.games.DeleteGame(gameID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.visCache.InvalidateGame(playerIDs)

	writeJSON(w, http.StatusOK, nil)
}

func validColor(c string) bool {
	for _, v := range colorPalette {
		if v == c {
			return true
		}
	}
	return false
}
