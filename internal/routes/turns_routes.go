package routes

import (
	"io"
	"net/http"
)

// submitTurnResponseWire is the body of a successful turn submission.
type submitTurnResponseWire struct {
	AllSubmitted bool `json:"allSubmitted"`
}

// submitTurn records a strictly-validated orders submission for the
// requesting player and, if every active player has now submitted,
// advances the turn.
func (s *Server) submitTurn(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDFromPath(r)
	playerID := requestingPlayer(r)
	if playerID == "" {
		writeError(w, http.StatusUnauthorized, "missing X-Player-Id header")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	orders, err := decodeOrders(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	allSubmitted, err := s.games.SubmitOrders(gameID, playerID, orders)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, submitTurnResponseWire{AllSubmitted: allSubmitted})
}

// saveDraft stores a player's in-progress orders without submitting
// them.
func (s *Server) saveDraft(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDFromPath(r)
	playerID := requestingPlayer(r)
	if playerID == "" {
		writeError(w, http.StatusUnauthorized, "missing X-Player-Id header")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	orders, err := decodeOrders(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.games.SaveDraft(gameID, playerID, orders); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, nil)
}
