package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"warbots/internal/data"
	"warbots/internal/scheduler"
	"warbots/internal/testsupport"
	"warbots/internal/turn"
	"warbots/pkg/dispatcher"
	"warbots/pkg/duration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires a Server over a fresh memory store without
// calling Serve, so handlers can be exercised directly through
// httptest without opening a real listening socket.
func newTestServer(t *testing.T) (*Server, *data.MemoryStore, func() string) {
	t.Helper()

	store := data.NewMemoryStore()
	newID := testsupport.SequentialIDs()
	log := testsupport.NopLogger{}
	processor := turn.NewProcessor(store, newID, log)
	games := scheduler.New(store, processor, log, newID)

	s := NewServer(0, store, games, newID, log)
	s.router = dispatcher.NewRouter(log)
	s.routes()

	return &s, store, newID
}

func doRequest(t *testing.T, s *Server, method, path, playerID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if playerID != "" {
		req.Header.Set("X-Player-Id", playerID)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateGameThenListOpenGames(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/games", "", createGameWire{
		Name: "Skirmish", GridSize: 25, MaxPlayers: 2, TurnTimer: duration.NewDuration(30 * time.Second), EmpireName: "Red Empire", EmpireColor: "red",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created myGameWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.Number)
	assert.True(t, created.Host)

	listRec := doRequest(t, s, http.MethodGet, "/games", "", nil)
	require.Equal(t, http.StatusOK, listRec.Code)

	var open []gameWire
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &open))
	require.Len(t, open, 1)
	assert.Equal(t, "Skirmish", open[0].Name)
	assert.Equal(t, 1, open[0].PlayerCount)
}

func TestJoinGameRejectsDuplicateColorAndFullLobby(t *testing.T) {
	s, _, _ := newTestServer(t)

	createRec := doRequest(t, s, http.MethodPost, "/games", "", createGameWire{
		Name: "Duel", GridSize: 25, MaxPlayers: 2, TurnTimer: duration.NewDuration(30 * time.Second), EmpireName: "Red Empire", EmpireColor: "red",
	})
	var created myGameWire
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	dupRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/join", "", joinGameWire{
		EmpireName: "Also Red", EmpireColor: "red",
	})
	assert.Equal(t, http.StatusBadRequest, dupRec.Code)

	okRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/join", "", joinGameWire{
		EmpireName: "Blue Empire", EmpireColor: "blue",
	})
	require.Equal(t, http.StatusOK, okRec.Code)

	fullRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/join", "", joinGameWire{
		EmpireName: "Green Empire", EmpireColor: "green",
	})
	assert.Equal(t, http.StatusBadRequest, fullRec.Code, "the lobby is already at MaxPlayers")
}

func TestStartGameRequiresHostAndMinimumPlayers(t *testing.T) {
	s, _, _ := newTestServer(t)

	createRec := doRequest(t, s, http.MethodPost, "/games", "", createGameWire{
		Name: "Duel", GridSize: 25, MaxPlayers: 2, TurnTimer: duration.NewDuration(30 * time.Second), EmpireName: "Red Empire", EmpireColor: "red",
	})
	var created myGameWire
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	tooFewRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/start", created.PlayerID, nil)
	assert.Equal(t, http.StatusBadRequest, tooFewRec.Code, "needs at least two players")

	joinRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/join", "", joinGameWire{
		EmpireName: "Blue Empire", EmpireColor: "blue",
	})
	var joined myGameWire
	require.NoError(t, json.Unmarshal(joinRec.Body.Bytes(), &joined))

	forbiddenRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/start", joined.PlayerID, nil)
	assert.Equal(t, http.StatusForbidden, forbiddenRec.Code, "only the host may start the game")

	startRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/start", created.PlayerID, nil)
	assert.Equal(t, http.StatusOK, startRec.Code)
}

func TestGameStateServesFogFilteredSnapshotAfterStart(t *testing.T) {
	s, store, _ := newTestServer(t)

	createRec := doRequest(t, s, http.MethodPost, "/games", "", createGameWire{
		Name: "Duel", GridSize: 25, MaxPlayers: 2, TurnTimer: duration.NewDuration(30 * time.Second), EmpireName: "Red Empire", EmpireColor: "red",
	})
	var created myGameWire
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	joinRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/join", "", joinGameWire{
		EmpireName: "Blue Empire", EmpireColor: "blue",
	})
	var joined myGameWire
	require.NoError(t, json.Unmarshal(joinRec.Body.Bytes(), &joined))

	startRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/start", created.PlayerID, nil)
	require.Equal(t, http.StatusOK, startRec.Code)

	stateRec := doRequest(t, s, http.MethodGet, "/games/"+created.ID+"/state", created.PlayerID, nil)
	require.Equal(t, http.StatusOK, stateRec.Code)

	var state stateWire
	require.NoError(t, json.Unmarshal(stateRec.Body.Bytes(), &state))
	require.NotEmpty(t, state.Planets, "the host's own homeworld is always visible to them")

	var ownHomeworld bool
	for _, p := range state.Planets {
		if p.OwnerID == created.PlayerID && p.Homeworld {
			ownHomeworld = true
		}
	}
	assert.True(t, ownHomeworld)

	_ = store
	_ = joined
}

func TestSubmitTurnAdvancesGameOnceAllPlayersSubmit(t *testing.T) {
	s, store, _ := newTestServer(t)

	createRec := doRequest(t, s, http.MethodPost, "/games", "", createGameWire{
		Name: "Duel", GridSize: 25, MaxPlayers: 2, TurnTimer: duration.NewDuration(30 * time.Second), EmpireName: "Red Empire", EmpireColor: "red",
	})
	var created myGameWire
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	joinRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/join", "", joinGameWire{
		EmpireName: "Blue Empire", EmpireColor: "blue",
	})
	var joined myGameWire
	require.NoError(t, json.Unmarshal(joinRec.Body.Bytes(), &joined))

	require.Equal(t, http.StatusOK, doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/start", created.PlayerID, nil).Code)

	firstRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/turns", created.PlayerID, ordersWire{})
	require.Equal(t, http.StatusOK, firstRec.Code)
	var firstResp submitTurnResponseWire
	require.NoError(t, json.Unmarshal(firstRec.Body.Bytes(), &firstResp))
	assert.False(t, firstResp.AllSubmitted)

	secondRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/turns", joined.PlayerID, ordersWire{})
	require.Equal(t, http.StatusOK, secondRec.Code)
	var secondResp submitTurnResponseWire
	require.NoError(t, json.Unmarshal(secondRec.Body.Bytes(), &secondResp))
	assert.True(t, secondResp.AllSubmitted)

	game, ok := store.GameByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, 2, game.CurrentTurn)
}

func TestAvailableColorsExcludesTakenOnes(t *testing.T) {
	s, _, _ := newTestServer(t)

	createRec := doRequest(t, s, http.MethodPost, "/games", "", createGameWire{
		Name: "Duel", GridSize: 25, MaxPlayers: 4, TurnTimer: duration.NewDuration(30 * time.Second), EmpireName: "Red Empire", EmpireColor: "red",
	})
	var created myGameWire
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	colorsRec := doRequest(t, s, http.MethodGet, "/games/"+created.ID+"/colors", "", nil)
	require.Equal(t, http.StatusOK, colorsRec.Code)

	var colors colorsWire
	require.NoError(t, json.Unmarshal(colorsRec.Body.Bytes(), &colors))
	assert.NotContains(t, colors.Available, "red")
	assert.Contains(t, colors.All, "red")
}

func TestDeleteGameOnlyAllowedByHost(t *testing.T) {
	s, store, _ := newTestServer(t)

	createRec := doRequest(t, s, http.MethodPost, "/games", "", createGameWire{
		Name: "Duel", GridSize: 25, MaxPlayers: 2, TurnTimer: duration.NewDuration(30 * time.Second), EmpireName: "Red Empire", EmpireColor: "red",
	})
	var created myGameWire
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	joinRec := doRequest(t, s, http.MethodPost, "/games/"+created.ID+"/join", "", joinGameWire{
		EmpireName: "Blue Empire", EmpireColor: "blue",
	})
	var joined myGameWire
	require.NoError(t, json.Unmarshal(joinRec.Body.Bytes(), &joined))

	forbidden := doRequest(t, s, http.MethodDelete, "/games/"+created.ID, joined.PlayerID, nil)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	ok := doRequest(t, s, http.MethodDelete, "/games/"+created.ID, created.PlayerID, nil)
	assert.Equal(t, http.StatusOK, ok.Code)

	_, stillThere := store.GameByID(created.ID)
	assert.False(t, stillThere)
}

func TestRouterRegistrationOrderKeepsNestedGameRoutesFromBeingShadowed(t *testing.T) {
	// A regression guard for the router's prefix-based matching: a
	// request for a nested path must not be swallowed by the bare
	// "/games" or "/games/mine" routes registered for other methods.
	s, _, _ := newTestServer(t)

	createRec := doRequest(t, s, http.MethodPost, "/games", "", createGameWire{
		Name: "Duel", GridSize: 25, MaxPlayers: 2, TurnTimer: duration.NewDuration(30 * time.Second), EmpireName: "Red Empire", EmpireColor: "red",
	})
	var created myGameWire
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	rec := doRequest(t, s, http.MethodGet, "/games/"+created.ID+"/colors", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	mineRec := doRequest(t, s, http.MethodGet, "/games/mine", created.PlayerID, nil)
	require.Equal(t, http.StatusOK, mineRec.Code)

	var mine []myGameWire
	require.NoError(t, json.Unmarshal(mineRec.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
}
