package scheduler

import (
	"testing"
	"time"

	"warbots/internal/data"
	"warbots/internal/model"
	"warbots/internal/testsupport"
	"warbots/internal/turn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDispatcherFixture returns a Dispatcher over a fresh memory store
// and a two-player waiting game, ready to be started.
func newDispatcherFixture(t *testing.T) (*Dispatcher, *data.MemoryStore, *model.Game, *model.Player, *model.Player) {
	t.Helper()

	store := data.NewMemoryStore()
	newID := testsupport.SequentialIDs()
	processor := turn.NewProcessor(store, newID, testsupport.NopLogger{})
	d := New(store, processor, testsupport.NopLogger{}, newID)

	game, err := model.NewGame(newID(), "fixture", 25, 2, 30*time.Second)
	require.NoError(t, err)
	require.NoError(t, store.SaveGame(game))

	p1, err := model.NewPlayer(newID(), game.ID, 1, "Red Empire", "red")
	require.NoError(t, err)
	p2, err := model.NewPlayer(newID(), game.ID, 2, "Blue Empire", "blue")
	require.NoError(t, err)
	require.NoError(t, store.SavePlayer(p1))
	require.NoError(t, store.SavePlayer(p2))

	return d, store, game, p1, p2
}

func TestStartGameGeneratesMapAndActivatesGame(t *testing.T) {
	d, store, game, p1, p2 := newDispatcherFixture(t)

	require.NoError(t, d.StartGame(game.ID))

	started, ok := store.GameByID(game.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusActive, started.Status)
	assert.Equal(t, 1, started.CurrentTurn)
	assert.True(t, started.TurnDeadline.After(time.Now()))

	planets := store.PlanetsFor(game.ID)
	assert.GreaterOrEqual(t, len(planets), 2, "at least one homeworld per player")

	mechs := store.MechsForGame(game.ID)
	assert.NotEmpty(t, mechs, "each homeworld starts with seed mechs")

	var homeworlds int
	for _, p := range planets {
		if p.Homeworld {
			homeworlds++
		}
	}
	assert.Equal(t, 2, homeworlds)

	_ = p1
	_ = p2
}

func TestStartGameRejectsAlreadyStartedGame(t *testing.T) {
	d, _, game, _, _ := newDispatcherFixture(t)

	require.NoError(t, d.StartGame(game.ID))
	assert.Error(t, d.StartGame(game.ID))
}

func TestSubmitOrdersAdvancesTurnOnceEveryActivePlayerHasSubmitted(t *testing.T) {
	d, store, game, p1, p2 := newDispatcherFixture(t)
	require.NoError(t, d.StartGame(game.ID))

	allSubmitted, err := d.SubmitOrders(game.ID, p1.ID, model.Orders{})
	require.NoError(t, err)
	assert.False(t, allSubmitted, "the turn can't advance until every active player has submitted")

	started, _ := store.GameByID(game.ID)
	assert.Equal(t, 1, started.CurrentTurn)

	allSubmitted, err = d.SubmitOrders(game.ID, p2.ID, model.Orders{})
	require.NoError(t, err)
	assert.True(t, allSubmitted)

	advanced, _ := store.GameByID(game.ID)
	assert.Equal(t, 2, advanced.CurrentTurn)
}

func TestSubmitOrdersRejectsDuplicateSubmissionForSamePlayer(t *testing.T) {
	d, _, game, p1, _ := newDispatcherFixture(t)
	require.NoError(t, d.StartGame(game.ID))

	_, err := d.SubmitOrders(game.ID, p1.ID, model.Orders{})
	require.NoError(t, err)

	_, err = d.SubmitOrders(game.ID, p1.ID, model.Orders{})
	assert.Error(t, err)
}

func TestSubmitOrdersRejectsInvalidOrdersWithoutRecordingThem(t *testing.T) {
	d, store, game, p1, _ := newDispatcherFixture(t)
	require.NoError(t, d.StartGame(game.ID))

	bogus := model.Orders{Moves: []model.Move{{MechID: "no-such-mech", To: store.PlanetsFor(game.ID)[0].Coords}}}

	_, err := d.SubmitOrders(game.ID, p1.ID, bogus)
	assert.Error(t, err)

	_, ok := store.SubmissionFor(game.ID, p1.ID, 1)
	assert.False(t, ok, "a rejected submission must not be recorded")
}

func TestSaveDraftStoresWithoutSubmitting(t *testing.T) {
	d, store, game, p1, _ := newDispatcherFixture(t)
	require.NoError(t, d.StartGame(game.ID))

	orders := model.Orders{}
	require.NoError(t, d.SaveDraft(game.ID, p1.ID, orders))

	_, ok := store.SubmissionFor(game.ID, p1.ID, 1)
	assert.False(t, ok)

	_, ok = store.PendingDraftFor(game.ID, p1.ID)
	assert.True(t, ok)
}

func TestSubscribeReceivesConnectedEventThenLifecycleEvents(t *testing.T) {
	d, _, game, _, _ := newDispatcherFixture(t)

	events, unsubscribe := d.Subscribe(game.ID)
	defer unsubscribe()

	first := <-events
	assert.Equal(t, EventConnected, first.Type)

	require.NoError(t, d.StartGame(game.ID))

	second := <-events
	assert.Equal(t, EventGameStarted, second.Type)
	assert.Equal(t, 1, second.Turn)
}

func TestNotifyPlayerJoinedPublishesToSubscribers(t *testing.T) {
	d, _, game, _, _ := newDispatcherFixture(t)

	events, unsubscribe := d.Subscribe(game.ID)
	defer unsubscribe()
	<-events // connected

	d.NotifyPlayerJoined(game.ID)

	ev := <-events
	assert.Equal(t, EventPlayerJoined, ev.Type)
}

func TestDeleteGameRemovesGameAndClosesSubscribers(t *testing.T) {
	d, store, game, _, _ := newDispatcherFixture(t)

	events, _ := d.Subscribe(game.ID)
	<-events // connected

	require.NoError(t, d.DeleteGame(game.ID))

	_, ok := store.GameByID(game.ID)
	assert.False(t, ok)

	_, ok = <-events
	assert.False(t, ok, "DeleteGame closes every subscriber channel")
}
