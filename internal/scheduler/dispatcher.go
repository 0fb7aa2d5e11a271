// Package scheduler implements the Turn Dispatcher: the per-game
// finite state machine (Waiting, Active, Finished) that owns
// submission gating, the deadline timer, each AI player's delayed
// turn-generation task, and the fan-out of state-change events to
// SSE subscribers. Every mutating operation on a game acquires that
// game's slot in a `ConcurrentLocker`, giving the single-writer
// discipline §5 requires without locking the whole store.
package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"warbots/internal/ai"
	"warbots/internal/data"
	"warbots/internal/locker"
	"warbots/internal/mapgen"
	"warbots/internal/model"
	"warbots/internal/turn"
	"warbots/internal/validate"
	"warbots/pkg/background"
	"warbots/pkg/fingerprint"
	"warbots/pkg/logger"
	"warbots/pkg/ratelimit"
)

// AIDelay is the fixed grace period the dispatcher gives human
// players to submit before an AI player's orders are generated, per
// §4.6.
const AIDelay = 20 * time.Second

// sweepInterval is how often the background deadline sweep checks
// every active game for an expired turn deadline.
const sweepInterval = 1 * time.Second

// Dispatcher is the single process-wide owner of every game's turn
// clock. One Dispatcher instance is expected per server process.
type Dispatcher struct {
	store     data.Store
	processor *turn.Processor
	locks     *locker.ConcurrentLocker
	log       logger.Logger
	limiter   *ratelimit.Keyed
	aiDelay   time.Duration
	newID     func() string

	mu          sync.Mutex
	subscribers map[string][]chan Event
	aiTimers    map[string]map[string]*background.Process

	sweep *time.Ticker
	done  chan struct{}
}

// New returns a Dispatcher bound to `store`, running turns through
// `processor`. `newID` mints fresh identifiers for anything the
// dispatcher itself creates: the planets, buildings and mechs of map
// generation, and the turn submissions it records.
func New(store data.Store, processor *turn.Processor, log logger.Logger, newID func() string) *Dispatcher {
	d := &Dispatcher{
		store:       store,
		processor:   processor,
		locks:       locker.NewConcurrentLocker(log),
		log:         log,
		limiter:     ratelimit.NewKeyed(2, 4),
		aiDelay:     AIDelay,
		newID:       newID,
		subscribers: make(map[string][]chan Event),
		aiTimers:    make(map[string]map[string]*background.Process),
		done:        make(chan struct{}),
	}
	return d
}

// withGameLock acquires the single-writer lock for gameID, runs fn,
// and releases it (both the per-resource waiter and the slot back to
// the pool) no matter how fn returns, mirroring the teacher's
// `performWithLock` pairing of `resLock.Lock/Release` with
// `cp.lock.Release`.
func (d *Dispatcher) withGameLock(gameID string, fn func()) {
	resLock := d.locks.Acquire(gameID)
	defer d.locks.Release(resLock)

	resLock.Lock()
	defer resLock.Release()

	fn()
}

// Run starts the background deadline sweep; call Stop to halt it.
func (d *Dispatcher) Run() {
	d.sweep = time.NewTicker(sweepInterval)
	go func() {
		for {
			select {
			case <-d.sweep.C:
				d.sweepDeadlines()
			case <-d.done:
				return
			}
		}
	}()
}

// Stop halts the background deadline sweep. It does not cancel
// per-game AI timers; callers shutting the process down entirely
// don't need to, since the process exit takes them with it.
func (d *Dispatcher) Stop() {
	if d.sweep != nil {
		d.sweep.Stop()
	}
	close(d.done)
}

// Subscribe registers a new event consumer for `gameID`, returning
// the channel it will receive events on and an unsubscribe func. The
// channel is closed by Unsubscribe, never by the publisher.
func (d *Dispatcher) Subscribe(gameID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	d.mu.Lock()
	d.subscribers[gameID] = append(d.subscribers[gameID], ch)
	d.mu.Unlock()

	unsubscribe := func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		subs := d.subscribers[gameID]
		for i, c := range subs {
			if c == ch {
				d.subscribers[gameID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}

	ch <- Event{Type: EventConnected, GameID: gameID}

	return ch, unsubscribe
}

// publish fans an event out to every current subscriber of gameID.
// A subscriber whose buffer is full is skipped rather than blocked on
// — it will simply miss this event, which matches §5's "slow
// subscribers may be dropped" policy.
func (d *Dispatcher) publish(gameID string, ev Event) {
	d.mu.Lock()
	subs := append([]chan Event(nil), d.subscribers[gameID]...)
	d.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			if d.log != nil {
				d.log.Trace(logger.Warning, "scheduler", fmt.Sprintf("dropped event for slow subscriber on game %q", gameID))
			}
		}
	}
}

// NotifyPlayerJoined publishes a `player_joined` event for gameID.
// The lobby join flow lives in `internal/routes`, outside the
// Dispatcher's single-writer discipline (a Waiting game has no turn
// clock to race with), but still needs to reach the same subscriber
// fan-out the rest of a game's lifecycle events use.
func (d *Dispatcher) NotifyPlayerJoined(gameID string) {
	d.publish(gameID, Event{Type: EventPlayerJoined, GameID: gameID})
}

// StartGame transitions a Waiting game to Active: runs map
// generation for the final roster, sets turn 1, arms the deadline,
// and schedules every AI seat's delayed task.
func (d *Dispatcher) StartGame(gameID string) error {
	var err error

	d.withGameLock(gameID, func() {
		game, ok := d.store.GameByID(gameID)
		if !ok {
			err = fmt.Errorf("unknown game %q", gameID)
			return
		}
		if game.Status != model.StatusWaiting {
			err = fmt.Errorf("game %q is not waiting", gameID)
			return
		}

		players := d.store.PlayersFor(gameID)
		seed := fingerprint.Seed(gameID, "map")
		result, merr := mapgen.Generate(gameID, game.GridSize, players, seed, d.newID)
		if merr != nil {
			err = merr
			return
		}

		for _, p := range result.Planets {
			if err = d.store.SavePlanet(p); err != nil {
				return
			}
		}
		for _, b := range result.Buildings {
			if err = d.store.SaveBuilding(b); err != nil {
				return
			}
		}
		for _, m := range result.Mechs {
			if err = d.store.SaveMech(m); err != nil {
				return
			}
		}

		game.Status = model.StatusActive
		game.CurrentTurn = 1
		game.TurnDeadline = time.Now().Add(game.TurnTimer)
		if err = d.store.SaveGame(game); err != nil {
			return
		}

		d.armAITimers(gameID)
		d.publish(gameID, Event{Type: EventGameStarted, GameID: gameID, Turn: game.CurrentTurn})
	})

	return err
}

// SubmitOrders strictly validates a human submission, records it, and
// advances the turn immediately if every active player has now
// submitted.
func (d *Dispatcher) SubmitOrders(gameID, playerID string, orders model.Orders) (allSubmitted bool, err error) {
	if !d.limiter.Allow(gameID + ":" + playerID) {
		return false, fmt.Errorf("too many submissions, slow down")
	}

	d.withGameLock(gameID, func() {
		game, ok := d.store.GameByID(gameID)
		if !ok {
			err = fmt.Errorf("unknown game %q", gameID)
			return
		}
		if game.Status != model.StatusActive {
			err = fmt.Errorf("game %q is not active", gameID)
			return
		}

		player, ok := d.store.PlayerByID(playerID)
		if !ok || player.GameID != gameID {
			err = fmt.Errorf("unknown player %q", playerID)
			return
		}
		if player.SubmittedThisTurn {
			err = fmt.Errorf("player already submitted this turn")
			return
		}

		view := data.GameView{Store: d.store, GameID: gameID}
		if verr := validate.Strict(view, playerID, player.Credits, orders); verr != nil {
			err = verr
			return
		}

		sub := model.NewTurnSubmission(d.newID(), gameID, playerID, game.CurrentTurn, orders, time.Now())
		if err = d.store.SaveSubmission(sub); err != nil {
			return
		}

		player.SubmittedThisTurn = true
		if err = d.store.SavePlayer(player); err != nil {
			return
		}

		d.cancelAITimer(gameID, playerID)

		if d.allSubmittedLocked(gameID) {
			allSubmitted = true
			err = d.advanceLocked(gameID)
		}
	})

	return allSubmitted, err
}

// SaveDraft stores a player's in-progress orders without submitting
// them; a deadline-triggered advance will adopt it if no real
// submission arrives first.
func (d *Dispatcher) SaveDraft(gameID, playerID string, orders model.Orders) error {
	return d.store.SavePendingDraft(gameID, playerID, orders)
}

// allSubmittedLocked reports whether every active player in gameID
// has submitted this turn. Callers must already hold the game's lock.
func (d *Dispatcher) allSubmittedLocked(gameID string) bool {
	for _, p := range d.store.PlayersFor(gameID) {
		if p.Active() && !p.SubmittedThisTurn {
			return false
		}
	}
	return true
}

// advanceLocked runs the Turn Processor and publishes the resulting
// event. Callers must already hold the game's lock.
func (d *Dispatcher) advanceLocked(gameID string) error {
	d.cancelAITimers(gameID)

	outcome, err := d.processor.Process(gameID, time.Now())
	if err != nil {
		return err
	}

	if outcome.Finished {
		d.publish(gameID, Event{Type: EventGameFinished, GameID: gameID, Turn: outcome.NewTurn, WinnerID: outcome.WinnerID})
		return nil
	}

	d.publish(gameID, Event{Type: EventTurnResolved, GameID: gameID, Turn: outcome.NewTurn})
	d.armAITimers(gameID)

	return nil
}

// sweepDeadlines runs once per sweepInterval: any active game whose
// deadline has passed is advanced regardless of pending submissions.
func (d *Dispatcher) sweepDeadlines() {
	now := time.Now()

	games := d.store.AllGames()
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })

	for _, g := range games {
		if g.Status != model.StatusActive {
			continue
		}
		if now.Before(g.TurnDeadline) {
			continue
		}
		d.runDeadlineExpiry(g.ID)
	}
}

func (d *Dispatcher) runDeadlineExpiry(gameID string) {
	d.withGameLock(gameID, func() {
		game, ok := d.store.GameByID(gameID)
		if !ok || game.Status != model.StatusActive {
			return
		}
		if time.Now().Before(game.TurnDeadline) {
			return
		}

		if err := d.advanceLocked(gameID); err != nil && d.log != nil {
			d.log.Trace(logger.Error, "scheduler", fmt.Sprintf("deadline advance failed for game %q (err: %v)", gameID, err))
		}
	})
}

// DeleteGame cancels every timer and drops every subscriber for
// gameID before deleting it from the store.
func (d *Dispatcher) DeleteGame(gameID string) error {
	var err error

	d.withGameLock(gameID, func() {
		d.cancelAITimers(gameID)

		d.mu.Lock()
		for _, ch := range d.subscribers[gameID] {
			close(ch)
		}
		delete(d.subscribers, gameID)
		d.limiter.Forget(gameID)
		d.mu.Unlock()

		err = d.store.DeleteGame(gameID)
	})

	return err
}

// armAITimers schedules a delayed task for every non-eliminated AI
// player in gameID that has not yet submitted.
func (d *Dispatcher) armAITimers(gameID string) {
	for _, p := range d.store.PlayersFor(gameID) {
		if !p.IsAI || !p.Active() || p.SubmittedThisTurn {
			continue
		}
		d.armAITimer(gameID, p.ID)
	}
}

func (d *Dispatcher) armAITimer(gameID, playerID string) {
	proc := background.NewProcess(d.aiDelay, d.log).
		WithModule("scheduler-ai-delay").
		WithOperation(func() (bool, error) {
			d.runAITurn(gameID, playerID)
			return true, nil
		})

	if err := proc.Start(); err != nil {
		if d.log != nil {
			d.log.Trace(logger.Error, "scheduler", fmt.Sprintf("failed to arm AI timer for game %q player %q (err: %v)", gameID, playerID, err))
		}
		return
	}

	d.mu.Lock()
	if d.aiTimers[gameID] == nil {
		d.aiTimers[gameID] = make(map[string]*background.Process)
	}
	d.aiTimers[gameID][playerID] = proc
	d.mu.Unlock()
}

// cancelAITimer idempotently stops and forgets playerID's AI timer,
// if one is armed; a player who has just submitted or been
// eliminated no longer needs one.
func (d *Dispatcher) cancelAITimer(gameID, playerID string) {
	d.mu.Lock()
	timers := d.aiTimers[gameID]
	var proc *background.Process
	if timers != nil {
		proc = timers[playerID]
		delete(timers, playerID)
	}
	d.mu.Unlock()

	if proc != nil {
		proc.Stop()
	}
}

func (d *Dispatcher) cancelAITimers(gameID string) {
	d.mu.Lock()
	timers := d.aiTimers[gameID]
	delete(d.aiTimers, gameID)
	d.mu.Unlock()

	for _, proc := range timers {
		proc.Stop()
	}
}

// runAITurn fires when a player's AI delay elapses: it re-checks (the
// idempotency guard §4.7 calls for) that the player still hasn't
// submitted, then generates, filters and records its orders.
func (d *Dispatcher) runAITurn(gameID, playerID string) {
	d.withGameLock(gameID, func() {
		game, ok := d.store.GameByID(gameID)
		if !ok || game.Status != model.StatusActive {
			return
		}

		player, ok := d.store.PlayerByID(playerID)
		if !ok || !player.Active() || player.SubmittedThisTurn {
			return
		}

		view := ai.BuildView(d.store, gameID, playerID)
		rng := fingerprint.RandFor(gameID, fmt.Sprintf("%d", game.CurrentTurn), playerID)

		strategy := ai.For(player.AIStrategy)
		orders := strategy.ProduceOrders(view, rng)

		gameView := data.GameView{Store: d.store, GameID: gameID}
		kept, _ := validate.Filter(gameView, playerID, player.Credits, orders)

		sub := model.NewTurnSubmission(d.newID(), gameID, playerID, game.CurrentTurn, kept, time.Now())

		if err := d.store.SaveSubmission(sub); err != nil && d.log != nil {
			d.log.Trace(logger.Error, "scheduler", fmt.Sprintf("AI submission save failed for game %q player %q (err: %v)", gameID, playerID, err))
			return
		}

		player.SubmittedThisTurn = true
		d.store.SavePlayer(player)

		if d.allSubmittedLocked(gameID) {
			if err := d.advanceLocked(gameID); err != nil && d.log != nil {
				d.log.Trace(logger.Error, "scheduler", fmt.Sprintf("AI-triggered advance failed for game %q (err: %v)", gameID, err))
			}
		}
	})
}
