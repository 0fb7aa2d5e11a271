// Package turn implements the Turn Processor: the single-writer
// pipeline that advances a game from end-of-turn-N to end-of-turn-N+1
// state. Stage order is fixed (movement, combat, capture, builds,
// income, maintenance, repair, eliminations, win-check, advance) and
// each stage is wrapped with a panic-recovery guard so that a bug in
// one game's pipeline cannot take down the process.
package turn

import (
	"fmt"
	"sort"
	"time"

	"warbots/internal/data"
	"warbots/internal/grid"
	"warbots/internal/model"
	"warbots/pkg/fingerprint"
	"warbots/pkg/logger"
)

// IDGenerator mints a fresh unique identifier.
type IDGenerator func() string

// Processor runs the turn pipeline against a Store.
type Processor struct {
	Store  data.Store
	NewID  IDGenerator
	Logger logger.Logger
}

// NewProcessor returns a Processor bound to the given store.
func NewProcessor(store data.Store, newID IDGenerator, log logger.Logger) *Processor {
	return &Processor{Store: store, NewID: newID, Logger: log}
}

// Outcome summarizes one call to Process.
type Outcome struct {
	Finished    bool
	WinnerID    string
	NewTurn     int
	Fingerprint string
}

// working holds the per-call mutable bookkeeping that does not
// belong on the persisted Player (e.g. maintenance-failure is only
// meaningful within the turn that produced it).
type working struct {
	maintenanceFailed map[string]bool
	ordersSerial      []string
	roundLog          []string
}

// Process runs the full pipeline for `gameID`. `now` is the wall
// clock to stamp the new deadline with; it is passed in rather than
// read from time.Now so that tests are fully deterministic.
func (p *Processor) Process(gameID string, now time.Time) (outcome *Outcome, err error) {
	game, ok := p.Store.GameByID(gameID)
	if !ok {
		return nil, fmt.Errorf("unknown game %q", gameID)
	}
	if game.Status != model.StatusActive {
		return nil, fmt.Errorf("game %q is not active", gameID)
	}

	turn := game.CurrentTurn
	w := &working{
		maintenanceFailed: make(map[string]bool),
	}

	players := activePlayersSorted(p.Store.PlayersFor(gameID))
	ordersByPlayer := make(map[string]model.Orders, len(players))

	if err := p.runStage("collect", func() error {
		return p.stageCollectOrders(game, players, w, ordersByPlayer)
	}); err != nil {
		return nil, err
	}

	if err := p.runStage("debt-forgiveness", func() error {
		return p.stageDebtForgiveness(players)
	}); err != nil {
		return nil, err
	}

	if err := p.runStage("movement", func() error {
		return p.stageMovement(game, ordersByPlayer)
	}); err != nil {
		return nil, err
	}

	seed := fingerprint.Seed(gameID, fmt.Sprintf("%d", turn))

	if err := p.runStage("combat", func() error {
		return p.stageCombat(game, w, seed)
	}); err != nil {
		return nil, err
	}

	if err := p.runStage("capture", func() error {
		return p.stageCapture(game, w, seed)
	}); err != nil {
		return nil, err
	}

	if err := p.runStage("builds", func() error {
		return p.stageBuilds(game, players, ordersByPlayer, w)
	}); err != nil {
		return nil, err
	}

	if err := p.runStage("income", func() error {
		return p.stageIncome(game, players)
	}); err != nil {
		return nil, err
	}

	if err := p.runStage("maintenance", func() error {
		return p.stageMaintenance(game, players, w)
	}); err != nil {
		return nil, err
	}

	if err := p.runStage("repair", func() error {
		return p.stageRepair(game, w)
	}); err != nil {
		return nil, err
	}

	if err := p.runStage("eliminations", func() error {
		return p.stageEliminations(game, players)
	}); err != nil {
		return nil, err
	}

	var finished bool
	var winnerID string
	if err := p.runStage("win-check", func() error {
		var werr error
		finished, winnerID, werr = p.stageWinCheck(game)
		return werr
	}); err != nil {
		return nil, err
	}

	print := fingerprint.TurnFingerprint(seed, w.ordersSerial, w.roundLog)
	p.stampFingerprint(game, print)

	newTurn := game.CurrentTurn
	if !finished {
		if err := p.runStage("advance", func() error {
			newTurn, err = p.stageAdvance(game, players, now)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if err := p.Store.SaveGame(game); err != nil {
		return nil, err
	}

	return &Outcome{
		Finished:    finished,
		WinnerID:    winnerID,
		NewTurn:     newTurn,
		Fingerprint: print,
	}, nil
}

// runStage wraps a pipeline stage with the teacher's panic-recovery
// idiom so a bug in one stage cannot crash the process; the panic is
// converted into an error and logged at Critical, matching how
// `pkg/background.Process` guards its own operation callback.
func (p *Processor) runStage(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if p.Logger != nil {
				p.Logger.Trace(logger.Critical, "turn", fmt.Sprintf("Recovered from panic in stage %q (err: %v)", name, r))
			}
			err = fmt.Errorf("turn stage %q panicked: %v", name, r)
		}
	}()

	return fn()
}

func activePlayersSorted(players []*model.Player) []*model.Player {
	out := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if p.Active() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (p *Processor) logEvent(gameID string, turn int, logType model.CombatLogType, mutate func(*model.CombatLog)) {
	l := model.NewCombatLog(p.NewID(), gameID, turn, logType)
	if mutate != nil {
		mutate(l)
	}
	p.Store.AppendCombatLog(l)
}

func tileKey(c grid.Coord) string {
	return fmt.Sprintf("%d:%d", c.X, c.Y)
}

func (p *Processor) stampFingerprint(game *model.Game, print string) {
	p.logEvent(game.ID, game.CurrentTurn, model.LogTurnStart, func(l *model.CombatLog) {
		l.Fingerprint = print
	})
}
