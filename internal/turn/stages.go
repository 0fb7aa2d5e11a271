package turn

import (
	"fmt"
	"strings"

	"warbots/internal/combat"
	"warbots/internal/grid"
	"warbots/internal/model"
	"warbots/pkg/fingerprint"
)

// stageCollectOrders is pipeline stage 1: read each non-eliminated
// player's submission for this turn, adopting a stored pending draft
// when no submission arrived; clears every pending draft afterward
// regardless of whether it was adopted.
func (p *Processor) stageCollectOrders(game *model.Game, players []*model.Player, w *working, out map[string]model.Orders) error {
	for _, player := range players {
		p.logEvent(game.ID, game.CurrentTurn, model.LogTurnStart, func(l *model.CombatLog) {
			l.Participants = []string{player.ID}
		})

		var orders model.Orders
		if sub, ok := p.Store.SubmissionFor(game.ID, player.ID, game.CurrentTurn); ok {
			orders = sub.Orders
		} else if draft, ok := p.Store.PendingDraftFor(game.ID, player.ID); ok {
			orders = draft
		}

		out[player.ID] = orders

		for _, mv := range orders.Moves {
			w.ordersSerial = append(w.ordersSerial, fmt.Sprintf("move:%s:%s:%d,%d", player.ID, mv.MechID, mv.To.X, mv.To.Y))
		}
		for _, b := range orders.Builds {
			w.ordersSerial = append(w.ordersSerial, fmt.Sprintf("build:%s:%s", player.ID, b.PlanetID()))
		}
	}

	for _, player := range players {
		p.Store.ClearPendingDraft(game.ID, player.ID)
	}

	return nil
}

// stageDebtForgiveness is pipeline stage 2.
func (p *Processor) stageDebtForgiveness(players []*model.Player) error {
	for _, player := range players {
		if player.Credits < 0 {
			player.Credits = 0
		}
		p.Store.SavePlayer(player)
	}
	return nil
}

// stageMovement is pipeline stage 3: re-verify ownership and apply
// each move in declaration order. No collision avoidance — mechs may
// legally end up co-located, feeding stage 4.
func (p *Processor) stageMovement(game *model.Game, ordersByPlayer map[string]model.Orders) error {
	for playerID, orders := range ordersByPlayer {
		for _, mv := range orders.Moves {
			mech, ok := p.Store.MechByID(mv.MechID)
			if !ok || mech.OwnerID != playerID || mech.GameID != game.ID {
				continue
			}
			if err := p.Store.UpdateMechCoords(mech.ID, mv.To); err != nil {
				return err
			}
		}
	}
	return nil
}

// groupMechsByTile buckets every mech currently in the game by its
// coordinate.
func groupMechsByTile(mechs []*model.Mech) map[grid.Coord][]*model.Mech {
	out := make(map[grid.Coord][]*model.Mech)
	for _, m := range mechs {
		out[m.Coords] = append(out[m.Coords], m)
	}
	return out
}

func distinctOwners(mechs []*model.Mech) map[string][]*model.Mech {
	byOwner := make(map[string][]*model.Mech)
	for _, m := range mechs {
		byOwner[m.OwnerID] = append(byOwner[m.OwnerID], m)
	}
	return byOwner
}

// applyCombatResult writes a resolved combat back to the store: wipe
// every mech that stood on the tile, re-insert the survivors with
// their reduced hp, and update or delete the fortification. If the
// outcome changed the planet's owner, every building on it is wiped.
func (p *Processor) applyCombatResult(game *model.Game, coords grid.Coord, before []*model.Mech, res combat.Result, planet *model.Planet) {
	for _, m := range before {
		p.Store.DeleteMech(m.ID)
	}
	for _, m := range res.SurvivingMechs {
		p.Store.SaveMech(m)
	}

	if planet == nil {
		return
	}

	ownerChanged := res.WinnerID != "" && res.WinnerID != planet.OwnerID

	for _, b := range p.Store.BuildingsOn(planet.ID) {
		if b.Type != model.Fortification {
			continue
		}
		if ownerChanged {
			// Building wipe below handles removal.
			continue
		}
		b.HP = res.FortHP
		if !res.FortSurvived {
			b.HP = 0
		}
		p.Store.SaveBuilding(b)
	}

	if ownerChanged {
		planet.OwnerID = res.WinnerID
		p.Store.DeleteBuildingsOn(planet.ID)
		p.Store.SavePlanet(planet)
	}
}

// stageCombat is pipeline stage 4: resolve every tile where two or
// more distinct owners now have co-located mechs.
func (p *Processor) stageCombat(game *model.Game, w *working, seed int64) error {
	mechs := p.Store.MechsForGame(game.ID)
	byTile := groupMechsByTile(mechs)

	for coords, here := range byTile {
		byOwner := distinctOwners(here)
		if len(byOwner) < 2 {
			continue
		}

		planet, hasPlanet := p.Store.PlanetAt(game.ID, coords)

		var fort *model.Building
		defenderID := ""
		if hasPlanet {
			defenderID = planet.OwnerID
			for _, b := range p.Store.BuildingsOn(planet.ID) {
				if b.Type == model.Fortification && b.Alive() {
					cp := *b
					fort = &cp
				}
			}
		}

		rng := fingerprint.RandFor(game.ID, fmt.Sprintf("%d", game.CurrentTurn), tileKey(coords))
		res := combat.Resolve(combat.Input{ForcesByOwner: byOwner, Fort: fort, DefenderID: defenderID}, rng)

		lines := make([]string, 0, len(res.Log))
		for _, rec := range res.Log {
			line := rec.String()
			lines = append(lines, line)
			w.roundLog = append(w.roundLog, line)
		}

		var planetPtr *model.Planet
		if hasPlanet {
			planetPtr = planet
		}
		p.applyCombatResult(game, coords, here, res, planetPtr)

		participants := make([]string, 0, len(byOwner))
		for owner := range byOwner {
			participants = append(participants, owner)
		}

		p.logEvent(game.ID, game.CurrentTurn, model.LogBattle, func(l *model.CombatLog) {
			c := coords
			l.Coords = &c
			l.Participants = participants
			l.WinnerID = res.WinnerID
			cas := make(map[string]int, len(res.Casualties))
			for owner, c := range res.Casualties {
				cas[owner] = c.Initial - c.Survivors
			}
			l.Casualties = cas
			l.Payload = []byte(strings.Join(lines, "\n"))
		})
	}

	return nil
}

// stageCapture is pipeline stage 5: planets now hosting exactly one
// owner's mechs, different from the current owner, either fall
// immediately (no fortification) or force a pair-combat against the
// fortification alone.
func (p *Processor) stageCapture(game *model.Game, w *working, seed int64) error {
	for _, planet := range p.Store.PlanetsFor(game.ID) {
		here := p.Store.MechsAt(game.ID, planet.Coords)
		if len(here) == 0 {
			continue
		}

		byOwner := distinctOwners(here)
		if len(byOwner) != 1 {
			continue
		}

		var intruderID string
		for owner := range byOwner {
			intruderID = owner
		}
		if intruderID == planet.OwnerID {
			continue
		}

		var fort *model.Building
		for _, b := range p.Store.BuildingsOn(planet.ID) {
			if b.Type == model.Fortification && b.Alive() {
				cp := *b
				fort = &cp
			}
		}

		if fort == nil {
			planet.OwnerID = intruderID
			p.Store.DeleteBuildingsOn(planet.ID)
			p.Store.SavePlanet(planet)

			p.logEvent(game.ID, game.CurrentTurn, model.LogCapture, func(l *model.CombatLog) {
				c := planet.Coords
				l.Coords = &c
				l.WinnerID = intruderID
			})
			continue
		}

		rng := fingerprint.RandFor(game.ID, fmt.Sprintf("%d", game.CurrentTurn), tileKey(planet.Coords), "capture")
		res := combat.Resolve(combat.Input{ForcesByOwner: byOwner, Fort: fort, DefenderID: planet.OwnerID}, rng)

		for _, rec := range res.Log {
			w.roundLog = append(w.roundLog, rec.String())
		}

		p.applyCombatResult(game, planet.Coords, here, res, planet)

		if res.WinnerID == intruderID {
			p.logEvent(game.ID, game.CurrentTurn, model.LogCapture, func(l *model.CombatLog) {
				c := planet.Coords
				l.Coords = &c
				l.WinnerID = intruderID
			})
		}
	}

	return nil
}
