package turn

import (
	"time"

	"warbots/internal/model"
)

// stageIncome is pipeline stage 7: each player's credits increase by
// the base income of every planet they own, plus a flat 2 credits per
// mining building they operate.
func (p *Processor) stageIncome(game *model.Game, players []*model.Player) error {
	for _, player := range players {
		total := 0
		for _, planet := range p.Store.PlanetsFor(game.ID) {
			if planet.OwnerID != player.ID {
				continue
			}
			total += planet.BaseIncome
			for _, b := range p.Store.BuildingsOn(planet.ID) {
				if b.Type == model.Mining {
					total += 2
				}
			}
		}

		if total == 0 {
			continue
		}

		player.Credits += total
		p.Store.SavePlayer(player)

		p.logEvent(game.ID, game.CurrentTurn, model.LogIncome, func(l *model.CombatLog) {
			l.Participants = []string{player.ID}
			l.Casualties = map[string]int{player.ID: total}
		})
	}
	return nil
}

// stageMaintenance is pipeline stage 8: each player owes upkeep equal
// to the sum of their mechs' per-type maintenance cost. A player who
// cannot cover it goes into debt for the turn (forgiven at the start
// of next turn's stage 2) and is marked maintenance-failed, which
// starves their repair stage instead of healing it.
func (p *Processor) stageMaintenance(game *model.Game, players []*model.Player, w *working) error {
	for _, player := range players {
		cost := 0
		for _, m := range p.Store.MechsFor(game.ID, player.ID) {
			cost += model.MechMaintenance(m.Type)
		}
		if cost == 0 {
			continue
		}

		player.Credits -= cost
		p.Store.SavePlayer(player)

		if player.Credits < 0 {
			w.maintenanceFailed[player.ID] = true
			p.logEvent(game.ID, game.CurrentTurn, model.LogMaintenanceFailure, func(l *model.CombatLog) {
				l.Participants = []string{player.ID}
			})
			continue
		}

		p.logEvent(game.ID, game.CurrentTurn, model.LogMaintenance, func(l *model.CombatLog) {
			l.Participants = []string{player.ID}
			l.Casualties = map[string]int{player.ID: cost}
		})
	}
	return nil
}

// stageRepair is pipeline stage 9: a player in good standing heals 2
// hp on every mech standing on a planet tile and 5 hp on every
// fortification they own, both capped at max hp. A maintenance-failed
// player instead takes 1 hp of neglect damage on every mech and every
// fortification they own, representing unpaid upkeep letting
// equipment fall into disrepair.
func (p *Processor) stageRepair(game *model.Game, w *working) error {
	for _, m := range p.Store.MechsForGame(game.ID) {
		if !m.Alive() {
			continue
		}
		if w.maintenanceFailed[m.OwnerID] {
			m.HP--
		} else if _, onPlanet := p.Store.PlanetAt(game.ID, m.Coords); onPlanet {
			m.HP += model.MechRepairPerTurn
			if m.HP > m.MaxHP {
				m.HP = m.MaxHP
			}
		}
		if m.HP <= 0 {
			p.Store.DeleteMech(m.ID)
			continue
		}
		p.Store.SaveMech(m)
	}

	for _, planet := range p.Store.PlanetsFor(game.ID) {
		for _, b := range p.Store.BuildingsOn(planet.ID) {
			if b.Type != model.Fortification || !b.Alive() {
				continue
			}
			if w.maintenanceFailed[planet.OwnerID] {
				b.HP--
			} else {
				b.HP += model.FortificationRepairPerTurn
				if b.HP > model.FortificationMaxHP {
					b.HP = model.FortificationMaxHP
				}
			}
			if b.HP <= 0 {
				p.Store.DeleteBuilding(b.ID)
				continue
			}
			p.Store.SaveBuilding(b)
		}
	}

	return nil
}

// stageEliminations is pipeline stage 10: a player who owns no
// planets and has no surviving mechs is out, regardless of how they
// got there (wiped out in combat, starved by debt, or simply never
// expanded).
func (p *Processor) stageEliminations(game *model.Game, players []*model.Player) error {
	for _, player := range players {
		if len(p.Store.PlanetsFor(game.ID)) == 0 {
			continue
		}

		owned := 0
		for _, planet := range p.Store.PlanetsFor(game.ID) {
			if planet.OwnerID == player.ID {
				owned++
			}
		}
		mechs := len(p.Store.MechsFor(game.ID, player.ID))

		if owned == 0 && mechs == 0 {
			player.Eliminated = true
			p.Store.SavePlayer(player)

			p.logEvent(game.ID, game.CurrentTurn, model.LogDefeat, func(l *model.CombatLog) {
				l.Participants = []string{player.ID}
			})
		}
	}
	return nil
}

// stageWinCheck is pipeline stage 11: the game ends the instant
// exactly one player remains un-eliminated.
func (p *Processor) stageWinCheck(game *model.Game) (finished bool, winnerID string, err error) {
	players := p.Store.PlayersFor(game.ID)
	if len(players) < 2 {
		return false, "", nil
	}

	var remaining []*model.Player
	for _, player := range players {
		if player.Active() {
			remaining = append(remaining, player)
		}
	}

	if len(remaining) != 1 {
		return false, "", nil
	}

	winner := remaining[0]
	game.Status = model.StatusFinished
	game.WinnerID = winner.ID

	p.logEvent(game.ID, game.CurrentTurn, model.LogVictory, func(l *model.CombatLog) {
		l.Participants = []string{winner.ID}
		l.WinnerID = winner.ID
	})

	return true, winner.ID, nil
}

// stageAdvance is pipeline stage 12: only reached when the game is
// still running. Resets every active player's submission flag and
// moves the turn counter and deadline forward.
func (p *Processor) stageAdvance(game *model.Game, players []*model.Player, now time.Time) (int, error) {
	for _, player := range players {
		player.SubmittedThisTurn = false
		p.Store.SavePlayer(player)
	}

	game.CurrentTurn++
	game.TurnDeadline = now.Add(game.TurnTimer)

	return game.CurrentTurn, nil
}
