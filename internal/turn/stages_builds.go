package turn

import (
	"warbots/internal/data"
	"warbots/internal/model"
	"warbots/internal/validate"
)

// stageBuilds is pipeline stage 6: filter each player's build orders
// against the post-combat board (a mech or building that died earlier
// this turn cannot be spent on), apply the ones that survive
// filtering in submission order, and deduct their cost. Orders
// rejected here are silently dropped — a player who orders something
// no longer possible simply doesn't get it, mirroring `validate.Filter`'s
// AI-facing contract.
func (p *Processor) stageBuilds(game *model.Game, players []*model.Player, ordersByPlayer map[string]model.Orders, w *working) error {
	view := data.GameView{Store: p.Store, GameID: game.ID}

	for _, player := range players {
		orders := ordersByPlayer[player.ID]
		if len(orders.Builds) == 0 {
			continue
		}

		kept, _ := validate.Filter(view, player.ID, player.Credits, model.Orders{Builds: orders.Builds})

		for _, b := range kept.Builds {
			planet, ok := p.Store.PlanetByID(b.PlanetID())
			if !ok {
				continue
			}

			player.Credits -= b.Cost()

			if b.Mech != nil {
				p.buildMech(game, planet, player, b.Mech)
			} else {
				p.buildBuilding(game, planet, b.Building)
			}
		}

		p.Store.SavePlayer(player)
	}

	return nil
}

func (p *Processor) buildMech(game *model.Game, planet *model.Planet, player *model.Player, order *model.BuildMech) {
	existing := make([]string, 0)
	for _, m := range p.Store.MechsFor(game.ID, player.ID) {
		if m.Type == order.MechType {
			existing = append(existing, m.Designation)
		}
	}
	designation := model.NextDesignation(order.MechType, existing)

	mech, err := model.NewMech(p.NewID(), game.ID, player.ID, order.MechType, planet.Coords, designation)
	if err != nil {
		return
	}
	p.Store.SaveMech(mech)

	p.logEvent(game.ID, game.CurrentTurn, model.LogBuildMech, func(l *model.CombatLog) {
		c := planet.Coords
		l.Coords = &c
		l.Participants = []string{player.ID}
	})
}

func (p *Processor) buildBuilding(game *model.Game, planet *model.Planet, order *model.BuildBuilding) {
	building, err := model.NewBuilding(p.NewID(), planet.ID, order.BuildingType)
	if err != nil {
		return
	}
	p.Store.SaveBuilding(building)

	p.logEvent(game.ID, game.CurrentTurn, model.LogBuildBuilding, func(l *model.CombatLog) {
		c := planet.Coords
		l.Coords = &c
		l.Participants = []string{planet.OwnerID}
	})
}
