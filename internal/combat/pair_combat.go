package combat

import (
	"math/rand"

	"warbots/internal/model"
)

// pairResult is the internal outcome of one pair-combat: standing
// defender force vs. one attacker force.
type pairResult struct {
	defenderSurvivors []*model.Mech
	attackerSurvivors []*model.Mech
	fort              *model.Building
	log               []Record
}

// combatant is a side's force during a single pair-combat, mutated
// round by round.
type combatant struct {
	ownerID string
	mechs   []*model.Mech
}

func (c *combatant) alive() []*model.Mech {
	out := make([]*model.Mech, 0, len(c.mechs))
	for _, m := range c.mechs {
		if m.Alive() {
			out = append(out, m)
		}
	}
	return out
}

// resolvePair runs the deterministic round structure of §4.4 between
// the current standing side and one attacker, using `fort` as the
// defender's fortification (nil if none, or already destroyed).
func resolvePair(defenderID string, defenderMechs []*model.Mech, fort *model.Building, attackerID string, attackerMechs []*model.Mech, rng *rand.Rand) pairResult {
	defender := &combatant{ownerID: defenderID, mechs: defenderMechs}
	attacker := &combatant{ownerID: attackerID, mechs: attackerMechs}

	var log []Record

	for round := 1; round <= roundSafetyCap; round++ {
		log = append(log, Record{Kind: "round", Round: round})

		// 1. Fortification strikes first, if alive.
		if fort != nil && fort.HP > 0 {
			survivors := attacker.alive()
			if len(survivors) > 0 {
				target := survivors[rng.Intn(len(survivors))]
				roll := rollDice(rng, 2, 6)
				log = append(log, Record{Kind: "attack", Round: round, RollerID: "fortification", TargetID: target.ID, Roll: roll})
				target.HP -= roll
				log = append(log, Record{Kind: "damage", Round: round, TargetID: target.ID, Remaining: target.HP})
				if target.HP <= 0 {
					log = append(log, Record{Kind: "destroyed", Round: round, TargetID: target.ID})
				}
			}
		}

		// 2. All still-alive mechs interleave randomly.
		order := interleave(defender.alive(), attacker.alive(), rng)
		for _, entry := range order {
			if !entry.mech.Alive() {
				continue
			}

			if entry.isAttacker {
				if fort != nil && fort.HP > 0 {
					roll := rollDamage(entry.mech.Type, rng)
					log = append(log, Record{Kind: "attack", Round: round, RollerID: entry.mech.ID, TargetID: "fortification", Roll: roll})
					fort.HP -= roll
					log = append(log, Record{Kind: "damage", Round: round, TargetID: "fortification", Remaining: fort.HP})
					continue
				}

				survivors := defender.alive()
				if len(survivors) == 0 {
					continue
				}
				target := survivors[rng.Intn(len(survivors))]
				strike(&log, round, entry.mech, target, rng)
			} else {
				survivors := attacker.alive()
				if len(survivors) == 0 {
					continue
				}
				target := survivors[rng.Intn(len(survivors))]
				strike(&log, round, entry.mech, target, rng)
			}
		}

		// Cull dead units and a fallen fortification.
		defender.mechs = defender.alive()
		attacker.mechs = attacker.alive()
		if fort != nil && fort.HP <= 0 {
			fort.HP = 0
		}

		attackersWiped := len(attacker.mechs) == 0
		defendersWiped := len(defender.mechs) == 0 && (fort == nil || fort.HP <= 0)

		if attackersWiped {
			break
		}
		if defendersWiped {
			break
		}

		if round == roundSafetyCap {
			// Safety cap reached: the side with more remaining mechs
			// wins; ties favor the defender.
			if len(attacker.mechs) > len(defender.mechs) {
				defender.mechs = nil
			} else {
				attacker.mechs = nil
			}
		}
	}

	return pairResult{
		defenderSurvivors: defender.mechs,
		attackerSurvivors: attacker.mechs,
		fort:              fort,
		log:               log,
	}
}

func strike(log *[]Record, round int, roller, target *model.Mech, rng *rand.Rand) {
	roll := rollDamage(roller.Type, rng)
	*log = append(*log, Record{Kind: "attack", Round: round, RollerID: roller.ID, TargetID: target.ID, Roll: roll})

	target.HP -= roll
	*log = append(*log, Record{Kind: "damage", Round: round, TargetID: target.ID, Remaining: target.HP})

	if target.HP <= 0 {
		*log = append(*log, Record{Kind: "destroyed", Round: round, TargetID: target.ID})
	}
}

// interleaveEntry tags a mech with which side it belongs to, for the
// single merged, randomly ordered action list each round uses.
type interleaveEntry struct {
	mech       *model.Mech
	isAttacker bool
}

// interleave merges both sides' currently-alive mechs into one
// randomly shuffled action order for the round.
func interleave(defenders, attackers []*model.Mech, rng *rand.Rand) []interleaveEntry {
	out := make([]interleaveEntry, 0, len(defenders)+len(attackers))
	for _, m := range defenders {
		out = append(out, interleaveEntry{mech: m, isAttacker: false})
	}
	for _, m := range attackers {
		out = append(out, interleaveEntry{mech: m, isAttacker: true})
	}

	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	return out
}

// rollDamage rolls the dice associated to a mech type's attack.
func rollDamage(t model.MechType, rng *rand.Rand) int {
	switch t {
	case model.Light:
		return rollDice(rng, 1, 4)
	case model.Medium:
		return rollDice(rng, 1, 6)
	case model.Heavy:
		return rollDice(rng, 2, 6)
	case model.Assault:
		return rollDice(rng, 2, 8)
	default:
		return 0
	}
}

// rollDice rolls `count` dice of `sides` sides each and returns the
// summed result.
func rollDice(rng *rand.Rand, count, sides int) int {
	total := 0
	for i := 0; i < count; i++ {
		total += rng.Intn(sides) + 1
	}
	return total
}
