// Package combat resolves multi-party battles at a single tile:
// fortification first strike, randomized attack-order interleaving,
// per-unit dice damage, and a lazily-built replay log. All randomness
// is taken from an injected *rand.Rand so that tests and offline
// replay can pin a seed (mirrors the teacher's per-fight seeded RNG
// idiom).
package combat

import (
	"fmt"
	"math/rand"

	"warbots/internal/model"
)

// roundSafetyCap bounds a pair-combat to at most this many rounds;
// beyond it the side with more remaining mechs is declared the
// winner (ties favor the defender).
const roundSafetyCap = 20

// Force is one side's mechs in a combat, identified by owner.
type Force struct {
	OwnerID string
	Mechs   []*model.Mech
}

// Input describes a single-tile conflict to resolve.
//
// `Fort` is the defender's fortification, if any (nil for an
// undefended or neutral tile).
//
// `DefenderID` is empty for a neutral tile (open space, no owner).
type Input struct {
	ForcesByOwner map[string][]*model.Mech
	Fort          *model.Building
	DefenderID    string
}

// Record is one entry in the resolver's detailed, round-by-round
// replay log.
type Record struct {
	Kind       string // "round", "attack", "damage", "destroyed"
	Round      int
	RollerID   string // mech id of the attacking unit, or "fortification" for the fortification
	TargetID   string
	Roll       int
	Remaining  int
}

// String renders a Record as a single human-readable log line, the
// form persisted (and lz4-compressed) in a CombatLog payload.
func (r Record) String() string {
	switch r.Kind {
	case "round":
		return fmt.Sprintf("-- round %d --", r.Round)
	case "attack":
		return fmt.Sprintf("%s attacks %s, rolls %d", r.RollerID, r.TargetID, r.Roll)
	case "damage":
		return fmt.Sprintf("%s now at %d hp", r.TargetID, r.Remaining)
	case "destroyed":
		return fmt.Sprintf("%s destroyed", r.TargetID)
	default:
		return r.Kind
	}
}

// Casualties holds the before/after mech counts for one owner across
// a resolution, from which the caller can derive destroyed mechs.
type Casualties struct {
	Initial   int
	Survivors int
}

// Result is the outcome of resolving a single tile.
type Result struct {
	// WinnerID is the side holding the tile after the last pair-combat:
	// the defender ("" for a neutral tile) unless an attacker beat it.
	// It keeps that id even when no mech survives on the tile.
	WinnerID string

	// SurvivingMechs are the mechs (with updated hp) that occupy the
	// tile once resolution completes, keyed by the winner.
	SurvivingMechs []*model.Mech

	// FortSurvived reports whether the defender's fortification (if
	// any) is still standing, and FortHP its remaining hp.
	FortSurvived bool
	FortHP       int

	// Casualties is keyed by owner id.
	Casualties map[string]*Casualties

	// Log is the full ordered replay log across every pair-combat in
	// the multi-party sequence.
	Log []Record
}

// Resolve runs the multi-party algorithm described in §4.4: the
// defender's force is the initial standing side; attackers are
// shuffled and each runs a pair-combat against the current standing
// side in turn; the survivor becomes the new standing side.
func Resolve(in Input, rng *rand.Rand) Result {
	result := Result{
		Casualties: make(map[string]*Casualties),
	}

	attackerIDs := make([]string, 0, len(in.ForcesByOwner))
	for owner := range in.ForcesByOwner {
		if owner == in.DefenderID {
			continue
		}
		attackerIDs = append(attackerIDs, owner)
	}
	rng.Shuffle(len(attackerIDs), func(i, j int) {
		attackerIDs[i], attackerIDs[j] = attackerIDs[j], attackerIDs[i]
	})

	standingID := in.DefenderID
	standing := cloneMechs(in.ForcesByOwner[in.DefenderID])
	fort := in.Fort

	recordCasualty := func(owner string, initial, survivors int) {
		c, ok := result.Casualties[owner]
		if !ok {
			c = &Casualties{}
			result.Casualties[owner] = c
		}
		c.Initial += initial
		c.Survivors += survivors
	}

	for _, attackerID := range attackerIDs {
		attacker := cloneMechs(in.ForcesByOwner[attackerID])

		pr := resolvePair(standingID, standing, fort, attackerID, attacker, rng)
		result.Log = append(result.Log, pr.log...)
		fort = pr.fort

		recordCasualty(standingID, len(standing), len(pr.defenderSurvivors))
		recordCasualty(attackerID, len(attacker), len(pr.attackerSurvivors))

		if len(pr.attackerSurvivors) > 0 && len(pr.defenderSurvivors) == 0 && (fort == nil || fort.HP <= 0) {
			// Attackers swept the standing side; they become the new
			// standing side for the next challenger.
			standingID = attackerID
			standing = pr.attackerSurvivors
		} else {
			standing = pr.defenderSurvivors
		}
	}

	result.WinnerID = standingID
	result.SurvivingMechs = standing
	if fort != nil {
		result.FortSurvived = fort.HP > 0
		result.FortHP = fort.HP
	}

	return result
}

func cloneMechs(mechs []*model.Mech) []*model.Mech {
	out := make([]*model.Mech, len(mechs))
	for i, m := range mechs {
		cp := *m
		out[i] = &cp
	}
	return out
}
