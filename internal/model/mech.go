package model

import (
	"fmt"
	"strconv"
	"strings"

	"warbots/internal/grid"
)

// Mech is a mobile unit belonging to exactly one player for its
// entire lifetime; capturing the planet it stands on never transfers
// it.
//
// `Designation` is the human-readable identifier "Type-NNNN" (N≥4
// digits, zero-padded), monotonic per (owner, type): see
// `NextDesignation`.
type Mech struct {
	ID          string
	GameID      string
	OwnerID     string
	Type        MechType
	HP          int
	MaxHP       int
	Coords      grid.Coord
	Designation string
}

// NewMech validates the mech type and returns a fresh, full-hp mech
// with the given designation.
func NewMech(id, gameID, ownerID string, t MechType, coords grid.Coord, designation string) (*Mech, error) {
	if !ValidMechType(t) {
		return nil, ErrInvalidMechType
	}

	maxHP := MechMaxHP(t)

	return &Mech{
		ID:          id,
		GameID:      gameID,
		OwnerID:     ownerID,
		Type:        t,
		HP:          maxHP,
		MaxHP:       maxHP,
		Coords:      coords,
		Designation: designation,
	}, nil
}

// Alive reports whether the mech still has positive hp.
func (m *Mech) Alive() bool {
	return m.HP > 0
}

// designationPrefix maps a mech type to the capitalized prefix used
// in its designation, e.g. Light -> "Light".
func designationPrefix(t MechType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// NextDesignation computes the designation to assign to a freshly
// built mech of type `t`, given the designations already in use by
// the same owner for that type. It looks at the maximum existing
// serial and returns the next one, left-padded to at least 4 digits,
// e.g. "Light-0001", "Light-0002", ... "Light-10000".
func NextDesignation(t MechType, existing []string) string {
	prefix := designationPrefix(t) + "-"

	maxSerial := 0
	for _, d := range existing {
		if !strings.HasPrefix(d, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(d, prefix))
		if err != nil {
			continue
		}
		if n > maxSerial {
			maxSerial = n
		}
	}

	serial := maxSerial + 1
	return fmt.Sprintf("%s%04d", prefix, serial)
}
