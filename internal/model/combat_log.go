package model

import "warbots/internal/grid"

// CombatLogType enumerates the kinds of structured record appended
// to a game's combat log. Despite the name, most of these carry no
// combat at all (income, repair, ...); the type predates the
// broader "turn event feed" this has grown into.
type CombatLogType string

// The known log record types.
const (
	LogBattle             CombatLogType = "battle"
	LogCapture            CombatLogType = "capture"
	LogIncome             CombatLogType = "income"
	LogRepair             CombatLogType = "repair"
	LogMaintenance        CombatLogType = "maintenance"
	LogMaintenanceFailure CombatLogType = "maintenance_failure"
	LogBuildMech          CombatLogType = "build_mech"
	LogBuildBuilding      CombatLogType = "build_building"
	LogTurnStart          CombatLogType = "turn_start"
	LogDefeat             CombatLogType = "defeat"
	LogVictory            CombatLogType = "victory"
)

// CombatLog is a single append-only record of something that
// happened during the processing of a turn.
//
// `Payload` carries the type-specific detail (for `battle` records,
// the resolver's round-by-round sequence); it is stored lz4-compressed
// by the persistence layer and only decompressed on replay requests,
// since most records are read far less often than they are written.
//
// `Fingerprint` is only set on the record the Turn Processor writes
// last for a turn (a `turn_start` record carrying the number of the
// turn just processed, written before the turn counter advances): a
// blake3 digest over the turn's seed, accepted orders and
// combat round log, letting an operator verify offline that a replay
// reproduces the original resolution.
type CombatLog struct {
	ID          string
	GameID      string
	Turn        int
	Type        CombatLogType
	Coords      *grid.Coord
	Participants []string
	WinnerID    string
	Casualties  map[string]int
	Payload     []byte
	Fingerprint string
}

// NewCombatLog returns a minimal log record; callers set the
// type-specific fields (`Coords`, `Participants`, `WinnerID`,
// `Casualties`, `Payload`) afterward.
func NewCombatLog(id, gameID string, turn int, t CombatLogType) *CombatLog {
	return &CombatLog{
		ID:     id,
		GameID: gameID,
		Turn:   turn,
		Type:   t,
	}
}
