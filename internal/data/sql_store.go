package data

import (
	"encoding/json"
	"fmt"
	"time"

	"warbots/internal/grid"
	"warbots/internal/model"
	"warbots/pkg/compress"
	"warbots/pkg/db"
)

// SQLStore is a `Store` implementation driven through `pkg/db.Conn`,
// demonstrating the real persistence path promised by Design Notes
// §9: narrow per-entity queries, with the Turn Processor, Combat
// Resolver and AI strategies never seeing a query string. It is
// written and exercised against the `modernc.org/sqlite` backend
// (see `pkg/db.SqlitePool`); a Postgres deployment uses the same
// schema through `pkg/db.DB`, which also satisfies `Conn`.
type SQLStore struct {
	conn db.Conn
}

// NewSQLStore wraps an already-open connection. Call Migrate once
// before first use.
func NewSQLStore(conn db.Conn) *SQLStore {
	return &SQLStore{conn: conn}
}

// Migrate creates the schema if it does not already exist.
func (s *SQLStore) Migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY, name TEXT, grid_size INTEGER, max_players INTEGER,
			turn_timer_seconds INTEGER, status TEXT, current_turn INTEGER,
			turn_deadline TEXT, winner_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY, game_id TEXT, number INTEGER, is_ai INTEGER,
			ai_strategy TEXT, empire_name TEXT, empire_color TEXT, credits INTEGER,
			eliminated INTEGER, submitted INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS planets (
			id TEXT PRIMARY KEY, game_id TEXT, x INTEGER, y INTEGER, base_income INTEGER,
			owner_id TEXT, homeworld INTEGER, original_owner_id TEXT, name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS buildings (
			id TEXT PRIMARY KEY, planet_id TEXT, type TEXT, hp INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS mechs (
			id TEXT PRIMARY KEY, game_id TEXT, owner_id TEXT, type TEXT, hp INTEGER,
			max_hp INTEGER, x INTEGER, y INTEGER, designation TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			game_id TEXT, player_id TEXT, turn INTEGER, orders_json TEXT, ts TEXT,
			PRIMARY KEY (game_id, player_id, turn)
		)`,
		`CREATE TABLE IF NOT EXISTS drafts (
			game_id TEXT, player_id TEXT, orders_json TEXT,
			PRIMARY KEY (game_id, player_id)
		)`,
		`CREATE TABLE IF NOT EXISTS combat_logs (
			id TEXT PRIMARY KEY, game_id TEXT, turn INTEGER, type TEXT,
			has_coords INTEGER, x INTEGER, y INTEGER, participants_json TEXT,
			winner_id TEXT, casualties_json TEXT, payload BLOB, fingerprint TEXT
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.conn.DBExecute(stmt); err != nil {
			return fmt.Errorf("migration failed (stmt: %s, err: %v)", stmt, err)
		}
	}

	return nil
}

func (s *SQLStore) GameByID(id string) (*model.Game, bool) {
	rows, err := s.conn.DBQuery(`SELECT id, name, grid_size, max_players, turn_timer_seconds, status, current_turn, turn_deadline, winner_id FROM games WHERE id = ?`, id)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false
	}

	var g model.Game
	var timerSeconds int64
	var deadline string
	if err := rows.Scan(&g.ID, &g.Name, &g.GridSize, &g.MaxPlayers, &timerSeconds, &g.Status, &g.CurrentTurn, &deadline, &g.WinnerID); err != nil {
		return nil, false
	}
	g.TurnTimer = time.Duration(timerSeconds) * time.Second
	if deadline != "" {
		g.TurnDeadline, _ = time.Parse(time.RFC3339, deadline)
	}

	return &g, true
}

func (s *SQLStore) SaveGame(g *model.Game) error {
	_, err := s.conn.DBExecute(
		`INSERT INTO games (id, name, grid_size, max_players, turn_timer_seconds, status, current_turn, turn_deadline, winner_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, grid_size=excluded.grid_size,
		   max_players=excluded.max_players, turn_timer_seconds=excluded.turn_timer_seconds,
		   status=excluded.status, current_turn=excluded.current_turn,
		   turn_deadline=excluded.turn_deadline, winner_id=excluded.winner_id`,
		g.ID, g.Name, g.GridSize, g.MaxPlayers, int64(g.TurnTimer/time.Second), g.Status,
		g.CurrentTurn, g.TurnDeadline.Format(time.RFC3339), g.WinnerID,
	)
	return err
}

func (s *SQLStore) DeleteGame(id string) error {
	// Cascades by hand: the engine owns referential integrity rather
	// than relying on the driver supporting foreign keys with
	// cascade, since the sqlite backend only enables FK enforcement
	// opt-in per connection.
	planets := s.PlanetsFor(id)
	for _, p := range planets {
		s.DeleteBuildingsOn(p.ID)
		s.conn.DBExecute(`DELETE FROM planets WHERE id = ?`, p.ID)
	}
	s.conn.DBExecute(`DELETE FROM players WHERE game_id = ?`, id)
	s.conn.DBExecute(`DELETE FROM mechs WHERE game_id = ?`, id)
	s.conn.DBExecute(`DELETE FROM submissions WHERE game_id = ?`, id)
	s.conn.DBExecute(`DELETE FROM drafts WHERE game_id = ?`, id)
	s.conn.DBExecute(`DELETE FROM combat_logs WHERE game_id = ?`, id)
	_, err := s.conn.DBExecute(`DELETE FROM games WHERE id = ?`, id)
	return err
}

func (s *SQLStore) AllGames() []*model.Game {
	rows, err := s.conn.DBQuery(`SELECT id FROM games`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []*model.Game
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		if g, ok := s.GameByID(id); ok {
			out = append(out, g)
		}
	}
	return out
}

func (s *SQLStore) PlayersFor(gameID string) []*model.Player {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, number, is_ai, ai_strategy, empire_name, empire_color, credits, eliminated, submitted FROM players WHERE game_id = ?`, gameID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []*model.Player
	for rows.Next() {
		var p model.Player
		var isAI, eliminated, submitted int
		if err := rows.Scan(&p.ID, &p.GameID, &p.Number, &isAI, &p.AIStrategy, &p.EmpireName, &p.EmpireColor, &p.Credits, &eliminated, &submitted); err != nil {
			continue
		}
		p.IsAI = isAI != 0
		p.Eliminated = eliminated != 0
		p.SubmittedThisTurn = submitted != 0
		out = append(out, &p)
	}
	return out
}

func (s *SQLStore) PlayerByID(id string) (*model.Player, bool) {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, number, is_ai, ai_strategy, empire_name, empire_color, credits, eliminated, submitted FROM players WHERE id = ?`, id)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false
	}

	var p model.Player
	var isAI, eliminated, submitted int
	if err := rows.Scan(&p.ID, &p.GameID, &p.Number, &isAI, &p.AIStrategy, &p.EmpireName, &p.EmpireColor, &p.Credits, &eliminated, &submitted); err != nil {
		return nil, false
	}
	p.IsAI = isAI != 0
	p.Eliminated = eliminated != 0
	p.SubmittedThisTurn = submitted != 0

	return &p, true
}

func (s *SQLStore) SavePlayer(p *model.Player) error {
	isAI, eliminated, submitted := 0, 0, 0
	if p.IsAI {
		isAI = 1
	}
	if p.Eliminated {
		eliminated = 1
	}
	if p.SubmittedThisTurn {
		submitted = 1
	}

	_, err := s.conn.DBExecute(
		`INSERT INTO players (id, game_id, number, is_ai, ai_strategy, empire_name, empire_color, credits, eliminated, submitted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET credits=excluded.credits, eliminated=excluded.eliminated,
		   submitted=excluded.submitted, empire_name=excluded.empire_name, empire_color=excluded.empire_color`,
		p.ID, p.GameID, p.Number, isAI, p.AIStrategy, p.EmpireName, p.EmpireColor, p.Credits, eliminated, submitted,
	)
	return err
}

func (s *SQLStore) PlanetsFor(gameID string) []*model.Planet {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, x, y, base_income, owner_id, homeworld, original_owner_id, name FROM planets WHERE game_id = ?`, gameID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []*model.Planet
	for rows.Next() {
		if p, ok := scanPlanet(rows); ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *SQLStore) PlanetByID(id string) (*model.Planet, bool) {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, x, y, base_income, owner_id, homeworld, original_owner_id, name FROM planets WHERE id = ?`, id)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false
	}
	return scanPlanet(rows)
}

func (s *SQLStore) PlanetAt(gameID string, coords grid.Coord) (*model.Planet, bool) {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, x, y, base_income, owner_id, homeworld, original_owner_id, name FROM planets WHERE game_id = ? AND x = ? AND y = ?`, gameID, coords.X, coords.Y)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false
	}
	return scanPlanet(rows)
}

func scanPlanet(rows db.Rows) (*model.Planet, bool) {
	var p model.Planet
	var homeworld int
	if err := rows.Scan(&p.ID, &p.GameID, &p.Coords.X, &p.Coords.Y, &p.BaseIncome, &p.OwnerID, &homeworld, &p.OriginalOwnerID, &p.Name); err != nil {
		return nil, false
	}
	p.Homeworld = homeworld != 0
	return &p, true
}

func (s *SQLStore) SavePlanet(p *model.Planet) error {
	homeworld := 0
	if p.Homeworld {
		homeworld = 1
	}

	_, err := s.conn.DBExecute(
		`INSERT INTO planets (id, game_id, x, y, base_income, owner_id, homeworld, original_owner_id, name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET owner_id=excluded.owner_id, base_income=excluded.base_income, name=excluded.name`,
		p.ID, p.GameID, p.Coords.X, p.Coords.Y, p.BaseIncome, p.OwnerID, homeworld, p.OriginalOwnerID, p.Name,
	)
	return err
}

func (s *SQLStore) BuildingsOn(planetID string) []*model.Building {
	rows, err := s.conn.DBQuery(`SELECT id, planet_id, type, hp FROM buildings WHERE planet_id = ?`, planetID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []*model.Building
	for rows.Next() {
		var b model.Building
		if err := rows.Scan(&b.ID, &b.PlanetID, &b.Type, &b.HP); err != nil {
			continue
		}
		out = append(out, &b)
	}
	return out
}

func (s *SQLStore) SaveBuilding(b *model.Building) error {
	_, err := s.conn.DBExecute(
		`INSERT INTO buildings (id, planet_id, type, hp) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET hp=excluded.hp`,
		b.ID, b.PlanetID, b.Type, b.HP,
	)
	return err
}

func (s *SQLStore) DeleteBuilding(id string) error {
	_, err := s.conn.DBExecute(`DELETE FROM buildings WHERE id = ?`, id)
	return err
}

func (s *SQLStore) DeleteBuildingsOn(planetID string) error {
	_, err := s.conn.DBExecute(`DELETE FROM buildings WHERE planet_id = ?`, planetID)
	return err
}

func (s *SQLStore) MechsFor(gameID, ownerID string) []*model.Mech {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, owner_id, type, hp, max_hp, x, y, designation FROM mechs WHERE game_id = ? AND owner_id = ?`, gameID, ownerID)
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanMechs(rows)
}

func (s *SQLStore) MechByID(id string) (*model.Mech, bool) {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, owner_id, type, hp, max_hp, x, y, designation FROM mechs WHERE id = ?`, id)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	mechs := scanMechs(rows)
	if len(mechs) == 0 {
		return nil, false
	}
	return mechs[0], true
}

func (s *SQLStore) MechsAt(gameID string, coords grid.Coord) []*model.Mech {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, owner_id, type, hp, max_hp, x, y, designation FROM mechs WHERE game_id = ? AND x = ? AND y = ?`, gameID, coords.X, coords.Y)
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanMechs(rows)
}

func (s *SQLStore) MechsForGame(gameID string) []*model.Mech {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, owner_id, type, hp, max_hp, x, y, designation FROM mechs WHERE game_id = ?`, gameID)
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanMechs(rows)
}

func scanMechs(rows db.Rows) []*model.Mech {
	var out []*model.Mech
	for rows.Next() {
		var m model.Mech
		if err := rows.Scan(&m.ID, &m.GameID, &m.OwnerID, &m.Type, &m.HP, &m.MaxHP, &m.Coords.X, &m.Coords.Y, &m.Designation); err != nil {
			continue
		}
		out = append(out, &m)
	}
	return out
}

func (s *SQLStore) SaveMech(m *model.Mech) error {
	_, err := s.conn.DBExecute(
		`INSERT INTO mechs (id, game_id, owner_id, type, hp, max_hp, x, y, designation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET hp=excluded.hp, x=excluded.x, y=excluded.y`,
		m.ID, m.GameID, m.OwnerID, m.Type, m.HP, m.MaxHP, m.Coords.X, m.Coords.Y, m.Designation,
	)
	return err
}

func (s *SQLStore) DeleteMech(id string) error {
	_, err := s.conn.DBExecute(`DELETE FROM mechs WHERE id = ?`, id)
	return err
}

func (s *SQLStore) UpdateMechCoords(mechID string, coords grid.Coord) error {
	_, err := s.conn.DBExecute(`UPDATE mechs SET x = ?, y = ? WHERE id = ?`, coords.X, coords.Y, mechID)
	return err
}

func (s *SQLStore) SubmissionFor(gameID, playerID string, turn int) (*model.TurnSubmission, bool) {
	rows, err := s.conn.DBQuery(`SELECT game_id, player_id, turn, orders_json, ts FROM submissions WHERE game_id = ? AND player_id = ? AND turn = ?`, gameID, playerID, turn)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false
	}

	var sub model.TurnSubmission
	var ordersJSON, ts string
	if err := rows.Scan(&sub.GameID, &sub.PlayerID, &sub.Turn, &ordersJSON, &ts); err != nil {
		return nil, false
	}
	json.Unmarshal([]byte(ordersJSON), &sub.Orders)
	sub.Timestamp, _ = time.Parse(time.RFC3339, ts)

	return &sub, true
}

func (s *SQLStore) SaveSubmission(sub *model.TurnSubmission) error {
	payload, err := json.Marshal(sub.Orders)
	if err != nil {
		return err
	}

	_, err = s.conn.DBExecute(
		`INSERT INTO submissions (game_id, player_id, turn, orders_json, ts) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(game_id, player_id, turn) DO UPDATE SET orders_json=excluded.orders_json, ts=excluded.ts`,
		sub.GameID, sub.PlayerID, sub.Turn, string(payload), sub.Timestamp.Format(time.RFC3339),
	)
	return err
}

func (s *SQLStore) PendingDraftFor(gameID, playerID string) (model.Orders, bool) {
	rows, err := s.conn.DBQuery(`SELECT orders_json FROM drafts WHERE game_id = ? AND player_id = ?`, gameID, playerID)
	if err != nil {
		return model.Orders{}, false
	}
	defer rows.Close()

	if !rows.Next() {
		return model.Orders{}, false
	}

	var ordersJSON string
	if err := rows.Scan(&ordersJSON); err != nil {
		return model.Orders{}, false
	}

	var orders model.Orders
	if err := json.Unmarshal([]byte(ordersJSON), &orders); err != nil {
		return model.Orders{}, false
	}

	return orders, true
}

func (s *SQLStore) SavePendingDraft(gameID, playerID string, orders model.Orders) error {
	payload, err := json.Marshal(orders)
	if err != nil {
		return err
	}

	_, err = s.conn.DBExecute(
		`INSERT INTO drafts (game_id, player_id, orders_json) VALUES (?, ?, ?)
		 ON CONFLICT(game_id, player_id) DO UPDATE SET orders_json=excluded.orders_json`,
		gameID, playerID, string(payload),
	)
	return err
}

func (s *SQLStore) ClearPendingDraft(gameID, playerID string) error {
	_, err := s.conn.DBExecute(`DELETE FROM drafts WHERE game_id = ? AND player_id = ?`, gameID, playerID)
	return err
}

func (s *SQLStore) AppendCombatLog(l *model.CombatLog) error {
	participants, err := json.Marshal(l.Participants)
	if err != nil {
		return err
	}
	casualties, err := json.Marshal(l.Casualties)
	if err != nil {
		return err
	}

	compressed, err := compress.Compress(l.Payload)
	if err != nil {
		return err
	}

	hasCoords, x, y := 0, 0, 0
	if l.Coords != nil {
		hasCoords, x, y = 1, l.Coords.X, l.Coords.Y
	}

	_, err = s.conn.DBExecute(
		`INSERT INTO combat_logs (id, game_id, turn, type, has_coords, x, y, participants_json, winner_id, casualties_json, payload, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.GameID, l.Turn, l.Type, hasCoords, x, y, string(participants), l.WinnerID, string(casualties), compressed, l.Fingerprint,
	)
	return err
}

func (s *SQLStore) CombatLogsFor(gameID string, turn int) []*model.CombatLog {
	rows, err := s.conn.DBQuery(`SELECT id, game_id, turn, type, has_coords, x, y, participants_json, winner_id, casualties_json, payload, fingerprint FROM combat_logs WHERE game_id = ? AND turn = ?`, gameID, turn)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []*model.CombatLog
	for rows.Next() {
		var l model.CombatLog
		var hasCoords, x, y int
		var participants, casualties string
		var payload []byte

		if err := rows.Scan(&l.ID, &l.GameID, &l.Turn, &l.Type, &hasCoords, &x, &y, &participants, &l.WinnerID, &casualties, &payload, &l.Fingerprint); err != nil {
			continue
		}

		if hasCoords != 0 {
			c := grid.New(x, y)
			l.Coords = &c
		}
		json.Unmarshal([]byte(participants), &l.Participants)
		json.Unmarshal([]byte(casualties), &l.Casualties)

		if decompressed, derr := compress.Decompress(payload); derr == nil {
			l.Payload = decompressed
		}

		out = append(out, &l)
	}
	return out
}
