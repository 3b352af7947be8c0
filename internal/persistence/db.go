package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"jello/internal/pet"
)

// SQLStore keeps profiles in SQLite. The unlocked-evolution history lives
// in its own table so it can be queried across profiles.
type SQLStore struct {
	conn *sqlx.DB
}

type profileRow struct {
	ProfileID       string `db:"profile_id"`
	SpeciesID       string `db:"species_id"`
	CreatureJSON    string `db:"creature_json"`
	AbandonmentJSON string `db:"abandonment_json"`
	EntitiesJSON    string `db:"entities_json"`
	Pending         bool   `db:"decision_pending"`
	Resolved        bool   `db:"decision_resolved"`
	SavedAt         string `db:"saved_at"`
}

type evolutionRow struct {
	Stage int    `db:"stage"`
	At    string `db:"at"`
	Path  string `db:"path"`
}

// OpenSQLStore opens or creates a SQLite database at path.
func OpenSQLStore(path string) (*SQLStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.conn.Close()
}

func (s *SQLStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		profile_id TEXT PRIMARY KEY,
		species_id TEXT NOT NULL,
		creature_json TEXT NOT NULL,
		abandonment_json TEXT NOT NULL,
		entities_json TEXT NOT NULL,
		decision_pending INTEGER NOT NULL,
		decision_resolved INTEGER NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS evolutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id TEXT NOT NULL,
		stage INTEGER NOT NULL,
		at TEXT NOT NULL,
		path TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evolutions_profile ON evolutions(profile_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save implements Store (full replace of the profile).
func (s *SQLStore) Save(ctx context.Context, profileID string, st pet.SaveState) error {
	if err := validProfile(profileID); err != nil {
		return err
	}
	creatureJSON, err := json.Marshal(st.Creature)
	if err != nil {
		return fmt.Errorf("encode creature: %w", err)
	}
	abandonJSON, err := json.Marshal(st.Abandonment)
	if err != nil {
		return fmt.Errorf("encode abandonment: %w", err)
	}
	entitiesJSON, err := json.Marshal(st.Entities)
	if err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO profiles
		(profile_id, species_id, creature_json, abandonment_json, entities_json,
		 decision_pending, decision_resolved, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profileID, st.Creature.SpeciesID, string(creatureJSON), string(abandonJSON), string(entitiesJSON),
		st.Gate.Pending, st.Gate.Resolved, st.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM evolutions WHERE profile_id = ?", profileID); err != nil {
		return fmt.Errorf("clear evolutions: %w", err)
	}
	stmt, err := tx.PreparexContext(ctx, "INSERT INTO evolutions (profile_id, stage, at, path) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, rec := range st.Gate.History {
		if _, err := stmt.ExecContext(ctx, profileID, rec.Stage, rec.At.UTC().Format(time.RFC3339Nano), rec.Path); err != nil {
			return fmt.Errorf("save evolution: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("state saved", "profile", profileID, "evolutions", len(st.Gate.History))
	return nil
}

// Load implements Store
func (s *SQLStore) Load(ctx context.Context, profileID string) (pet.SaveState, error) {
	var st pet.SaveState
	if err := validProfile(profileID); err != nil {
		return st, err
	}

	var row profileRow
	err := s.conn.GetContext(ctx, &row, "SELECT * FROM profiles WHERE profile_id = ?", profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return st, ErrNotFound
	}
	if err != nil {
		return st, fmt.Errorf("load profile: %w", err)
	}

	if err := json.Unmarshal([]byte(row.CreatureJSON), &st.Creature); err != nil {
		return st, fmt.Errorf("decode creature: %w", err)
	}
	if err := json.Unmarshal([]byte(row.AbandonmentJSON), &st.Abandonment); err != nil {
		return st, fmt.Errorf("decode abandonment: %w", err)
	}
	if err := json.Unmarshal([]byte(row.EntitiesJSON), &st.Entities); err != nil {
		return st, fmt.Errorf("decode entities: %w", err)
	}
	if st.SavedAt, err = time.Parse(time.RFC3339Nano, row.SavedAt); err != nil {
		return st, fmt.Errorf("decode saved_at: %w", err)
	}
	st.Gate.Pending = row.Pending
	st.Gate.Resolved = row.Resolved

	history, err := s.Evolutions(ctx, profileID)
	if err != nil {
		return st, err
	}
	st.Gate.History = history
	return st, nil
}

// Evolutions returns a profile's unlocked-evolution history, oldest first.
func (s *SQLStore) Evolutions(ctx context.Context, profileID string) ([]pet.EvolutionRecord, error) {
	var rows []evolutionRow
	err := s.conn.SelectContext(ctx, &rows,
		"SELECT stage, at, path FROM evolutions WHERE profile_id = ? ORDER BY id",
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("load evolutions: %w", err)
	}

	var out []pet.EvolutionRecord
	for _, r := range rows {
		at, err := time.Parse(time.RFC3339Nano, r.At)
		if err != nil {
			return nil, fmt.Errorf("decode evolution time: %w", err)
		}
		out = append(out, pet.EvolutionRecord{Stage: r.Stage, At: at, Path: r.Path})
	}
	return out, nil
}
