package profile

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed player store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	baseMigrations := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			coins TEXT NOT NULL,
			xp INTEGER NOT NULL DEFAULT 0,
			total_matches INTEGER NOT NULL DEFAULT 0,
			total_score INTEGER NOT NULL DEFAULT 0,
			first_place INTEGER NOT NULL DEFAULT 0,
			second_place INTEGER NOT NULL DEFAULT 0,
			third_place INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range baseMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("base migration failed: %w", err)
		}
	}

	// Add new columns if they don't exist
	alterMigrations := []string{
		`ALTER TABLE players ADD COLUMN avatar TEXT DEFAULT ''`,
	}

	for _, migration := range alterMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			if !isDuplicateColumnError(err) {
				return fmt.Errorf("alter migration failed: %w", err)
			}
		}
	}

	return nil
}

// isDuplicateColumnError checks if the error is a duplicate column error
func isDuplicateColumnError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}

// GetPlayer retrieves a player document by id.
func (s *SQLiteStore) GetPlayer(id string) (*PlayerDoc, error) {
	return scanPlayer(s.db.QueryRow(selectPlayer+` WHERE id = ?`, id))
}

const selectPlayer = `SELECT
	id, name, avatar, coins, xp, total_matches, total_score,
	first_place, second_place, third_place, created_at, updated_at
	FROM players`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*PlayerDoc, error) {
	var doc PlayerDoc
	var coins string
	var avatar sql.NullString

	err := row.Scan(
		&doc.ID, &doc.Name, &avatar, &coins, &doc.XP,
		&doc.TotalMatches, &doc.TotalScore,
		&doc.FirstPlace, &doc.SecondPlace, &doc.ThirdPlace,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if avatar.Valid {
		doc.Avatar = avatar.String
	}
	doc.Coins, err = decimal.NewFromString(coins)
	if err != nil {
		return nil, fmt.Errorf("corrupt coin balance for %s: %w", doc.ID, err)
	}

	return &doc, nil
}

// PutPlayer inserts or fully replaces a player document.
func (s *SQLiteStore) PutPlayer(doc *PlayerDoc) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	query := `INSERT INTO players (
		id, name, avatar, coins, xp, total_matches, total_score,
		first_place, second_place, third_place, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name, avatar = excluded.avatar, coins = excluded.coins,
		xp = excluded.xp, total_matches = excluded.total_matches,
		total_score = excluded.total_score, first_place = excluded.first_place,
		second_place = excluded.second_place, third_place = excluded.third_place,
		updated_at = excluded.updated_at`

	_, err := s.db.Exec(query,
		doc.ID, doc.Name, doc.Avatar, doc.Coins.String(), doc.XP,
		doc.TotalMatches, doc.TotalScore,
		doc.FirstPlace, doc.SecondPlace, doc.ThirdPlace,
		doc.CreatedAt, doc.UpdatedAt,
	)

	return err
}

// GetOrCreatePlayer loads the document for id, seeding a fresh one with the
// starting balance when none exists yet.
func (s *SQLiteStore) GetOrCreatePlayer(id, name string) (*PlayerDoc, error) {
	doc, err := s.GetPlayer(id)
	if err == nil {
		return doc, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	doc = &PlayerDoc{
		ID:    id,
		Name:  name,
		Coins: InitialCoins,
	}
	if err := s.PutPlayer(doc); err != nil {
		return nil, fmt.Errorf("failed to create player %s: %w", id, err)
	}
	return doc, nil
}

// ApplyMatchOutcome merges one finished match into the document inside a
// transaction: balance and experience grow by the award, lifetime counters
// bump, and a top-three finish increments its place counter.
func (s *SQLiteStore) ApplyMatchOutcome(id string, outcome MatchOutcome) (*PlayerDoc, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	doc, err := scanPlayer(tx.QueryRow(selectPlayer+` WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	doc.Coins = doc.Coins.Add(outcome.Coins)
	doc.XP += outcome.XP
	doc.TotalMatches++
	doc.TotalScore += outcome.Score
	switch outcome.Rank {
	case 0:
		doc.FirstPlace++
	case 1:
		doc.SecondPlace++
	case 2:
		doc.ThirdPlace++
	}
	doc.UpdatedAt = time.Now().UTC()

	query := `UPDATE players SET
		coins = ?, xp = ?, total_matches = ?, total_score = ?,
		first_place = ?, second_place = ?, third_place = ?, updated_at = ?
		WHERE id = ?`
	if _, err := tx.Exec(query,
		doc.Coins.String(), doc.XP, doc.TotalMatches, doc.TotalScore,
		doc.FirstPlace, doc.SecondPlace, doc.ThirdPlace, doc.UpdatedAt, id,
	); err != nil {
		return nil, fmt.Errorf("failed to update player %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return doc, nil
}
