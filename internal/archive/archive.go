// Package archive keeps finished games in a SQLite database.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lorenzotomasdiez/llm-mafia/internal/mafia"
)

// ErrGameNotFound is returned when no game has the requested ID.
var ErrGameNotFound = errors.New("archive: game not found")

// Store archives games, their players and every log event.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Game is the summary row of an archived game.
type Game struct {
	ID          string
	Winner      string
	Days        int
	Interrupted bool
	Players     int
	CreatedAt   time.Time
}

// Open opens (or creates) the archive at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS games (
			id          TEXT PRIMARY KEY,
			winner      TEXT NOT NULL,
			days        INTEGER NOT NULL,
			interrupted INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS players (
			game_id TEXT NOT NULL REFERENCES games(id),
			name    TEXT NOT NULL,
			role    TEXT NOT NULL,
			alive   INTEGER NOT NULL,
			PRIMARY KEY (game_id, name)
		);
		CREATE TABLE IF NOT EXISTS events (
			game_id TEXT NOT NULL REFERENCES games(id),
			seq     INTEGER NOT NULL,
			day     INTEGER NOT NULL,
			phase   TEXT NOT NULL,
			kind    TEXT NOT NULL,
			public  INTEGER NOT NULL,
			text    TEXT NOT NULL,
			at      TEXT NOT NULL,
			PRIMARY KEY (game_id, seq)
		);
	`)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveGame stores res in a single transaction.
func (s *Store) SaveGame(ctx context.Context, res *mafia.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO games (id, winner, days, interrupted, created_at) VALUES (?, ?, ?, ?, ?)",
		res.ID, res.Winner.String(), res.Day, res.Interrupted, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("archive: insert game %s: %w", res.ID, err)
	}

	for name, role := range res.Roles {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO players (game_id, name, role, alive) VALUES (?, ?, ?, ?)",
			res.ID, name, role, res.Alive[name],
		); err != nil {
			return fmt.Errorf("archive: insert player %s: %w", name, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO events (game_id, seq, day, phase, kind, public, text, at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("archive: prepare events: %w", err)
	}
	defer stmt.Close()
	for _, ev := range res.Events {
		if _, err := stmt.ExecContext(ctx,
			res.ID, ev.Seq, ev.Day, ev.Phase.String(), ev.Kind.String(), ev.Public, ev.Text,
			ev.Time.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("archive: insert event %d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive: commit: %w", err)
	}
	return nil
}

const gameColumns = `g.id, g.winner, g.days, g.interrupted, g.created_at,
	(SELECT COUNT(*) FROM players p WHERE p.game_id = g.id)`

// Get returns the summary of one game.
func (s *Store) Get(ctx context.Context, id string) (*Game, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games g WHERE g.id = ?", id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	return g, err
}

// List returns up to limit games, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+gameColumns+" FROM games g ORDER BY g.created_at DESC, g.id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("archive: list: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// PublicLog returns the public log lines of a game in order.
func (s *Store) PublicLog(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT text FROM events WHERE game_id = ? AND public = 1 ORDER BY seq", id)
	if err != nil {
		return nil, fmt.Errorf("archive: public log: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("archive: scan event: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(sc scanner) (*Game, error) {
	var (
		g       Game
		created string
	)
	if err := sc.Scan(&g.ID, &g.Winner, &g.Days, &g.Interrupted, &created, &g.Players); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("archive: scan game: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("archive: parse created_at: %w", err)
	}
	g.CreatedAt = t
	return &g, nil
}
