// Package archive keeps a SQLite record of every game and its public events.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kiliankoe/gptmafia/internal/game"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

var ErrGameNotFound = errors.New("game not found")

const writeTimeout = 5 * time.Second

// Store persists games in SQLite. It implements game.Observer; write
// failures are logged and never stop a game.
type Store struct {
	sqlDB *sql.DB
	log   zerolog.Logger
}

type GameRecord struct {
	ID        string
	Phase     game.Phase
	Day       int
	Winner    game.Winner
	Players   []game.PlayerView
	CreatedAt time.Time
	UpdatedAt time.Time
}

func Open(path string, log zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, log: log}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) OnEvent(ev game.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.AppendEvent(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("game", ev.GameID).Int("seq", ev.Seq).Msg("archive event failed")
	}
}

func (s *Store) OnSnapshot(snap game.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		s.log.Error().Err(err).Str("game", snap.GameID).Msg("archive snapshot failed")
	}
}

func (s *Store) AppendEvent(ctx context.Context, ev game.Event) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO events (game_id, seq, day, phase, kind, text, at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.GameID, ev.Seq, ev.Day, string(ev.Phase), string(ev.Kind), ev.Text, ev.At.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snap game.Snapshot) error {
	players, err := json.Marshal(snap.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	now := time.Now().UTC().UnixMilli()
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO games (id, phase, day, winner, players_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   phase = excluded.phase,
		   day = excluded.day,
		   winner = excluded.winner,
		   players_json = excluded.players_json,
		   updated_at = excluded.updated_at`,
		snap.GameID, string(snap.Phase), snap.Day, string(snap.Winner), string(players), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}
	return nil
}

func (s *Store) Game(ctx context.Context, id string) (GameRecord, error) {
	var (
		rec                  GameRecord
		phase, winner, plays string
		created, updated     int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, phase, day, winner, players_json, created_at, updated_at FROM games WHERE id = ?`, id,
	).Scan(&rec.ID, &phase, &rec.Day, &winner, &plays, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, ErrGameNotFound
	}
	if err != nil {
		return GameRecord{}, fmt.Errorf("query game: %w", err)
	}
	if err := json.Unmarshal([]byte(plays), &rec.Players); err != nil {
		return GameRecord{}, fmt.Errorf("decode players: %w", err)
	}
	rec.Phase = game.Phase(phase)
	rec.Winner = game.Winner(winner)
	rec.CreatedAt = time.UnixMilli(created).UTC()
	rec.UpdatedAt = time.UnixMilli(updated).UTC()
	return rec, nil
}

// Events returns a game's events in sequence order.
func (s *Store) Events(ctx context.Context, gameID string) ([]game.Event, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, day, phase, kind, text, at FROM events WHERE game_id = ? ORDER BY seq`, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []game.Event
	for rows.Next() {
		var (
			ev          game.Event
			phase, kind string
			at          int64
		)
		if err := rows.Scan(&ev.Seq, &ev.Day, &phase, &kind, &ev.Text, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.GameID = gameID
		ev.Phase = game.Phase(phase)
		ev.Kind = game.EventKind(kind)
		ev.At = time.UnixMilli(at).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}
