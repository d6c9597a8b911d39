// Package repository provides data access for persisted puzzle games.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MLGBenProple/Deckle/internal/deck"
	"github.com/MLGBenProple/Deckle/internal/storage"
)

// ErrNotFound is returned when no game exists for the requested key.
var ErrNotFound = errors.New("game not found")

// ErrDuplicate is returned when a game already exists for a (date, mode)
// pair. Near-simultaneous generation attempts resolve first-writer-wins
// through the table's UNIQUE constraint.
var ErrDuplicate = errors.New("game already exists for date and mode")

// GameRepository provides access to daily puzzle games.
type GameRepository interface {
	// Exists reports whether a game exists for the date and mode.
	Exists(ctx context.Context, date, mode string) (bool, error)

	// Get retrieves the game for the date and mode.
	// Returns ErrNotFound if absent.
	Get(ctx context.Context, date, mode string) (*storage.Game, error)

	// Create persists a new game. Returns ErrDuplicate when a game for
	// the same (date, mode) was created first.
	Create(ctx context.Context, game *storage.Game) error

	// ListByDate retrieves every game (any mode) for the date.
	ListByDate(ctx context.Context, date string) ([]*storage.Game, error)
}

// gameRepository implements GameRepository using SQLite.
type gameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new game repository.
func NewGameRepository(db *sql.DB) GameRepository {
	return &gameRepository{db: db}
}

const gameColumns = `id, game_date, mode, tournament_id, tournament_name,
	player_name, player_standing, total_participants, decklist, decklist_url, created_at`

// Exists reports whether a game exists for the date and mode.
func (r *gameRepository) Exists(ctx context.Context, date, mode string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM games WHERE game_date = ? AND mode = ?", date, mode).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check game existence: %w", err)
	}
	return count > 0, nil
}

// Get retrieves the game for the date and mode.
func (r *gameRepository) Get(ctx context.Context, date, mode string) (*storage.Game, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE game_date = ? AND mode = ?", date, mode)

	game, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game %s/%s: %w", date, mode, err)
	}
	return game, nil
}

// Create persists a new game.
func (r *gameRepository) Create(ctx context.Context, game *storage.Game) error {
	decklistJSON, err := json.Marshal(game.Decklist)
	if err != nil {
		return fmt.Errorf("failed to marshal decklist: %w", err)
	}

	var decklistURL sql.NullString
	if game.DecklistURL != "" {
		decklistURL = sql.NullString{String: game.DecklistURL, Valid: true}
	}

	createdAt := game.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO games (game_date, mode, tournament_id, tournament_name,
			player_name, player_standing, total_participants, decklist, decklist_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, game.Date, game.Mode, game.TournamentID, game.TournamentName,
		game.PlayerName, game.PlayerStanding, game.TotalParticipants,
		string(decklistJSON), decklistURL, createdAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create game %s/%s: %w", game.Date, game.Mode, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		game.ID = id
	}
	game.CreatedAt = createdAt
	return nil
}

// ListByDate retrieves every game for the date.
func (r *gameRepository) ListByDate(ctx context.Context, date string) ([]*storage.Game, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE game_date = ? ORDER BY mode", date)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for %s: %w", date, err)
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error - cleanup operation
	}()

	var games []*storage.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return games, nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanGame.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanGame reads one game row, decoding the stored decklist JSON.
func scanGame(row rowScanner) (*storage.Game, error) {
	var (
		game         storage.Game
		decklistJSON string
		decklistURL  sql.NullString
		createdAt    string
	)
	err := row.Scan(&game.ID, &game.Date, &game.Mode, &game.TournamentID,
		&game.TournamentName, &game.PlayerName, &game.PlayerStanding,
		&game.TotalParticipants, &decklistJSON, &decklistURL, &createdAt)
	if err != nil {
		return nil, err
	}
	game.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	var decklist deck.Decklist
	if err := json.Unmarshal([]byte(decklistJSON), &decklist); err != nil {
		return nil, fmt.Errorf("decode decklist: %w", err)
	}
	game.Decklist = decklist
	game.DecklistURL = decklistURL.String
	return &game, nil
}

// isUniqueViolation detects the SQLite unique-constraint error without
// depending on driver error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
