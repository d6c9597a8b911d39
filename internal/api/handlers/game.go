package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MLGBenProple/Deckle/internal/api/response"
	"github.com/MLGBenProple/Deckle/internal/guess"
	"github.com/MLGBenProple/Deckle/internal/storage"
	"github.com/MLGBenProple/Deckle/internal/storage/repository"
)

// GameHandler handles daily game API requests.
type GameHandler struct {
	games repository.GameRepository
	now   func() time.Time
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(games repository.GameRepository) *GameHandler {
	return &GameHandler{games: games, now: time.Now}
}

// GetGame returns the game for a specific date and mode.
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	date, mode, err := gameParams(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	h.respondGame(w, r, date, mode)
}

// GetTodayGame returns today's game for a mode, using UTC dates.
func (h *GameHandler) GetTodayGame(w http.ResponseWriter, r *http.Request) {
	mode := chi.URLParam(r, "mode")
	if err := validateMode(mode); err != nil {
		response.BadRequest(w, err)
		return
	}
	h.respondGame(w, r, h.now().UTC().Format(storage.DateFormat), mode)
}

func (h *GameHandler) respondGame(w http.ResponseWriter, r *http.Request, date, mode string) {
	game, err := h.games.Get(r.Context(), date, mode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(w, fmt.Errorf("no %s game for %s", mode, date))
			return
		}
		response.InternalError(w, fmt.Errorf("failed to load game: %w", err))
		return
	}
	response.Success(w, game)
}

// GuessRequest is the body of a commander guess.
type GuessRequest struct {
	Guess string `json:"guess"`
}

// GuessResult reports whether a guess matched one of the game's commanders.
type GuessResult struct {
	Correct          bool   `json:"correct"`
	MatchedCommander string `json:"matchedCommander,omitempty"`
}

// CheckGuess checks a commander guess against the game's answer.
func (h *GameHandler) CheckGuess(w http.ResponseWriter, r *http.Request) {
	date, mode, err := gameParams(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var req GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Guess == "" {
		response.BadRequest(w, errors.New("guess is required"))
		return
	}

	game, err := h.games.Get(r.Context(), date, mode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(w, fmt.Errorf("no %s game for %s", mode, date))
			return
		}
		response.InternalError(w, fmt.Errorf("failed to load game: %w", err))
		return
	}

	matched, ok := guess.MatchAny(req.Guess, game.CommanderNames())
	response.Success(w, GuessResult{Correct: ok, MatchedCommander: matched})
}

func gameParams(r *http.Request) (date, mode string, err error) {
	date = chi.URLParam(r, "date")
	mode = chi.URLParam(r, "mode")

	if _, err := time.Parse(storage.DateFormat, date); err != nil {
		return "", "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	if err := validateMode(mode); err != nil {
		return "", "", err
	}
	return date, mode, nil
}

func validateMode(mode string) error {
	for _, known := range storage.Modes() {
		if mode == known {
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", mode)
}
