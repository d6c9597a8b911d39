package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MLGBenProple/Deckle/internal/deck"
	"github.com/MLGBenProple/Deckle/internal/storage"
	"github.com/MLGBenProple/Deckle/internal/storage/repository"
)

type stubGameRepo struct {
	games map[string]*storage.Game
}

func newStubGameRepo(games ...*storage.Game) *stubGameRepo {
	repo := &stubGameRepo{games: make(map[string]*storage.Game)}
	for _, game := range games {
		repo.games[game.Date+"|"+game.Mode] = game
	}
	return repo
}

func (r *stubGameRepo) Exists(ctx context.Context, date, mode string) (bool, error) {
	_, ok := r.games[date+"|"+mode]
	return ok, nil
}

func (r *stubGameRepo) Get(ctx context.Context, date, mode string) (*storage.Game, error) {
	game, ok := r.games[date+"|"+mode]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return game, nil
}

func (r *stubGameRepo) Create(ctx context.Context, game *storage.Game) error {
	r.games[game.Date+"|"+game.Mode] = game
	return nil
}

func (r *stubGameRepo) ListByDate(ctx context.Context, date string) ([]*storage.Game, error) {
	var out []*storage.Game
	for _, game := range r.games {
		if game.Date == date {
			out = append(out, game)
		}
	}
	return out, nil
}

func sampleGame(date, mode string) *storage.Game {
	return &storage.Game{
		Date:           date,
		Mode:           mode,
		TournamentID:   "t1",
		TournamentName: "Weekly cEDH",
		PlayerName:     "Alice",
		PlayerStanding: 1,
		Decklist: deck.Decklist{
			{Name: deck.SectionCommanders, Cards: []deck.CardEntry{
				{Quantity: 1, Name: "Tymna the Weaver"},
				{Quantity: 1, Name: "Kraum, Ludevic's Opus"},
			}},
			{Name: deck.CategoryArtifacts, Cards: []deck.CardEntry{{Quantity: 1, Name: "Sol Ring"}}},
		},
	}
}

func gameRouter(repo repository.GameRepository, now func() time.Time) *chi.Mux {
	handler := NewGameHandler(repo)
	if now != nil {
		handler.now = now
	}
	router := chi.NewRouter()
	router.Get("/games/today/{mode}", handler.GetTodayGame)
	router.Get("/games/{date}/{mode}", handler.GetGame)
	router.Post("/games/{date}/{mode}/guess", handler.CheckGuess)
	return router
}

func TestGetGame(t *testing.T) {
	router := gameRouter(newStubGameRepo(sampleGame("2026-08-31", storage.ModeNormal)), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/2026-08-31/normal", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data storage.Game `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Alice", body.Data.PlayerName)
	assert.Len(t, body.Data.Decklist, 2)
	assert.Equal(t, deck.SectionCommanders, body.Data.Decklist[0].Name)
}

func TestGetGameNotFound(t *testing.T) {
	router := gameRouter(newStubGameRepo(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/2026-08-31/normal", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetGameRejectsBadParams(t *testing.T) {
	router := gameRouter(newStubGameRepo(), nil)

	tests := []struct {
		name string
		path string
	}{
		{"bad date", "/games/today-ish/normal"},
		{"bad mode", "/games/2026-08-31/nightmare"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetTodayGame(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC) }
	router := gameRouter(newStubGameRepo(sampleGame("2026-08-31", storage.ModeHard)), now)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/today/hard", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckGuess(t *testing.T) {
	router := gameRouter(newStubGameRepo(sampleGame("2026-08-31", storage.ModeNormal)), nil)

	tests := []struct {
		name        string
		guess       string
		wantCorrect bool
		wantMatch   string
	}{
		{"exact", "Tymna the Weaver", true, "Tymna the Weaver"},
		{"case and punctuation", "kraum ludevics opus", true, "Kraum, Ludevic's Opus"},
		{"close misspelling", "Timna the Weaver", true, "Tymna the Weaver"},
		{"wrong commander", "Najeela, the Blade-Blossom", false, ""},
		{"too short a prefix", "tymna", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.NewReader(`{"guess":` + jsonString(tt.guess) + `}`)
			req := httptest.NewRequest(http.MethodPost, "/games/2026-08-31/normal/guess", body)
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Data GuessResult `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantCorrect, resp.Data.Correct)
			assert.Equal(t, tt.wantMatch, resp.Data.MatchedCommander)
		})
	}
}

func jsonString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func TestCheckGuessRequiresBody(t *testing.T) {
	router := gameRouter(newStubGameRepo(sampleGame("2026-08-31", storage.ModeNormal)), nil)

	req := httptest.NewRequest(http.MethodPost, "/games/2026-08-31/normal/guess", strings.NewReader(`{"guess":""}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
