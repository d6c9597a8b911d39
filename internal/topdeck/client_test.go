package topdeck

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MLGBenProple/Deckle/internal/httpclient"
)

func newTestGateway(baseURL string) *Client {
	return NewClient(httpclient.New(httpclient.Config{
		BaseURL:     baseURL,
		AuthHeader:  "Authorization",
		AuthValue:   "test-key",
		MaxAttempts: 1,
		Backoff:     httpclient.NoBackoff,
	}), slog.New(slog.DiscardHandler))
}

func TestClient_ListCandidateTournaments_FiltersByMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode search request: %v", err)
		}
		if req.LookbackDays != 90 || req.MinParticipants != 20 {
			t.Errorf("Unexpected search filters: %+v", req)
		}
		candidates := []TournamentCandidate{
			{ID: "t1", Name: "Weekly cEDH Showdown"},
			{ID: "t2", Name: "Casual Commander Night"},
			{ID: "t3", Name: "CEDH Open #42"},
		}
		_ = json.NewEncoder(w).Encode(candidates)
	}))
	defer server.Close()

	gateway := newTestGateway(server.URL)
	got, err := gateway.ListCandidateTournaments(context.Background())
	if err != nil {
		t.Fatalf("ListCandidateTournaments failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 competitive tournaments, got %d: %+v", len(got), got)
	}
	if got[0].ID != "t1" || got[1].ID != "t3" {
		t.Errorf("Unexpected filtering result: %+v", got)
	}
}

func TestClient_ListCandidateTournaments_NonListPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"nothing found"}`))
	}))
	defer server.Close()

	gateway := newTestGateway(server.URL)
	got, err := gateway.ListCandidateTournaments(context.Background())
	if err != nil {
		t.Fatalf("Non-list payload should not be an error, got: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty candidate list, got %+v", got)
	}
}

func TestClient_ListCandidateTournaments_EmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	gateway := newTestGateway(server.URL)
	got, err := gateway.ListCandidateTournaments(context.Background())
	if err != nil {
		t.Fatalf("Empty list should not be an error, got: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no candidates, got %+v", got)
	}
}

func TestClient_FetchTournament(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/tournaments/t1" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		result := TournamentResult{
			Name: "Weekly cEDH Showdown",
			Standings: []PlayerStanding{
				{Name: "Alice", Standing: 1, Decklist: "~~Commanders~~\n1 Tymna the Weaver"},
				{Name: "Bob", Standing: 2, Decklist: "https://example.com/deck/7",
					DeckMeta: &DeckMeta{ImportedFrom: "https://example.com/deck/7"}},
			},
		}
		_ = json.NewEncoder(w).Encode(result)
	}))
	defer server.Close()

	gateway := newTestGateway(server.URL)
	got, err := gateway.FetchTournament(context.Background(), "t1")
	if err != nil {
		t.Fatalf("FetchTournament failed: %v", err)
	}

	if got.ID != "t1" {
		t.Errorf("Expected ID backfilled to 't1', got '%s'", got.ID)
	}
	if len(got.Standings) != 2 {
		t.Fatalf("Expected 2 standings, got %d", len(got.Standings))
	}
	if got.Standings[1].DeckMeta == nil || got.Standings[1].DeckMeta.ImportedFrom == "" {
		t.Error("Expected deck meta with import URL for Bob")
	}
}

func TestIsCompetitiveName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Weekly cEDH Showdown", true},
		{"CEDH Open #42", true},
		{"Casual Commander Night", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsCompetitiveName(tt.name); got != tt.want {
			t.Errorf("IsCompetitiveName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
