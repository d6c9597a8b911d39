package scryfall

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/MLGBenProple/Deckle/internal/deck"
	"github.com/MLGBenProple/Deckle/internal/httpclient"
)

func newTestResolver(baseURL string) *Resolver {
	client := httpclient.New(httpclient.Config{
		BaseURL:     baseURL,
		MaxAttempts: 1,
		Backoff:     httpclient.NoBackoff,
	})
	return NewResolver(client, slog.New(slog.DiscardHandler))
}

func TestResolver_ResolveCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/collection" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var req CollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		resp := CollectionResponse{
			Object: "list",
			Data: []Card{
				{Name: "Sol Ring", TypeLine: "Artifact"},
				{Name: "Arid Mesa", TypeLine: "Land"},
				{Name: "Karn, Scion of Urza", TypeLine: "Legendary Planeswalker — Karn"},
			},
			NotFound: []CardIdentifier{{Name: "Nonexistent Card"}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL)
	got, err := resolver.ResolveCategories(context.Background(),
		[]string{"Sol Ring", "Arid Mesa", "Karn, Scion of Urza", "Nonexistent Card"})
	if err != nil {
		t.Fatalf("ResolveCategories failed: %v", err)
	}

	if got["Sol Ring"] != deck.CategoryArtifacts {
		t.Errorf("Sol Ring = %q, want Artifacts", got["Sol Ring"])
	}
	if got["Arid Mesa"] != deck.CategoryLands {
		t.Errorf("Arid Mesa = %q, want Lands", got["Arid Mesa"])
	}
	if got["Karn, Scion of Urza"] != deck.CategoryPlaneswalkers {
		t.Errorf("Karn = %q, want Planeswalkers", got["Karn, Scion of Urza"])
	}
	if _, ok := got["Nonexistent Card"]; ok {
		t.Error("Unknown names must be absent from the result")
	}
}

func TestResolver_MultiFacedCardUsesFirstFace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := CollectionResponse{
			Object: "list",
			Data: []Card{
				{
					Name: "Fable of the Mirror-Breaker // Reflection of Kiki-Jiki",
					CardFaces: []CardFace{
						{Name: "Fable of the Mirror-Breaker", TypeLine: "Enchantment — Saga"},
						{Name: "Reflection of Kiki-Jiki", TypeLine: "Enchantment Creature — Goblin Shaman"},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL)
	got, err := resolver.ResolveCategories(context.Background(), []string{"Fable of the Mirror-Breaker"})
	if err != nil {
		t.Fatalf("ResolveCategories failed: %v", err)
	}

	// Front-face key, first-face type line.
	if got["Fable of the Mirror-Breaker"] != deck.CategoryEnchantments {
		t.Errorf("Expected Enchantments from the first face, got %q", got["Fable of the Mirror-Breaker"])
	}
}

func TestResolver_BatchesOf75(t *testing.T) {
	var calls atomic.Int32
	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req CollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		batchSizes = append(batchSizes, len(req.Identifiers))
		_ = json.NewEncoder(w).Encode(CollectionResponse{Object: "list"})
	}))
	defer server.Close()

	names := make([]string, 100)
	for i := range names {
		names[i] = "Card " + string(rune('A'+i%26)) + string(rune('0'+i/26))
	}

	resolver := newTestResolver(server.URL)
	if _, err := resolver.ResolveCategories(context.Background(), names); err != nil {
		t.Fatalf("ResolveCategories failed: %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("Expected 2 batch calls for 100 names, got %d", got)
	}
	if batchSizes[0] != 75 || batchSizes[1] != 25 {
		t.Errorf("Expected batch sizes [75 25], got %v", batchSizes)
	}
}

func TestResolver_EmptyInput(t *testing.T) {
	resolver := newTestResolver("http://unused.invalid")
	got, err := resolver.ResolveCategories(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty mapping, got %v", got)
	}
}
