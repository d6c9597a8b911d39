package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/MLGBenProple/Deckle/internal/deck"
	"github.com/MLGBenProple/Deckle/internal/httpclient"
)

const (
	// DefaultBaseURL is the public card catalog endpoint.
	DefaultBaseURL = "https://api.scryfall.com"

	collectionPath = "/cards/collection"

	// MaxBatchSize is the upstream limit on identifiers per collection call.
	MaxBatchSize = 75

	// batchDelay paces successive collection calls (10 req/sec upstream
	// etiquette).
	batchDelay = 100 * time.Millisecond
)

// Resolver maps card names to display categories using batched collection
// lookups.
type Resolver struct {
	client  *httpclient.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewResolver creates a Resolver on top of the given retrying client.
func NewResolver(client *httpclient.Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(batchDelay), 1),
		logger:  logger,
	}
}

// ResolveCategories looks up every name and returns a name → category
// mapping. Names the catalog does not know are absent from the result;
// callers default missing names to Other.
func (r *Resolver) ResolveCategories(ctx context.Context, names []string) (map[string]string, error) {
	categories := make(map[string]string, len(names))
	if len(names) == 0 {
		return categories, nil
	}

	for start := 0; start < len(names); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(names) {
			end = len(names)
		}

		resp, err := r.fetchBatch(ctx, names[start:end])
		if err != nil {
			return nil, fmt.Errorf("resolve batch %d-%d: %w", start, end, err)
		}

		for _, card := range resp.Data {
			// Key by the front-face name so lookups line up with parsed
			// entries, which never carry the " // " separator.
			categories[frontFace(card.Name)] = deck.CategoryForTypeLine(card.EffectiveTypeLine())
		}
		for _, missing := range resp.NotFound {
			r.logger.Debug("card not found in catalog", "name", missing.Name)
		}
	}

	return categories, nil
}

// fetchBatch issues one collection POST for up to MaxBatchSize names.
func (r *Resolver) fetchBatch(ctx context.Context, names []string) (*CollectionResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	identifiers := make([]CardIdentifier, len(names))
	for i, name := range names {
		identifiers[i] = CardIdentifier{Name: name}
	}

	raw, err := r.client.Post(ctx, collectionPath, CollectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, err
	}

	var resp CollectionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse collection response: %w", err)
	}
	return &resp, nil
}

// frontFace strips the double-faced separator and everything after it.
func frontFace(name string) string {
	if idx := strings.Index(name, " // "); idx >= 0 {
		return name[:idx]
	}
	return name
}
