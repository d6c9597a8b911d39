package topdeck

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MLGBenProple/Deckle/internal/httpclient"
)

const (
	// DefaultBaseURL is the public tournament-results API.
	DefaultBaseURL = "https://topdeck.gg/api"

	tournamentsPath = "/v2/tournaments"

	// Search window and filters for candidate tournaments.
	lookbackDays    = 90
	gameFilter      = "Magic: The Gathering"
	formatFilter    = "EDH"
	minParticipants = 20

	// CompetitiveMarker is the substring a tournament name must contain
	// (case-insensitively) to count as a competitive event.
	CompetitiveMarker = "cedh"
)

// Client queries the tournament API.
type Client struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewClient creates a tournament API client on top of the retrying HTTP
// client.
func NewClient(client *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{client: client, logger: logger}
}

// ListCandidateTournaments searches the last 90 days of EDH events with at
// least 20 participants and keeps those whose names carry the competitive
// marker. An empty or non-list upstream payload is a valid "no
// tournaments" state, not an error.
func (c *Client) ListCandidateTournaments(ctx context.Context) ([]TournamentCandidate, error) {
	raw, err := c.client.Post(ctx, tournamentsPath, searchRequest{
		LookbackDays:    lookbackDays,
		GameFilter:      gameFilter,
		FormatFilter:    formatFilter,
		MinParticipants: minParticipants,
	})
	if err != nil {
		return nil, fmt.Errorf("search tournaments: %w", err)
	}

	var all []TournamentCandidate
	if err := json.Unmarshal(raw, &all); err != nil {
		// Upstream occasionally answers with an object instead of a list
		// when there is nothing to report.
		c.logger.Warn("tournament search returned non-list payload", "error", err)
		return []TournamentCandidate{}, nil
	}

	candidates := make([]TournamentCandidate, 0, len(all))
	for _, candidate := range all {
		if IsCompetitiveName(candidate.Name) {
			candidates = append(candidates, candidate)
		}
	}
	return candidates, nil
}

// FetchTournament retrieves the full result for one tournament.
func (c *Client) FetchTournament(ctx context.Context, id string) (*TournamentResult, error) {
	raw, err := c.client.Get(ctx, tournamentsPath+"/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch tournament %s: %w", id, err)
	}

	var result TournamentResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse tournament %s: %w", id, err)
	}
	if result.ID == "" {
		result.ID = id
	}
	return &result, nil
}

// IsCompetitiveName reports whether a tournament name carries the
// competitive-format marker.
func IsCompetitiveName(name string) bool {
	return strings.Contains(strings.ToLower(name), CompetitiveMarker)
}
