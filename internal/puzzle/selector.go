// Package puzzle builds daily commander-guessing games: selecting a random
// tournament decklist, categorizing it, and persisting one game per
// (date, mode).
package puzzle

import (
	"context"
	"log/slog"
	"math/rand"
	"net/url"
	"sort"
	"strings"

	"github.com/MLGBenProple/Deckle/internal/deck"
	"github.com/MLGBenProple/Deckle/internal/topdeck"
)

// maxFetchAttempts bounds how many candidate tournaments one selection
// will fetch before giving up.
const maxFetchAttempts = 5

// Gateway is the tournament API surface the selector depends on.
type Gateway interface {
	ListCandidateTournaments(ctx context.Context) ([]topdeck.TournamentCandidate, error)
	FetchTournament(ctx context.Context, id string) (*topdeck.TournamentResult, error)
}

// Outcome tags a selection result so callers must handle every case.
type Outcome int

const (
	// OutcomeSelected means a player and decklist were chosen.
	OutcomeSelected Outcome = iota

	// OutcomeNoCandidates means the upstream listed no competitive
	// tournaments at all. A normal operating condition, not a fault.
	OutcomeNoCandidates

	// OutcomeExhausted means every attempted tournament was unusable
	// (fetch errors, no eligible players, or only excluded commanders).
	OutcomeExhausted
)

// Selection is the tagged result of one selection run.
type Selection struct {
	Outcome Outcome

	TournamentID      string
	TournamentName    string
	PlayerName        string
	PlayerStanding    int
	TotalParticipants int

	// DecklistText is the raw decklist, empty when the player only
	// published a URL. DecklistURL is the external list link, if any.
	DecklistText string
	DecklistURL  string

	CommanderKey string

	// Attempt is the 1-based candidate attempt that succeeded.
	Attempt int

	// TournamentsChecked counts candidates examined before exhaustion.
	TournamentsChecked int
}

// Selector picks a random eligible player from a recent competitive
// tournament, balancing selection odds across commander archetypes.
type Selector struct {
	gateway Gateway
	rng     *rand.Rand
	logger  *slog.Logger
}

// NewSelector creates a Selector. The random source is injected so
// statistical behavior is testable with a fixed seed.
func NewSelector(gateway Gateway, rng *rand.Rand, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{gateway: gateway, rng: rng, logger: logger}
}

// SelectRandomTournament runs the selection algorithm. Commanders whose
// keys appear in excluded are never chosen. Errors fetching individual
// tournaments are logged and skipped; only a failure to list candidates
// at all is returned as an error.
func (s *Selector) SelectRandomTournament(ctx context.Context, excluded map[string]bool) (*Selection, error) {
	candidates, err := s.gateway.ListCandidateTournaments(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Selection{Outcome: OutcomeNoCandidates}, nil
	}

	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	attempts := maxFetchAttempts
	if len(candidates) < attempts {
		attempts = len(candidates)
	}

	checked := 0
	for i := 0; i < attempts; i++ {
		candidate := candidates[i]
		checked++

		// Cheap validity check before spending a network call.
		if candidate.ID == "" || !topdeck.IsCompetitiveName(candidate.Name) {
			continue
		}

		tournament, err := s.gateway.FetchTournament(ctx, candidate.ID)
		if err != nil {
			s.logger.Warn("skipping tournament after fetch error",
				"tournament_id", candidate.ID, "error", err)
			continue
		}
		if len(tournament.Standings) == 0 {
			continue
		}

		eligible := eligiblePlayers(tournament.Standings)
		if len(eligible) == 0 {
			continue
		}

		groups := groupByCommander(eligible)
		for key := range groups {
			if excluded[key] {
				delete(groups, key)
			}
		}
		if len(groups) == 0 {
			continue
		}

		// Two-stage pick: a group uniformly at random, then a player
		// within it. Picking players directly would bias toward popular
		// commanders.
		keys := make([]string, 0, len(groups))
		for key := range groups {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		chosenKey := keys[s.rng.Intn(len(keys))]
		group := groups[chosenKey]
		player := group[s.rng.Intn(len(group))]

		text, link := resolveDecklistSource(player)

		return &Selection{
			Outcome:            OutcomeSelected,
			TournamentID:       tournament.ID,
			TournamentName:     tournament.Name,
			PlayerName:         player.Name,
			PlayerStanding:     player.Standing,
			TotalParticipants:  len(tournament.Standings),
			DecklistText:       text,
			DecklistURL:        link,
			CommanderKey:       chosenKey,
			Attempt:            i + 1,
			TournamentsChecked: checked,
		}, nil
	}

	return &Selection{Outcome: OutcomeExhausted, TournamentsChecked: checked}, nil
}

// eligiblePlayers keeps standings with both a name and decklist text.
func eligiblePlayers(standings []topdeck.PlayerStanding) []topdeck.PlayerStanding {
	eligible := make([]topdeck.PlayerStanding, 0, len(standings))
	for _, player := range standings {
		if strings.TrimSpace(player.Name) == "" || strings.TrimSpace(player.Decklist) == "" {
			continue
		}
		eligible = append(eligible, player)
	}
	return eligible
}

// groupByCommander buckets players by their normalized commander key.
func groupByCommander(players []topdeck.PlayerStanding) map[string][]topdeck.PlayerStanding {
	groups := make(map[string][]topdeck.PlayerStanding)
	for _, player := range players {
		key := deck.CommanderKey(deck.ExtractCommanderNames(player.Decklist))
		groups[key] = append(groups[key], player)
	}
	return groups
}

// resolveDecklistSource decides whether the player's decklist field is
// text, a URL-only reference, or text with an external import link.
func resolveDecklistSource(player topdeck.PlayerStanding) (text, link string) {
	raw := strings.TrimSpace(player.Decklist)

	if player.DeckMeta != nil && player.DeckMeta.ImportedFrom != "" {
		return raw, player.DeckMeta.ImportedFrom
	}
	if looksLikeURL(raw) {
		// URL-only reference: no textual list is known.
		return "", raw
	}
	return raw, ""
}

// looksLikeURL reports whether s is a bare link rather than decklist text.
func looksLikeURL(s string) bool {
	if strings.HasPrefix(strings.ToLower(s), "http") {
		return true
	}
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
