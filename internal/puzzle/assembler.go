package puzzle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MLGBenProple/Deckle/internal/deck"
	"github.com/MLGBenProple/Deckle/internal/storage"
	"github.com/MLGBenProple/Deckle/internal/storage/repository"
)

// CategoryResolver maps card names to their primary card type.
type CategoryResolver interface {
	ResolveCategories(ctx context.Context, names []string) (map[string]string, error)
}

// Assembler turns a tournament selection into a complete, categorized
// daily game ready for persistence.
type Assembler struct {
	selector *Selector
	resolver CategoryResolver
	games    repository.GameRepository
	logger   *slog.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(selector *Selector, resolver CategoryResolver, games repository.GameRepository, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{selector: selector, resolver: resolver, games: games, logger: logger}
}

// BuildDailyGame selects a decklist and assembles the game for date and
// mode. Commanders used yesterday in either mode, or today in the other
// mode, are excluded so consecutive puzzles never repeat an answer.
// The game is returned unpersisted.
func (a *Assembler) BuildDailyGame(ctx context.Context, date time.Time, mode string) (*storage.Game, error) {
	dateStr := date.Format(storage.DateFormat)

	excluded, err := a.excludedCommanders(ctx, date, mode)
	if err != nil {
		return nil, fmt.Errorf("loading recent games: %w", err)
	}

	selection, err := a.selector.SelectRandomTournament(ctx, excluded)
	if err != nil {
		return nil, fmt.Errorf("selecting tournament: %w", err)
	}

	switch selection.Outcome {
	case OutcomeNoCandidates:
		return nil, &GenerationError{Date: dateStr, Mode: mode, Reason: "no competitive tournaments found"}
	case OutcomeExhausted:
		return nil, &GenerationError{
			Date: dateStr, Mode: mode,
			Reason: fmt.Sprintf("no usable decklist in %d tournaments checked", selection.TournamentsChecked),
		}
	}

	if selection.DecklistText == "" {
		return nil, &GenerationError{Date: dateStr, Mode: mode, Reason: "selected player published a link-only decklist"}
	}

	categorized, err := a.categorize(ctx, selection.DecklistText)
	if err != nil {
		return nil, fmt.Errorf("categorizing decklist: %w", err)
	}

	a.logger.Info("assembled daily game",
		"date", dateStr,
		"mode", mode,
		"tournament", selection.TournamentName,
		"commander", selection.CommanderKey,
		"attempt", selection.Attempt)

	return &storage.Game{
		Date:              dateStr,
		Mode:              mode,
		TournamentID:      selection.TournamentID,
		TournamentName:    selection.TournamentName,
		PlayerName:        selection.PlayerName,
		PlayerStanding:    selection.PlayerStanding,
		TotalParticipants: selection.TotalParticipants,
		Decklist:          categorized,
		DecklistURL:       selection.DecklistURL,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// excludedCommanders collects commander keys that must not repeat:
// yesterday's answers in both modes and today's answer in the other mode.
func (a *Assembler) excludedCommanders(ctx context.Context, date time.Time, mode string) (map[string]bool, error) {
	excluded := make(map[string]bool)

	yesterday := date.AddDate(0, 0, -1).Format(storage.DateFormat)
	previous, err := a.games.ListByDate(ctx, yesterday)
	if err != nil {
		return nil, err
	}
	for _, game := range previous {
		excluded[game.CommanderKey()] = true
	}

	today, err := a.games.ListByDate(ctx, date.Format(storage.DateFormat))
	if err != nil {
		return nil, err
	}
	for _, game := range today {
		if game.Mode != mode {
			excluded[game.CommanderKey()] = true
		}
	}
	return excluded, nil
}

// categorize parses raw decklist text and rebuilds it into canonical
// sections: commanders kept apart, everything else bucketed by the card
// type the catalog reports. Cards the catalog does not know fall into
// the Other section.
func (a *Assembler) categorize(ctx context.Context, raw string) (deck.Decklist, error) {
	parsed := deck.Parse(raw)

	var commanders []deck.CardEntry
	var rest []deck.CardEntry
	for _, section := range parsed {
		if strings.EqualFold(section.Name, deck.SectionCommanders) {
			commanders = append(commanders, section.Cards...)
			continue
		}
		rest = append(rest, section.Cards...)
	}

	names := make([]string, 0, len(rest))
	seen := make(map[string]bool, len(rest))
	for _, card := range rest {
		if seen[card.Name] {
			continue
		}
		seen[card.Name] = true
		names = append(names, card.Name)
	}

	categories, err := a.resolver.ResolveCategories(ctx, names)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]deck.CardEntry)
	if len(commanders) > 0 {
		grouped[deck.SectionCommanders] = commanders
	}
	for _, card := range rest {
		category, ok := categories[card.Name]
		if !ok {
			category = deck.CategoryOther
		}
		grouped[category] = append(grouped[category], card)
	}

	return deck.SortSections(grouped), nil
}
