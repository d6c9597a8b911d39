package storage

import (
	"time"

	"github.com/MLGBenProple/Deckle/internal/deck"
)

// Puzzle difficulty modes. Exactly one game exists per (date, mode).
const (
	ModeNormal = "normal"
	ModeHard   = "hard"
)

// Modes returns every puzzle mode in generation order.
func Modes() []string {
	return []string{ModeNormal, ModeHard}
}

// DateFormat is the canonical representation of a puzzle date.
const DateFormat = "2006-01-02"

// Game is one daily puzzle: a hidden commander, the categorized decklist
// it came from, and tournament attribution. Immutable once created; the
// store enforces at most one record per (date, mode).
type Game struct {
	ID                int64         `json:"id"`
	Date              string        `json:"date"`
	Mode              string        `json:"mode"`
	TournamentID      string        `json:"tournamentId"`
	TournamentName    string        `json:"tournamentName"`
	PlayerName        string        `json:"playerName"`
	PlayerStanding    int           `json:"playerStanding"`
	TotalParticipants int           `json:"totalParticipants"`
	Decklist          deck.Decklist `json:"decklist"`
	DecklistURL       string        `json:"decklistUrl,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// CommanderNames returns the card names in the game's Commanders section.
func (g *Game) CommanderNames() []string {
	commanders := g.Decklist.Section(deck.SectionCommanders)
	names := make([]string, 0, len(commanders))
	for _, card := range commanders {
		names = append(names, card.Name)
	}
	return names
}

// CommanderKey returns the normalized commander identity for exclusion
// matching. Computed from the finalized Commanders section with the same
// normalization as raw-text extraction.
func (g *Game) CommanderKey() string {
	return deck.CommanderKey(g.CommanderNames())
}
