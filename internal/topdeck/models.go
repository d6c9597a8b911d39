// Package topdeck wraps the tournament-results API: listing recent
// competitive events and fetching full standings for one.
package topdeck

// TournamentCandidate is a lightweight listing entry from the tournament
// search.
type TournamentCandidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TournamentResult is a full tournament with player standings.
type TournamentResult struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Standings []PlayerStanding `json:"standings"`
}

// PlayerStanding is one player's result. Decklist holds raw free-text
// decklist data; DeckMeta carries the source URL when the list was
// imported from an external deck builder.
type PlayerStanding struct {
	Name     string    `json:"name"`
	Standing int       `json:"standing"`
	Decklist string    `json:"decklist"`
	DeckMeta *DeckMeta `json:"deckMeta,omitempty"`
}

// DeckMeta is optional metadata attached to a player's decklist.
type DeckMeta struct {
	ImportedFrom string `json:"importedFrom,omitempty"`
}

// searchRequest is the body for the tournament search endpoint.
type searchRequest struct {
	LookbackDays    int    `json:"lookbackDays"`
	GameFilter      string `json:"gameFilter"`
	FormatFilter    string `json:"formatFilter"`
	MinParticipants int    `json:"minParticipants"`
}
