// Package scryfall resolves card names to display categories via the card
// catalog's batch collection endpoint.
package scryfall

// Card represents a catalog card, reduced to the fields categorization
// needs.
type Card struct {
	Name      string     `json:"name"`
	TypeLine  string     `json:"type_line"`
	CardFaces []CardFace `json:"card_faces,omitempty"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name     string `json:"name"`
	TypeLine string `json:"type_line"`
}

// CardIdentifier identifies one card in a collection request.
type CardIdentifier struct {
	Name string `json:"name"`
}

// CollectionRequest is the request body for /cards/collection.
type CollectionRequest struct {
	Identifiers []CardIdentifier `json:"identifiers"`
}

// CollectionResponse is the response from /cards/collection.
type CollectionResponse struct {
	Object   string           `json:"object"`
	NotFound []CardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// EffectiveTypeLine returns the type line used for categorization: the
// first face's for multi-faced cards, the top-level one otherwise.
func (c Card) EffectiveTypeLine() string {
	if len(c.CardFaces) > 0 {
		return c.CardFaces[0].TypeLine
	}
	return c.TypeLine
}
