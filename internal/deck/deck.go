// Package deck models parsed decklists: card entries, named sections, the
// canonical section taxonomy, and commander identity keys.
package deck

import (
	"sort"
	"strings"
)

// CardEntry represents a single card line in a decklist.
// Name holds the front face only; the " // " double-faced separator and
// everything after it are stripped during parsing.
type CardEntry struct {
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// Section is a named group of cards. Decklists keep sections as an ordered
// slice rather than a map so serialization preserves display order.
type Section struct {
	Name  string      `json:"name"`
	Cards []CardEntry `json:"cards"`
}

// Decklist is an ordered sequence of sections.
type Decklist []Section

// Raw parse section names.
const (
	SectionCommanders = "Commanders"
	SectionMainboard  = "Mainboard"
	SectionSideboard  = "Sideboard"
)

// Canonical display categories.
const (
	CategoryCreatures     = "Creatures"
	CategoryPlaneswalkers = "Planeswalkers"
	CategoryBattles       = "Battles"
	CategoryInstants      = "Instants"
	CategorySorceries     = "Sorceries"
	CategoryEnchantments  = "Enchantments"
	CategoryArtifacts     = "Artifacts"
	CategoryLands         = "Lands"
	CategoryOther         = "Other"
)

// SectionOrder is the canonical display and iteration order for finalized
// decklists. Sections absent from the source are omitted, never emitted
// empty.
var SectionOrder = []string{
	SectionCommanders,
	CategoryCreatures,
	CategoryPlaneswalkers,
	CategoryBattles,
	CategoryInstants,
	CategorySorceries,
	CategoryEnchantments,
	CategoryArtifacts,
	CategoryLands,
	CategoryOther,
}

// typeChecks maps type-line keywords to categories. The order is
// authoritative: the first keyword found wins, so a multi-type line like
// "Artifact Creature" buckets under Creatures.
var typeChecks = []struct {
	keyword  string
	category string
}{
	{"land", CategoryLands},
	{"creature", CategoryCreatures},
	{"planeswalker", CategoryPlaneswalkers},
	{"battle", CategoryBattles},
	{"instant", CategoryInstants},
	{"sorcery", CategorySorceries},
	{"enchantment", CategoryEnchantments},
	{"artifact", CategoryArtifacts},
}

// CategoryForTypeLine buckets a card type line into one of the canonical
// categories. Unrecognized type lines fall through to Other.
func CategoryForTypeLine(typeLine string) string {
	lower := strings.ToLower(typeLine)
	for _, check := range typeChecks {
		if strings.Contains(lower, check.keyword) {
			return check.category
		}
	}
	return CategoryOther
}

// SortSections reorders grouped cards into the canonical section order,
// dropping sections with no cards.
func SortSections(grouped map[string][]CardEntry) Decklist {
	list := make(Decklist, 0, len(grouped))
	for _, name := range SectionOrder {
		cards := grouped[name]
		if len(cards) == 0 {
			continue
		}
		list = append(list, Section{Name: name, Cards: cards})
	}
	return list
}

// Section returns the cards for the named section, or nil if absent.
func (d Decklist) Section(name string) []CardEntry {
	for _, s := range d {
		if s.Name == name {
			return s.Cards
		}
	}
	return nil
}

// UniqueNames returns every distinct card name across all sections, in
// first-seen order.
func (d Decklist) UniqueNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, section := range d {
		for _, card := range section.Cards {
			if !seen[card.Name] {
				seen[card.Name] = true
				names = append(names, card.Name)
			}
		}
	}
	return names
}

// UnknownCommanderKey is the grouping key for players whose decklists have
// no extractable commanders.
const UnknownCommanderKey = "Unknown"

// CommanderKey normalizes one commander or a partner pair into an
// order-independent identity: names sorted alphabetically and joined with
// " / ". The same normalization is applied to raw-text extraction and to
// finalized games, so exclusion comparisons always line up.
func CommanderKey(names []string) string {
	if len(names) == 0 {
		return UnknownCommanderKey
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, " / ")
}
