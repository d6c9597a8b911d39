package deck

import (
	"regexp"
	"strconv"
	"strings"
)

// Tournament software emits inconsistent free text, so the parser is
// deliberately permissive: lines that match neither pattern are skipped
// rather than rejected.
var (
	// "~~Commanders~~", "~~Battle Cruisers~~" — switches the current section.
	sectionHeaderRegex = regexp.MustCompile(`^~~(.*)~~$`)

	// "1 Sol Ring", "12  Mountain" — quantity then card name.
	cardLineRegex = regexp.MustCompile(`^(\d+)\s+(.+)$`)
)

// dfcSeparator splits the faces of a double-faced card name.
const dfcSeparator = " // "

// Parse splits raw decklist text into its named sections. The current
// section starts as Mainboard and changes whenever a ~~Label~~ header
// appears. Card names keep only the front face of double-faced cards and
// have backslash escapes removed.
func Parse(raw string) Decklist {
	var (
		list    Decklist
		current = SectionMainboard
	)

	appendCard := func(section string, card CardEntry) {
		for i := range list {
			if list[i].Name == section {
				list[i].Cards = append(list[i].Cards, card)
				return
			}
		}
		list = append(list, Section{Name: section, Cards: []CardEntry{card}})
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if matches := sectionHeaderRegex.FindStringSubmatch(line); matches != nil {
			current = strings.TrimSpace(matches[1])
			continue
		}

		if card, ok := parseCardLine(line); ok {
			appendCard(current, card)
		}
	}

	return list
}

// ExtractCommanderNames runs the same line scan as Parse but collects card
// names only while the current section is Commanders. Used before full
// categorization for exclusion keys and commander-group balancing.
func ExtractCommanderNames(raw string) []string {
	var (
		names   []string
		current = SectionMainboard
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if matches := sectionHeaderRegex.FindStringSubmatch(line); matches != nil {
			current = strings.TrimSpace(matches[1])
			continue
		}

		if !strings.EqualFold(current, SectionCommanders) {
			continue
		}
		if card, ok := parseCardLine(line); ok {
			names = append(names, card.Name)
		}
	}

	return names
}

// parseCardLine parses a single "N name" line into a CardEntry.
func parseCardLine(line string) (CardEntry, bool) {
	matches := cardLineRegex.FindStringSubmatch(line)
	if matches == nil {
		return CardEntry{}, false
	}

	quantity, err := strconv.Atoi(matches[1])
	if err != nil {
		return CardEntry{}, false
	}

	name := strings.ReplaceAll(matches[2], `\`, "")
	if idx := strings.Index(name, dfcSeparator); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return CardEntry{}, false
	}

	return CardEntry{Quantity: quantity, Name: name}, true
}
