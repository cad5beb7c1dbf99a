// Package export writes generated decks to shareable formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
	"github.com/ramonehamilton/EDH-Companion/internal/deckgen"
)

// DeckFormat represents the deck export format.
type DeckFormat string

const (
	// DeckFormatText represents simple text format.
	DeckFormatText DeckFormat = "text"
	// DeckFormatJSON represents JSON format.
	DeckFormatJSON DeckFormat = "json"
)

// sections fixes the display order of deck categories.
var sections = []struct {
	Title string
	Cards func(*deckgen.GeneratedDeck) []*cards.Card
}{
	{"Commander", func(d *deckgen.GeneratedDeck) []*cards.Card { return d.Commanders }},
	{"Creatures", func(d *deckgen.GeneratedDeck) []*cards.Card { return d.Creatures }},
	{"Ramp", func(d *deckgen.GeneratedDeck) []*cards.Card { return d.Ramp }},
	{"Removal", func(d *deckgen.GeneratedDeck) []*cards.Card { return d.Removal }},
	{"Board Wipes", func(d *deckgen.GeneratedDeck) []*cards.Card { return d.BoardWipes }},
	{"Card Draw", func(d *deckgen.GeneratedDeck) []*cards.Card { return d.CardDraw }},
	{"Synergy", func(d *deckgen.GeneratedDeck) []*cards.Card { return d.Synergy }},
	{"Utility", func(d *deckgen.GeneratedDeck) []*cards.Card { return d.Utility }},
	{"Lands", func(d *deckgen.GeneratedDeck) []*cards.Card { return d.Lands }},
}

// ExportDeck writes the deck to outputPath in the given format.
func ExportDeck(deck *deckgen.GeneratedDeck, format DeckFormat, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return WriteDeck(file, deck, format)
}

// WriteDeck writes the deck to w in the given format.
func WriteDeck(w io.Writer, deck *deckgen.GeneratedDeck, format DeckFormat) error {
	switch format {
	case DeckFormatText:
		return writeDeckText(w, deck)
	case DeckFormatJSON:
		return writeDeckJSON(w, deck)
	default:
		return fmt.Errorf("unsupported deck format: %s", format)
	}
}

// writeDeckText renders the deck as a sectioned decklist. Repeated names
// (basic lands) collapse into one counted line.
func writeDeckText(w io.Writer, deck *deckgen.GeneratedDeck) error {
	var content strings.Builder

	for _, section := range sections {
		group := section.Cards(deck)
		if len(group) == 0 {
			continue
		}

		content.WriteString(fmt.Sprintf("// %s (%d)\n", section.Title, len(group)))
		for _, line := range countedLines(group) {
			content.WriteString(line)
			content.WriteByte('\n')
		}
		content.WriteByte('\n')
	}

	_, err := io.WriteString(w, content.String())
	if err != nil {
		return fmt.Errorf("failed to write decklist: %w", err)
	}
	return nil
}

// countedLines collapses a card group into "N Name" lines, preserving
// first-seen order.
func countedLines(group []*cards.Card) []string {
	counts := make(map[string]int, len(group))
	order := make([]string, 0, len(group))
	for _, card := range group {
		if counts[card.Name] == 0 {
			order = append(order, card.Name)
		}
		counts[card.Name]++
	}

	lines := make([]string, 0, len(order))
	for _, name := range order {
		lines = append(lines, fmt.Sprintf("%d %s", counts[name], name))
	}
	return lines
}

func writeDeckJSON(w io.Writer, deck *deckgen.GeneratedDeck) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(deck); err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}
	return nil
}
