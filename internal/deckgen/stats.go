package deckgen

import (
	"math"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

// ComputeStats derives summary statistics from a generated deck. It is a
// pure aggregation and can be recomputed from any GeneratedDeck without
// re-running generation.
func ComputeStats(deck *GeneratedDeck) DeckStats {
	stats := DeckStats{
		Curve:      make(map[int]int, 8),
		ColorPips:  make(map[string]int),
		TypeCounts: make(map[string]int),
	}

	totalManaValue := 0.0
	nonLand := 0

	for _, card := range deck.AllCards() {
		stats.TypeCounts[string(card.PrimaryType())]++

		if card.PrimaryType() == cards.TypeLand {
			continue
		}

		nonLand++
		totalManaValue += card.ManaValue
		stats.Curve[card.CurveBucket()]++

		pips := countPips(card.ManaCost)
		if len(pips) == 0 {
			stats.ColorPips["C"]++
			continue
		}
		for color, count := range pips {
			stats.ColorPips[color] += count
		}
	}

	if nonLand > 0 {
		stats.AverageManaValue = math.Round(totalManaValue/float64(nonLand)*100) / 100
	}
	return stats
}

// countPips counts colored mana symbols in a mana cost. Hybrid symbols
// like {W/U} count one pip for each color they can be paid with.
func countPips(manaCost string) map[string]int {
	pips := make(map[string]int)
	for _, color := range cards.ColorOrder {
		count := strings.Count(manaCost, color)
		if count > 0 {
			pips[color] = count
		}
	}
	return pips
}
