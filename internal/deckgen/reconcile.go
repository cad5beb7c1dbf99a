package deckgen

import "log/slog"

// trimOrder is the fixed priority for removing excess cards: the most
// replaceable categories give up cards first, board wipes last.
var trimOrder = []Category{
	CategorySynergy,
	CategoryUtility,
	CategoryCreatures,
	CategoryCardDraw,
	CategoryRamp,
	CategoryRemoval,
	CategoryBoardWipes,
}

// Reconcile trims or fills the assembled deck to exactly the required
// non-commander count. Excess comes off the end of each category in trim
// order; a shortfall is filled with basic lands proportioned over the
// color identity. Running it on an already-exact deck changes nothing.
func Reconcile(deck *GeneratedDeck, required int, identity []string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	total := deck.NonCommanderCount()

	for _, category := range trimOrder {
		if total <= required {
			break
		}
		group := deck.category(category)
		for total > required && len(*group) > 0 {
			*group = (*group)[:len(*group)-1]
			total--
		}
	}

	if total < required {
		deck.Lands = append(deck.Lands, distributeBasics(required-total, identity)...)
		total = deck.NonCommanderCount()
	}

	if total != required {
		logger.Warn("deck size mismatch after reconciliation",
			"want", required, "got", total)
	}
}
