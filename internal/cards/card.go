// Package cards provides the domain card model shared by the deck
// generation engine, the external service clients, and the card store.
package cards

import (
	"math"
	"strings"
)

// ColorOrder is the canonical WUBRG ordering used everywhere a stable
// color order matters (basic land distribution, identity normalization).
var ColorOrder = []string{"W", "U", "B", "R", "G"}

// CardType identifies the primary type of a card for deck building.
type CardType string

const (
	TypeCreature     CardType = "creature"
	TypeInstant      CardType = "instant"
	TypeSorcery      CardType = "sorcery"
	TypeArtifact     CardType = "artifact"
	TypeEnchantment  CardType = "enchantment"
	TypePlaneswalker CardType = "planeswalker"
	TypeBattle       CardType = "battle"
	TypeLand         CardType = "land"
	TypeUnknown      CardType = "unknown"
)

// TypeOrder is the fixed evaluation order for card types. Tie-breaking in
// target allocation and the per-type selection loop both follow it.
var TypeOrder = []CardType{
	TypeCreature,
	TypeInstant,
	TypeSorcery,
	TypeArtifact,
	TypeEnchantment,
	TypePlaneswalker,
	TypeBattle,
}

// Card is a fully resolved card. Instances are immutable once returned
// from the resolver service.
type Card struct {
	Name          string   `json:"name"`
	ManaCost      string   `json:"manaCost,omitempty"`
	ManaValue     float64  `json:"manaValue"`
	TypeLine      string   `json:"typeLine"`
	OracleText    string   `json:"oracleText,omitempty"`
	ColorIdentity []string `json:"colorIdentity"`
	PriceUSD      float64  `json:"priceUSD,omitempty"`
	GameChanger   bool     `json:"gameChanger,omitempty"`
	EDHRECRank    int      `json:"edhrecRank,omitempty"`
}

// HasType reports whether the type line contains the given supertype or
// card type word (case-insensitive).
func (c *Card) HasType(t CardType) bool {
	return strings.Contains(strings.ToLower(c.TypeLine), string(t))
}

// PrimaryType returns the card's primary type for deck-building purposes.
// Multi-type cards resolve to the first match in a fixed precedence:
// lands beat everything (an artifact land builds the mana base), then
// creatures (an enchantment creature fills a creature slot).
func (c *Card) PrimaryType() CardType {
	line := strings.ToLower(c.TypeLine)
	switch {
	case strings.Contains(line, "land"):
		return TypeLand
	case strings.Contains(line, "creature"):
		return TypeCreature
	case strings.Contains(line, "planeswalker"):
		return TypePlaneswalker
	case strings.Contains(line, "battle"):
		return TypeBattle
	case strings.Contains(line, "instant"):
		return TypeInstant
	case strings.Contains(line, "sorcery"):
		return TypeSorcery
	case strings.Contains(line, "enchantment"):
		return TypeEnchantment
	case strings.Contains(line, "artifact"):
		return TypeArtifact
	default:
		return TypeUnknown
	}
}

// CurveBucket returns the mana-value bucket for curve accounting:
// floor of the mana value, capped at 7 (the 7+ bucket).
func (c *Card) CurveBucket() int {
	return CurveBucket(c.ManaValue)
}

// CurveBucket buckets a raw mana value into 0..7.
func CurveBucket(manaValue float64) int {
	bucket := int(math.Floor(manaValue))
	if bucket < 0 {
		bucket = 0
	}
	if bucket > 7 {
		bucket = 7
	}
	return bucket
}

// IdentityWithin reports whether the card's color identity is a subset of
// the given combined identity. Colorless cards fit any identity.
func (c *Card) IdentityWithin(identity []string) bool {
	if len(c.ColorIdentity) == 0 {
		return true
	}
	allowed := make(map[string]bool, len(identity))
	for _, color := range identity {
		allowed[strings.ToUpper(color)] = true
	}
	for _, color := range c.ColorIdentity {
		if !allowed[strings.ToUpper(color)] {
			return false
		}
	}
	return true
}

// NormalizeIdentity uppercases, dedupes, and orders a color identity in
// canonical WUBRG order.
func NormalizeIdentity(identity []string) []string {
	present := make(map[string]bool, len(identity))
	for _, color := range identity {
		present[strings.ToUpper(color)] = true
	}
	normalized := make([]string, 0, len(present))
	for _, color := range ColorOrder {
		if present[color] {
			normalized = append(normalized, color)
		}
	}
	return normalized
}

// CombinedIdentity merges the color identities of one or two commanders.
func CombinedIdentity(commander, partner *Card) []string {
	var merged []string
	if commander != nil {
		merged = append(merged, commander.ColorIdentity...)
	}
	if partner != nil {
		merged = append(merged, partner.ColorIdentity...)
	}
	return NormalizeIdentity(merged)
}
