// Package deckgen implements the deck composition engine: target
// allocation, candidate selection, functional classification, mana base
// generation, size reconciliation, and deck statistics.
package deckgen

import (
	"context"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

// Format identifies a supported deck format.
type Format int

const (
	// Format40 is the 40-card format (39 non-commander slots).
	Format40 Format = iota
	// Format60 is the 60-card format (59 non-commander slots).
	Format60
	// Format100 is the primary 100-card format (98 non-commander slots).
	Format100
)

func (f Format) String() string {
	switch f {
	case Format40:
		return "40-card"
	case Format60:
		return "60-card"
	case Format100:
		return "100-card"
	default:
		return "unknown"
	}
}

// NonCommanderSlots returns the number of non-commander slots in the
// format. A partner commander occupies one more slot.
func (f Format) NonCommanderSlots(partner bool) int {
	base := 98
	switch f {
	case Format40:
		base = 39
	case Format60:
		base = 59
	}
	if partner {
		base--
	}
	return base
}

// LandRange returns the allowed land-count range for the format.
func (f Format) LandRange() (min, max int) {
	switch f {
	case Format40:
		return 14, 20
	case Format60:
		return 20, 28
	default:
		return 30, 45
	}
}

// DefaultLandCount returns the land count used when the caller expresses
// no preference.
func (f Format) DefaultLandCount() int {
	switch f {
	case Format40:
		return 17
	case Format60:
		return 24
	default:
		return 37
	}
}

// Customization holds the caller-supplied generation constraints. It is
// read-only to the engine.
type Customization struct {
	Format         Format   `json:"format"`
	LandCount      int      `json:"landCount,omitempty"`      // 0 = format default; otherwise clamped
	NonBasicLands  int      `json:"nonBasicLands,omitempty"`  // used when aggregated stats are unavailable
	BannedNames    []string `json:"bannedNames,omitempty"`    // never appear in output
	MustInclude    []string `json:"mustInclude,omitempty"`    // resolved and seeded before selection
	PriceCap       float64  `json:"priceCap,omitempty"`       // 0 = no cap, in USD per card
	BudgetTier     string   `json:"budgetTier,omitempty"`     // recommendation service filter
	Bracket        int      `json:"bracket,omitempty"`        // power-level bracket filter
	GameChangerCap int      `json:"gameChangerCap,omitempty"` // <=0 = unlimited
}

// CandidateCard is a lightweight recommendation entry, not yet resolved
// against the card database.
type CandidateCard struct {
	Name        string         `json:"name"`
	PrimaryType cards.CardType `json:"primaryType"`
	Inclusion   float64        `json:"inclusion"` // 0..100, share of sampled decks containing it
	Synergy     float64        `json:"synergy,omitempty"`
}

// CardPool groups candidate lists by type, each sorted descending by
// inclusion rate. Built once per generation run; immutable thereafter.
type CardPool struct {
	Creatures     []CandidateCard
	Instants      []CandidateCard
	Sorceries     []CandidateCard
	Artifacts     []CandidateCard
	Enchantments  []CandidateCard
	Planeswalkers []CandidateCard
	Lands         []CandidateCard
	Generic       []CandidateCard // popular/synergy list without reliable type tags
}

// TargetProfile holds the per-type and per-curve-bucket count targets for
// one generation run. sum(TypeTargets) == sum(CurveTargets) == non-land
// card count, exactly.
type TargetProfile struct {
	LandCount     int                    `json:"landCount"`
	NonBasicLands int                    `json:"nonBasicLands"`
	TypeTargets   map[cards.CardType]int `json:"typeTargets"`
	CurveTargets  map[int]int            `json:"curveTargets"`
}

// NonLandCount returns the number of non-land slots the profile allocates.
func (p *TargetProfile) NonLandCount() int {
	total := 0
	for _, count := range p.TypeTargets {
		total += count
	}
	return total
}

// LandDistribution summarizes the aggregated land statistics.
type LandDistribution struct {
	Basic    float64 `json:"basic"`
	NonBasic float64 `json:"nonbasic"`
	Total    float64 `json:"total"`
}

// CommanderStats is the aggregated recommendation data for a commander.
type CommanderStats struct {
	TypeCounts  map[cards.CardType]float64 `json:"typeCounts"`  // average count per deck
	CurveCounts map[int]float64            `json:"curveCounts"` // bucket 0..7
	Lands       LandDistribution           `json:"lands"`
	SampleSize  int                        `json:"sampleSize"`
}

// CardLists is one theme's worth of recommendation lists.
type CardLists struct {
	Theme   string
	ByType  map[cards.CardType][]CandidateCard
	Generic []CandidateCard
	Lands   []CandidateCard
}

// DeckStats summarizes a generated deck.
type DeckStats struct {
	Curve            map[int]int    `json:"curve"` // non-land cards, buckets 0..7
	AverageManaValue float64        `json:"averageManaValue"`
	ColorPips        map[string]int `json:"colorPips"` // W/U/B/R/G plus C for colorless
	TypeCounts       map[string]int `json:"typeCounts"`
}

// Category is a functional deck-building category of the final deck.
type Category string

const (
	CategoryCreatures  Category = "creatures"
	CategoryRamp       Category = "ramp"
	CategoryRemoval    Category = "removal"
	CategoryBoardWipes Category = "boardWipes"
	CategoryCardDraw   Category = "cardDraw"
	CategorySynergy    Category = "synergy"
	CategoryUtility    Category = "utility"
	CategoryLands      Category = "lands"
)

// GeneratedDeck is the result of one generation run. It is never mutated
// after being returned; a new call produces a new instance.
type GeneratedDeck struct {
	Commanders []*cards.Card `json:"commanders"`

	Creatures  []*cards.Card `json:"creatures"`
	Ramp       []*cards.Card `json:"ramp"`
	Removal    []*cards.Card `json:"removal"`
	BoardWipes []*cards.Card `json:"boardWipes"`
	CardDraw   []*cards.Card `json:"cardDraw"`
	Synergy    []*cards.Card `json:"synergy"`
	Utility    []*cards.Card `json:"utility"`
	Lands      []*cards.Card `json:"lands"`

	Stats  DeckStats `json:"stats"`
	Themes []string  `json:"themes"` // theme slugs actually consulted
}

// category returns a pointer to the slice backing the given category.
func (d *GeneratedDeck) category(c Category) *[]*cards.Card {
	switch c {
	case CategoryCreatures:
		return &d.Creatures
	case CategoryRamp:
		return &d.Ramp
	case CategoryRemoval:
		return &d.Removal
	case CategoryBoardWipes:
		return &d.BoardWipes
	case CategoryCardDraw:
		return &d.CardDraw
	case CategorySynergy:
		return &d.Synergy
	case CategoryUtility:
		return &d.Utility
	default:
		return &d.Lands
	}
}

// NonCommanderCount returns the total number of non-commander cards.
func (d *GeneratedDeck) NonCommanderCount() int {
	return len(d.Creatures) + len(d.Ramp) + len(d.Removal) + len(d.BoardWipes) +
		len(d.CardDraw) + len(d.Synergy) + len(d.Utility) + len(d.Lands)
}

// AllCards returns every non-commander card in category order.
func (d *GeneratedDeck) AllCards() []*cards.Card {
	all := make([]*cards.Card, 0, d.NonCommanderCount())
	for _, group := range [][]*cards.Card{
		d.Creatures, d.Ramp, d.Removal, d.BoardWipes,
		d.CardDraw, d.Synergy, d.Utility, d.Lands,
	} {
		all = append(all, group...)
	}
	return all
}

// CardResolver resolves candidate names to full cards and serves generic
// fallback searches. Implemented by the cards resolver service.
type CardResolver interface {
	Resolve(ctx context.Context, name string) (*cards.Card, error)
	Search(ctx context.Context, query cards.SearchQuery) ([]*cards.Card, error)
}

// RecOptions narrow recommendation data by power level or price.
type RecOptions struct {
	Bracket    int
	BudgetTier string
}

// RecommendationSource provides aggregated statistics and candidate lists
// for a commander.
type RecommendationSource interface {
	FetchStats(ctx context.Context, commander string, opts RecOptions) (*CommanderStats, error)
	FetchCardLists(ctx context.Context, commander, theme string, opts RecOptions) (*CardLists, error)
}

// ProgressFunc receives synchronous progress updates between awaited
// pipeline steps.
type ProgressFunc func(stage string, percent int)
