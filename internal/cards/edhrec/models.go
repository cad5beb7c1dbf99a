// Package edhrec implements the aggregated recommendation service client:
// per-commander deck statistics and candidate card lists with inclusion
// rates.
package edhrec

import (
	"fmt"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
	"github.com/ramonehamilton/EDH-Companion/internal/deckgen"
)

// statsResponse is the wire shape of the aggregated statistics endpoint.
type statsResponse struct {
	TypeCounts  map[string]float64 `json:"type_counts"`
	CurveCounts map[int]float64    `json:"curve_counts"`
	Lands       landDistribution   `json:"land_distribution"`
	SampleSize  int                `json:"sample_size"`
}

type landDistribution struct {
	Basic    float64 `json:"basic"`
	NonBasic float64 `json:"nonbasic"`
	Total    float64 `json:"total"`
}

func (r *statsResponse) toDomain() *deckgen.CommanderStats {
	stats := &deckgen.CommanderStats{
		TypeCounts:  make(map[cards.CardType]float64, len(r.TypeCounts)),
		CurveCounts: make(map[int]float64, len(r.CurveCounts)),
		Lands: deckgen.LandDistribution{
			Basic:    r.Lands.Basic,
			NonBasic: r.Lands.NonBasic,
			Total:    r.Lands.Total,
		},
		SampleSize: r.SampleSize,
	}
	for name, count := range r.TypeCounts {
		stats.TypeCounts[parseCardType(name)] += count
	}
	for bucket, count := range r.CurveCounts {
		stats.CurveCounts[normalizeBucket(bucket)] += count
	}
	return stats
}

// cardListsResponse is the wire shape of the card lists endpoint.
type cardListsResponse struct {
	Theme         string          `json:"theme,omitempty"`
	Creatures     []wireCandidate `json:"creatures"`
	Instants      []wireCandidate `json:"instants"`
	Sorceries     []wireCandidate `json:"sorceries"`
	Artifacts     []wireCandidate `json:"artifacts"`
	Enchantments  []wireCandidate `json:"enchantments"`
	Planeswalkers []wireCandidate `json:"planeswalkers"`
	Lands         []wireCandidate `json:"lands"`
	HighSynergy   []wireCandidate `json:"high_synergy"`
}

type wireCandidate struct {
	Name      string  `json:"name"`
	Type      string  `json:"type,omitempty"`
	Inclusion float64 `json:"inclusion_rate"`
	Synergy   float64 `json:"synergy_score,omitempty"`
}

func (r *cardListsResponse) toDomain() *deckgen.CardLists {
	lists := &deckgen.CardLists{
		Theme:  r.Theme,
		ByType: make(map[cards.CardType][]deckgen.CandidateCard),
	}
	typed := map[cards.CardType][]wireCandidate{
		cards.TypeCreature:     r.Creatures,
		cards.TypeInstant:      r.Instants,
		cards.TypeSorcery:      r.Sorceries,
		cards.TypeArtifact:     r.Artifacts,
		cards.TypeEnchantment:  r.Enchantments,
		cards.TypePlaneswalker: r.Planeswalkers,
	}
	for cardType, entries := range typed {
		for _, entry := range entries {
			lists.ByType[cardType] = append(lists.ByType[cardType], entry.toDomain(cardType))
		}
	}
	for _, entry := range r.Lands {
		lists.Lands = append(lists.Lands, entry.toDomain(cards.TypeLand))
	}
	for _, entry := range r.HighSynergy {
		// High-synergy entries carry whatever type tag the service managed
		// to infer, frequently none.
		lists.Generic = append(lists.Generic, entry.toDomain(parseCardType(entry.Type)))
	}
	return lists
}

func (w wireCandidate) toDomain(fallback cards.CardType) deckgen.CandidateCard {
	cardType := parseCardType(w.Type)
	if cardType == cards.TypeUnknown && fallback != "" {
		cardType = fallback
	}
	return deckgen.CandidateCard{
		Name:        w.Name,
		PrimaryType: cardType,
		Inclusion:   w.Inclusion,
		Synergy:     w.Synergy,
	}
}

func parseCardType(name string) cards.CardType {
	switch cards.CardType(name) {
	case cards.TypeCreature, cards.TypeInstant, cards.TypeSorcery, cards.TypeArtifact,
		cards.TypeEnchantment, cards.TypePlaneswalker, cards.TypeBattle, cards.TypeLand:
		return cards.CardType(name)
	default:
		return cards.TypeUnknown
	}
}

func normalizeBucket(bucket int) int {
	if bucket < 0 {
		return 0
	}
	if bucket > 7 {
		return 7
	}
	return bucket
}

// ErrorType classifies client errors.
type ErrorType string

const (
	ErrUnavailable   ErrorType = "unavailable"
	ErrRateLimited   ErrorType = "rate_limited"
	ErrParseError    ErrorType = "parse_error"
	ErrInvalidParams ErrorType = "invalid_params"
)

// APIError represents a recommendation service failure.
type APIError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recommendation service %s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("recommendation service %s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}
