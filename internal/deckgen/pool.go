package deckgen

import (
	"sort"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

// BuildPool merges one or more themes' recommendation lists into a single
// candidate pool. When the same name appears for the same type across
// themes, the entry with the higher inclusion rate wins, which makes the
// merge commutative, associative, and idempotent. Every list ends up
// sorted descending by inclusion rate.
func BuildPool(lists []*CardLists) *CardPool {
	byType := make(map[cards.CardType]map[string]CandidateCard)
	generic := make(map[string]CandidateCard)
	lands := make(map[string]CandidateCard)

	for _, list := range lists {
		if list == nil {
			continue
		}
		for t, candidates := range list.ByType {
			if byType[t] == nil {
				byType[t] = make(map[string]CandidateCard)
			}
			mergeInto(byType[t], candidates)
		}
		mergeInto(generic, list.Generic)
		mergeInto(lands, list.Lands)
	}

	return &CardPool{
		Creatures:     sortedByInclusion(byType[cards.TypeCreature]),
		Instants:      sortedByInclusion(byType[cards.TypeInstant]),
		Sorceries:     sortedByInclusion(byType[cards.TypeSorcery]),
		Artifacts:     sortedByInclusion(byType[cards.TypeArtifact]),
		Enchantments:  sortedByInclusion(byType[cards.TypeEnchantment]),
		Planeswalkers: sortedByInclusion(byType[cards.TypePlaneswalker]),
		Lands:         sortedByInclusion(lands),
		Generic:       sortedByInclusion(generic),
	}
}

func mergeInto(dst map[string]CandidateCard, src []CandidateCard) {
	for _, candidate := range src {
		existing, ok := dst[candidate.Name]
		if !ok || candidate.Inclusion > existing.Inclusion {
			dst[candidate.Name] = candidate
		}
	}
}

func sortedByInclusion(entries map[string]CandidateCard) []CandidateCard {
	sorted := make([]CandidateCard, 0, len(entries))
	for _, candidate := range entries {
		sorted = append(sorted, candidate)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Inclusion != sorted[j].Inclusion {
			return sorted[i].Inclusion > sorted[j].Inclusion
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// typed returns the type-specific list for a card type.
func (p *CardPool) typed(t cards.CardType) []CandidateCard {
	switch t {
	case cards.TypeCreature:
		return p.Creatures
	case cards.TypeInstant:
		return p.Instants
	case cards.TypeSorcery:
		return p.Sorceries
	case cards.TypeArtifact:
		return p.Artifacts
	case cards.TypeEnchantment:
		return p.Enchantments
	case cards.TypePlaneswalker:
		return p.Planeswalkers
	case cards.TypeLand:
		return p.Lands
	default:
		return nil
	}
}

// Candidates returns the usable candidate list for a type: the
// type-specific list first, followed by generic entries whose primary
// type is unresolved, skipping names the typed list already covers.
// Typed entries keep priority regardless of inclusion rate.
func (p *CardPool) Candidates(t cards.CardType) []CandidateCard {
	typed := p.typed(t)
	seen := make(map[string]bool, len(typed))
	result := make([]CandidateCard, 0, len(typed))
	for _, candidate := range typed {
		seen[candidate.Name] = true
		result = append(result, candidate)
	}
	for _, candidate := range p.Generic {
		if candidate.PrimaryType != cards.TypeUnknown || seen[candidate.Name] {
			continue
		}
		result = append(result, candidate)
	}
	return result
}
