package deckgen

import (
	"context"
	"log/slog"
	"math"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

// inclusionBypassThreshold lets popular cards into a saturated curve
// bucket anyway. Empirical constant, preserved as-is.
const inclusionBypassThreshold = 40.0

// runState is the mutable per-generation-run state shared across all
// selection calls: the singleton rule and the soft curve both operate on
// the whole deck, not a single category. Never shared between runs.
type runState struct {
	used         map[string]bool
	banned       map[string]bool
	curveCounts  map[int]int
	gameChangers int
}

func newRunState(banned []string) *runState {
	st := &runState{
		used:        make(map[string]bool),
		banned:      make(map[string]bool, len(banned)),
		curveCounts: make(map[int]int, 8),
	}
	for _, name := range banned {
		st.banned[name] = true
	}
	return st
}

// markUsed records an accepted card. Lands stay out of curve accounting.
func (st *runState) markUsed(card *cards.Card, countCurve bool) {
	st.used[card.Name] = true
	if countCurve {
		st.curveCounts[card.CurveBucket()]++
	}
	if card.GameChanger {
		st.gameChangers++
	}
}

// SelectOptions configures one selection pass.
type SelectOptions struct {
	Target         int
	ExpectedType   cards.CardType // verified against unknown-typed candidates; "" disables
	IgnoreCurve    bool           // curve-agnostic variant, used for lands
	Identity       []string
	CurveTargets   map[int]int
	PriceCap       float64 // 0 = no cap
	GameChangerCap int     // 0 = no cap
}

// verdict is the outcome of the pure accept/reject decision.
type verdict int

const (
	accept verdict = iota
	skipTypeMismatch
	skipIdentity
	skipPrice
	skipGameChanger
	skipCurve
)

func (v verdict) String() string {
	switch v {
	case accept:
		return "accept"
	case skipTypeMismatch:
		return "type mismatch"
	case skipIdentity:
		return "off-color identity"
	case skipPrice:
		return "over price cap"
	case skipGameChanger:
		return "game changer cap"
	case skipCurve:
		return "curve bucket saturated"
	default:
		return "unknown"
	}
}

// decide is the pure accept/reject decision over a resolved card. It
// reads the run state but never mutates it, so it is testable without
// any resolver plumbing. Name-level skips (used, banned) happen before
// resolution and are not its concern.
func decide(card *cards.Card, candidate CandidateCard, opts SelectOptions, st *runState) verdict {
	if opts.ExpectedType != "" && candidate.PrimaryType == cards.TypeUnknown && !card.HasType(opts.ExpectedType) {
		return skipTypeMismatch
	}

	if !card.IdentityWithin(opts.Identity) {
		return skipIdentity
	}

	if opts.PriceCap > 0 && card.PriceUSD > opts.PriceCap {
		return skipPrice
	}

	if opts.GameChangerCap > 0 && card.GameChanger && st.gameChangers >= opts.GameChangerCap {
		return skipGameChanger
	}

	if !opts.IgnoreCurve {
		bucket := card.CurveBucket()
		target := opts.CurveTargets[bucket]
		tolerance := int(math.Ceil(0.1 * float64(target)))
		if tolerance < 1 {
			tolerance = 1
		}
		if st.curveCounts[bucket] >= target+tolerance && candidate.Inclusion < inclusionBypassThreshold {
			return skipCurve
		}
	}

	return accept
}

// Selector resolves candidates and accepts them against the curve,
// identity, and ban rules.
type Selector struct {
	resolver CardResolver
	logger   *slog.Logger
}

// NewSelector creates a selector. A nil logger falls back to slog.Default().
func NewSelector(resolver CardResolver, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{resolver: resolver, logger: logger}
}

// Select walks the candidate list in order, resolving and accepting until
// the target count is reached or candidates run out. The result never
// exceeds the target; a shortfall is returned as-is and topping up is the
// caller's job. Resolution failures are skipped, never fatal.
func (s *Selector) Select(ctx context.Context, candidates []CandidateCard, opts SelectOptions, st *runState) []*cards.Card {
	selected := make([]*cards.Card, 0, opts.Target)

	for _, candidate := range candidates {
		if len(selected) >= opts.Target {
			break
		}
		if st.used[candidate.Name] || st.banned[candidate.Name] {
			continue
		}

		card, err := s.resolver.Resolve(ctx, candidate.Name)
		if err != nil {
			s.logger.Debug("skipping unresolvable candidate", "name", candidate.Name, "error", err)
			continue
		}

		if v := decide(card, candidate, opts, st); v != accept {
			s.logger.Debug("skipping candidate", "name", candidate.Name, "reason", v.String())
			continue
		}

		selected = append(selected, card)
		st.markUsed(card, !opts.IgnoreCurve)
	}

	return selected
}

// SelectResolved runs the same acceptance logic over already-resolved
// cards, used for generic search fallback results. Fallback cards carry
// no inclusion rate, so they never bypass a saturated curve bucket.
func (s *Selector) SelectResolved(resolved []*cards.Card, opts SelectOptions, st *runState) []*cards.Card {
	selected := make([]*cards.Card, 0, opts.Target)

	for _, card := range resolved {
		if len(selected) >= opts.Target {
			break
		}
		if st.used[card.Name] || st.banned[card.Name] {
			continue
		}

		candidate := CandidateCard{Name: card.Name, PrimaryType: card.PrimaryType()}
		if v := decide(card, candidate, opts, st); v != accept {
			s.logger.Debug("skipping fallback card", "name", card.Name, "reason", v.String())
			continue
		}

		selected = append(selected, card)
		st.markUsed(card, !opts.IgnoreCurve)
	}

	return selected
}
