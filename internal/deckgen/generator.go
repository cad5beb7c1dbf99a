package deckgen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

// Generator runs the deck composition pipeline. One Generator can serve
// concurrent runs: all mutable state lives in a per-run runState.
type Generator struct {
	resolver CardResolver
	recs     RecommendationSource
	selector *Selector
	logger   *slog.Logger
}

// NewGenerator creates a generator over the given collaborators. A nil
// logger falls back to slog.Default().
func NewGenerator(resolver CardResolver, recs RecommendationSource, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		resolver: resolver,
		recs:     recs,
		selector: NewSelector(resolver, logger),
		logger:   logger,
	}
}

// Generate assembles a complete deck for the commander (and optional
// partner) under the given customization. The pipeline is sequential:
// aggregated stats, candidate pools, per-type selection, mana base, size
// reconciliation, stats. Missing external data degrades to heuristic
// fallbacks; only a missing commander or an empty combined color
// identity is fatal.
func (g *Generator) Generate(
	ctx context.Context,
	commander, partner *cards.Card,
	identity []string,
	cust Customization,
	themes []string,
	progress ProgressFunc,
) (*GeneratedDeck, error) {
	if commander == nil {
		return nil, generationErrorf("no commander supplied")
	}
	identity = cards.NormalizeIdentity(identity)
	if len(identity) == 0 {
		return nil, generationErrorf("combined color identity of %q is empty", commander.Name)
	}

	report := func(stage string, percent int) {
		if progress != nil {
			progress(stage, percent)
		}
	}

	slots := cust.Format.NonCommanderSlots(partner != nil)
	landCount := clampLandCount(cust)

	report("fetching aggregated statistics", 5)
	recOpts := RecOptions{Bracket: cust.Bracket, BudgetTier: cust.BudgetTier}
	stats, err := g.recs.FetchStats(ctx, commander.Name, recOpts)
	if err != nil {
		g.logger.Warn("aggregated statistics unavailable, using heuristic targets",
			"commander", commander.Name, "error", err)
		stats = nil
	}

	report("fetching recommendation lists", 10)
	slugs := themes
	if len(slugs) == 0 {
		slugs = []string{""}
	}
	var lists []*CardLists
	var consulted []string
	for _, slug := range slugs {
		list, err := g.recs.FetchCardLists(ctx, commander.Name, slug, recOpts)
		if err != nil {
			g.logger.Warn("recommendation list unavailable",
				"commander", commander.Name, "theme", slug, "error", err)
			continue
		}
		lists = append(lists, list)
		if name := themeName(list, slug); name != "" {
			consulted = append(consulted, name)
		}
	}

	pool := BuildPool(lists)
	targets := AllocateTargets(slots, landCount, cust.NonBasicLands, stats)

	st := newRunState(cust.BannedNames)
	st.used[commander.Name] = true
	if partner != nil {
		st.used[partner.Name] = true
	}

	deck := &GeneratedDeck{Commanders: commanderList(commander, partner), Themes: consulted}

	mustLands := g.placeMustIncludes(ctx, deck, cust.MustInclude, identity, st)

	for i, cardType := range cards.TypeOrder {
		target := targets.TypeTargets[cardType]
		if target <= 0 {
			continue
		}
		report("selecting "+string(cardType)+"s", 15+60*(i+1)/len(cards.TypeOrder))

		opts := SelectOptions{
			Target:         target,
			ExpectedType:   cardType,
			Identity:       identity,
			CurveTargets:   targets.CurveTargets,
			PriceCap:       cust.PriceCap,
			GameChangerCap: cust.GameChangerCap,
		}
		selected := g.selector.Select(ctx, pool.Candidates(cardType), opts, st)

		if shortfall := target - len(selected); shortfall > 0 {
			selected = append(selected, g.searchFallback(ctx, cardType, identity, shortfall, opts, st)...)
		}

		for _, card := range selected {
			group := deck.category(categorize(card))
			*group = append(*group, card)
		}
	}

	report("building mana base", 80)
	landTotal := targets.LandCount - mustLands
	if landTotal < 0 {
		landTotal = 0
	}
	deck.Lands = append(deck.Lands, g.buildLands(ctx, pool, landOptions{
		Total:          landTotal,
		NonBasic:       targets.NonBasicLands,
		Identity:       identity,
		Format:         cust.Format,
		PriceCap:       cust.PriceCap,
		GameChangerCap: cust.GameChangerCap,
	}, st)...)

	report("reconciling deck size", 90)
	Reconcile(deck, slots, identity, g.logger)

	deck.Stats = ComputeStats(deck)
	report("done", 100)

	return deck, nil
}

// GenerateByName resolves the commander (and optional partner) by exact
// name, derives the combined color identity, and runs Generate.
func (g *Generator) GenerateByName(
	ctx context.Context,
	commanderName, partnerName string,
	cust Customization,
	themes []string,
	progress ProgressFunc,
) (*GeneratedDeck, error) {
	commander, err := g.resolver.Resolve(ctx, commanderName)
	if err != nil {
		return nil, fmt.Errorf("resolve commander %q: %w", commanderName, err)
	}

	var partner *cards.Card
	if partnerName != "" {
		partner, err = g.resolver.Resolve(ctx, partnerName)
		if err != nil {
			return nil, fmt.Errorf("resolve partner %q: %w", partnerName, err)
		}
	}

	identity := cards.CombinedIdentity(commander, partner)
	return g.Generate(ctx, commander, partner, identity, cust, themes, progress)
}

// placeMustIncludes resolves the caller's forced names first so they seed
// the used-name set and running curve counts before any selection. A name
// that fails to resolve or breaks color identity is skipped with a
// warning; the legality invariants hold even for forced cards. Returns
// the number of lands placed, which shrinks the mana base budget.
func (g *Generator) placeMustIncludes(
	ctx context.Context,
	deck *GeneratedDeck,
	names []string,
	identity []string,
	st *runState,
) int {
	lands := 0
	for _, name := range names {
		if st.used[name] || st.banned[name] {
			continue
		}
		card, err := g.resolver.Resolve(ctx, name)
		if err != nil {
			g.logger.Warn("must-include card could not be resolved", "name", name, "error", err)
			continue
		}
		if !card.IdentityWithin(identity) {
			g.logger.Warn("must-include card is outside the commander's color identity", "name", name)
			continue
		}

		category := categorize(card)
		group := deck.category(category)
		*group = append(*group, card)
		st.markUsed(card, category != CategoryLands)
		if category == CategoryLands {
			lands++
		}
	}
	return lands
}

// searchFallback tops up a category from a generic on-color card database
// search when the recommendation pool runs dry.
func (g *Generator) searchFallback(
	ctx context.Context,
	cardType cards.CardType,
	identity []string,
	shortfall int,
	opts SelectOptions,
	st *runState,
) []*cards.Card {
	results, err := g.resolver.Search(ctx, cards.SearchQuery{
		TypeLine:      string(cardType),
		ColorIdentity: identity,
		SortOrder:     "edhrec",
	})
	if err != nil {
		g.logger.Warn("generic search fallback failed",
			"type", string(cardType), "error", err)
		return nil
	}
	opts.Target = shortfall
	return g.selector.SelectResolved(results, opts, st)
}

func clampLandCount(cust Customization) int {
	landCount := cust.LandCount
	if landCount == 0 {
		landCount = cust.Format.DefaultLandCount()
	}
	min, max := cust.Format.LandRange()
	if landCount < min {
		landCount = min
	}
	if landCount > max {
		landCount = max
	}
	return landCount
}

func commanderList(commander, partner *cards.Card) []*cards.Card {
	commanders := []*cards.Card{commander}
	if partner != nil {
		commanders = append(commanders, partner)
	}
	return commanders
}

func themeName(list *CardLists, slug string) string {
	if list.Theme != "" {
		return list.Theme
	}
	return slug
}
