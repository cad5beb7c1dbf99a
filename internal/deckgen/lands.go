package deckgen

import (
	"context"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

// utilityLandName is the fixed color-fixing land added to multi-color
// decks in the primary format.
const utilityLandName = "Command Tower"

// landOptions configures the mana base build.
type landOptions struct {
	Total          int
	NonBasic       int
	Identity       []string
	Format         Format
	PriceCap       float64
	GameChangerCap int
}

// buildLands assembles the mana base: recommended non-basic lands first,
// a generic search fallback if the pool runs dry, the utility land for
// multi-color decks in the primary format, and proportioned basic lands
// for the rest. The result is exactly opts.Total lands whenever enough
// on-color lands exist anywhere.
func (g *Generator) buildLands(ctx context.Context, pool *CardPool, opts landOptions, st *runState) []*cards.Card {
	selectOpts := SelectOptions{
		Target:         opts.NonBasic,
		ExpectedType:   cards.TypeLand,
		IgnoreCurve:    true, // the mana curve does not apply to lands
		Identity:       opts.Identity,
		PriceCap:       opts.PriceCap,
		GameChangerCap: opts.GameChangerCap,
	}
	if selectOpts.Target > opts.Total {
		selectOpts.Target = opts.Total
	}

	candidates := make([]CandidateCard, 0, len(pool.Lands))
	for _, candidate := range pool.Candidates(cards.TypeLand) {
		if cards.IsBasicLand(candidate.Name) {
			continue
		}
		candidates = append(candidates, candidate)
	}

	lands := g.selector.Select(ctx, candidates, selectOpts, st)

	if shortfall := selectOpts.Target - len(lands); shortfall > 0 {
		results, err := g.resolver.Search(ctx, cards.SearchQuery{
			TypeLine:      "land",
			ColorIdentity: opts.Identity,
			ExcludeBasics: true,
			SortOrder:     "edhrec",
		})
		if err != nil {
			g.logger.Warn("non-basic land fallback search failed", "error", err)
		} else {
			fallbackOpts := selectOpts
			fallbackOpts.Target = shortfall
			lands = append(lands, g.selector.SelectResolved(results, fallbackOpts, st)...)
		}
	}

	if len(opts.Identity) > 1 && opts.Format == Format100 &&
		!st.used[utilityLandName] && !st.banned[utilityLandName] && len(lands) < opts.Total {
		if tower, err := g.resolver.Resolve(ctx, utilityLandName); err != nil {
			g.logger.Debug("utility land unavailable", "name", utilityLandName, "error", err)
		} else {
			lands = append(lands, tower)
			st.markUsed(tower, false)
		}
	}

	if remaining := opts.Total - len(lands); remaining > 0 {
		lands = append(lands, distributeBasics(remaining, opts.Identity)...)
	}

	if len(lands) > opts.Total {
		lands = lands[:opts.Total]
	}
	if len(lands) < opts.Total {
		g.logger.Warn("mana base short of target",
			"want", opts.Total, "got", len(lands))
	}
	return lands
}

// distributeBasics spreads count basic lands over the identity colors as
// evenly as possible, assigning any remainder to earlier colors in WUBRG
// order. The identity must already be in canonical order.
func distributeBasics(count int, identity []string) []*cards.Card {
	if count <= 0 || len(identity) == 0 {
		return nil
	}
	base := count / len(identity)
	remainder := count % len(identity)

	basics := make([]*cards.Card, 0, count)
	for i, color := range identity {
		perColor := base
		if i < remainder {
			perColor++
		}
		for j := 0; j < perColor; j++ {
			if land, ok := cards.BasicLand(color); ok {
				basics = append(basics, land)
			}
		}
	}
	return basics
}
