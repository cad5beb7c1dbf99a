package edhrec

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ramonehamilton/EDH-Companion/internal/deckgen"
)

// DefaultCacheTTL bounds how long recommendation data is reused before
// hitting the service again.
const DefaultCacheTTL = 24 * time.Hour

const defaultCacheSize = 256

// Source wraps the client with an expiring response cache and implements
// deckgen.RecommendationSource. The cache is an explicit, injected object
// rather than hidden package state, so the engine stays independently
// testable.
type Source struct {
	client *Client
	stats  *expirable.LRU[string, *deckgen.CommanderStats]
	lists  *expirable.LRU[string, *deckgen.CardLists]
}

// NewSource creates a caching source over the given client. A zero TTL
// selects DefaultCacheTTL.
func NewSource(client *Client, ttl time.Duration) *Source {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Source{
		client: client,
		stats:  expirable.NewLRU[string, *deckgen.CommanderStats](defaultCacheSize, nil, ttl),
		lists:  expirable.NewLRU[string, *deckgen.CardLists](defaultCacheSize, nil, ttl),
	}
}

// FetchStats returns cached statistics when fresh, otherwise fetches and
// caches them.
func (s *Source) FetchStats(ctx context.Context, commander string, opts deckgen.RecOptions) (*deckgen.CommanderStats, error) {
	key := cacheKey(commander, "", opts)
	if stats, ok := s.stats.Get(key); ok {
		return stats, nil
	}
	stats, err := s.client.FetchStats(ctx, commander, opts)
	if err != nil {
		return nil, err
	}
	s.stats.Add(key, stats)
	return stats, nil
}

// FetchCardLists returns cached lists when fresh, otherwise fetches and
// caches them.
func (s *Source) FetchCardLists(ctx context.Context, commander, theme string, opts deckgen.RecOptions) (*deckgen.CardLists, error) {
	key := cacheKey(commander, theme, opts)
	if lists, ok := s.lists.Get(key); ok {
		return lists, nil
	}
	lists, err := s.client.FetchCardLists(ctx, commander, theme, opts)
	if err != nil {
		return nil, err
	}
	s.lists.Add(key, lists)
	return lists, nil
}

func cacheKey(commander, theme string, opts deckgen.RecOptions) string {
	return fmt.Sprintf("%s|%s|%d|%s", Slugify(commander), theme, opts.Bracket, opts.BudgetTier)
}
