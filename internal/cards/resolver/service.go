// Package resolver layers card resolution: an in-memory expiring cache,
// the persistent card store, and finally the card database client.
// Network hits are written back through both cache layers.
package resolver

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
	"github.com/ramonehamilton/EDH-Companion/internal/cards/scryfall"
	"github.com/ramonehamilton/EDH-Companion/internal/metrics"
	"github.com/ramonehamilton/EDH-Companion/internal/storage"
)

const (
	defaultCacheSize = 2048
	defaultCacheTTL  = time.Hour
	defaultStoreTTL  = 7 * 24 * time.Hour
)

// Client is the card database surface the service needs. Satisfied by
// *scryfall.Client.
type Client interface {
	ResolveByName(ctx context.Context, name string) (*scryfall.Card, error)
	Search(ctx context.Context, query, order string) (*scryfall.SearchResult, error)
}

// Service resolves card names and serves fallback searches. It
// implements deckgen.CardResolver.
type Service struct {
	client   Client
	store    *storage.CardStore
	memory   *expirable.LRU[string, *cards.Card]
	storeTTL time.Duration
	logger   *slog.Logger
	metrics  *metrics.PipelineMetrics
}

// Options configures the service. Store is optional; without it the
// service runs on the in-memory cache alone.
type Options struct {
	Client    Client
	Store     *storage.CardStore
	CacheSize int
	CacheTTL  time.Duration
	StoreTTL  time.Duration
	Logger    *slog.Logger
	Metrics   *metrics.PipelineMetrics // optional
}

// NewService creates a resolver service.
func NewService(opts Options) *Service {
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.StoreTTL <= 0 {
		opts.StoreTTL = defaultStoreTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		client:   opts.Client,
		store:    opts.Store,
		memory:   expirable.NewLRU[string, *cards.Card](opts.CacheSize, nil, opts.CacheTTL),
		storeTTL: opts.StoreTTL,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// Resolve returns the full card for an exact name, consulting the memory
// cache, then the store, then the card database.
func (s *Service) Resolve(ctx context.Context, name string) (*cards.Card, error) {
	if s.metrics != nil {
		start := time.Now()
		defer func() { s.metrics.RecordResolveDuration(time.Since(start)) }()
	}

	if card, ok := s.memory.Get(name); ok {
		s.countCacheHit(true)
		return card, nil
	}

	if s.store != nil {
		card, ok, err := s.store.Get(ctx, name, s.storeTTL)
		if err != nil {
			s.logger.Warn("card store read failed", "name", name, "error", err)
		} else if ok {
			s.countCacheHit(true)
			s.memory.Add(name, card)
			return card, nil
		}
	}
	s.countCacheHit(false)

	resolved, err := s.resolveUpstream(ctx, name)
	if err != nil {
		return nil, err
	}

	card := fromScryfall(resolved)
	s.cache(ctx, card)
	return card, nil
}

func (s *Service) resolveUpstream(ctx context.Context, name string) (*scryfall.Card, error) {
	if s.metrics != nil {
		s.metrics.IncrementUpstreamRequests()
	}
	resolved, err := s.client.ResolveByName(ctx, name)
	if s.metrics != nil {
		if err != nil {
			s.metrics.IncrementUpstreamErrors()
		} else {
			s.metrics.IncrementCardsResolved()
		}
	}
	return resolved, err
}

func (s *Service) countCacheHit(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.IncrementCacheHits()
	} else {
		s.metrics.IncrementCacheMisses()
	}
}

// Search runs a generic card database search and returns resolved domain
// cards. Results are cached so later Resolve calls for the same names
// stay local.
func (s *Service) Search(ctx context.Context, query cards.SearchQuery) ([]*cards.Card, error) {
	if s.metrics != nil {
		s.metrics.IncrementUpstreamRequests()
	}
	result, err := s.client.Search(ctx, buildQuery(query), query.SortOrder)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementUpstreamErrors()
		}
		return nil, err
	}

	resolved := make([]*cards.Card, 0, len(result.Data))
	for i := range result.Data {
		card := fromScryfall(&result.Data[i])
		s.cache(ctx, card)
		resolved = append(resolved, card)
	}
	return resolved, nil
}

func (s *Service) cache(ctx context.Context, card *cards.Card) {
	s.memory.Add(card.Name, card)
	if s.store != nil {
		if err := s.store.Put(ctx, card); err != nil {
			s.logger.Warn("card store write failed", "name", card.Name, "error", err)
		}
	}
}

// buildQuery renders a SearchQuery in the card database's search syntax.
func buildQuery(query cards.SearchQuery) string {
	parts := make([]string, 0, 3)
	if query.TypeLine != "" {
		parts = append(parts, "type:"+query.TypeLine)
	}
	if len(query.ColorIdentity) > 0 {
		parts = append(parts, "id<="+strings.Join(query.ColorIdentity, ""))
	}
	if query.ExcludeBasics {
		parts = append(parts, "-type:basic")
	}
	return strings.Join(parts, " ")
}

// fromScryfall converts an API card into the domain model. Multi-faced
// cards take mana cost and rules text from the front face when the top
// level is empty.
func fromScryfall(sc *scryfall.Card) *cards.Card {
	card := &cards.Card{
		Name:          sc.Name,
		ManaCost:      sc.ManaCost,
		ManaValue:     sc.CMC,
		TypeLine:      sc.TypeLine,
		OracleText:    sc.OracleText,
		ColorIdentity: cards.NormalizeIdentity(sc.ColorIdentity),
		GameChanger:   sc.GameChanger,
		EDHRECRank:    sc.EDHRECRank,
	}
	if len(sc.CardFaces) > 0 {
		front := sc.CardFaces[0]
		if card.ManaCost == "" {
			card.ManaCost = front.ManaCost
		}
		if card.OracleText == "" {
			card.OracleText = front.OracleText
		}
		if card.TypeLine == "" {
			card.TypeLine = front.TypeLine
		}
	}
	if sc.Prices.USD != nil {
		if usd, err := strconv.ParseFloat(*sc.Prices.USD, 64); err == nil {
			card.PriceUSD = usd
		}
	}
	return card
}
