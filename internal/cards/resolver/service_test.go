package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
	"github.com/ramonehamilton/EDH-Companion/internal/cards/scryfall"
	"github.com/ramonehamilton/EDH-Companion/internal/storage"
)

// fakeClient serves canned API cards and counts upstream hits.
type fakeClient struct {
	cards        map[string]*scryfall.Card
	searchResult *scryfall.SearchResult
	resolveCalls int
	searchCalls  int
	lastQuery    string
	lastOrder    string
}

func (f *fakeClient) ResolveByName(_ context.Context, name string) (*scryfall.Card, error) {
	f.resolveCalls++
	if card, ok := f.cards[name]; ok {
		return card, nil
	}
	return nil, &scryfall.NotFoundError{URL: name}
}

func (f *fakeClient) Search(_ context.Context, query, order string) (*scryfall.SearchResult, error) {
	f.searchCalls++
	f.lastQuery = query
	f.lastOrder = order
	if f.searchResult != nil {
		return f.searchResult, nil
	}
	return &scryfall.SearchResult{}, nil
}

func apiCard(name string) *scryfall.Card {
	return &scryfall.Card{
		Name:          name,
		ManaCost:      "{1}{G}",
		CMC:           2,
		TypeLine:      "Creature — Elf",
		ColorIdentity: []string{"G"},
	}
}

func TestResolveCachesInMemory(t *testing.T) {
	client := &fakeClient{cards: map[string]*scryfall.Card{"Elf": apiCard("Elf")}}
	service := NewService(Options{Client: client})
	ctx := context.Background()

	first, err := service.Resolve(ctx, "Elf")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	second, err := service.Resolve(ctx, "Elf")
	if err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}

	if client.resolveCalls != 1 {
		t.Errorf("resolveCalls = %d, want 1", client.resolveCalls)
	}
	if first != second {
		t.Error("memory cache should return the same instance")
	}
	if first.Name != "Elf" || first.ManaValue != 2 || first.PrimaryType() != cards.TypeCreature {
		t.Errorf("card = %+v", first)
	}
}

func TestResolveNotFound(t *testing.T) {
	service := NewService(Options{Client: &fakeClient{}})

	_, err := service.Resolve(context.Background(), "Nothing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !scryfall.IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}
}

func TestResolveUsesStore(t *testing.T) {
	config := storage.DefaultConfig(":memory:")
	config.AutoMigrate = true
	config.MaxOpenConns = 1
	config.MaxIdleConns = 1
	db, err := storage.Open(config)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := storage.NewCardStore(db)

	client := &fakeClient{cards: map[string]*scryfall.Card{"Elf": apiCard("Elf")}}
	service := NewService(Options{Client: client, Store: store, StoreTTL: time.Hour})
	ctx := context.Background()

	if _, err := service.Resolve(ctx, "Elf"); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	// A second service over the same store starts with a cold memory
	// cache; the persisted row keeps it off the network.
	fresh := NewService(Options{Client: client, Store: store, StoreTTL: time.Hour})
	card, err := fresh.Resolve(ctx, "Elf")
	if err != nil {
		t.Fatalf("fresh Resolve() error: %v", err)
	}
	if client.resolveCalls != 1 {
		t.Errorf("resolveCalls = %d, want 1 (store hit)", client.resolveCalls)
	}
	if card.Name != "Elf" || card.ColorIdentity[0] != "G" {
		t.Errorf("card = %+v", card)
	}
}

func TestSearchBuildsQuery(t *testing.T) {
	client := &fakeClient{searchResult: &scryfall.SearchResult{
		Data: []scryfall.Card{*apiCard("Found Elf")},
	}}
	service := NewService(Options{Client: client})

	results, err := service.Search(context.Background(), cards.SearchQuery{
		TypeLine:      "land",
		ColorIdentity: []string{"W", "U", "B"},
		ExcludeBasics: true,
		SortOrder:     "edhrec",
	})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if client.lastQuery != "type:land id<=WUB -type:basic" {
		t.Errorf("query = %q", client.lastQuery)
	}
	if client.lastOrder != "edhrec" {
		t.Errorf("order = %q", client.lastOrder)
	}
	if len(results) != 1 || results[0].Name != "Found Elf" {
		t.Errorf("results = %+v", results)
	}

	// Search results land in the cache, so resolving them stays local.
	if _, err := service.Resolve(context.Background(), "Found Elf"); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if client.resolveCalls != 0 {
		t.Errorf("resolveCalls = %d, want 0", client.resolveCalls)
	}
}

func TestFromScryfallFrontFaceFallback(t *testing.T) {
	sc := &scryfall.Card{
		Name:          "Delver of Secrets // Insectile Aberration",
		CMC:           1,
		ColorIdentity: []string{"U"},
		CardFaces: []scryfall.CardFace{
			{Name: "Delver of Secrets", ManaCost: "{U}", TypeLine: "Creature — Human Wizard", OracleText: "At the beginning of your upkeep..."},
			{Name: "Insectile Aberration", TypeLine: "Creature — Human Insect"},
		},
	}

	card := fromScryfall(sc)
	if card.ManaCost != "{U}" {
		t.Errorf("ManaCost = %q, want front face cost", card.ManaCost)
	}
	if card.TypeLine != "Creature — Human Wizard" {
		t.Errorf("TypeLine = %q", card.TypeLine)
	}
	if card.OracleText == "" {
		t.Error("OracleText should fall back to the front face")
	}
}

func TestFromScryfallPrice(t *testing.T) {
	usd := "3.21"
	card := fromScryfall(&scryfall.Card{Name: "X", TypeLine: "Artifact", Prices: scryfall.Prices{USD: &usd}})
	if card.PriceUSD != 3.21 {
		t.Errorf("PriceUSD = %v, want 3.21", card.PriceUSD)
	}

	bad := "n/a"
	card = fromScryfall(&scryfall.Card{Name: "Y", TypeLine: "Artifact", Prices: scryfall.Prices{USD: &bad}})
	if card.PriceUSD != 0 {
		t.Errorf("unparseable price should stay 0, got %v", card.PriceUSD)
	}
}

func TestBuildQueryParts(t *testing.T) {
	tests := []struct {
		name  string
		query cards.SearchQuery
		want  string
	}{
		{"type only", cards.SearchQuery{TypeLine: "creature"}, "type:creature"},
		{"identity only", cards.SearchQuery{ColorIdentity: []string{"R", "G"}}, "id<=RG"},
		{"all parts", cards.SearchQuery{TypeLine: "land", ColorIdentity: []string{"W"}, ExcludeBasics: true}, "type:land id<=W -type:basic"},
		{"empty", cards.SearchQuery{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(tt.query); got != tt.want {
				t.Errorf("buildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
