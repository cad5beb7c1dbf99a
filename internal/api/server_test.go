package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
	"github.com/ramonehamilton/EDH-Companion/internal/cards/scryfall"
	"github.com/ramonehamilton/EDH-Companion/internal/deckgen"
)

// stubComposer returns a fixed deck or error and records the last request.
type stubComposer struct {
	deck *deckgen.GeneratedDeck
	err  error

	commander string
	partner   string
	cust      deckgen.Customization
	themes    []string
}

func (s *stubComposer) GenerateByName(_ context.Context, commanderName, partnerName string,
	cust deckgen.Customization, themes []string, _ deckgen.ProgressFunc) (*deckgen.GeneratedDeck, error) {
	s.commander = commanderName
	s.partner = partnerName
	s.cust = cust
	s.themes = themes
	if s.err != nil {
		return nil, s.err
	}
	return s.deck, nil
}

func newTestServer(composer *stubComposer) *httptest.Server {
	server := NewServer(DefaultConfig(), composer, nil, nil)
	return httptest.NewServer(server.Router())
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(&stubComposer{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	ts := newTestServer(&stubComposer{deck: &deckgen.GeneratedDeck{}})
	defer ts.Close()

	// A completed generation run shows up in the counters.
	resp := postJSON(t, ts.URL+"/api/v1/decks/generate", `{"commander": "Krenko, Mob Boss"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}

	metricsResp, err := http.Get(ts.URL + "/api/v1/metrics")
	if err != nil {
		t.Fatalf("GET /api/v1/metrics failed: %v", err)
	}
	defer metricsResp.Body.Close()

	if metricsResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", metricsResp.StatusCode)
	}

	var body struct {
		Data struct {
			DecksGenerated uint64 `json:"decks_generated"`
		} `json:"data"`
	}
	if err := json.NewDecoder(metricsResp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.DecksGenerated != 1 {
		t.Errorf("decks_generated = %d, want 1", body.Data.DecksGenerated)
	}
}

func TestGenerateDeck(t *testing.T) {
	composer := &stubComposer{deck: &deckgen.GeneratedDeck{
		Commanders: []*cards.Card{{Name: "Tatyova, Benthic Druid"}},
		Lands:      []*cards.Card{{Name: "Command Tower"}},
	}}
	ts := newTestServer(composer)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/decks/generate", `{
		"commander": "Tatyova, Benthic Druid",
		"format": "100",
		"themes": ["lands"],
		"landCount": 36,
		"bannedNames": ["Sol Ring"],
		"priceCap": 5.0,
		"gameChangerCap": 2
	}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Data deckgen.GeneratedDeck `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Commanders) != 1 || body.Data.Commanders[0].Name != "Tatyova, Benthic Druid" {
		t.Errorf("commanders = %+v", body.Data.Commanders)
	}

	if composer.commander != "Tatyova, Benthic Druid" {
		t.Errorf("commander passed = %q", composer.commander)
	}
	if composer.cust.Format != deckgen.Format100 || composer.cust.LandCount != 36 {
		t.Errorf("customization = %+v", composer.cust)
	}
	if composer.cust.PriceCap != 5.0 || composer.cust.GameChangerCap != 2 {
		t.Errorf("customization = %+v", composer.cust)
	}
	if len(composer.themes) != 1 || composer.themes[0] != "lands" {
		t.Errorf("themes = %v", composer.themes)
	}
}

func TestGenerateDeckDefaultFormat(t *testing.T) {
	composer := &stubComposer{deck: &deckgen.GeneratedDeck{}}
	ts := newTestServer(composer)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/decks/generate", `{"commander": "Krenko, Mob Boss"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if composer.cust.Format != deckgen.Format100 {
		t.Errorf("Format = %v, want Format100", composer.cust.Format)
	}
}

func TestGenerateDeckBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing commander", `{"themes": ["lands"]}`},
		{"unknown format", `{"commander": "Krenko, Mob Boss", "format": "200"}`},
	}

	ts := newTestServer(&stubComposer{deck: &deckgen.GeneratedDeck{}})
	defer ts.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/v1/decks/generate", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGenerateDeckRequiresJSONContentType(t *testing.T) {
	ts := newTestServer(&stubComposer{deck: &deckgen.GeneratedDeck{}})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/decks/generate", "text/plain",
		strings.NewReader(`{"commander": "Krenko, Mob Boss"}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}

func TestGenerateDeckErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown commander", &scryfall.NotFoundError{URL: "x"}, http.StatusNotFound},
		{"wrapped not found", errors.Join(errors.New("resolve commander"), &scryfall.NotFoundError{URL: "x"}), http.StatusNotFound},
		{"rate limited", &scryfall.RateLimitError{URL: "x"}, http.StatusServiceUnavailable},
		{"constraint violation", &deckgen.GenerationError{Reason: "commander has no color identity"}, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(&stubComposer{err: tt.err})
			defer ts.Close()

			resp := postJSON(t, ts.URL+"/api/v1/decks/generate", `{"commander": "Krenko, Mob Boss"}`)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}

			var body struct {
				Error string `json:"error"`
				Code  int    `json:"code"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.want || body.Error == "" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}
