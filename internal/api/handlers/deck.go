package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ramonehamilton/EDH-Companion/internal/api/response"
	"github.com/ramonehamilton/EDH-Companion/internal/cards/scryfall"
	"github.com/ramonehamilton/EDH-Companion/internal/deckgen"
	"github.com/ramonehamilton/EDH-Companion/internal/metrics"
)

// Composer runs the deck composition pipeline. Satisfied by
// *deckgen.Generator.
type Composer interface {
	GenerateByName(ctx context.Context, commanderName, partnerName string,
		cust deckgen.Customization, themes []string, progress deckgen.ProgressFunc) (*deckgen.GeneratedDeck, error)
}

// DeckHandler handles deck generation API requests.
type DeckHandler struct {
	composer Composer
	pipeline *metrics.PipelineMetrics
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(composer Composer, pipeline *metrics.PipelineMetrics) *DeckHandler {
	return &DeckHandler{composer: composer, pipeline: pipeline}
}

// GenerateDeckRequest represents a deck generation request.
type GenerateDeckRequest struct {
	Commander      string   `json:"commander"`
	Partner        string   `json:"partner,omitempty"`
	Format         string   `json:"format,omitempty"` // "40", "60", or "100" (default)
	Themes         []string `json:"themes,omitempty"`
	LandCount      int      `json:"landCount,omitempty"`
	NonBasicLands  int      `json:"nonBasicLands,omitempty"`
	BannedNames    []string `json:"bannedNames,omitempty"`
	MustInclude    []string `json:"mustInclude,omitempty"`
	PriceCap       float64  `json:"priceCap,omitempty"`
	BudgetTier     string   `json:"budgetTier,omitempty"`
	Bracket        int      `json:"bracket,omitempty"`
	GameChangerCap int      `json:"gameChangerCap,omitempty"`
}

// GenerateDeck generates a deck for the requested commander.
func (h *DeckHandler) GenerateDeck(w http.ResponseWriter, r *http.Request) {
	var req GenerateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.Commander == "" {
		response.BadRequest(w, errors.New("commander name is required"))
		return
	}

	format, err := parseFormat(req.Format)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	cust := deckgen.Customization{
		Format:         format,
		LandCount:      req.LandCount,
		NonBasicLands:  req.NonBasicLands,
		BannedNames:    req.BannedNames,
		MustInclude:    req.MustInclude,
		PriceCap:       req.PriceCap,
		BudgetTier:     req.BudgetTier,
		Bracket:        req.Bracket,
		GameChangerCap: req.GameChangerCap,
	}

	start := time.Now()
	deck, err := h.composer.GenerateByName(r.Context(), req.Commander, req.Partner, cust, req.Themes, nil)
	if err != nil {
		writeGenerationError(w, err)
		return
	}
	if h.pipeline != nil {
		h.pipeline.RecordGenerationDuration(time.Since(start))
		h.pipeline.IncrementDecksGenerated()
	}

	response.Success(w, deck)
}

// parseFormat maps the wire format name to a deck format. Empty means the
// primary 100-card format.
func parseFormat(name string) (deckgen.Format, error) {
	switch name {
	case "", "100", "100-card":
		return deckgen.Format100, nil
	case "60", "60-card":
		return deckgen.Format60, nil
	case "40", "40-card":
		return deckgen.Format40, nil
	default:
		return 0, fmt.Errorf("unknown format %q", name)
	}
}

// writeGenerationError maps pipeline failures onto HTTP statuses: unknown
// commander names are the caller's problem, upstream throttling is
// temporary, and constraint violations are unprocessable.
func writeGenerationError(w http.ResponseWriter, err error) {
	var genErr *deckgen.GenerationError
	var rateErr *scryfall.RateLimitError
	switch {
	case scryfall.IsNotFound(err):
		response.NotFound(w, err)
	case errors.As(err, &rateErr):
		response.ServiceUnavailable(w, err)
	case errors.As(err, &genErr):
		response.UnprocessableEntity(w, err)
	default:
		response.InternalError(w, err)
	}
}
