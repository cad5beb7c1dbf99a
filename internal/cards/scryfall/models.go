package scryfall

import (
	"errors"
	"fmt"
)

// Card represents a card as returned by the card database.
type Card struct {
	ID            string     `json:"id"`
	OracleID      string     `json:"oracle_id"`
	Name          string     `json:"name"`
	ManaCost      string     `json:"mana_cost,omitempty"`
	CMC           float64    `json:"cmc"`
	TypeLine      string     `json:"type_line"`
	OracleText    string     `json:"oracle_text,omitempty"`
	Colors        []string   `json:"colors,omitempty"`
	ColorIdentity []string   `json:"color_identity"`
	Keywords      []string   `json:"keywords,omitempty"`
	GameChanger   bool       `json:"game_changer,omitempty"`
	EDHRECRank    int        `json:"edhrec_rank,omitempty"`
	CardFaces     []CardFace `json:"card_faces,omitempty"`
	Prices        Prices     `json:"prices"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string   `json:"name"`
	ManaCost   string   `json:"mana_cost,omitempty"`
	TypeLine   string   `json:"type_line"`
	OracleText string   `json:"oracle_text,omitempty"`
	Colors     []string `json:"colors,omitempty"`
}

// Prices represents card prices in various currencies.
type Prices struct {
	USD     *string `json:"usd,omitempty"`
	USDFoil *string `json:"usd_foil,omitempty"`
	EUR     *string `json:"eur,omitempty"`
}

// SearchResult represents a page of search results.
type SearchResult struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// APIError represents an error response from the card database.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("card database error (HTTP %d): %s", e.Status, e.Details)
}

// NotFoundError represents a 404 from the card database.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("card not found: %s", e.URL)
}

// IsNotFound reports whether the error is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// RateLimitError is returned after the single post-backoff retry for a
// 429 response also fails.
type RateLimitError struct {
	URL string
}

// Error implements the error interface for RateLimitError.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited after retry: %s", e.URL)
}
