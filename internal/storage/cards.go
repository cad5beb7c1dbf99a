package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

// CardStore persists resolved cards with their fetch time so callers can
// decide how much staleness they tolerate.
type CardStore struct {
	db *DB
}

// NewCardStore creates a card store over an open database.
func NewCardStore(db *DB) *CardStore {
	return &CardStore{db: db}
}

// Get returns the cached card for a name if it was fetched within maxAge.
// A zero maxAge accepts any cached row. The second return is false when
// the name is missing or too stale.
func (s *CardStore) Get(ctx context.Context, name string, maxAge time.Duration) (*cards.Card, bool, error) {
	row := s.db.conn.QueryRowContext(ctx, `
		SELECT name, mana_cost, mana_value, type_line, oracle_text,
		       color_identity, price_usd, game_changer, edhrec_rank, fetched_at
		FROM cards WHERE name = ?`, name)

	var card cards.Card
	var identity string
	var gameChanger int
	var fetchedAt time.Time

	err := row.Scan(&card.Name, &card.ManaCost, &card.ManaValue, &card.TypeLine,
		&card.OracleText, &identity, &card.PriceUSD, &gameChanger, &card.EDHRECRank, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query card %q: %w", name, err)
	}

	if maxAge > 0 && time.Since(fetchedAt) > maxAge {
		return nil, false, nil
	}

	if identity != "" {
		card.ColorIdentity = strings.Split(identity, ",")
	}
	card.GameChanger = gameChanger != 0
	return &card, true, nil
}

// Put upserts a resolved card, stamping it with the current time.
func (s *CardStore) Put(ctx context.Context, card *cards.Card) error {
	gameChanger := 0
	if card.GameChanger {
		gameChanger = 1
	}

	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO cards (name, mana_cost, mana_value, type_line, oracle_text,
		                   color_identity, price_usd, game_changer, edhrec_rank, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			mana_cost = excluded.mana_cost,
			mana_value = excluded.mana_value,
			type_line = excluded.type_line,
			oracle_text = excluded.oracle_text,
			color_identity = excluded.color_identity,
			price_usd = excluded.price_usd,
			game_changer = excluded.game_changer,
			edhrec_rank = excluded.edhrec_rank,
			fetched_at = excluded.fetched_at`,
		card.Name, card.ManaCost, card.ManaValue, card.TypeLine, card.OracleText,
		strings.Join(card.ColorIdentity, ","), card.PriceUSD, gameChanger,
		card.EDHRECRank, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store card %q: %w", card.Name, err)
	}
	return nil
}

// Purge deletes rows older than maxAge and returns the count removed.
func (s *CardStore) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	result, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM cards WHERE fetched_at < ?`, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("purge stale cards: %w", err)
	}
	return result.RowsAffected()
}
