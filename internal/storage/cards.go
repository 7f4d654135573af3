package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ramonehamilton/deckport/internal/cards"
	"github.com/ramonehamilton/deckport/internal/deck"
)

// SaveCard inserts or updates a card and its alternate printings.
func (s *Service) SaveCard(ctx context.Context, card *cards.Card) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		return saveCardTx(ctx, tx, card)
	})
}

func saveCardTx(ctx context.Context, tx *sql.Tx, card *cards.Card) error {
	query := `
		INSERT INTO cards (name, arena_id, rarity, set_code, collector_number, on_arena, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			arena_id = excluded.arena_id,
			rarity = excluded.rarity,
			set_code = excluded.set_code,
			collector_number = excluded.collector_number,
			on_arena = excluded.on_arena,
			last_updated = CURRENT_TIMESTAMP
	`
	_, err := tx.ExecContext(ctx, query,
		card.Name, card.ArenaID, card.Rarity,
		strings.ToUpper(card.SetCode), card.CollectorNumber, card.OnArena(),
	)
	if err != nil {
		return fmt.Errorf("failed to save card %q: %w", card.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM printings WHERE card_name = ?`, card.Name); err != nil {
		return fmt.Errorf("failed to clear printings for %q: %w", card.Name, err)
	}

	insert := `
		INSERT INTO printings (card_name, set_code, collector_number)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, insert, card.Name, strings.ToUpper(card.SetCode), card.CollectorNumber); err != nil {
		return fmt.Errorf("failed to save canonical printing for %q: %w", card.Name, err)
	}
	for _, p := range card.Printings {
		if _, err := tx.ExecContext(ctx, insert, card.Name, strings.ToUpper(p.SetCode), p.CollectorNumber); err != nil {
			return fmt.Errorf("failed to save printing for %q: %w", card.Name, err)
		}
	}

	return nil
}

// SaveCards saves a batch of cards in a single transaction.
func (s *Service) SaveCards(ctx context.Context, batch []*cards.Card) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, card := range batch {
			if err := saveCardTx(ctx, tx, card); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetCard retrieves a card by exact name, with its alternate printings.
// Returns nil when the card does not exist.
func (s *Service) GetCard(ctx context.Context, name string) (*cards.Card, error) {
	query := `
		SELECT name, arena_id, rarity, set_code, collector_number, on_arena
		FROM cards
		WHERE name = ?
	`

	var card cards.Card
	var arenaID sql.NullInt64
	var onArena bool
	err := s.db.Conn().QueryRowContext(ctx, query, name).Scan(
		&card.Name, &arenaID, &card.Rarity, &card.SetCode, &card.CollectorNumber, &onArena,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}

	card.ArenaID = int(arenaID.Int64)
	if onArena {
		card.Games = []string{"arena"}
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT set_code, collector_number FROM printings WHERE card_name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get printings for %q: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var p cards.Printing
		if err := rows.Scan(&p.SetCode, &p.CollectorNumber); err != nil {
			return nil, fmt.Errorf("failed to scan printing: %w", err)
		}
		card.Printings = append(card.Printings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read printings: %w", err)
	}

	return &card, nil
}

// CountCards returns the number of stored cards.
func (s *Service) CountCards(ctx context.Context) (int, error) {
	var count int
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// RecordImport stores the digest and card count of a completed bulk import.
func (s *Service) RecordImport(ctx context.Context, digest string, cardCount int) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO imports (digest, card_count) VALUES (?, ?)`, digest, cardCount)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

// LastImportDigest returns the digest of the most recent bulk import, or
// the empty string when none has run.
func (s *Service) LastImportDigest(ctx context.Context) (string, error) {
	var digest string
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT digest FROM imports ORDER BY id DESC LIMIT 1`).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last import digest: %w", err)
	}
	return digest, nil
}

// IsArenaValidPrinting implements deck.PrintingOracle. Query failures map
// to "not confirmed"; an oracle that cannot answer must not vouch for a
// printing.
func (s *Service) IsArenaValidPrinting(name, setCode, collectorNumber string) bool {
	ctx := context.Background()

	if deck.IsArenaInvalidSet(setCode) {
		return false
	}

	query := `
		SELECT COUNT(*)
		FROM cards c
		JOIN printings p ON p.card_name = c.name
		WHERE c.name = ? AND c.on_arena AND p.set_code = ? AND p.collector_number = ?
	`
	var count int
	err := s.db.Conn().QueryRowContext(ctx, query, name, strings.ToUpper(setCode), collectorNumber).Scan(&count)
	if err != nil {
		slog.Warn("printing lookup failed", "card", name, "error", err)
		return false
	}
	return count > 0
}

// CanonicalArenaPrinting implements deck.PrintingOracle.
func (s *Service) CanonicalArenaPrinting(name string) (deck.Printing, bool) {
	ctx := context.Background()

	query := `
		SELECT set_code, collector_number
		FROM cards
		WHERE name = ? AND on_arena
	`
	var printing deck.Printing
	err := s.db.Conn().QueryRowContext(ctx, query, name).Scan(&printing.SetCode, &printing.CollectorNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return deck.Printing{}, false
	}
	if err != nil {
		slog.Warn("canonical printing lookup failed", "card", name, "error", err)
		return deck.Printing{}, false
	}
	if deck.IsArenaInvalidSet(printing.SetCode) {
		return deck.Printing{}, false
	}
	return printing, true
}
