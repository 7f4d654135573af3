package cards

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/ramonehamilton/deckport/internal/deck"
)

// Database is an in-memory card table keyed by exact card name. It
// implements deck.PrintingOracle. Reads are lock-free aside from an RWMutex
// so concurrent sanitize calls never block each other; Replace swaps the
// whole table atomically when the backing file is reloaded.
type Database struct {
	mu    sync.RWMutex
	cards map[string]*Card
}

// NewDatabase creates a database from a card table keyed by name.
// Set codes are normalized to uppercase on the way in.
func NewDatabase(table map[string]*Card) *Database {
	db := &Database{}
	db.Replace(table)
	return db
}

// Load reads a card database JSON file: an object keyed by card name, each
// value a Card. This is the format the bulk import job produces.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card database: %w", err)
	}

	var table map[string]*Card
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse card database %s: %w", path, err)
	}

	slog.Debug("card database loaded", "path", path, "cards", len(table))
	return NewDatabase(table), nil
}

// Replace swaps the entire card table. Used by the refresh watcher after
// the backing file changes; in-flight readers keep the old table.
func (db *Database) Replace(table map[string]*Card) {
	normalized := make(map[string]*Card, len(table))
	for name, card := range table {
		if card == nil {
			continue
		}
		c := *card
		c.SetCode = strings.ToUpper(c.SetCode)
		for i := range c.Printings {
			c.Printings[i].SetCode = strings.ToUpper(c.Printings[i].SetCode)
		}
		normalized[name] = &c
	}

	db.mu.Lock()
	db.cards = normalized
	db.mu.Unlock()
}

// ReplaceFrom swaps this database's table with other's. The tables are
// already normalized, so the swap is a pointer exchange.
func (db *Database) ReplaceFrom(other *Database) {
	other.mu.RLock()
	table := other.cards
	other.mu.RUnlock()

	db.mu.Lock()
	db.cards = table
	db.mu.Unlock()
}

// Get returns the card with the given exact name.
func (db *Database) Get(name string) (*Card, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	card, ok := db.cards[name]
	return card, ok
}

// Len returns the number of cards in the table.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.cards)
}

// IsArenaValidPrinting implements deck.PrintingOracle. A printing is valid
// when the card exists, is available on Arena, names a known printing, and
// its set is not one Arena refuses to import.
func (db *Database) IsArenaValidPrinting(name, setCode, collectorNumber string) bool {
	card, ok := db.Get(name)
	if !ok || !card.OnArena() {
		return false
	}
	if deck.IsArenaInvalidSet(setCode) {
		return false
	}
	return card.HasPrinting(strings.ToUpper(setCode), collectorNumber)
}

// CanonicalArenaPrinting implements deck.PrintingOracle. The canonical
// printing is the card's primary printing, offered only when it is itself
// Arena-importable.
func (db *Database) CanonicalArenaPrinting(name string) (deck.Printing, bool) {
	card, ok := db.Get(name)
	if !ok || !card.OnArena() {
		return deck.Printing{}, false
	}
	if deck.IsArenaInvalidSet(card.SetCode) {
		return deck.Printing{}, false
	}
	return deck.Printing{SetCode: card.SetCode, CollectorNumber: card.CollectorNumber}, true
}
