// Package legality answers format-legality questions about sanitized
// decks, backed by the stored set table.
package legality

import (
	"context"
	"fmt"
	"time"

	"github.com/ramonehamilton/deckport/internal/deck"
	"github.com/ramonehamilton/deckport/internal/storage"
)

// Supported formats.
const (
	FormatStandard = "standard"
	FormatHistoric = "historic"
)

// Checker resolves set legality from the stored set table.
type Checker struct {
	store *storage.Service
	now   func() time.Time
}

// NewChecker creates a checker backed by store.
func NewChecker(store *storage.Service) *Checker {
	return &Checker{store: store, now: time.Now}
}

// SetLegal reports whether a set is legal in the given format. Unknown
// sets are not legal in any format.
func (c *Checker) SetLegal(ctx context.Context, format, setCode string) (bool, error) {
	set, err := c.store.GetSet(ctx, setCode)
	if err != nil {
		return false, err
	}
	if set == nil {
		return false, nil
	}

	switch format {
	case FormatStandard:
		if !set.IsStandardLegal {
			return false, nil
		}
		if set.RotationDate == nil {
			return true, nil
		}
		rotation, err := time.Parse("2006-01-02", *set.RotationDate)
		if err != nil {
			return false, fmt.Errorf("bad rotation date for set %q: %w", setCode, err)
		}
		return c.now().Before(rotation), nil
	case FormatHistoric:
		// Historic keeps everything ever released on Arena.
		return true, nil
	default:
		return false, fmt.Errorf("unknown format %q", format)
	}
}

// CheckDeck returns the set codes in d that are not legal in the given
// format, mainboard and sideboard alike. An empty result means the deck
// is legal.
func (c *Checker) CheckDeck(ctx context.Context, format string, d *deck.SanitizedDeck) ([]string, error) {
	if d == nil {
		return nil, fmt.Errorf("nil deck")
	}

	seen := make(map[string]bool)
	var illegal []string

	check := func(entries []deck.SanitizedCard) error {
		for _, card := range entries {
			if seen[card.SetCode] {
				continue
			}
			seen[card.SetCode] = true

			ok, err := c.SetLegal(ctx, format, card.SetCode)
			if err != nil {
				return err
			}
			if !ok {
				illegal = append(illegal, card.SetCode)
			}
		}
		return nil
	}

	if err := check(d.Cards()); err != nil {
		return nil, err
	}
	if err := check(d.Sideboard()); err != nil {
		return nil, err
	}
	return illegal, nil
}
