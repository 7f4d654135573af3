// Package cards provides the card-data model and an in-memory card
// database that backs the deck pipeline's printing oracle.
package cards

// Printing is one issued version of a card.
type Printing struct {
	SetCode         string `json:"set"`
	CollectorNumber string `json:"collector_number"`
}

// Card holds the subset of Scryfall card data the oracle needs: identity,
// the canonical printing, alternate printings, and platform availability.
type Card struct {
	Name            string     `json:"name"`
	ArenaID         int        `json:"arena_id,omitempty"`
	Rarity          string     `json:"rarity,omitempty"`
	SetCode         string     `json:"set"`
	CollectorNumber string     `json:"collector_number"`
	Games           []string   `json:"games"`
	Printings       []Printing `json:"printings,omitempty"`
}

// OnArena reports whether the card exists on the Arena platform.
func (c *Card) OnArena() bool {
	for _, game := range c.Games {
		if game == "arena" {
			return true
		}
	}
	return false
}

// HasPrinting reports whether (setCode, collectorNumber) is either the
// card's canonical printing or one of its alternate printings.
func (c *Card) HasPrinting(setCode, collectorNumber string) bool {
	if c.SetCode == setCode && c.CollectorNumber == collectorNumber {
		return true
	}
	for _, p := range c.Printings {
		if p.SetCode == setCode && p.CollectorNumber == collectorNumber {
			return true
		}
	}
	return false
}
