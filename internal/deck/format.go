package deck

import (
	"fmt"
	"strings"
)

// FormatDeckForArena renders a trusted SanitizedDeck as Arena import text.
// It performs no validation; constructing the SanitizedDeck was the proof
// obligation. The sideboard block is emitted only when non-empty, separated
// from the mainboard by a single blank line.
func FormatDeckForArena(d *SanitizedDeck) string {
	lines := make([]string, 0, len(d.cards)+len(d.sideboard)+3)
	lines = append(lines, headerDeck)
	for _, card := range d.cards {
		lines = append(lines, formatCardLine(card))
	}

	if len(d.sideboard) > 0 {
		lines = append(lines, "", headerSideboard)
		for _, card := range d.sideboard {
			lines = append(lines, formatCardLine(card))
		}
	}

	return strings.Join(lines, "\n")
}

func formatCardLine(card SanitizedCard) string {
	return fmt.Sprintf("%d %s (%s) %s", card.Quantity, card.Name, card.SetCode, card.CollectorNumber)
}
