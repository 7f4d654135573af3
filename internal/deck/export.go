package deck

// ValidateArenaExport re-checks an already-sanitized deck end to end
// immediately before rendering. Sanitization proves the deck was importable
// against the oracle snapshot at sanitize time; the oracle is mutable
// external state, so a long-lived process must not assume that snapshot
// still holds. All failures are ErrNotImportable.
func ValidateArenaExport(d *SanitizedDeck, oracle PrintingOracle) error {
	if d == nil || len(d.cards) == 0 {
		return importabilityErrorf("mainboard is empty")
	}

	for _, section := range []struct {
		name  string
		cards []SanitizedCard
	}{
		{headerDeck, d.cards},
		{headerSideboard, d.sideboard},
	} {
		for _, card := range section.cards {
			if IsArenaInvalidSet(card.SetCode) {
				return importabilityErrorf("%s: set %q of %q cannot be imported into Arena",
					section.name, card.SetCode, card.Name)
			}
			if !oracle.IsArenaValidPrinting(card.Name, card.SetCode, card.CollectorNumber) {
				return importabilityErrorf("%s: printing (%s) %s of %q is no longer confirmed for Arena import",
					section.name, card.SetCode, card.CollectorNumber, card.Name)
			}
		}
	}
	return nil
}
