package deck

import "strings"

// SanitizeDeckForArena converts untrusted deck-list text into a
// SanitizedDeck. Each step is a hard gate: pre-parse input checks,
// structural parse, per-field validation in fixed order (quantity, name,
// set code, collector number), duplicate detection, then oracle
// confirmation of every printing. Failure at any step aborts the whole
// call with the specific error kind for the first violation found.
//
// A declared printing the oracle does not confirm is never replaced by the
// oracle's canonical printing; the mismatch is reported as an error. Only
// bare-name entries (no set/collector tokens) are completed from the
// canonical printing, since they declare nothing to mismatch against.
func SanitizeDeckForArena(raw string, oracle PrintingOracle) (*SanitizedDeck, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, structureErrorf("input is empty")
	}
	if len(raw) > MaxInputBytes {
		return nil, structureErrorf("input exceeds maximum size of %d bytes", MaxInputBytes)
	}

	parsed, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	deck := &SanitizedDeck{}
	if deck.cards, err = sanitizeSection(parsed.Mainboard, headerDeck, oracle); err != nil {
		return nil, err
	}
	if deck.sideboard, err = sanitizeSection(parsed.Sideboard, headerSideboard, oracle); err != nil {
		return nil, err
	}
	return deck, nil
}

func sanitizeSection(entries []ParsedEntry, section string, oracle PrintingOracle) ([]SanitizedCard, error) {
	var cards []SanitizedCard
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		card, err := sanitizeEntry(entry, oracle)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[card.Name]; dup {
			return nil, duplicateCardErrorf(card.Name, section)
		}
		seen[card.Name] = struct{}{}
		cards = append(cards, card)
	}
	return cards, nil
}

func sanitizeEntry(entry ParsedEntry, oracle PrintingOracle) (SanitizedCard, error) {
	quantity, err := ValidateQuantity(entry.RawQuantity)
	if err != nil {
		return SanitizedCard{}, err
	}
	name, err := ValidateCardName(entry.RawName)
	if err != nil {
		return SanitizedCard{}, err
	}

	if entry.RawSetCode == "" && entry.RawCollectorNumber == "" {
		return completeBareEntry(quantity, name, oracle)
	}

	setCode, err := ValidateSetCode(entry.RawSetCode)
	if err != nil {
		return SanitizedCard{}, err
	}
	collectorNumber, err := ValidateCollectorNumber(entry.RawCollectorNumber)
	if err != nil {
		return SanitizedCard{}, err
	}

	if !oracle.IsArenaValidPrinting(name, setCode, collectorNumber) {
		return SanitizedCard{}, diagnosePrintingMismatch(name, setCode, collectorNumber, oracle)
	}

	return SanitizedCard{
		Quantity:        quantity,
		Name:            name,
		SetCode:         setCode,
		CollectorNumber: collectorNumber,
	}, nil
}

// completeBareEntry resolves a bare-name entry to the oracle's canonical
// printing. The canonical printing still has to pass the set code and
// collector number validators and oracle confirmation; an oracle handing
// out a PLST printing, or one it would not itself confirm, is a data
// problem, not a license to bypass the rules declared printings face.
func completeBareEntry(quantity int, name string, oracle PrintingOracle) (SanitizedCard, error) {
	canonical, ok := oracle.CanonicalArenaPrinting(name)
	if !ok {
		return SanitizedCard{}, cardNameErrorf("no Arena printing known for %q", name)
	}
	setCode, err := ValidateSetCode(canonical.SetCode)
	if err != nil {
		return SanitizedCard{}, err
	}
	collectorNumber, err := ValidateCollectorNumber(canonical.CollectorNumber)
	if err != nil {
		return SanitizedCard{}, err
	}
	if !oracle.IsArenaValidPrinting(name, setCode, collectorNumber) {
		return SanitizedCard{}, cardNameErrorf("canonical printing (%s) %s of %q is not confirmed for Arena import",
			setCode, collectorNumber, name)
	}
	return SanitizedCard{
		Quantity:        quantity,
		Name:            name,
		SetCode:         setCode,
		CollectorNumber: collectorNumber,
	}, nil
}

// diagnosePrintingMismatch picks the error kind for a declared printing the
// oracle did not confirm. Set-code divergence from the canonical printing
// takes precedence over collector-number divergence; when the oracle knows
// no printing at all for the name, the set code is blamed, since it is the
// field that selected the unconfirmable printing.
func diagnosePrintingMismatch(name, setCode, collectorNumber string, oracle PrintingOracle) error {
	canonical, ok := oracle.CanonicalArenaPrinting(name)
	if !ok {
		return setCodeErrorf("no Arena printing of %q exists in set %q", name, setCode)
	}
	if canonical.SetCode != setCode {
		return setCodeErrorf("set %q is not a confirmed Arena printing of %q (canonical: %s)",
			setCode, name, canonical.SetCode)
	}
	if canonical.CollectorNumber != collectorNumber {
		return collectorNumberErrorf("collector number %q is not a confirmed Arena printing of %q (canonical: %s)",
			collectorNumber, name, canonical.CollectorNumber)
	}
	return setCodeErrorf("printing (%s) %s of %q is not confirmed for Arena import",
		setCode, collectorNumber, name)
}
