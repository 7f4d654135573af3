package deck

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeOracle is a deterministic in-memory PrintingOracle fixture.
type fakeOracle struct {
	valid     map[string]bool // "name|set|collector"
	canonical map[string]Printing
}

func (o *fakeOracle) IsArenaValidPrinting(name, setCode, collectorNumber string) bool {
	return o.valid[name+"|"+setCode+"|"+collectorNumber]
}

func (o *fakeOracle) CanonicalArenaPrinting(name string) (Printing, bool) {
	p, ok := o.canonical[name]
	return p, ok
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		valid: map[string]bool{
			"Lightning Bolt|M10|146": true,
			"Lightning Bolt|STA|42":  true,
			"Shock|M21|159":          true,
			"Mountain|DMU|269":       true,
			"Duress|M21|95":          true,
		},
		canonical: map[string]Printing{
			"Lightning Bolt": {SetCode: "STA", CollectorNumber: "42"},
			"Shock":          {SetCode: "M21", CollectorNumber: "159"},
			"Mountain":       {SetCode: "DMU", CollectorNumber: "269"},
			"Duress":         {SetCode: "M21", CollectorNumber: "95"},
		},
	}
}

func TestSanitizeValidDeck(t *testing.T) {
	raw := `Deck
4 Lightning Bolt (M10) 146
2 Shock (M21) 159

Sideboard
2 Duress (M21) 95`

	sanitized, err := SanitizeDeckForArena(raw, newFakeOracle())
	if err != nil {
		t.Fatalf("SanitizeDeckForArena failed: %v", err)
	}

	cards := sanitized.Cards()
	if len(cards) != 2 {
		t.Fatalf("got %d mainboard cards, want 2", len(cards))
	}
	want := SanitizedCard{Quantity: 4, Name: "Lightning Bolt", SetCode: "M10", CollectorNumber: "146"}
	if cards[0] != want {
		t.Errorf("first card = %+v, want %+v", cards[0], want)
	}

	sideboard := sanitized.Sideboard()
	if len(sideboard) != 1 {
		t.Fatalf("got %d sideboard cards, want 1", len(sideboard))
	}
	if sideboard[0].Name != "Duress" {
		t.Errorf("sideboard card = %q, want Duress", sideboard[0].Name)
	}
}

func TestSanitizePreservesInputOrder(t *testing.T) {
	raw := "Deck\n2 Shock (M21) 159\n4 Lightning Bolt (M10) 146\n"

	sanitized, err := SanitizeDeckForArena(raw, newFakeOracle())
	if err != nil {
		t.Fatalf("SanitizeDeckForArena failed: %v", err)
	}

	cards := sanitized.Cards()
	if cards[0].Name != "Shock" || cards[1].Name != "Lightning Bolt" {
		t.Errorf("card order not preserved: %q, %q", cards[0].Name, cards[1].Name)
	}
}

func TestSanitizeBareNameUsesCanonicalPrinting(t *testing.T) {
	sanitized, err := SanitizeDeckForArena("Deck\n4 Lightning Bolt\n", newFakeOracle())
	if err != nil {
		t.Fatalf("SanitizeDeckForArena failed: %v", err)
	}

	card := sanitized.Cards()[0]
	if card.SetCode != "STA" || card.CollectorNumber != "42" {
		t.Errorf("canonical printing not applied: %+v", card)
	}
}

func TestSanitizeBareNameUnconfirmedCanonical(t *testing.T) {
	// The oracle's two answers disagree: it offers a canonical printing
	// it would not confirm. The bare entry must fail at sanitize time
	// rather than produce a deck that fails export validation.
	oracle := &fakeOracle{
		valid: map[string]bool{},
		canonical: map[string]Printing{
			"Lightning Bolt": {SetCode: "STA", CollectorNumber: "42"},
		},
	}

	_, err := SanitizeDeckForArena("Deck\n4 Lightning Bolt\n", oracle)
	if !errors.Is(err, ErrInvalidCardName) {
		t.Errorf("got %v, want ErrInvalidCardName", err)
	}
}

func TestSanitizeBareNameUnknownCard(t *testing.T) {
	_, err := SanitizeDeckForArena("Deck\n4 Totally Fake Card\n", newFakeOracle())
	if !errors.Is(err, ErrInvalidCardName) {
		t.Errorf("got %v, want ErrInvalidCardName", err)
	}
}

func TestSanitizeErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty input", "", ErrInvalidDeckStructure},
		{"whitespace input", "   \n\t  ", ErrInvalidDeckStructure},
		{"malformed line", "Deck\nLightning Bolt", ErrInvalidDeckStructure},
		{"zero quantity", "Deck\n0 Lightning Bolt (M10) 146", ErrInvalidQuantity},
		{"excessive quantity", "Deck\n251 Lightning Bolt (M10) 146", ErrInvalidQuantity},
		{"control char in name", "Deck\n4 Light\x07ning Bolt (M10) 146", ErrInvalidCardName},
		{"sql injection name", "Deck\n4 '; DROP TABLE cards; -- bolt ZZZ 42", ErrInvalidCardName},
		{"lowercase set code", "Deck\n4 Lightning Bolt (m10) 146", ErrInvalidSetCode},
		{"arena invalid set", "Deck\n4 Lightning Bolt (PLST) 146", ErrInvalidSetCode},
		{"unconfirmed set", "Deck\n4 Lightning Bolt (ZZZ) 146", ErrInvalidSetCode},
		{"unknown card with printing", "Deck\n4 Totally Fake Card (M10) 146", ErrInvalidSetCode},
		{"unconfirmed collector number", "Deck\n4 Lightning Bolt (STA) 999", ErrInvalidCollectorNumber},
		{"bad collector charset", "Deck\n4 Lightning Bolt (M10) 1;6", ErrInvalidCollectorNumber},
		{"duplicate in section", "Deck\n4 Lightning Bolt (M10) 146\n2 Lightning Bolt (STA) 42", ErrDuplicateCard},
	}

	oracle := newFakeOracle()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeDeckForArena(tt.raw, oracle)
			if err == nil {
				t.Fatal("SanitizeDeckForArena succeeded, want error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want kind %v", err, tt.want)
			}
			if !errors.Is(err, ErrSanitization) {
				t.Errorf("error does not match ErrSanitization root: %v", err)
			}
		})
	}
}

// Mismatch diagnosis is deterministic: set-code divergence from the
// canonical printing wins over collector-number divergence.
func TestSanitizeMismatchTieBreak(t *testing.T) {
	oracle := newFakeOracle()

	// Both fields diverge from canonical (STA) 42.
	_, err := SanitizeDeckForArena("Deck\n4 Lightning Bolt (ZZZ) 999\n", oracle)
	if !errors.Is(err, ErrInvalidSetCode) {
		t.Errorf("set+collector mismatch: got %v, want ErrInvalidSetCode", err)
	}

	// Only the collector number diverges.
	_, err = SanitizeDeckForArena("Deck\n4 Lightning Bolt (STA) 999\n", oracle)
	if !errors.Is(err, ErrInvalidCollectorNumber) {
		t.Errorf("collector mismatch: got %v, want ErrInvalidCollectorNumber", err)
	}
}

func TestSanitizeNeverSubstitutesCanonicalForDeclared(t *testing.T) {
	// (ZZZ) 146 is wrong but the oracle knows a canonical printing.
	// The sanitizer must fail, not silently repair to (STA) 42.
	_, err := SanitizeDeckForArena("Deck\n4 Lightning Bolt (ZZZ) 146\n", newFakeOracle())
	if err == nil {
		t.Fatal("mismatch was silently repaired")
	}
}

func TestSanitizeOversizedInput(t *testing.T) {
	raw := "Deck\n" + strings.Repeat("4 Lightning Bolt (M10) 146\n", MaxInputBytes/20)
	_, err := SanitizeDeckForArena(raw, newFakeOracle())
	if !errors.Is(err, ErrInvalidDeckStructure) {
		t.Errorf("got %v, want ErrInvalidDeckStructure for oversized input", err)
	}
}

func TestSanitizeFailClosedNoPartialResult(t *testing.T) {
	raw := "Deck\n4 Lightning Bolt (M10) 146\n4 Totally Fake Card (M10) 1\n"
	sanitized, err := SanitizeDeckForArena(raw, newFakeOracle())
	if err == nil {
		t.Fatal("SanitizeDeckForArena succeeded, want error")
	}
	if sanitized != nil {
		t.Errorf("got partial result %+v, want nil", sanitized)
	}
}

// Failures are deterministic functions of the input and oracle snapshot.
func TestSanitizeDeterministicFailures(t *testing.T) {
	oracle := newFakeOracle()
	inputs := []string{
		"",
		"Deck\n0 Lightning Bolt (M10) 146",
		"Deck\n4 Lightning Bolt (ZZZ) 146",
		"Deck\n4 Totally Fake Card",
	}

	for _, raw := range inputs {
		_, first := SanitizeDeckForArena(raw, oracle)
		_, second := SanitizeDeckForArena(raw, oracle)
		if first == nil || second == nil {
			t.Fatalf("input %q did not fail both times", raw)
		}
		if first.Error() != second.Error() {
			t.Errorf("input %q: errors differ: %v vs %v", raw, first, second)
		}
	}
}

func TestSanitizeSameCardInBothSectionsAllowed(t *testing.T) {
	raw := "Deck\n4 Lightning Bolt (M10) 146\n\nSideboard\n2 Lightning Bolt (STA) 42\n"
	sanitized, err := SanitizeDeckForArena(raw, newFakeOracle())
	if err != nil {
		t.Fatalf("SanitizeDeckForArena failed: %v", err)
	}
	if len(sanitized.Cards()) != 1 || len(sanitized.Sideboard()) != 1 {
		t.Errorf("got %d/%d cards, want 1/1", len(sanitized.Cards()), len(sanitized.Sideboard()))
	}
}

func TestSanitizedDeckAccessorsReturnCopies(t *testing.T) {
	sanitized, err := SanitizeDeckForArena("Deck\n4 Lightning Bolt (M10) 146\n", newFakeOracle())
	if err != nil {
		t.Fatalf("SanitizeDeckForArena failed: %v", err)
	}

	cards := sanitized.Cards()
	cards[0].Name = "Mutated"

	if !reflect.DeepEqual(sanitized.Cards()[0].Name, "Lightning Bolt") {
		t.Error("mutating the returned slice changed the deck")
	}
}

func TestSanitizeQuantityBoundaries(t *testing.T) {
	oracle := newFakeOracle()

	for _, quantity := range []string{"1", "250"} {
		raw := "Deck\n" + quantity + " Lightning Bolt (M10) 146\n"
		if _, err := SanitizeDeckForArena(raw, oracle); err != nil {
			t.Errorf("quantity %s rejected: %v", quantity, err)
		}
	}

	for _, quantity := range []string{"0", "251"} {
		raw := "Deck\n" + quantity + " Lightning Bolt (M10) 146\n"
		if _, err := SanitizeDeckForArena(raw, oracle); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("quantity %s: got %v, want ErrInvalidQuantity", quantity, err)
		}
	}
}
