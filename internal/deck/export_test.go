package deck

import (
	"errors"
	"testing"
)

func TestValidateArenaExportAfterSanitize(t *testing.T) {
	oracle := newFakeOracle()
	raw := "Deck\n4 Lightning Bolt (M10) 146\n\nSideboard\n2 Duress (M21) 95\n"

	sanitized, err := SanitizeDeckForArena(raw, oracle)
	if err != nil {
		t.Fatalf("SanitizeDeckForArena failed: %v", err)
	}

	// Under a consistent oracle snapshot, export validation must succeed
	// immediately after sanitization.
	if err := ValidateArenaExport(sanitized, oracle); err != nil {
		t.Errorf("ValidateArenaExport failed right after sanitize: %v", err)
	}
}

func TestValidateArenaExportStaleOracle(t *testing.T) {
	oracle := newFakeOracle()
	sanitized, err := SanitizeDeckForArena("Deck\n4 Lightning Bolt (M10) 146\n", oracle)
	if err != nil {
		t.Fatalf("SanitizeDeckForArena failed: %v", err)
	}

	// The printing disappears from the oracle between sanitize and export.
	delete(oracle.valid, "Lightning Bolt|M10|146")

	err = ValidateArenaExport(sanitized, oracle)
	if !errors.Is(err, ErrNotImportable) {
		t.Errorf("got %v, want ErrNotImportable", err)
	}
	if errors.Is(err, ErrSanitization) {
		t.Error("export error must not match the sanitization root")
	}
}

func TestValidateArenaExportStaleSideboard(t *testing.T) {
	oracle := newFakeOracle()
	raw := "Deck\n4 Lightning Bolt (M10) 146\n\nSideboard\n2 Duress (M21) 95\n"
	sanitized, err := SanitizeDeckForArena(raw, oracle)
	if err != nil {
		t.Fatalf("SanitizeDeckForArena failed: %v", err)
	}

	delete(oracle.valid, "Duress|M21|95")

	if err := ValidateArenaExport(sanitized, oracle); !errors.Is(err, ErrNotImportable) {
		t.Errorf("got %v, want ErrNotImportable for stale sideboard printing", err)
	}
}

func TestValidateArenaExportEmptyMainboard(t *testing.T) {
	oracle := newFakeOracle()

	if err := ValidateArenaExport(&SanitizedDeck{}, oracle); !errors.Is(err, ErrNotImportable) {
		t.Errorf("got %v, want ErrNotImportable for empty deck", err)
	}
	if err := ValidateArenaExport(nil, oracle); !errors.Is(err, ErrNotImportable) {
		t.Errorf("got %v, want ErrNotImportable for nil deck", err)
	}
}

func TestValidateArenaExportInvalidSetDrift(t *testing.T) {
	// A set reclassified as non-importable after sanitize time. The deck
	// is constructed directly because sanitization can no longer produce it.
	oracle := newFakeOracle()
	oracle.valid["Lightning Bolt|SLD|401"] = true
	stale := &SanitizedDeck{
		cards: []SanitizedCard{{Quantity: 4, Name: "Lightning Bolt", SetCode: "SLD", CollectorNumber: "401"}},
	}

	if err := ValidateArenaExport(stale, oracle); !errors.Is(err, ErrNotImportable) {
		t.Errorf("got %v, want ErrNotImportable for invalid-set printing", err)
	}
}
