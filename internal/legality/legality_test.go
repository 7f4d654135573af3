package legality

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ramonehamilton/deckport/internal/deck"
	"github.com/ramonehamilton/deckport/internal/storage"
)

type fixedOracle struct{}

func (fixedOracle) IsArenaValidPrinting(name, setCode, collectorNumber string) bool { return true }
func (fixedOracle) CanonicalArenaPrinting(name string) (deck.Printing, bool) {
	return deck.Printing{}, false
}

func newTestChecker(t *testing.T) *Checker {
	t.Helper()

	config := storage.DefaultConfig(filepath.Join(t.TempDir(), "cards.db"))
	config.AutoMigrate = true

	db, err := storage.Open(config)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := storage.NewService(db)
	ctx := context.Background()

	rotated := "2024-07-26"
	rotating := "2099-01-01"
	sets := []*storage.Set{
		{Code: "DMU", Name: "Dominaria United", IsStandardLegal: true, RotationDate: &rotated},
		{Code: "FDN", Name: "Foundations", IsStandardLegal: true, RotationDate: &rotating},
		{Code: "STA", Name: "Strixhaven Mystical Archive", IsStandardLegal: false},
	}
	for _, set := range sets {
		if err := store.SaveSet(ctx, set); err != nil {
			t.Fatalf("SaveSet failed: %v", err)
		}
	}

	checker := NewChecker(store)
	checker.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return checker
}

func TestSetLegal(t *testing.T) {
	checker := newTestChecker(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		format  string
		setCode string
		want    bool
	}{
		{"standard-legal set before rotation", FormatStandard, "FDN", true},
		{"rotated set", FormatStandard, "DMU", false},
		{"never standard-legal set", FormatStandard, "STA", false},
		{"historic keeps rotated sets", FormatHistoric, "DMU", true},
		{"historic keeps supplemental sets", FormatHistoric, "STA", true},
		{"unknown set", FormatStandard, "ZZZ", false},
		{"unknown set in historic", FormatHistoric, "ZZZ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.SetLegal(ctx, tt.format, tt.setCode)
			if err != nil {
				t.Fatalf("SetLegal failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SetLegal(%s, %s) = %v, want %v", tt.format, tt.setCode, got, tt.want)
			}
		})
	}
}

func TestSetLegalUnknownFormat(t *testing.T) {
	checker := newTestChecker(t)

	if _, err := checker.SetLegal(context.Background(), "vintage", "FDN"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestCheckDeck(t *testing.T) {
	checker := newTestChecker(t)

	raw := "Deck\n4 Llanowar Elves (DMU) 168\n4 Giant Growth (FDN) 187\n\nSideboard\n2 Duress (STA) 9\n"
	sanitized, err := deck.SanitizeDeckForArena(raw, fixedOracle{})
	if err != nil {
		t.Fatalf("sanitize failed: %v", err)
	}

	illegal, err := checker.CheckDeck(context.Background(), FormatStandard, sanitized)
	if err != nil {
		t.Fatalf("CheckDeck failed: %v", err)
	}
	if len(illegal) != 2 {
		t.Fatalf("got %d illegal sets %v, want 2", len(illegal), illegal)
	}
	want := map[string]bool{"DMU": true, "STA": true}
	for _, code := range illegal {
		if !want[code] {
			t.Errorf("unexpected illegal set %q", code)
		}
	}

	illegal, err = checker.CheckDeck(context.Background(), FormatHistoric, sanitized)
	if err != nil {
		t.Fatal(err)
	}
	if len(illegal) != 0 {
		t.Errorf("historic flagged sets %v", illegal)
	}
}

func TestCheckDeckNil(t *testing.T) {
	checker := newTestChecker(t)

	if _, err := checker.CheckDeck(context.Background(), FormatStandard, nil); err == nil {
		t.Error("expected error for nil deck")
	}
}
