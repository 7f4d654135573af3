package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Database.AutoMigrate {
		t.Error("default config should auto-migrate")
	}
	if !cfg.Cards.Watch {
		t.Error("default config should watch the card table")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}

	maxAge, err := cfg.GetBulkMaxAge()
	if err != nil {
		t.Fatalf("GetBulkMaxAge failed: %v", err)
	}
	if maxAge != 24*time.Hour {
		t.Errorf("default max age = %v, want 24h", maxAge)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Scryfall.MaxAge != "24h" {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Database.Path = "/var/lib/deckport/cards.db"
	cfg.Cards.FilePath = "/var/lib/deckport/cards.json"
	cfg.App.DebugMode = true

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Database.Path != cfg.Database.Path {
		t.Errorf("database path = %q, want %q", loaded.Database.Path, cfg.Database.Path)
	}
	if !loaded.App.DebugMode {
		t.Error("debug mode lost in round trip")
	}
}

func TestValidateRejectsBadMaxAge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scryfall.MaxAge = "soon"

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid max age")
	}
}

func TestValidateRejectsEmptyUserAgent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scryfall.UserAgent = ""

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty user agent")
	}
}
