// Package importer loads Scryfall bulk card data into the local card store.
package importer

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/ramonehamilton/deckport/internal/cards"
	"github.com/ramonehamilton/deckport/internal/cards/scryfall"
	"github.com/ramonehamilton/deckport/internal/deck"
	"github.com/ramonehamilton/deckport/internal/storage"
)

const defaultBatchSize = 500

// Layouts that never correspond to playable deck entries.
var skippedLayouts = map[string]bool{
	"token":              true,
	"double_faced_token": true,
	"emblem":             true,
	"art_series":         true,
}

// Importer streams a Scryfall default-cards bulk file into storage,
// merging the per-printing records into one card row per name.
type Importer struct {
	store     *storage.Service
	logger    *slog.Logger
	batchSize int
}

// New creates an importer backed by the given storage service.
func New(store *storage.Service, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		store:     store,
		logger:    logger,
		batchSize: defaultBatchSize,
	}
}

// Result summarizes one import run.
type Result struct {
	Digest    string
	CardCount int
	Skipped   bool
}

type mergedCard struct {
	card             *cards.Card
	canonicalOnArena bool
}

// ImportFile imports the bulk data file at path. When the file's digest
// matches the last recorded import the run is skipped.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	digest, err := fileDigest(path)
	if err != nil {
		return nil, err
	}

	last, err := im.store.LastImportDigest(ctx)
	if err != nil {
		return nil, err
	}
	if last == digest {
		im.logger.Info("bulk data unchanged, skipping import", "digest", digest)
		return &Result{Digest: digest, Skipped: true}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bulk file: %w", err)
	}
	defer func() { _ = f.Close() }()

	merged, order, err := im.decode(f)
	if err != nil {
		return nil, err
	}

	if err := im.save(ctx, merged, order); err != nil {
		return nil, err
	}
	if err := im.store.RecordImport(ctx, digest, len(order)); err != nil {
		return nil, err
	}

	im.logger.Info("bulk import complete", "cards", len(order), "digest", digest)
	return &Result{Digest: digest, CardCount: len(order)}, nil
}

// decode streams the JSON array without holding raw records in memory.
func (im *Importer) decode(r io.Reader) (map[string]*mergedCard, []string, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read bulk data: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, nil, fmt.Errorf("bulk data is not a JSON array")
	}

	merged := make(map[string]*mergedCard)
	var order []string

	for dec.More() {
		var sc scryfall.Card
		if err := dec.Decode(&sc); err != nil {
			return nil, nil, fmt.Errorf("failed to decode card record: %w", err)
		}
		if sc.Name == "" || skippedLayouts[sc.Layout] {
			continue
		}

		m, ok := merged[sc.Name]
		if !ok {
			merged[sc.Name] = newMergedCard(&sc)
			order = append(order, sc.Name)
			continue
		}
		m.merge(&sc)
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("failed to read bulk data: %w", err)
	}

	return merged, order, nil
}

func (im *Importer) save(ctx context.Context, merged map[string]*mergedCard, order []string) error {
	batch := make([]*cards.Card, 0, im.batchSize)
	for _, name := range order {
		batch = append(batch, merged[name].card)
		if len(batch) == im.batchSize {
			if err := im.store.SaveCards(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := im.store.SaveCards(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

func newMergedCard(sc *scryfall.Card) *mergedCard {
	printing := printingOf(sc)
	return &mergedCard{
		card: &cards.Card{
			Name:            sc.Name,
			ArenaID:         sc.ArenaID,
			Rarity:          sc.Rarity,
			SetCode:         printing.SetCode,
			CollectorNumber: printing.CollectorNumber,
			Games:           append([]string(nil), sc.Games...),
		},
		canonicalOnArena: printingOnArena(sc),
	}
}

// merge folds one more Scryfall printing into the card. An Arena-usable
// printing displaces a canonical printing that is not.
func (m *mergedCard) merge(sc *scryfall.Card) {
	printing := printingOf(sc)

	if printingOnArena(sc) {
		if !m.card.OnArena() {
			m.card.Games = append(m.card.Games, "arena")
		}
		if m.card.ArenaID == 0 && sc.ArenaID != 0 {
			m.card.ArenaID = sc.ArenaID
		}
		if !m.canonicalOnArena {
			m.card.Printings = append(m.card.Printings, cards.Printing{
				SetCode:         m.card.SetCode,
				CollectorNumber: m.card.CollectorNumber,
			})
			m.card.SetCode = printing.SetCode
			m.card.CollectorNumber = printing.CollectorNumber
			m.canonicalOnArena = true
			return
		}
	}

	m.card.Printings = append(m.card.Printings, printing)
}

func printingOf(sc *scryfall.Card) cards.Printing {
	return cards.Printing{
		SetCode:         strings.ToUpper(sc.SetCode),
		CollectorNumber: sc.CollectorNumber,
	}
}

func printingOnArena(sc *scryfall.Card) bool {
	for _, game := range sc.Games {
		if game == "arena" {
			return !deck.IsArenaInvalidSet(sc.SetCode)
		}
	}
	return false
}

// fileDigest returns the BLAKE2b-256 digest of the file at path.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open bulk file: %w", err)
	}
	defer func() { _ = f.Close() }()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create digest: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to digest bulk file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
