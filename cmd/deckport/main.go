package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ramonehamilton/deckport/internal/cards"
	"github.com/ramonehamilton/deckport/internal/cards/importer"
	"github.com/ramonehamilton/deckport/internal/cards/refresh"
	"github.com/ramonehamilton/deckport/internal/cards/scryfall"
	"github.com/ramonehamilton/deckport/internal/config"
	"github.com/ramonehamilton/deckport/internal/deck"
	"github.com/ramonehamilton/deckport/internal/legality"
	"github.com/ramonehamilton/deckport/internal/storage"
	"github.com/ramonehamilton/deckport/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "sanitize":
		runSanitizeCommand(os.Args[2:])
	case "check":
		runCheckCommand(os.Args[2:])
	case "watch":
		runWatchCommand(os.Args[2:])
	case "import-cards":
		runImportCommand(os.Args[2:])
	case "version":
		fmt.Printf("deckport %s\n", version.GetVersion())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `deckport - MTG Arena deck list sanitizer

Usage:
  deckport sanitize [-file deck.txt] [-cards cards.json | -db cards.db]
  deckport check -format standard|historic [-file deck.txt] [-db cards.db]
  deckport watch -file deck.txt [-cards cards.json]
  deckport import-cards [-file default-cards.json] [-db cards.db]
  deckport version

sanitize reads a deck list (stdin by default), validates every entry
against the card oracle, and prints the Arena-importable form. check
additionally reports sets that are not legal in the given format.
watch sanitizes a deck once, then keeps re-validating it as the card
table file changes, reporting when the deck stops being importable.
import-cards loads a Scryfall default-cards bulk file into the local
card database, downloading a fresh one when no file is given.
`)
}

// setupLogging configures slog on stderr so stdout stays clean for the
// rendered deck list.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func defaultDataPath(cfg string, name string) string {
	if cfg != "" {
		return cfg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting home directory: %v", err)
	}
	return filepath.Join(home, ".deckport", name)
}

func readDeckList(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read deck list: %w", err)
	}
	return string(data), nil
}

// openOracle picks the oracle backend: an in-memory card table when a
// JSON file is given, the SQLite store otherwise.
func openOracle(cardsPath, dbPath string, cfg *config.Config) (deck.PrintingOracle, func(), error) {
	if cardsPath != "" {
		db, err := cards.Load(cardsPath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() {}, nil
	}

	store, closeStore, err := openStore(dbPath, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, closeStore, nil
}

func openStore(dbPath string, cfg *config.Config) (*storage.Service, func(), error) {
	dbConfig := storage.DefaultConfig(defaultDataPath(firstNonEmpty(dbPath, cfg.Database.Path), "cards.db"))
	dbConfig.AutoMigrate = cfg.Database.AutoMigrate

	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewService(db), func() { _ = db.Close() }, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func runSanitizeCommand(args []string) {
	fs := flag.NewFlagSet("sanitize", flag.ExitOnError)
	filePath := fs.String("file", "", "Deck list file (stdin if not specified)")
	cardsPath := fs.String("cards", "", "Card table JSON file to use as the oracle")
	dbPath := fs.String("db", "", "SQLite card database path")
	debugMode := fs.Bool("debug-mode", false, "Enable verbose debug logging")
	_ = fs.Parse(args)

	setupLogging(*debugMode)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	oracle, closeOracle, err := openOracle(firstNonEmpty(*cardsPath, cfg.Cards.FilePath), *dbPath, cfg)
	if err != nil {
		log.Fatalf("Error opening card oracle: %v", err)
	}
	defer closeOracle()

	raw, err := readDeckList(*filePath)
	if err != nil {
		log.Fatalf("Error reading deck list: %v", err)
	}

	sanitized, err := deck.SanitizeDeckForArena(raw, oracle)
	if err != nil {
		log.Fatalf("Deck list rejected: %v", err)
	}
	if err := deck.ValidateArenaExport(sanitized, oracle); err != nil {
		log.Fatalf("Deck list not importable: %v", err)
	}

	fmt.Println(deck.FormatDeckForArena(sanitized))
}

func runCheckCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	format := fs.String("format", legality.FormatStandard, "Format to check (standard, historic)")
	filePath := fs.String("file", "", "Deck list file (stdin if not specified)")
	dbPath := fs.String("db", "", "SQLite card database path")
	debugMode := fs.Bool("debug-mode", false, "Enable verbose debug logging")
	_ = fs.Parse(args)

	setupLogging(*debugMode)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	store, closeStore, err := openStore(*dbPath, cfg)
	if err != nil {
		log.Fatalf("Error opening card database: %v", err)
	}
	defer closeStore()

	raw, err := readDeckList(*filePath)
	if err != nil {
		log.Fatalf("Error reading deck list: %v", err)
	}

	sanitized, err := deck.SanitizeDeckForArena(raw, store)
	if err != nil {
		log.Fatalf("Deck list rejected: %v", err)
	}

	illegal, err := legality.NewChecker(store).CheckDeck(context.Background(), *format, sanitized)
	if err != nil {
		log.Fatalf("Error checking legality: %v", err)
	}
	if len(illegal) > 0 {
		fmt.Fprintf(os.Stderr, "Deck is not %s-legal; offending sets:\n", *format)
		for _, code := range illegal {
			fmt.Fprintf(os.Stderr, "  %s\n", code)
		}
		os.Exit(1)
	}

	fmt.Printf("Deck is %s-legal.\n", *format)
}

func runWatchCommand(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	filePath := fs.String("file", "", "Deck list file (stdin if not specified)")
	cardsPath := fs.String("cards", "", "Card table JSON file to use as the oracle")
	debugMode := fs.Bool("debug-mode", false, "Enable verbose debug logging")
	_ = fs.Parse(args)

	setupLogging(*debugMode)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	tablePath := firstNonEmpty(*cardsPath, cfg.Cards.FilePath)
	if tablePath == "" {
		log.Fatalf("watch requires a card table JSON file (-cards flag or cards.file_path in config)")
	}

	db, err := cards.Load(tablePath)
	if err != nil {
		log.Fatalf("Error loading card table: %v", err)
	}

	raw, err := readDeckList(*filePath)
	if err != nil {
		log.Fatalf("Error reading deck list: %v", err)
	}

	sanitized, err := deck.SanitizeDeckForArena(raw, db)
	if err != nil {
		log.Fatalf("Deck list rejected: %v", err)
	}

	if !cfg.Cards.Watch {
		slog.Info("card table watching disabled in config, validating once")
		reportExportStatus(os.Stdout, db, sanitized)
		return
	}

	watcher, err := refresh.NewWatcher(db, tablePath, slog.Default())
	if err != nil {
		log.Fatalf("Error watching card table: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("watching card table", "path", tablePath)
	if err := watchDeck(ctx, watcher, db, sanitized, os.Stdout); err != nil {
		log.Fatalf("Error watching deck: %v", err)
	}
}

// watchDeck re-validates the deck against the live card table after every
// reload, reporting importability status until ctx is cancelled. This is
// the scenario the export gate exists for: oracle data changing between
// sanitize time and export time.
func watchDeck(ctx context.Context, w *refresh.Watcher, oracle deck.PrintingOracle, sanitized *deck.SanitizedDeck, out io.Writer) error {
	go func() { _ = w.Run(ctx) }()

	reportExportStatus(out, oracle, sanitized)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Reloaded():
			reportExportStatus(out, oracle, sanitized)
		}
	}
}

func reportExportStatus(out io.Writer, oracle deck.PrintingOracle, sanitized *deck.SanitizedDeck) {
	if err := deck.ValidateArenaExport(sanitized, oracle); err != nil {
		fmt.Fprintf(out, "deck is no longer importable: %v\n", err)
		return
	}
	fmt.Fprintln(out, "deck is importable")
}

func runImportCommand(args []string) {
	fs := flag.NewFlagSet("import-cards", flag.ExitOnError)
	filePath := fs.String("file", "", "Bulk data file (downloaded from Scryfall if not specified)")
	dbPath := fs.String("db", "", "SQLite card database path")
	debugMode := fs.Bool("debug-mode", false, "Enable verbose debug logging")
	_ = fs.Parse(args)

	setupLogging(*debugMode)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	store, closeStore, err := openStore(*dbPath, cfg)
	if err != nil {
		log.Fatalf("Error opening card database: %v", err)
	}
	defer closeStore()

	ctx := context.Background()

	path := *filePath
	if path == "" {
		path, err = downloadBulkData(ctx, cfg)
		if err != nil {
			log.Fatalf("Error downloading bulk data: %v", err)
		}
	}

	result, err := importer.New(store, slog.Default()).ImportFile(ctx, path)
	if err != nil {
		log.Fatalf("Error importing cards: %v", err)
	}
	if result.Skipped {
		fmt.Println("Card database already up to date.")
		return
	}
	fmt.Printf("Imported %d cards.\n", result.CardCount)
}

// downloadBulkData fetches the current default-cards bulk file, reusing a
// previous download when it is younger than the configured max age.
func downloadBulkData(ctx context.Context, cfg *config.Config) (string, error) {
	bulkDir := defaultDataPath(cfg.Scryfall.BulkDir, "bulk")
	if err := os.MkdirAll(bulkDir, 0o755); err != nil {
		return "", fmt.Errorf("create bulk data directory: %w", err)
	}
	path := filepath.Join(bulkDir, "default-cards.json")

	maxAge, err := cfg.GetBulkMaxAge()
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil && time.Since(info.ModTime()) < maxAge {
		slog.Info("reusing downloaded bulk data", "path", path, "age", time.Since(info.ModTime()).Round(time.Minute))
		return path, nil
	}

	client := scryfall.NewClient(scryfall.WithUserAgent(cfg.Scryfall.UserAgent))
	bulk, err := client.DefaultCards(ctx)
	if err != nil {
		return "", err
	}

	slog.Info("downloading bulk data", "uri", bulk.DownloadURI, "updated_at", bulk.UpdatedAt)
	if err := client.DownloadBulkFile(ctx, bulk, path); err != nil {
		return "", err
	}
	return path, nil
}
