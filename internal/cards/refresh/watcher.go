// Package refresh reloads the in-memory card database when its backing
// file changes on disk.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ramonehamilton/deckport/internal/cards"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches a card database JSON file and swaps the database table
// when the file is rewritten. Events are debounced because bulk imports
// and editors produce bursts of writes for a single logical update.
type Watcher struct {
	db       *cards.Database
	path     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	// reloaded receives one value per completed reload. Tests use it to
	// wait for the swap without polling.
	reloaded chan struct{}
}

// NewWatcher creates a watcher that reloads db from path on change.
func NewWatcher(db *cards.Database, path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory rather than the file itself: atomic saves
	// replace the inode and a file watch would go stale.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		db:       db,
		path:     path,
		debounce: defaultDebounce,
		logger:   logger,
		watcher:  fsw,
		reloaded: make(chan struct{}, 1),
	}, nil
}

// Reloaded returns a channel that receives after each completed reload.
func (w *Watcher) Reloaded() <-chan struct{} {
	return w.reloaded
}

// Run watches until ctx is cancelled. It always returns nil after a clean
// shutdown; watch errors are logged, not fatal.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("card database watch error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	fresh, err := cards.Load(w.path)
	if err != nil {
		// Keep serving the previous table; a half-written file must not
		// take the oracle down.
		w.logger.Error("card database reload failed", "path", w.path, "error", err)
		return
	}

	w.db.ReplaceFrom(fresh)
	w.logger.Info("card database reloaded", "path", w.path, "cards", w.db.Len())

	select {
	case w.reloaded <- struct{}{}:
	default:
	}
}
