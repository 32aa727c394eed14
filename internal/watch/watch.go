// Package watch reloads a domain file whenever it changes on disk and hands
// the fresh Framework to a callback, typically one that re-projects it.
//
// The watcher observes the file's parent directory rather than the file
// itself so that editors which save by rename are still seen. Bursts of
// events are collapsed: a change marks the file pending and the next
// debounce tick reloads it once. Reloads whose content hash matches the last
// successful load are skipped.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/roach88/patternspace/internal/loader"
	"github.com/roach88/patternspace/internal/store"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Path is the domain file to watch.
	Path string

	// Debounce is how long to collect changes before reloading.
	Debounce time.Duration

	// Load is passed to loader.Load on every reload.
	Load loader.Options

	// OnLoad receives each successfully loaded Framework. Its error is
	// reported on the Reload event.
	OnLoad func(ctx context.Context, fw *store.Framework) error

	// Logger for reload events. Default: slog.Default().
	Logger *slog.Logger
}

// Reload describes one reload attempt.
type Reload struct {
	Path          string `json:"path"`
	Hash          string `json:"hash,omitempty"`
	Patterns      int    `json:"patterns"`
	Relationships int    `json:"relationships"`
	Err           error  `json:"-"`
}

// Watcher reloads one domain file on change.
type Watcher struct {
	cfg     Config
	path    string
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
	events  chan Reload
	pending bool
	hash    string
}

// New creates a Watcher. Call Run to start it.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watch: path is required")
	}
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Load.Logger == nil {
		cfg.Load.Logger = logger
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	return &Watcher{
		cfg:    cfg,
		path:   path,
		fsw:    fsw,
		logger: logger.With("path", cfg.Path),
		events: make(chan Reload, 16),
	}, nil
}

// Events returns the channel of reload results. It is closed when Run
// returns.
func (w *Watcher) Events() <-chan Reload {
	return w.events
}

// Run loads the file once, then reloads it on every debounced change until
// ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.fsw.Close()

	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching domain file", "debounce", w.cfg.Debounce)

	w.reload(ctx)

	ticker := time.NewTicker(w.cfg.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			if w.pending {
				w.pending = false
				w.reload(ctx)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	w.pending = true
	w.logger.Debug("change detected", "op", event.Op.String())
}

func (w *Watcher) reload(ctx context.Context) {
	data, err := os.ReadFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		// Mid-rename; the Create that follows marks it pending again.
		w.logger.Debug("domain file missing")
		return
	}
	if err != nil {
		w.send(Reload{Path: w.cfg.Path, Err: err})
		return
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	if hash == w.hash {
		w.logger.Debug("content unchanged, skipping reload")
		return
	}

	ev := Reload{Path: w.cfg.Path, Hash: hash}
	fw, err := loader.Load(w.path, data, w.cfg.Load)
	if err != nil {
		w.logger.Error("reload failed", "error", err)
		w.hash = ""
		ev.Err = err
		w.send(ev)
		return
	}
	w.hash = hash
	ev.Patterns = fw.Patterns.Count()
	ev.Relationships = fw.Relationships.Count()

	if w.cfg.OnLoad != nil {
		if err := w.cfg.OnLoad(ctx, fw); err != nil {
			w.logger.Error("reload callback failed", "error", err)
			ev.Err = err
		}
	}
	if ev.Err == nil {
		w.logger.Info("domain reloaded",
			"patterns", ev.Patterns,
			"relationships", ev.Relationships)
	}
	w.send(ev)
}

func (w *Watcher) send(ev Reload) {
	select {
	case w.events <- ev:
	default:
		w.logger.Warn("reload channel full, dropping event")
	}
}
