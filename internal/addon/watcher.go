package addon

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
)

const defaultDebounce = 300 * time.Millisecond

// Notifier reports a change to the user without tearing the prompt.
type Notifier func(format string, args ...any)

// Watcher reloads manifests below a directory when they change and unloads
// them when they are removed.
type Watcher struct {
	loader   *Loader
	dir      string
	notify   Notifier
	debounce time.Duration
	fsw      *fsnotify.Watcher
	started  atomic.Bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before changes are applied.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher watches dir, creating it when missing.
func NewWatcher(loader *Loader, dir string, notify Notifier, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("addon: resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("addon: create %s: %w", abs, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("addon: create watcher: %w", err)
	}

	if notify == nil {
		notify = func(string, ...any) {}
	}
	w := &Watcher{
		loader:   loader,
		dir:      abs,
		notify:   notify,
		debounce: defaultDebounce,
		fsw:      fsw,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addDirectories(); err != nil {
		fsw.Close() //nolint:errcheck
		return nil, err
	}
	return w, nil
}

// Run applies changes until ctx is cancelled. It must be called once.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("addon: watcher already running")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		for _, path := range changed {
			w.apply(path)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			log.Warn("addon: close watcher: %v", err)
		}
	}()

	log.Info("addon: watching %s", w.dir)
	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("addon: watcher event channel closed")
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.matches(evt.Name) {
				continue
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("addon: watcher error channel closed")
			}
			log.Warn("addon: watcher error: %v", err)
		}
	}
}

// apply loads path when it exists and unloads it otherwise.
func (w *Watcher) apply(path string) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if name, ok := w.loader.UnloadPath(path); ok {
			w.notify("addon %s unloaded", name)
		}
		return
	}

	a, err := w.loader.Load(path)
	if err != nil {
		w.notify("addon %s failed to load: %v", filepath.Base(path), err)
		return
	}
	w.notify("addon %s %s loaded", a.Manifest.Name, a.Manifest.Version)
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(ManifestPattern, filepath.ToSlash(rel))
	return err == nil && ok
}

func (w *Watcher) addDirectories() error {
	return filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("addon: skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("addon: watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		log.Warn("addon: watch new directory %s: %v", path, err)
	}
}
