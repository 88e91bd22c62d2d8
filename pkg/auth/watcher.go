package auth

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// KeysWatcher watches the static key registry file and hot-reloads the
// verifier on change. Writes are debounced so editors that write in
// multiple steps (or replace via rename) trigger a single reload.
type KeysWatcher struct {
	path     string
	verifier *StaticKeyVerifier
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending *time.Timer
}

// NewKeysWatcher creates a watcher for the given keys file.
func NewKeysWatcher(path string, verifier *StaticKeyVerifier, logger *slog.Logger) *KeysWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeysWatcher{
		path:     path,
		verifier: verifier,
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}
}

// Watch blocks until the context is cancelled, reloading the registry on
// file changes. The parent directory is watched rather than the file
// itself so atomic replace-by-rename is observed.
func (kw *KeysWatcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(kw.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	kw.logger.InfoContext(ctx, "Key registry watcher started",
		"path", kw.path,
		"debounce_ms", kw.debounce.Milliseconds(),
	)

	target := filepath.Clean(kw.path)
	for {
		select {
		case <-ctx.Done():
			kw.logger.InfoContext(ctx, "Key registry watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kw.scheduleReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			kw.logger.WarnContext(ctx, "Key registry watcher error", "error", err)
		}
	}
}

func (kw *KeysWatcher) scheduleReload(ctx context.Context) {
	kw.mu.Lock()
	defer kw.mu.Unlock()

	if kw.pending != nil {
		kw.pending.Stop()
	}
	kw.pending = time.AfterFunc(kw.debounce, func() {
		kw.reload(ctx)
	})
}

func (kw *KeysWatcher) reload(ctx context.Context) {
	entries, err := LoadKeysFile(kw.path)
	if err != nil {
		// Keep serving the previous registry on a bad reload.
		kw.logger.ErrorContext(ctx, "Key registry reload failed, keeping previous keys",
			"path", kw.path,
			"error", err,
		)
		return
	}

	kw.verifier.Replace(entries)
	kw.logger.InfoContext(ctx, "Key registry reloaded",
		"path", kw.path,
		"keys", len(entries),
	)
}
