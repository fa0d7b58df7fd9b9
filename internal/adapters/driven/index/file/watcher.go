package file

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/camber-labs/ragdesk/internal/logger"
)

// reloadDebounce coalesces the burst of filesystem events one artifact
// rename can produce into a single reload.
const reloadDebounce = 200 * time.Millisecond

// Watcher reloads corpus indexes when their artifacts change on disk.
// This lets an external indexing job (or a second ragdesk process)
// rebuild artifacts while a long-running chat session keeps serving:
// the session picks up the new index without a restart.
type Watcher struct {
	store       *Store
	registry    *Registry
	fingerprint string
	fsw         *fsnotify.Watcher
	done        chan struct{}
}

// NewWatcher starts watching the store's artifact directory. Stop the
// watcher with Close.
func NewWatcher(store *Store, registry *Registry, fingerprint string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(store.Dir()); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		store:       store,
		registry:    registry,
		fingerprint: fingerprint,
		fsw:         fsw,
		done:        make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// run consumes filesystem events until Close.
func (w *Watcher) run() {
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			corpus := corpusFromPath(event.Name)
			if corpus == "" {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Debounce: restart the timer on every event for the corpus.
			if t, ok := pending[corpus]; ok {
				t.Stop()
			}
			c := corpus
			pending[corpus] = time.AfterFunc(reloadDebounce, func() {
				w.reload(c)
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Index watcher: %v", err)
		}
	}
}

// reload loads the corpus artifact and swaps it into the registry.
func (w *Watcher) reload(corpus string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	idx, err := w.store.Load(ctx, corpus, w.fingerprint)
	if err != nil {
		logger.Warn("Index watcher: reload of %q failed: %v", corpus, err)
		return
	}

	w.registry.Swap(corpus, idx)
	logger.Info("Index watcher: reloaded corpus %q (%d chunks)", corpus, idx.Len())
}

// Close stops watching. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

// corpusFromPath maps an artifact file path to its corpus name, or ""
// for unrelated files (temp build files included).
func corpusFromPath(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ArtifactExt) {
		return ""
	}
	return strings.TrimSuffix(base, ArtifactExt)
}
