package mapping

import (
	"fmt"
	"os"
	"sync"

	"gallery-viewer/internal/logging"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Table is the hand-authored key to URL-list table used when a gallery's
// contents can't be inferred from a folder-naming convention. The table is
// read-only for callers; the file may be edited while the service runs and
// is reloaded on change.
type Table struct {
	mu        sync.RWMutex
	path      string
	galleries map[string][]string
	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

type tableFile struct {
	Galleries map[string][]string `yaml:"galleries"`
}

// Load reads the mapping table from a YAML file. An empty path yields an
// empty table; a missing file is not an error, since most deployments infer
// galleries purely by convention.
func Load(path string) (*Table, error) {
	t := &Table{
		path:      path,
		galleries: map[string][]string{},
		done:      make(chan struct{}),
	}
	if path == "" {
		return t, nil
	}

	if err := t.reload(); err != nil {
		if os.IsNotExist(err) {
			logging.Warn("Mapping table %s not found, starting empty", path)
			return t, nil
		}
		return nil, err
	}
	return t, nil
}

// reload re-reads the file and swaps the table atomically.
func (t *Table) reload() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return err
	}

	var parsed tableFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse mapping table %s: %w", t.path, err)
	}
	if parsed.Galleries == nil {
		parsed.Galleries = map[string][]string{}
	}

	t.mu.Lock()
	t.galleries = parsed.Galleries
	t.mu.Unlock()

	logging.Info("Mapping table loaded: %d galleries from %s", len(parsed.Galleries), t.path)
	return nil
}

// Lookup returns the explicit URL list for a key, if the key is mapped.
func (t *Table) Lookup(key string) ([]string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	urls, ok := t.galleries[key]
	if !ok || len(urls) == 0 {
		return nil, false
	}
	return append([]string(nil), urls...), true
}

// Len returns the number of mapped galleries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.galleries)
}

// Watch reloads the table whenever the file changes. No-op for an empty
// path.
func (t *Table) Watch() error {
	if t.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create mapping watcher: %w", err)
	}
	if err := watcher.Add(t.path); err != nil {
		watcher.Close() //nolint:errcheck
		return fmt.Errorf("watch %s: %w", t.path, err)
	}
	t.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := t.reload(); err != nil {
					logging.Warn("Mapping table reload failed: %v", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("Mapping table watcher error: %v", err)
			case <-t.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the watcher, if one was started. Safe to call more than
// once.
func (t *Table) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		if t.watcher != nil {
			err = t.watcher.Close()
		}
	})
	return err
}
