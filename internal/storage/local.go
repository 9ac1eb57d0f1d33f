package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/evenstad/julekalender/internal/logger"
)

// localFileName holds the local adapter's entire key-value state as one
// JSON object, the moral equivalent of origin-scoped browser storage.
const localFileName = "storage.json"

// LocalAdapter is the no-network implementation of [Adapter]: a
// synchronous key-value store persisted to a single JSON file. Write
// failures (full disk, read-only storage) are logged and swallowed —
// the in-memory state stays authoritative for the process lifetime.
type LocalAdapter struct {
	path   string
	logger *logger.Logger

	mu     sync.RWMutex
	values map[string]any
}

// NewLocalAdapter loads existing state from stateDir, tolerating a
// missing or unreadable file (both start empty).
func NewLocalAdapter(stateDir string, log *logger.Logger) *LocalAdapter {
	a := &LocalAdapter{
		path:   filepath.Join(stateDir, localFileName),
		logger: log,
		values: make(map[string]any),
	}

	raw, err := os.ReadFile(a.path)
	if err != nil {
		return a
	}
	if err = json.Unmarshal(raw, &a.values); err != nil {
		log.Warn().Err(err).Msg("local storage file is corrupt, starting empty")
		a.values = make(map[string]any)
	}
	return a
}

func (a *LocalAdapter) Get(key string, def any) any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.values[key]
	if !ok {
		return def
	}
	return v
}

func (a *LocalAdapter) Set(key string, value any) {
	a.mu.Lock()
	a.values[key] = value
	a.mu.Unlock()

	a.persist()
}

func (a *LocalAdapter) Remove(key string) {
	a.mu.Lock()
	delete(a.values, key)
	a.mu.Unlock()

	a.persist()
}

func (a *LocalAdapter) Has(key string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	_, ok := a.values[key]
	return ok
}

func (a *LocalAdapter) Clear() {
	a.mu.Lock()
	a.values = make(map[string]any)
	a.mu.Unlock()

	a.persist()
}

// persist writes the full state file best-effort.
func (a *LocalAdapter) persist() {
	a.mu.RLock()
	raw, err := json.Marshal(a.values)
	a.mu.RUnlock()
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to encode local storage state")
		return
	}

	if err = os.MkdirAll(filepath.Dir(a.path), 0o700); err != nil {
		a.logger.Warn().Err(err).Msg("local storage directory unavailable")
		return
	}
	if err = os.WriteFile(a.path, raw, 0o600); err != nil {
		a.logger.Warn().Err(err).Msg("failed to persist local storage state")
	}
}
