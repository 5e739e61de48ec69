// Package history persists recent successful lookup names to the
// filesystem. Only the names survive between runs; the session cache of
// fetched data is deliberately in-memory only and dies with the program.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultLimit is the number of names kept when no limit is configured.
const DefaultLimit = 20

// Store holds recent lookup names, most recent first, backed by a JSON
// file. Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	path  string
	limit int
	names []string
}

// file is the on-disk shape.
type file struct {
	Names []string `json:"names"`
}

// NewStore creates a Store persisting to path, keeping at most limit
// names. A non-positive limit falls back to DefaultLimit.
func NewStore(path string, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{path: path, limit: limit}
}

// Load reads the history file. A missing file yields an empty history
// without error; a corrupt file is treated as empty so a bad write never
// bricks startup.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.names = nil
			return nil
		}
		return fmt.Errorf("history: reading %s: %w", s.path, err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		s.names = nil
		return nil
	}
	s.names = trim(f.Names, s.limit)
	return nil
}

// Record adds a name to the front of the history, deduplicating and
// trimming to the limit. Persist with Save.
func (s *Store) Record(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.names)+1)
	next = append(next, name)
	for _, n := range s.names {
		if n != name {
			next = append(next, n)
		}
	}
	s.names = trim(next, s.limit)
}

// Names returns the recorded names, most recent first. The returned slice
// is a copy.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// Save writes the history to its file, creating parent directories as
// needed.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("history: creating directory: %w", err)
	}

	data, err := json.MarshalIndent(file{Names: s.names}, "", "  ")
	if err != nil {
		return fmt.Errorf("history: marshaling: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("history: writing %s: %w", s.path, err)
	}
	return nil
}

// DefaultPath returns the per-user history file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("history: resolving config dir: %w", err)
	}
	return filepath.Join(dir, "pokedex", "history.json"), nil
}

func trim(names []string, limit int) []string {
	if len(names) > limit {
		return names[:limit]
	}
	return names
}
