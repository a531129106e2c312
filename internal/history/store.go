package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Store persists the exchange log as a single JSON file. History is a
// convenience record, so reads never fail: an absent, unreadable or
// corrupt file is treated as an empty log.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored log, most recent first.
func (s *Store) Load() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// Save writes the capped log, creating the parent directory if needed.
func (s *Store) Save(entries []Entry) error {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Append records one exchange at the front of the stored log.
func (s *Store) Append(entry Entry) error {
	return s.Save(Append(s.Load(), entry))
}

// Clear removes the stored log. Clearing an already-empty log is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
