// Package cache persists the last usage snapshot so rapid status line refreshes skip the network.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/j-veylop/glm-statusline/internal/logger"
	"github.com/j-veylop/glm-statusline/internal/models"
)

// TTL is how long a cached snapshot is served without refetching.
const TTL = 5 * time.Second

// Entry is the persisted cache document.
type Entry struct {
	Data      models.UsageSnapshot `json:"data"`
	Timestamp int64                `json:"timestamp"`
}

// IsValid reports whether entry was written less than TTL before now.
// Entries stamped in the future are treated as stale.
func IsValid(entry *Entry, now time.Time) bool {
	if entry == nil || entry.Timestamp == 0 {
		return false
	}
	age := now.UnixMilli() - entry.Timestamp
	return age >= 0 && age < TTL.Milliseconds()
}

// Store is a single-slot snapshot cache backed by one JSON file.
// Concurrent writers race with last-writer-wins semantics.
type Store struct {
	path string
}

// NewStore creates a store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the cached entry, or nil if the file is missing, unreadable or malformed.
func (s *Store) Load() *Entry {
	if s == nil || s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("failed to read usage cache", "path", s.path, "error", err)
		}
		return nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Debug("ignoring malformed usage cache", "path", s.path, "error", err)
		return nil
	}
	return &entry
}

// Save replaces the cache file with snapshot stamped at now.
func (s *Store) Save(snapshot models.UsageSnapshot, now time.Time) error {
	if s == nil || s.path == "" {
		return nil
	}

	data, err := json.Marshal(Entry{Data: snapshot, Timestamp: now.UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to marshal usage cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write to a temp file first, then rename, so readers never see half a document.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		if removeErr := os.Remove(tmpName); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
