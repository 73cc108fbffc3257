// Package cache persists nas-pulse state between runs as JSON files
// with per-key freshness. The monitor's session state (peaks, totals,
// sparkline history) is saved here on shutdown and reloaded on start.
//
//	~/.cache/nas-pulse/
//	  session.json
//	  usage.json
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SessionKey is the cache key for persisted monitor session state.
const SessionKey = "session"

// Store is a JSON file-based cache keyed by name.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a cache store at the given directory, creating it
// with 0700 permissions if needed. If logger is nil, a no-op logger is
// used.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("cache: create directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// keyPath returns the filesystem path for a cache key.
func (s *Store) keyPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads a cached value. The fresh flag reports whether the entry is
// within ttl. A missing key returns nil, false, nil; a corrupted entry
// is removed and treated as a miss.
func (s *Store) Get(key string, ttl time.Duration) (json.RawMessage, bool, error) {
	path := s.keyPath(key)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: stat %s: %w", key, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("cache: read %s: %w", key, err)
	}

	if !json.Valid(data) {
		s.logger.Warn("cache: removing corrupted entry", slog.String("key", key))
		_ = os.Remove(path)
		return nil, false, nil
	}

	fresh := time.Since(info.ModTime()) < ttl
	return json.RawMessage(data), fresh, nil
}

// Set writes a value with an atomic write (temp file then rename) so a
// crashed writer never leaves a torn file behind.
func (s *Store) Set(key string, data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}

	path := s.keyPath(key)

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+key+"-*.json")
	if err != nil {
		return fmt.Errorf("cache: create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cache: chmod temp for %s: %w", key, err)
	}

	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cache: write temp for %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close temp for %s: %w", key, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("cache: rename temp for %s: %w", key, err)
	}

	success = true
	return nil
}

// GetTyped reads and unmarshals a cached value into T. Returns nil for a
// missing key; an entry that no longer unmarshals is removed and treated
// as a miss.
func GetTyped[T any](s *Store, key string, ttl time.Duration) (*T, bool, error) {
	raw, fresh, err := s.Get(key, ttl)
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		s.logger.Warn("cache: removing entry with unmarshal error",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		_ = os.Remove(s.keyPath(key))
		return nil, false, nil
	}

	return &result, fresh, nil
}

// SetTyped marshals and caches a value of type T.
func SetTyped[T any](s *Store, key string, data *T) error {
	return s.Set(key, data)
}

// Age returns how old a cache entry is based on file modification time,
// or 0 if the entry does not exist.
func (s *Store) Age(key string) time.Duration {
	info, err := os.Stat(s.keyPath(key))
	if err != nil {
		return 0
	}
	return time.Since(info.ModTime())
}

// Clear removes all cache files from the store directory.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cache: clear read dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("cache: clear remove %s: %w", e.Name(), err)
		}
	}
	return nil
}
