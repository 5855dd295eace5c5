package filecache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/sjms/livescores/internal/platform/logging"
)

// Store is a flat-directory key/value cache with per-read TTL semantics.
// Entries are plain files; age is taken from the file mtime, so entries
// written by other processes are honored. There is no locking: concurrent
// writers for the same key race and the last write wins, which is
// acceptable because every writer stores an equally fresh payload.
type Store struct {
	dir    string
	logger *logging.Logger
	now    func() time.Time
}

func NewStore(dir string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the cached payload, or nil when the entry is missing, older
// than ttl, unreadable, or empty. A ttl <= 0 means entries never expire.
func (s *Store) Get(key string, ttl time.Duration) []byte {
	if key == "" {
		return nil
	}

	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if ttl > 0 && s.now().Sub(info.ModTime()) >= ttl {
		return nil
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		s.logger.Debug("filecache read failed", "key", key, "error", err)
		return nil
	}
	if len(payload) == 0 {
		return nil
	}

	return payload
}

// Set stores the payload best-effort. Cache write failures never surface
// to callers; a cold cache only costs an upstream fetch.
func (s *Store) Set(key string, payload []byte) {
	if key == "" || len(payload) == 0 {
		return
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Debug("filecache mkdir failed", "dir", s.dir, "error", err)
		return
	}
	if err := os.WriteFile(s.path(key), payload, 0o644); err != nil {
		s.logger.Debug("filecache write failed", "key", key, "error", err)
	}
}

func (s *Store) Delete(key string) {
	if key == "" {
		return
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		s.logger.Debug("filecache delete failed", "key", key, "error", err)
	}
}

// GetJSON decodes a cached entry into out, reporting whether a usable
// entry existed. Malformed payloads count as a miss.
func (s *Store) GetJSON(key string, ttl time.Duration, out any) bool {
	payload := s.Get(key, ttl)
	if payload == nil {
		return false
	}
	if err := sonic.Unmarshal(payload, out); err != nil {
		s.logger.Debug("filecache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) SetJSON(key string, value any) {
	payload, err := sonic.Marshal(value)
	if err != nil {
		s.logger.Debug("filecache encode failed", "key", key, "error", err)
		return
	}
	s.Set(key, payload)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, SanitizeKey(key)+".json")
}
