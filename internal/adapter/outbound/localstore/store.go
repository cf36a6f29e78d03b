// Package localstore persists session data in the local data directory.
// Two separate keys are kept: session.json holds the combined session
// record (user profile plus token), and token holds the raw bearer token
// alone, read back for outbound request header injection.
package localstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/Store-Desk/Storedesk/internal/domain/session"
)

const (
	sessionFile  = "session.json"
	tokenFile    = "token"
	backupSuffix = ".bak"
)

// Store reads and writes the persisted session files. It provides atomic
// writes (write-tmp-then-rename), file locking (flock for cross-process,
// mutex for in-process), and 0600 permissions on everything it creates.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

// New creates a Store rooted at the given data directory.
// The directory is created on first write, not here.
func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// DefaultDir returns the default data directory, ~/.store-desk.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".store-desk"
	}
	return filepath.Join(home, ".store-desk")
}

// SessionPath returns the path of the combined session record.
func (s *Store) SessionPath() string { return filepath.Join(s.dir, sessionFile) }

// TokenPath returns the path of the raw token mirror.
func (s *Store) TokenPath() string { return filepath.Join(s.dir, tokenFile) }

// SaveSession writes the combined session record atomically.
func (s *Store) SaveSession(rec *session.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	data = append(data, '\n')
	return s.writeLocked(s.SessionPath(), data)
}

// LoadSession reads and parses the persisted session record.
// A missing file is not an error and returns (nil, nil); the session
// simply starts anonymous. Warns if the file permissions are more open
// than 0600.
func (s *Store) LoadSession() (*session.Record, error) {
	path := s.SessionPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no session record found", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("read session record: %w", err)
	}

	s.warnOpenPerms(path)

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse session record: %w", err)
	}
	return &rec, nil
}

// ClearSession removes the combined session record. Idempotent.
func (s *Store) ClearSession() error {
	return s.removeLocked(s.SessionPath())
}

// WriteToken writes the raw bearer token to its own storage key.
func (s *Store) WriteToken(token string) error {
	return s.writeLocked(s.TokenPath(), []byte(token+"\n"))
}

// ReadToken reads the persisted bearer token. A missing file is not an
// error and returns the empty string.
func (s *Store) ReadToken() (string, error) {
	data, err := os.ReadFile(s.TokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearToken removes the token mirror. Idempotent.
func (s *Store) ClearToken() error {
	return s.removeLocked(s.TokenPath())
}

// Token implements the API client's token provider: the current persisted
// bearer token, or empty when anonymous. Read errors surface as an
// anonymous request rather than a failure.
func (s *Store) Token() string {
	token, err := s.ReadToken()
	if err != nil {
		s.logger.Warn("failed to read token mirror", "error", err)
		return ""
	}
	return token
}

// writeLocked writes data to path under the in-process mutex and a
// cross-process flock, creating the data directory when needed.
func (s *Store) writeLocked(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	unlock, err := s.flock(path)
	if err != nil {
		return err
	}
	defer unlock()

	// Keep the previous version as a .bak next to the file.
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+backupSuffix); err != nil {
			s.logger.Warn("failed to back up previous file", "path", path, "error", err)
		}
	}

	if err := writeAtomic(path, data); err != nil {
		return err
	}

	// Ensure 0600 after rename as a safety net.
	if err := os.Chmod(path, 0600); err != nil {
		s.logger.Warn("failed to set permissions", "path", path, "error", err)
	}
	s.logger.Debug("saved", "path", path)
	return nil
}

// removeLocked removes path and its .bak under the same locking
// discipline as writes. A missing file is not an error.
func (s *Store) removeLocked(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, pathErr := os.Stat(path)
	_, bakErr := os.Stat(path + backupSuffix)
	if os.IsNotExist(pathErr) && os.IsNotExist(bakErr) {
		return nil
	}

	unlock, err := s.flock(path)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", filepath.Base(path), err)
	}
	// The backup holds the same secrets as the live file; clear it too.
	if err := os.Remove(path + backupSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s%s: %w", filepath.Base(path), backupSuffix, err)
	}
	return nil
}

// flock acquires the cross-process lock for path and returns its release
// function.
func (s *Store) flock(path string) (func(), error) {
	lockPath := path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := flockLock(lockFile.Fd()); err != nil {
		_ = lockFile.Close()
		return nil, fmt.Errorf("acquire file lock: %w", err)
	}
	return func() {
		flockUnlock(lockFile.Fd()) //nolint:errcheck
		_ = lockFile.Close()
	}, nil
}

// writeAtomic writes data to a temp file, fsyncs it, and renames it over
// the target path. On any error the temp file is cleaned up.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// warnOpenPerms warns if an existing file has permissions more open than
// 0600. Skipped on Windows where Unix permission bits are not supported.
func (s *Store) warnOpenPerms(path string) {
	if runtime.GOOS == "windows" {
		return
	}
	if info, err := os.Stat(path); err == nil {
		mode := info.Mode().Perm()
		if mode&0077 != 0 { // group or other has access
			s.logger.Warn("session file has too-open permissions, should be 0600",
				"path", path, "current_mode", fmt.Sprintf("%04o", mode))
		}
	}
}
