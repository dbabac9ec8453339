// Package history keeps the bounded, file-backed log of results the user
// chose to keep, and each session's current result.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/myjellybean/jellybean/internal/logger"
	"github.com/myjellybean/jellybean/internal/model"
)

// MaxEntries caps the persisted log.
const MaxEntries = 10

// ErrCorrupt marks a stored blob that could not be read back. It is logged
// and never returned from Load.
var ErrCorrupt = errors.New("history blob is corrupt")

// Store owns the history log. The zero path keeps everything in memory.
type Store struct {
	path string
	log  *logger.Logger

	mu      sync.Mutex
	entries []model.AnalysisResult
}

// NewStore returns an empty store persisting to path. Call Load once at
// startup to read an existing log.
func NewStore(path string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{path: path, log: log.WithComponent("history")}
}

// Path returns the backing file, or "" for a memory-only store.
func (s *Store) Path() string { return s.path }

// Load reads the persisted log. A missing file yields an empty log. An
// unreadable or invalid blob is discarded whole and only logged.
func (s *Store) Load() {
	entries, err := s.read()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("discarding stored history")
		s.entries = nil
		return
	}
	s.entries = entries
	s.log.Debug().Int("entries", len(entries)).Msg("history loaded")
}

func (s *Store) read() ([]model.AnalysisResult, error) {
	if s.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	entries, err := model.DecodeResults(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries, nil
}

// Append puts r at the front of the log, evicts past MaxEntries and
// persists. On a write error the in-memory log keeps the change.
func (s *Store) Append(r model.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]model.AnalysisResult, 0, MaxEntries)
	entries = append(entries, r)
	entries = append(entries, s.entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.entries = entries
	return s.persistLocked()
}

// Clear empties the log and persists.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return s.persistLocked()
}

// Entries returns the log, most recent first.
func (s *Store) Entries() []model.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AnalysisResult, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of logged entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// persistLocked writes the log to a temp file beside the target and renames
// it into place, so a crash leaves the previous blob intact.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	entries := s.entries
	if entries == nil {
		entries = []model.AnalysisResult{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return s.persistErr(fmt.Errorf("encode history: %w", err))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return s.persistErr(fmt.Errorf("create history dir: %w", err))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return s.persistErr(fmt.Errorf("create temp history file: %w", err))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return s.persistErr(fmt.Errorf("write temp history file: %w", err))
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return s.persistErr(fmt.Errorf("chmod temp history file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return s.persistErr(fmt.Errorf("close temp history file: %w", err))
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return s.persistErr(fmt.Errorf("replace history file: %w", err))
	}
	return nil
}

func (s *Store) persistErr(err error) error {
	s.log.Error().Err(err).Str("path", s.path).Msg("persisting history failed")
	return err
}
