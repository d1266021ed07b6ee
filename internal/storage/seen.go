// Package storage implements curator's file-backed persistence: the seen-item
// identity store, the destination queue files, the pending-review collection,
// and the registered resource/author indexes.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// SeenStore tracks which item keys have already been processed so polling is
// idempotent across sessions.
type SeenStore interface {
	IsSeen(key string) bool
	MarkSeen(key string)
	Persist() error
	Count() int
}

// fileSeenStore keeps one normalized key per line in a plain text file.
// Persisted keys and session keys are held separately: MarkSeen only touches
// the session set, so an aborted run that never calls Persist leaves the file
// untouched.
type fileSeenStore struct {
	path      string
	persisted map[string]bool
	session   map[string]bool
}

// NewSeenStore loads the seen-key file at path. A missing file is an empty
// store; an unreadable or corrupt file is an error so a damaged store is
// never silently treated as empty.
func NewSeenStore(path string) (SeenStore, error) {
	s := &fileSeenStore{
		path:      path,
		persisted: make(map[string]bool),
		session:   make(map[string]bool),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileSeenStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading seen store: %w", err)
	}
	if !utf8.Valid(data) || strings.ContainsRune(string(data), 0) {
		return fmt.Errorf("reading seen store: %s is not a text file", s.path)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			s.persisted[line] = true
		}
	}
	return nil
}

// IsSeen reports whether a key was seen in a prior session or this one.
func (s *fileSeenStore) IsSeen(key string) bool {
	return s.persisted[key] || s.session[key]
}

// MarkSeen records a key for this session. It is not durable until Persist.
func (s *fileSeenStore) MarkSeen(key string) {
	s.session[key] = true
}

// Persist merges the session keys with whatever is on disk now and rewrites
// the file atomically. Re-reading before writing means two concurrent
// sessions cannot erase each other's keys.
func (s *fileSeenStore) Persist() error {
	merged := make(map[string]bool, len(s.persisted)+len(s.session))
	for k := range s.persisted {
		merged[k] = true
	}
	for k := range s.session {
		merged[k] = true
	}

	if data, err := os.ReadFile(s.path); err == nil && utf8.Valid(data) {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				merged[line] = true
			}
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating seen store directory: %w", err)
	}
	tmp := s.path + ".tmp"
	content := strings.Join(keys, "\n")
	if len(keys) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing seen store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing seen store: %w", err)
	}

	s.persisted = merged
	s.session = make(map[string]bool)
	return nil
}

// Count returns the number of distinct keys known to this store.
func (s *fileSeenStore) Count() int {
	n := len(s.persisted)
	for k := range s.session {
		if !s.persisted[k] {
			n++
		}
	}
	return n
}
