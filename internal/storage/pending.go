package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/datacentered/curator/pkg/models"
)

// PendingStore holds classifications parked for operator review. Only pending
// entries are persisted; transitioning to a terminal status removes the entry.
type PendingStore interface {
	Add(entry models.PendingEntry) error
	List() ([]models.PendingEntry, error)
	Get(id string) (models.PendingEntry, bool, error)
	Resolve(id string, status models.ReviewStatus) error
}

type filePendingStore struct {
	path string
}

// NewPendingStore creates a pending store backed by queue/pending.yaml under
// basePath.
func NewPendingStore(basePath string) PendingStore {
	return &filePendingStore{path: filepath.Join(basePath, "queue", "pending.yaml")}
}

// pendingFile is the on-disk shape of pending.yaml.
type pendingFile struct {
	Pending []models.PendingEntry `yaml:"pending"`
}

func (s *filePendingStore) load() (pendingFile, error) {
	var file pendingFile
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("reading pending queue: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parsing pending queue: %w", err)
	}
	return file, nil
}

func (s *filePendingStore) save(file pendingFile) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshaling pending queue: %w", err)
	}
	return writeAtomic(s.path, data)
}

// Add appends one entry in pending status. An entry with the same id replaces
// the previous one so re-running a URL never duplicates its review slot.
func (s *filePendingStore) Add(entry models.PendingEntry) error {
	file, err := s.load()
	if err != nil {
		return err
	}

	entry.Status = models.ReviewPending
	if entry.Added == "" {
		entry.Added = time.Now().UTC().Format("2006-01-02")
	}

	replaced := false
	for i, existing := range file.Pending {
		if existing.ID == entry.ID {
			file.Pending[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		file.Pending = append(file.Pending, entry)
	}
	return s.save(file)
}

// List returns all pending entries in insertion order.
func (s *filePendingStore) List() ([]models.PendingEntry, error) {
	file, err := s.load()
	if err != nil {
		return nil, err
	}
	return file.Pending, nil
}

// Get returns the pending entry with the given id, if present.
func (s *filePendingStore) Get(id string) (models.PendingEntry, bool, error) {
	file, err := s.load()
	if err != nil {
		return models.PendingEntry{}, false, err
	}
	for _, e := range file.Pending {
		if e.ID == id {
			return e, true, nil
		}
	}
	return models.PendingEntry{}, false, nil
}

// Resolve moves an entry out of the pending collection. Only terminal
// statuses are accepted, and the entry must currently be pending.
func (s *filePendingStore) Resolve(id string, status models.ReviewStatus) error {
	if !status.IsTerminal() {
		return fmt.Errorf("resolving %s: status %q is not terminal", id, status)
	}

	file, err := s.load()
	if err != nil {
		return err
	}

	kept := file.Pending[:0]
	found := false
	for _, e := range file.Pending {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("resolving %s: no pending entry", id)
	}

	file.Pending = kept
	return s.save(file)
}
