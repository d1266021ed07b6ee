package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/datacentered/curator/internal/core"
)

// RoutingLog is the append-only JSONL record of routing decisions and review
// actions at queues/routing-log.jsonl.
type RoutingLog struct {
	path string
}

// NewRoutingLog creates a routing log rooted at basePath.
func NewRoutingLog(basePath string) *RoutingLog {
	return &RoutingLog{path: filepath.Join(basePath, "queues", "routing-log.jsonl")}
}

// AppendRoute appends one routing decision.
func (l *RoutingLog) AppendRoute(entry core.RouteRecord) error {
	return l.append(entry)
}

// AppendReviewAction annotates the log with an operator decision on a pending
// entry: review.approved, review.skipped, or review.deleted.
func (l *RoutingLog) AppendReviewAction(entryID, action string) error {
	return l.append(core.RouteRecord{
		Timestamp: time.Now().UTC(),
		ItemID:    entryID,
		Action:    action,
	})
}

func (l *RoutingLog) append(entry core.RouteRecord) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating routing log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening routing log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling routing entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending routing entry: %w", err)
	}
	return nil
}

// Read returns all entries in append order. Unparsable lines are skipped so
// one corrupt line doesn't hide the rest of the history.
func (l *RoutingLog) Read() ([]core.RouteRecord, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening routing log: %w", err)
	}
	defer f.Close()

	var entries []core.RouteRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry core.RouteRecord
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading routing log: %w", err)
	}
	return entries, nil
}
