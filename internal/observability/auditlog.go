// Package observability holds curator's audit surfaces: the per-run stage
// audit log, the routing decision log, and the derived routing metrics.
package observability

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/datacentered/curator/internal/core"
)

// stageRecord is one classification stage inside a run record.
type stageRecord struct {
	Stage     string         `json:"stage"`
	Timestamp string         `json:"timestamp"`
	Inputs    map[string]any `json:"inputs"`
	Outputs   map[string]any `json:"outputs"`
	Reasoning string         `json:"reasoning,omitempty"`
}

// runRecord is the complete audit record for one processed item.
type runRecord struct {
	RunID      string        `json:"run_id"`
	ItemKey    string        `json:"item_key"`
	StartedAt  string        `json:"started_at"`
	FinishedAt string        `json:"finished_at,omitempty"`
	Stages     []stageRecord `json:"stages"`
	Success    bool          `json:"success"`
	ResultID   string        `json:"result_id,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// AuditLogger writes one JSON file per classification run under
// logs/runs/<run-id>.json. Records accumulate in memory and hit disk once, at
// FinishRun, so a crashed run leaves no partial file.
type AuditLogger struct {
	dir     string
	now     func() time.Time
	current *runRecord
}

var _ core.StageLogger = (*AuditLogger)(nil)

// NewAuditLogger creates an audit logger writing under basePath/logs/runs.
func NewAuditLogger(basePath string) *AuditLogger {
	return &AuditLogger{
		dir: filepath.Join(basePath, "logs", "runs"),
		now: time.Now,
	}
}

// StartRun opens a new run record and returns its ID. The ID combines a
// second-resolution UTC timestamp with a random suffix so two runs in the
// same second never collide.
func (l *AuditLogger) StartRun(itemKey string) string {
	ts := l.now().UTC()
	runID := ts.Format("20060102_150405") + "_" + uuid.NewString()[:8]
	l.current = &runRecord{
		RunID:     runID,
		ItemKey:   itemKey,
		StartedAt: ts.Format(time.RFC3339),
		Stages:    []stageRecord{},
	}
	return runID
}

// LogStage records one stage of the current run. Calls before StartRun are
// dropped.
func (l *AuditLogger) LogStage(name string, inputs, outputs map[string]any, reasoning string) {
	if l.current == nil {
		return
	}
	l.current.Stages = append(l.current.Stages, stageRecord{
		Stage:     name,
		Timestamp: l.now().UTC().Format(time.RFC3339),
		Inputs:    sanitize(inputs),
		Outputs:   sanitize(outputs),
		Reasoning: reasoning,
	})
}

// FinishRun closes the current run and writes its record. It returns the path
// of the written file.
func (l *AuditLogger) FinishRun(success bool, resultID, errMsg string) (string, error) {
	if l.current == nil {
		return "", fmt.Errorf("finishing audit run: no run in progress")
	}
	rec := l.current
	l.current = nil

	rec.FinishedAt = l.now().UTC().Format(time.RFC3339)
	rec.Success = success
	rec.ResultID = resultID
	rec.Error = errMsg

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating audit log directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling audit record: %w", err)
	}

	path := filepath.Join(l.dir, rec.RunID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing audit record: %w", err)
	}
	return path, nil
}

// sanitize replaces values json can't encode with their string rendering, so
// one odd stage value never loses a whole run record.
func sanitize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, err := json.Marshal(v); err != nil {
			out[k] = fmt.Sprintf("%v", v)
			continue
		}
		out[k] = v
	}
	return out
}
