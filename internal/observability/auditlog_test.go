package observability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAuditLogger_WritesOneFilePerRun(t *testing.T) {
	base := t.TempDir()
	logger := NewAuditLogger(base)

	runID := logger.StartRun("https://example.com/post")
	logger.LogStage("triage",
		map[string]any{"text": "check this out"},
		map[string]any{"intent": "learn", "confidence": 0.9},
		"clear article share")
	logger.LogStage("gate",
		map[string]any{"confidence": 0.9},
		map[string]any{"needs_review": false},
		"")

	path, err := logger.FinishRun(true, "item-1", "")
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if filepath.Base(path) != runID+".json" {
		t.Errorf("expected file named after run id, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading audit record: %v", err)
	}
	var rec struct {
		RunID   string `json:"run_id"`
		ItemKey string `json:"item_key"`
		Success bool   `json:"success"`
		Stages  []struct {
			Stage string `json:"stage"`
		} `json:"stages"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("parsing audit record: %v", err)
	}
	if rec.RunID != runID || rec.ItemKey != "https://example.com/post" || !rec.Success {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.Stages) != 2 || rec.Stages[0].Stage != "triage" || rec.Stages[1].Stage != "gate" {
		t.Errorf("expected both stages in order, got %+v", rec.Stages)
	}
}

func TestAuditLogger_NothingOnDiskBeforeFinish(t *testing.T) {
	base := t.TempDir()
	logger := NewAuditLogger(base)

	logger.StartRun("key")
	logger.LogStage("triage", nil, nil, "")

	if _, err := os.Stat(filepath.Join(base, "logs", "runs")); !os.IsNotExist(err) {
		t.Error("run directory must not exist before FinishRun")
	}
}

func TestAuditLogger_StageBeforeStartDropped(t *testing.T) {
	logger := NewAuditLogger(t.TempDir())

	// Must not panic, must not leak into the next run.
	logger.LogStage("orphan", nil, nil, "")

	logger.StartRun("key")
	path, err := logger.FinishRun(true, "", "")
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "orphan") {
		t.Error("stage logged before StartRun must be dropped")
	}
}

func TestAuditLogger_FinishWithoutRunErrors(t *testing.T) {
	logger := NewAuditLogger(t.TempDir())
	if _, err := logger.FinishRun(true, "", ""); err == nil {
		t.Fatal("expected error finishing without a run")
	}
}

func TestAuditLogger_FailedRunRecordsError(t *testing.T) {
	logger := NewAuditLogger(t.TempDir())
	logger.StartRun("key")

	path, err := logger.FinishRun(false, "", "classify stage timed out")
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	var rec struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("parsing record: %v", err)
	}
	if rec.Success || rec.Error != "classify stage timed out" {
		t.Errorf("unexpected failure record: %+v", rec)
	}
}

func TestAuditLogger_SanitizesUnmarshalableValues(t *testing.T) {
	logger := NewAuditLogger(t.TempDir())
	logger.StartRun("key")
	logger.LogStage("triage",
		map[string]any{"ch": make(chan int)},
		nil, "")

	path, err := logger.FinishRun(true, "", "")
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !json.Valid(data) {
		t.Error("record with odd stage values must still be valid json")
	}
}
