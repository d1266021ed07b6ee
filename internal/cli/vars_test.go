package cli

import (
	"testing"

	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/internal/observability"
)

func TestPipelineAudit_NilForDryRun(t *testing.T) {
	old := Audit
	Audit = observability.NewAuditLogger(t.TempDir())
	t.Cleanup(func() { Audit = old })

	if pipelineAudit(true) != nil {
		t.Error("dry runs must not get an audit logger")
	}
	if pipelineAudit(false) == nil {
		t.Error("real runs must get the audit logger")
	}
}

func TestNewTriageClassifier_Simple(t *testing.T) {
	classifier, err := newTriageClassifier(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := classifier.(*core.HeuristicTriage); !ok {
		t.Errorf("expected the rule-based classifier, got %T", classifier)
	}
}
