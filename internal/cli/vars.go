// Package cli implements the curator command tree. Service dependencies are
// package-level variables set by the App during initialization.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/internal/integration"
	"github.com/datacentered/curator/internal/observability"
	"github.com/datacentered/curator/internal/storage"
	"github.com/datacentered/curator/pkg/models"
)

var (
	BasePath string
	Config   models.Config

	Seen     storage.SeenStore
	Queues   *storage.QueueFiles
	Pending  storage.PendingStore
	Registry *storage.Registry

	Audit      *observability.AuditLogger
	RoutingLog *observability.RoutingLog
	Diag       *slog.Logger

	Fetcher   *integration.Fetcher
	Bookmarks integration.BookmarkSource
	Enricher  core.Enricher
)

// newTriageClassifier returns the configured triage backend: the rule-based
// classifier when simple is set, otherwise the LLM backend.
func newTriageClassifier(simple bool) (core.TriageClassifier, error) {
	if simple {
		return core.NewHeuristicTriage(), nil
	}
	return integration.NewLLMBackend(Config)
}

// newPipeline builds the ingestion orchestrator over the LLM backend.
func newPipeline(dryRun bool) (*core.Pipeline, error) {
	backend, err := integration.NewLLMBackend(Config)
	if err != nil {
		return nil, err
	}
	knownAuthors, err := Registry.KnownAuthors()
	if err != nil {
		return nil, fmt.Errorf("loading known authors: %w", err)
	}
	return core.NewPipeline(backend, Enricher, pipelineAudit(dryRun), Diag, knownAuthors, Config.ConfidenceThreshold), nil
}

// pipelineAudit returns the stage logger for an ingestion run. Dry runs get
// none: an audit record on disk is a durable mutation, and dry runs must not
// leave any.
func pipelineAudit(dryRun bool) core.StageLogger {
	if dryRun || Audit == nil {
		return nil
	}
	return Audit
}
