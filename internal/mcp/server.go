// Package mcp provides an MCP (Model Context Protocol) server that exposes
// curator functionality as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/internal/observability"
	"github.com/datacentered/curator/internal/storage"
)

// Server wraps curator services and exposes them as MCP tools.
type Server struct {
	server     *gomcp.Server
	queues     *storage.QueueFiles
	pending    storage.PendingStore
	registry   *storage.Registry
	routingLog *observability.RoutingLog
}

// NewServer creates a new MCP server over the given curator services.
func NewServer(queues *storage.QueueFiles, pending storage.PendingStore, registry *storage.Registry, routingLog *observability.RoutingLog, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		queues:     queues,
		pending:    pending,
		registry:   registry,
		routingLog: routingLog,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "curator", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type queueStatusInput struct{}

type queueStatusOutput struct {
	Intake    int `json:"intake"`
	Try       int `json:"try"`
	Review    int `json:"review"`
	Quotes    int `json:"quotes"`
	Resources int `json:"resources"`
	Pending   int `json:"pending_review"`
}

type listPendingInput struct{}

type pendingEntryOutput struct {
	ID         string  `json:"id"`
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	Domain     string  `json:"domain"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
	Added      string  `json:"added,omitempty"`
}

type listPendingOutput struct {
	Entries []pendingEntryOutput `json:"entries"`
	Count   int                  `json:"count"`
}

type routingActivityInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for activity (e.g. 7d, 24h). Defaults to 7d."`
}

type routingActivityOutput struct {
	Total       int            `json:"total"`
	ByIntent    map[string]int `json:"by_intent"`
	NeedsReview int            `json:"needs_review"`
	Approved    int            `json:"approved"`
	Skipped     int            `json:"skipped"`
	Deleted     int            `json:"deleted"`
}

type checkURLInput struct {
	URL string `json:"url" jsonschema:"required,the URL to look up in the knowledge base"`
}

type checkURLOutput struct {
	Known      bool   `json:"known"`
	ResourceID string `json:"resource_id,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "queue_status",
		Description: "Get the current size of each destination queue, the resource registry, and the pending review queue.",
	}, s.handleQueueStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_pending",
		Description: "List classifications parked for human review, with their suggested taxonomy and confidence.",
	}, s.handleListPending)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "routing_activity",
		Description: "Get routing activity from the routing log: totals per intent, review flags, and review outcomes.",
	}, s.handleRoutingActivity)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "check_url",
		Description: "Check whether a URL is already registered in the knowledge base. Matching ignores host case, a leading www, trailing slashes, and fragments.",
	}, s.handleCheckURL)
}

// --- Tool handlers ---

func (s *Server) handleQueueStatus(_ context.Context, _ *gomcp.CallToolRequest, _ queueStatusInput) (*gomcp.CallToolResult, queueStatusOutput, error) {
	pending, err := s.pending.List()
	if err != nil {
		return errorResult(fmt.Sprintf("listing pending entries: %s", err)), queueStatusOutput{}, nil
	}

	out := queueStatusOutput{
		Intake:    s.queues.CountIntake(),
		Try:       s.queues.CountTry(),
		Review:    s.queues.CountReview(),
		Quotes:    s.queues.CountQuotes(),
		Resources: s.registry.CountResources(),
		Pending:   len(pending),
	}
	return nil, out, nil
}

func (s *Server) handleListPending(_ context.Context, _ *gomcp.CallToolRequest, _ listPendingInput) (*gomcp.CallToolResult, listPendingOutput, error) {
	entries, err := s.pending.List()
	if err != nil {
		return errorResult(fmt.Sprintf("listing pending entries: %s", err)), listPendingOutput{}, nil
	}

	out := listPendingOutput{
		Entries: make([]pendingEntryOutput, len(entries)),
		Count:   len(entries),
	}
	for i, e := range entries {
		out.Entries[i] = pendingEntryOutput{
			ID:         e.ID,
			URL:        e.URL,
			Title:      e.Title,
			Domain:     e.Domain,
			Category:   e.Category,
			Confidence: e.Confidence,
			Reasoning:  e.Reasoning,
			Added:      e.Added,
		}
	}
	return nil, out, nil
}

func (s *Server) handleRoutingActivity(_ context.Context, _ *gomcp.CallToolRequest, input routingActivityInput) (*gomcp.CallToolResult, routingActivityOutput, error) {
	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}
	since, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), routingActivityOutput{}, nil
	}

	metrics, err := s.routingLog.CalculateMetrics(since)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating routing activity: %s", err)), routingActivityOutput{}, nil
	}

	byIntent := make(map[string]int, len(metrics.ByIntent))
	for intent, count := range metrics.ByIntent {
		byIntent[string(intent)] = count
	}
	out := routingActivityOutput{
		Total:       metrics.Total,
		ByIntent:    byIntent,
		NeedsReview: metrics.NeedsReview,
		Approved:    metrics.Approved,
		Skipped:     metrics.Skipped,
		Deleted:     metrics.Deleted,
	}
	return nil, out, nil
}

func (s *Server) handleCheckURL(_ context.Context, _ *gomcp.CallToolRequest, input checkURLInput) (*gomcp.CallToolResult, checkURLOutput, error) {
	if input.URL == "" {
		return errorResult("url is required"), checkURLOutput{}, nil
	}

	known, err := s.registry.KnownURLs()
	if err != nil {
		return errorResult(fmt.Sprintf("loading resource registry: %s", err)), checkURLOutput{}, nil
	}

	id, ok := known[core.NormalizeKey(input.URL)]
	return nil, checkURLOutput{Known: ok, ResourceID: id}, nil
}

// --- Helpers ---

// errorResult builds a CallToolResult carrying an error message back to the
// client without failing the protocol call.
func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince converts duration shorthand like "7d" or "24h" into a cutoff.
func parseSince(raw string) (time.Time, error) {
	var n int
	var unit string
	if _, err := fmt.Sscanf(raw, "%d%s", &n, &unit); err != nil {
		return time.Time{}, fmt.Errorf("expected forms like 7d or 24h, got %q", raw)
	}
	switch unit {
	case "d":
		return time.Now().Add(-time.Duration(n) * 24 * time.Hour), nil
	case "h":
		return time.Now().Add(-time.Duration(n) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unit must be d or h, got %q", raw)
	}
}
