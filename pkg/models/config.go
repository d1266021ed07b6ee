package models

// Config holds the merged curator configuration loaded from .curatorrc.
type Config struct {
	// LLM backend settings.
	LLMProvider  string
	LLMModel     string
	LLMBaseURL   string
	LLMAPIKeyEnv string

	// ConfidenceThreshold is the review gate: classifications (and definition
	// quality scores, for ingestion) strictly below it are sent to review.
	ConfidenceThreshold float64

	// FetchTimeoutSeconds bounds every content fetch.
	FetchTimeoutSeconds int

	// PollLimit is the maximum bookmarks fetched per poll.
	PollLimit int

	// PollSourceCommand is the bookmark CLI invoked by poll (e.g. "bird").
	PollSourceCommand string

	// EnrichmentEnabled toggles the best-effort GitHub author lookup.
	EnrichmentEnabled bool
}
