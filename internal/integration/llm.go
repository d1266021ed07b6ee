package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/pkg/models"
)

// LLMBackend implements both classification variants over an OpenAI-style
// chat-completions API. Every stage asks for a single JSON object and
// tolerates fenced or prefixed replies; schema-level garbage is left to the
// orchestrators' validation.
type LLMBackend struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

var (
	_ core.TriageClassifier = (*LLMBackend)(nil)
	_ core.PipelineBackend  = (*LLMBackend)(nil)
)

// NewLLMBackend creates a backend from config. The API key is read from the
// configured environment variable; a missing key is a configuration error
// with the remediation in the message.
func NewLLMBackend(cfg models.Config) (*LLMBackend, error) {
	apiKey := os.Getenv(cfg.LLMAPIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("configuring llm backend: environment variable %s is empty, export your %s API key first", cfg.LLMAPIKeyEnv, cfg.LLMProvider)
	}
	return &LLMBackend{
		client:  &http.Client{Timeout: 120 * time.Second},
		baseURL: strings.TrimRight(cfg.LLMBaseURL, "/"),
		model:   cfg.LLMModel,
		apiKey:  apiKey,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (b *LLMBackend) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: b.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parsing chat response: %w", err)
	}
	if resp.StatusCode >= 400 {
		msg := "unknown error"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// completeJSON runs a completion and unmarshals the reply into target,
// stripping markdown fences and any prose around the JSON object.
func (b *LLMBackend) completeJSON(ctx context.Context, system, user string, target any) error {
	reply, err := b.complete(ctx, system, user)
	if err != nil {
		return err
	}
	cleaned := extractJSON(reply)
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return fmt.Errorf("parsing stage reply: %w", err)
	}
	return nil
}

func extractJSON(reply string) string {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return reply
	}
	return reply[start : end+1]
}

const triageSystem = `You triage saved social bookmarks. Respond with a single JSON object:
{"intent": "learn|try|review|quote|skip", "content_type": "article|video|podcast|repo|thread|tool|insight|other", "primary_url": "<most important URL or none>", "confidence": "<0.0-1.0>", "reasoning": "<one sentence>"}
learn = substantial content to ingest, try = tool or repo to experiment with, review = needs a human pass, quote = short standalone insight worth keeping, skip = noise.`

// Triage classifies one bookmarked item.
func (b *LLMBackend) Triage(ctx context.Context, in core.TriageInput) (core.TriageOutput, error) {
	user := fmt.Sprintf("Text: %s\nAuthor: %s\nAuthor bio: %s\nURLs: %s\nHas media: %t\nIs thread: %t",
		in.Text, in.AuthorName, in.AuthorBio, in.URLs, in.HasMedia, in.IsThread)

	var raw struct {
		Intent      string `json:"intent"`
		ContentType string `json:"content_type"`
		PrimaryURL  string `json:"primary_url"`
		Confidence  string `json:"confidence"`
		Reasoning   string `json:"reasoning"`
	}
	if err := b.completeJSON(ctx, triageSystem, user, &raw); err != nil {
		return core.TriageOutput{}, err
	}
	return core.TriageOutput{
		Intent:      raw.Intent,
		ContentType: raw.ContentType,
		PrimaryURL:  raw.PrimaryURL,
		Confidence:  raw.Confidence,
		Reasoning:   raw.Reasoning,
	}, nil
}

const quoteSystem = `You extract quotable insights from short posts. Respond with a single JSON object:
{"quotable": true|false, "quote": "<the cleaned quote>", "topic": "<2-4 word topic>"}
Only mark quotable when the text is a self-contained insight that stands alone without context.`

// ExtractQuote pulls a standalone quote out of a post.
func (b *LLMBackend) ExtractQuote(ctx context.Context, in core.QuoteInput) (core.QuoteOutput, error) {
	user := fmt.Sprintf("Text: %s\nAuthor: %s", in.Text, in.AuthorName)

	var raw struct {
		Quotable bool   `json:"quotable"`
		Quote    string `json:"quote"`
		Topic    string `json:"topic"`
	}
	if err := b.completeJSON(ctx, quoteSystem, user, &raw); err != nil {
		return core.QuoteOutput{}, err
	}
	return core.QuoteOutput{Quote: raw.Quote, Topic: raw.Topic, Quotable: raw.Quotable}, nil
}

func classifySystem() string {
	var b strings.Builder
	b.WriteString("You classify knowledge-base resources into a fixed taxonomy. Domains and their categories:\n")
	for id, info := range core.Domains {
		fmt.Fprintf(&b, "- %s (%s): %s\n", id, info.Name, strings.Join(info.Categories, ", "))
	}
	b.WriteString(`Respond with a single JSON object:
{"domain": "<domain id>", "category": "<category from that domain>", "content_type": "essay|blog|video|podcast|documentation|paper", "granularity": "foundational|conceptual|implementation|advanced", "confidence": "<0.0-1.0>", "reasoning": "<one sentence>"}`)
	return b.String()
}

// Classify assigns domain, category, medium, and depth to fetched content.
func (b *LLMBackend) Classify(ctx context.Context, title, content, url string) (core.ClassifyOutput, error) {
	user := fmt.Sprintf("Title: %s\nURL: %s\n\nContent:\n%s", title, url, clip(content, 6000))

	var raw struct {
		Domain      string `json:"domain"`
		Category    string `json:"category"`
		ContentType string `json:"content_type"`
		Granularity string `json:"granularity"`
		Confidence  string `json:"confidence"`
		Reasoning   string `json:"reasoning"`
	}
	if err := b.completeJSON(ctx, classifySystem(), user, &raw); err != nil {
		return core.ClassifyOutput{}, err
	}
	return core.ClassifyOutput{
		Domain:      raw.Domain,
		Category:    raw.Category,
		ContentType: raw.ContentType,
		Granularity: raw.Granularity,
		Confidence:  raw.Confidence,
		Reasoning:   raw.Reasoning,
	}, nil
}

const defineSystem = `You write definitions for knowledge-base resources. Respond with a single JSON object:
{"definition": "<2-3 sentence definition of what this resource covers and why it matters>", "alternate_labels": ["<up to 5 alternative names or search terms>"]}`

// Define generates the resource definition and alternate labels.
func (b *LLMBackend) Define(ctx context.Context, title, content, domain, category string) (core.DefineOutput, error) {
	user := fmt.Sprintf("Title: %s\nDomain: %s\nCategory: %s\n\nContent:\n%s", title, domain, category, clip(content, 6000))

	var raw struct {
		Definition      string   `json:"definition"`
		AlternateLabels []string `json:"alternate_labels"`
	}
	if err := b.completeJSON(ctx, defineSystem, user, &raw); err != nil {
		return core.DefineOutput{}, err
	}
	return core.DefineOutput{Definition: raw.Definition, AlternateLabels: raw.AlternateLabels}, nil
}

const scoreSystem = `You judge resource definitions. Evaluate these criteria as booleans: accurate, specific, self_contained, explains_value, concise. Respond with a single JSON object:
{"criteria": {"accurate": true, "specific": true, "self_contained": true, "explains_value": true, "concise": true}, "score": "<0.0-1.0>", "feedback": "<one sentence on the weakest criterion>"}`

// ScoreDefinition evaluates definition quality.
func (b *LLMBackend) ScoreDefinition(ctx context.Context, definition, title, content string) (core.ScoreOutput, error) {
	user := fmt.Sprintf("Title: %s\n\nDefinition:\n%s\n\nSource content:\n%s", title, definition, clip(content, 3000))

	var raw struct {
		Criteria map[string]bool `json:"criteria"`
		Score    string          `json:"score"`
		Feedback string          `json:"feedback"`
	}
	if err := b.completeJSON(ctx, scoreSystem, user, &raw); err != nil {
		return core.ScoreOutput{}, err
	}
	return core.ScoreOutput{Criteria: raw.Criteria, Score: raw.Score, Feedback: raw.Feedback}, nil
}

const authorSystem = `You identify the author of web content. Respond with a single JSON object:
{"name": "<full name or organization name>", "id": "<lowercase-hyphenated id like c-doctorow>", "is_organization": true|false, "affiliation": "<company or empty>"}`

// ExtractAuthor identifies the content's author.
func (b *LLMBackend) ExtractAuthor(ctx context.Context, content, url, detectedAuthor, platform string) (core.AuthorOutput, error) {
	user := fmt.Sprintf("URL: %s\nPlatform: %s\nDetected byline: %s\n\nContent:\n%s", url, platform, detectedAuthor, clip(content, 3000))

	var raw struct {
		Name           string `json:"name"`
		ID             string `json:"id"`
		IsOrganization bool   `json:"is_organization"`
		Affiliation    string `json:"affiliation"`
	}
	if err := b.completeJSON(ctx, authorSystem, user, &raw); err != nil {
		return core.AuthorOutput{}, err
	}
	return core.AuthorOutput{
		Name:           raw.Name,
		ID:             raw.ID,
		IsOrganization: raw.IsOrganization,
		Affiliation:    raw.Affiliation,
	}, nil
}

const idSystem = `You generate stable identifiers for knowledge-base resources. Respond with a single JSON object:
{"id": "<short-lowercase-hyphenated-slug capturing the resource topic>"}`

// GenerateID produces a slug identifier for the resource.
func (b *LLMBackend) GenerateID(ctx context.Context, title, authorID, domain string) (string, error) {
	user := fmt.Sprintf("Title: %s\nAuthor: %s\nDomain: %s", title, authorID, domain)

	var raw struct {
		ID string `json:"id"`
	}
	if err := b.completeJSON(ctx, idSystem, user, &raw); err != nil {
		return "", err
	}
	return raw.ID, nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
