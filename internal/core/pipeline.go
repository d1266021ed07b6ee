package core

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/datacentered/curator/pkg/models"
)

// ClassifyOutput is the raw domain/category stage output.
type ClassifyOutput struct {
	Domain      string
	Category    string
	ContentType string
	Granularity string
	Confidence  string
	Reasoning   string
}

// DefineOutput is the raw definition-generation stage output.
type DefineOutput struct {
	Definition      string
	AlternateLabels []string
}

// ScoreOutput is the raw definition-quality stage output: up to five boolean
// criteria plus a service-provided numeric score.
type ScoreOutput struct {
	Criteria map[string]bool
	Score    string
	Feedback string
}

// AuthorOutput is the raw attribution-extraction stage output.
type AuthorOutput struct {
	Name           string
	ID             string
	IsOrganization bool
	Affiliation    string
}

// PipelineBackend is the pluggable capability behind the ingestion
// orchestrator, one method per classification stage.
type PipelineBackend interface {
	Classify(ctx context.Context, title, content, url string) (ClassifyOutput, error)
	Define(ctx context.Context, title, content, domain, category string) (DefineOutput, error)
	ScoreDefinition(ctx context.Context, definition, title, content string) (ScoreOutput, error)
	ExtractAuthor(ctx context.Context, content, url, detectedAuthor, platform string) (AuthorOutput, error)
	GenerateID(ctx context.Context, title, authorID, domain string) (string, error)
}

// Enricher is the best-effort author enrichment capability. It returns a
// result rather than an error: any internal failure is an empty profile and
// ok=false, never an abort.
type Enricher interface {
	Enrich(ctx context.Context, authorName, sourceURL string) (models.GitHubProfile, bool)
}

// maxAlternateLabels bounds the definition stage's label list.
const maxAlternateLabels = 5

// Pipeline orchestrates the ingestion variant: classification, definition,
// optional quality scoring, attribution, optional enrichment, and identifier
// generation.
type Pipeline struct {
	backend      PipelineBackend
	enricher     Enricher
	audit        StageLogger
	diag         *slog.Logger
	knownAuthors map[string]bool
	threshold    float64
}

// NewPipeline creates an ingestion orchestrator. enricher may be nil to
// disable enrichment, audit may be nil to disable stage auditing, and diag
// may be nil to silence diagnostics. knownAuthors holds already-registered
// author IDs; authors outside it are flagged new and eligible for enrichment.
func NewPipeline(backend PipelineBackend, enricher Enricher, audit StageLogger, diag *slog.Logger, knownAuthors map[string]bool, threshold float64) *Pipeline {
	if audit == nil {
		audit = nopStageLogger{}
	}
	if diag == nil {
		diag = slog.New(slog.DiscardHandler)
	}
	if knownAuthors == nil {
		knownAuthors = map[string]bool{}
	}
	return &Pipeline{
		backend:      backend,
		enricher:     enricher,
		audit:        audit,
		diag:         diag,
		knownAuthors: knownAuthors,
		threshold:    threshold,
	}
}

// Process runs all stages for one fetched document. Required-stage failures
// (classify, define, author, id) are fatal for the item; optional stages
// (quality scoring, enrichment) fail silently into empty results.
func (p *Pipeline) Process(ctx context.Context, fetched *models.FetchedContent) (*models.ClassifiedResource, error) {
	p.audit.StartRun(NormalizeKey(fetched.URL))
	p.audit.LogStage("extraction",
		map[string]any{"url": fetched.URL},
		map[string]any{
			"title":      fetched.Title,
			"word_count": fetched.WordCount,
			"platform":   fetched.Platform,
			"language":   fetched.Language,
			"has_code":   fetched.HasCode,
			"has_video":  fetched.HasVideo,
		},
		"")

	title := fetched.Title
	if title == "" {
		title = "Untitled"
	}

	// Stage 1: domain/category classification.
	rawClass, err := p.backend.Classify(ctx, title, fetched.Text, fetched.URL)
	if err != nil {
		return nil, p.fail(fmt.Errorf("classifying %s: %w", fetched.URL, err))
	}
	domain := ValidDomain(rawClass.Domain)
	category := ValidCategory(domain, rawClass.Category)
	contentType := ValidResourceContentType(rawClass.ContentType)
	granularity := ValidGranularity(rawClass.Granularity)
	confidence := ClampConfidence(rawClass.Confidence)

	p.audit.LogStage("classification",
		map[string]any{"title": title},
		map[string]any{
			"domain":       string(domain),
			"category":     category,
			"content_type": string(contentType),
			"granularity":  string(granularity),
			"confidence":   confidence,
		},
		rawClass.Reasoning)

	// Stage 2: definition generation.
	rawDef, err := p.backend.Define(ctx, title, fetched.Text, string(domain), category)
	if err != nil {
		return nil, p.fail(fmt.Errorf("generating definition for %s: %w", fetched.URL, err))
	}
	labels := rawDef.AlternateLabels
	if len(labels) > maxAlternateLabels {
		labels = labels[:maxAlternateLabels]
	}

	// Stage 3: optional definition quality scoring. Backend failure skips
	// the stage; the review gate then considers classification confidence
	// only.
	defScored := false
	defScore := 0.0
	defFeedback := ""
	rawScore, err := p.backend.ScoreDefinition(ctx, rawDef.Definition, title, fetched.Text)
	if err != nil {
		p.diag.Warn("definition scoring unavailable, skipping", "url", fetched.URL, "error", err)
		p.audit.LogStage("definition",
			map[string]any{},
			map[string]any{"definition": rawDef.Definition, "alternate_labels": labels, "score_skipped": true},
			"")
	} else {
		defScored = true
		defScore = EffectiveDefinitionScore(rawScore)
		defFeedback = rawScore.Feedback
		p.audit.LogStage("definition",
			map[string]any{},
			map[string]any{
				"definition":       rawDef.Definition,
				"alternate_labels": labels,
				"score":            defScore,
				"criteria":         rawScore.Criteria,
				"feedback":         rawScore.Feedback,
			},
			"")
	}

	// Stage 4: attribution extraction.
	rawAuthor, err := p.backend.ExtractAuthor(ctx, fetched.Text, fetched.URL, fetched.AuthorName, fetched.Platform)
	if err != nil {
		return nil, p.fail(fmt.Errorf("extracting author for %s: %w", fetched.URL, err))
	}
	authorID := NormalizeAuthorID(rawAuthor.ID)
	isNewAuthor := !p.knownAuthors[authorID]

	p.audit.LogStage("author",
		map[string]any{"detected_author": fetched.AuthorName, "platform": fetched.Platform},
		map[string]any{
			"author_id":       authorID,
			"author_name":     rawAuthor.Name,
			"is_organization": rawAuthor.IsOrganization,
			"is_new_author":   isNewAuthor,
		},
		"")

	// Stage 5: best-effort enrichment, newly seen authors only.
	var enrichment *models.GitHubProfile
	if isNewAuthor && p.enricher != nil {
		if profile, ok := p.enricher.Enrich(ctx, rawAuthor.Name, fetched.URL); ok {
			enrichment = &profile
			p.audit.LogStage("enrichment",
				map[string]any{"author_name": rawAuthor.Name},
				map[string]any{"github": profile.ProfileURL, "followers": profile.Followers},
				"")
		}
	}

	// Stage 6: identifier generation.
	rawID, err := p.backend.GenerateID(ctx, title, authorID, string(domain))
	if err != nil {
		return nil, p.fail(fmt.Errorf("generating resource id for %s: %w", fetched.URL, err))
	}
	resourceID := SanitizeResourceID(rawID)

	// The fetch-level video signal outranks the classified medium.
	if fetched.HasVideo {
		contentType = models.ResourceVideo
	}

	needsReview := confidence < p.threshold || (defScored && defScore < p.threshold)

	result := &models.ClassifiedResource{
		ID:                 resourceID,
		URL:                fetched.URL,
		Title:              title,
		Definition:         rawDef.Definition,
		AlternateLabels:    labels,
		AuthorID:           authorID,
		AuthorName:         rawAuthor.Name,
		IsNewAuthor:        isNewAuthor,
		Source:             fetched.Platform,
		ContentType:        contentType,
		PublishedDate:      fetched.PublishedDate,
		Domain:             domain,
		Category:           category,
		Granularity:        granularity,
		Color:              Domains[domain].Color,
		Confidence:         confidence,
		Reasoning:          rawClass.Reasoning,
		DefinitionScored:   defScored,
		DefinitionScore:    defScore,
		DefinitionFeedback: defFeedback,
		NeedsReview:        needsReview,
		Enrichment:         enrichment,
		ReadingTime:        EstimateReadingTime(fetched.WordCount, fetched.HasVideo),
		WordCount:          fetched.WordCount,
	}

	if _, err := p.audit.FinishRun(true, resourceID, ""); err != nil {
		p.diag.Warn("audit record write failed", "url", fetched.URL, "error", err)
	}
	return result, nil
}

func (p *Pipeline) fail(err error) error {
	if _, auditErr := p.audit.FinishRun(false, "", err.Error()); auditErr != nil {
		p.diag.Warn("audit record write failed", "error", auditErr)
	}
	return err
}

// EffectiveDefinitionScore combines the quality stage's outputs: the
// arithmetic mean of the fraction of true criteria and the clamped numeric
// score. An unparsable numeric score falls back to the criteria fraction.
func EffectiveDefinitionScore(out ScoreOutput) float64 {
	criteriaScore := 0.0
	if len(out.Criteria) > 0 {
		trueCount := 0
		for _, ok := range out.Criteria {
			if ok {
				trueCount++
			}
		}
		criteriaScore = float64(trueCount) / float64(len(out.Criteria))
	}

	// Unlike confidence clamping, an unparsable numeric score falls back to
	// the criteria fraction rather than 0.5.
	numeric := criteriaScore
	if parsed, err := strconv.ParseFloat(strings.TrimSpace(out.Score), 64); err == nil {
		numeric = Clamp(parsed)
	}

	return (criteriaScore + numeric) / 2
}

// wordsPerMinute is the reading-speed assumption behind time estimates.
const wordsPerMinute = 225

// EstimateReadingTime converts a word count into a display string like "8m"
// or "1h 15m". Video content gets a fixed label because word counts there
// reflect transcripts or page chrome, not watch time.
func EstimateReadingTime(wordCount int, hasVideo bool) string {
	if hasVideo {
		return "video"
	}
	minutes := int(math.Round(float64(wordCount) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if rem := minutes % 60; rem > 0 {
		return fmt.Sprintf("%dh %dm", minutes/60, rem)
	}
	return fmt.Sprintf("%dh", minutes/60)
}
