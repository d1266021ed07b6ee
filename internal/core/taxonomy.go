// Package core contains the business logic for curator: the triage and
// ingestion orchestrators, the routing layer, taxonomy validation, and
// identity-key normalization.
package core

import (
	"strconv"
	"strings"

	"github.com/datacentered/curator/pkg/models"
)

// DomainInfo describes one domain of the knowledge-base taxonomy.
type DomainInfo struct {
	Name        string
	Description string
	Color       string
	// Categories is ordered; the first entry is the fallback when a stage
	// returns a category outside the list.
	Categories []string
}

// FallbackDomain is the domain used when a stage returns an unknown domain.
const FallbackDomain = models.DomainKnowledgeEngineering

// Domains is the closed domain/category taxonomy.
var Domains = map[models.Domain]DomainInfo{
	models.DomainKnowledgeEngineering: {
		Name:        "Knowledge Engineering",
		Description: "AI projects fail because corporate data lacks business context. Traditional pipelines decouple data from meaning, creating an AI Context Gap.",
		Color:       "#06b6d4",
		Categories: []string{
			"Core Architecture",
			"Semantic Layer",
			"Knowledge Graphs",
			"Semantic Foundations",
			"Agentic Analytics",
			"Process Knowledge",
			"Context Engineering",
			"Knowledge Quality",
		},
	},
	models.DomainAILLMs: {
		Name:        "AI & LLMs",
		Description: "Foundational knowledge about how AI systems work: memory architectures, LLM behavior, evaluation methods, and prompt engineering principles.",
		Color:       "#a855f7",
		Categories: []string{
			"LLM Foundations",
			"Agent Memory",
			"AI Evaluation",
			"Prompt Engineering",
		},
	},
	models.DomainAITools: {
		Name:        "AI Tools & Infrastructure",
		Description: "Practical tools, frameworks, and infrastructure for building AI applications and agent systems.",
		Color:       "#10b981",
		Categories: []string{
			"Agent Infrastructure",
			"Development Tools",
		},
	},
	models.DomainAnalyticsEngineering: {
		Name:        "Analytics Engineering",
		Description: "Best practices for data transformation, semantic modeling, and dbt development.",
		Color:       "#f97316",
		Categories: []string{
			"dbt Practices",
			"Data Modeling",
			"Transformation Tools",
		},
	},
	models.DomainDataVisualization: {
		Name:        "Data Visualization",
		Description: "Design patterns, exemplars, and best practices for effective data visualization and dashboard design.",
		Color:       "#8b5cf6",
		Categories: []string{
			"Chart Design",
			"Dashboard Exemplars",
			"UI/UX Principles",
		},
	},
	models.DomainDataStorytelling: {
		Name:        "Data Storytelling",
		Description: "Techniques for narrative data journalism, scrollytelling, and compelling data-driven stories.",
		Color:       "#ec4899",
		Categories: []string{
			"Process Guides",
			"Scrollytelling",
			"Data Journalism",
		},
	},
	models.DomainCareerDevelopment: {
		Name:        "Career Development",
		Description: "Resources for data career growth, portfolio building, and professional development.",
		Color:       "#6366f1",
		Categories: []string{
			"Portfolio Building",
			"Career Strategy",
		},
	},
}

var validIntents = map[models.Intent]bool{
	models.IntentLearn:  true,
	models.IntentTry:    true,
	models.IntentReview: true,
	models.IntentQuote:  true,
	models.IntentSkip:   true,
}

var validTriageContentTypes = map[models.TriageContentType]bool{
	models.TriageArticle: true,
	models.TriageVideo:   true,
	models.TriagePodcast: true,
	models.TriageRepo:    true,
	models.TriageThread:  true,
	models.TriageTool:    true,
	models.TriageInsight: true,
	models.TriageOther:   true,
}

var validResourceContentTypes = map[models.ResourceContentType]bool{
	models.ResourceEssay:         true,
	models.ResourceBlog:          true,
	models.ResourceVideo:         true,
	models.ResourcePodcast:       true,
	models.ResourceDocumentation: true,
	models.ResourcePaper:         true,
}

var validGranularities = map[models.Granularity]bool{
	models.GranularityFoundational:   true,
	models.GranularityConceptual:     true,
	models.GranularityImplementation: true,
	models.GranularityAdvanced:       true,
}

// ValidIntent maps a raw stage output to a known intent, defaulting to review.
// Schema violations from predictive backends are expected; validation is
// total and never errors.
func ValidIntent(raw string) models.Intent {
	intent := models.Intent(strings.ToLower(strings.TrimSpace(raw)))
	if validIntents[intent] {
		return intent
	}
	return models.IntentReview
}

// ValidTriageContentType maps a raw stage output to a known triage content
// type, defaulting to other.
func ValidTriageContentType(raw string) models.TriageContentType {
	ct := models.TriageContentType(strings.ToLower(strings.TrimSpace(raw)))
	if validTriageContentTypes[ct] {
		return ct
	}
	return models.TriageOther
}

// ValidDomain maps a raw stage output to a known domain, defaulting to the
// fallback domain.
func ValidDomain(raw string) models.Domain {
	d := models.Domain(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := Domains[d]; ok {
		return d
	}
	return FallbackDomain
}

// ValidCategory returns the raw category when it belongs to the domain's
// category list, else the domain's first category. The returned category is
// always a member of the domain's list.
func ValidCategory(domain models.Domain, raw string) string {
	info, ok := Domains[domain]
	if !ok {
		info = Domains[FallbackDomain]
	}
	raw = strings.TrimSpace(raw)
	for _, c := range info.Categories {
		if strings.EqualFold(c, raw) {
			return c
		}
	}
	return info.Categories[0]
}

// ValidResourceContentType maps a raw stage output to a known resource
// content type, defaulting to essay.
func ValidResourceContentType(raw string) models.ResourceContentType {
	ct := models.ResourceContentType(strings.ToLower(strings.TrimSpace(raw)))
	if validResourceContentTypes[ct] {
		return ct
	}
	return models.ResourceEssay
}

// ValidGranularity maps a raw stage output to a known granularity, defaulting
// to conceptual.
func ValidGranularity(raw string) models.Granularity {
	g := models.Granularity(strings.ToLower(strings.TrimSpace(raw)))
	if validGranularities[g] {
		return g
	}
	return models.GranularityConceptual
}

// Clamp bounds a confidence value to [0, 1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampConfidence parses a raw confidence string and clamps it to [0, 1].
// Unparsable input yields exactly 0.5.
func ClampConfidence(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0.5
	}
	return Clamp(v)
}

// SanitizeResourceID normalizes a generated resource identifier: lower-case,
// non-alphanumeric runs collapsed to single hyphens, truncated to 50 chars.
func SanitizeResourceID(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	parts := strings.Split(b.String(), "-")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	id := strings.Join(kept, "-")
	if len(id) > 50 {
		id = strings.TrimRight(id[:50], "-")
	}
	return id
}

// NormalizeAuthorID canonicalizes an author identifier: lower-cased with
// spaces replaced by hyphens.
func NormalizeAuthorID(raw string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "-")
}
