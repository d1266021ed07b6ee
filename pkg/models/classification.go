package models

// Intent is the coarse routing category assigned to a triaged item.
type Intent string

const (
	IntentLearn  Intent = "learn"
	IntentTry    Intent = "try"
	IntentReview Intent = "review"
	IntentQuote  Intent = "quote"
	IntentSkip   Intent = "skip"
)

// AllIntents returns the intents in routing order.
func AllIntents() []Intent {
	return []Intent{IntentLearn, IntentTry, IntentReview, IntentQuote, IntentSkip}
}

// TriageContentType describes the kind of content a triaged item points at.
type TriageContentType string

const (
	TriageArticle TriageContentType = "article"
	TriageVideo   TriageContentType = "video"
	TriagePodcast TriageContentType = "podcast"
	TriageRepo    TriageContentType = "repo"
	TriageThread  TriageContentType = "thread"
	TriageTool    TriageContentType = "tool"
	TriageInsight TriageContentType = "insight"
	TriageOther   TriageContentType = "other"
)

// Domain is the top level of the two-level resource taxonomy.
type Domain string

const (
	DomainKnowledgeEngineering Domain = "knowledge-engineering"
	DomainAILLMs               Domain = "ai-llms"
	DomainAITools              Domain = "ai-tools"
	DomainAnalyticsEngineering Domain = "analytics-engineering"
	DomainDataVisualization    Domain = "data-visualization"
	DomainDataStorytelling     Domain = "data-storytelling"
	DomainCareerDevelopment    Domain = "career-development"
)

// ResourceContentType describes the medium of an ingested resource.
type ResourceContentType string

const (
	ResourceEssay         ResourceContentType = "essay"
	ResourceBlog          ResourceContentType = "blog"
	ResourceVideo         ResourceContentType = "video"
	ResourcePodcast       ResourceContentType = "podcast"
	ResourceDocumentation ResourceContentType = "documentation"
	ResourcePaper         ResourceContentType = "paper"
)

// Granularity describes how deep a resource goes.
type Granularity string

const (
	GranularityFoundational   Granularity = "foundational"
	GranularityConceptual     Granularity = "conceptual"
	GranularityImplementation Granularity = "implementation"
	GranularityAdvanced       Granularity = "advanced"
)

// TriageResult is the classification output for one bookmarked item.
type TriageResult struct {
	// Original item data.
	ItemID       string
	Text         string
	AuthorName   string
	AuthorHandle string
	ItemURL      string

	// Classification.
	Intent      Intent
	ContentType TriageContentType
	PrimaryURL  string
	Confidence  float64
	Reasoning   string

	// Extracted data, set only for quote intent.
	Quote      string
	QuoteTopic string

	// NeedsReview is true when confidence falls below the review gate.
	NeedsReview bool
}

// ClassifiedResource is the ingestion pipeline's output for one URL: a fully
// classified, defined, and attributed knowledge-base entry.
type ClassifiedResource struct {
	ID              string
	URL             string
	Title           string
	Definition      string
	AlternateLabels []string

	// Provenance.
	AuthorID      string
	AuthorName    string
	IsNewAuthor   bool
	Source        string
	ContentType   ResourceContentType
	PublishedDate string

	// Classification.
	Domain      Domain
	Category    string
	Granularity Granularity
	Color       string

	// Quality.
	Confidence         float64
	Reasoning          string
	DefinitionScored   bool
	DefinitionScore    float64
	DefinitionFeedback string
	NeedsReview        bool

	// Enrichment, present only for newly seen authors with a GitHub trail.
	Enrichment *GitHubProfile

	// Display.
	ReadingTime string
	WordCount   int
}

// GitHubProfile carries best-effort author enrichment data.
type GitHubProfile struct {
	Username   string
	ProfileURL string
	Name       string
	Bio        string
	Location   string
	Company    string
	Blog       string
	Twitter    string
	Followers  int
}
