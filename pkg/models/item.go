package models

import "time"

// Item is the unit of work flowing through the triage pipeline: one
// bookmarked post fetched from the bookmark source. Immutable once fetched.
type Item struct {
	ID           string
	Text         string
	AuthorName   string
	AuthorHandle string
	AuthorBio    string
	CreatedAt    string
	HasMedia     bool
	IsThread     bool

	// SourceURL is the canonical link back to the post itself.
	SourceURL string
}

// FetchedContent is the structured result of fetching and extracting a URL
// for the ingestion pipeline.
type FetchedContent struct {
	URL           string
	Title         string
	Text          string
	AuthorName    string
	PublishedDate string
	Platform      string
	Language      string
	WordCount     int
	HasCode       bool
	HasVideo      bool
	FetchedAt     time.Time
}
