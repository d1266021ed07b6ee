package integration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://someone.substack.com/p/essay", "Substack"},
		{"https://medium.com/@someone/post", "Medium"},
		{"https://github.com/golang/go", "GitHub"},
		{"https://someone.github.io/post/", "GitHub"},
		{"https://www.youtube.com/watch?v=abc", "YouTube"},
		{"https://youtu.be/abc", "YouTube"},
		{"https://arxiv.org/abs/2301.00001", "arXiv"},
		{"https://docs.getdbt.com/docs/intro", "dbt Docs"},
		{"https://www.getdbt.com/blog/post", "dbt Blog"},
		{"https://pudding.cool/2024/01/story", "The Pudding"},
		{"https://example.com/page", "Example"},
		{"https://blog.acme.io/post", "Acme"},
		{"not a url at all ://", "Website"},
	}
	for _, tt := range tests {
		if got := DetectPlatform(tt.url); got != tt.want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

const articleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Understanding Vector Indexes</title>
<meta name="author" content="Dana Reyes">
<meta property="article:published_time" content="2025-11-03T09:00:00Z">
</head>
<body>
<h1>Understanding Vector Indexes</h1>
<p>Vector indexes trade exact recall for query speed, and picking one means understanding that trade.</p>
<p>Approximate nearest neighbor search underpins most production retrieval systems running today.</p>
<ul><li>HNSW graphs keep search logarithmic at the cost of memory overhead per node.</li></ul>
<pre>def build_index(vectors):
    return hnsw.Index(vectors)</pre>
</body>
</html>`

func TestFetcher_ExtractsArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil)
	content, err := f.Fetch(context.Background(), srv.URL+"/post")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if content.Title != "Understanding Vector Indexes" {
		t.Errorf("unexpected title %q", content.Title)
	}
	if content.AuthorName != "Dana Reyes" {
		t.Errorf("unexpected author %q", content.AuthorName)
	}
	if content.PublishedDate != "2025-11-03" {
		t.Errorf("unexpected date %q", content.PublishedDate)
	}
	if !content.HasCode {
		t.Error("pre block must set HasCode")
	}
	if content.HasVideo {
		t.Error("plain article must not set HasVideo")
	}
	if content.WordCount == 0 {
		t.Error("expected nonzero word count")
	}
	if content.Language != "en" {
		t.Errorf("expected english detection, got %q", content.Language)
	}
}

func TestFetcher_ShortFragmentsDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>ok</p><p>This sentence is long enough to survive the fragment filter.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil)
	content, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if content.Text != "This sentence is long enough to survive the fragment filter." {
		t.Errorf("short fragments must be dropped, got %q", content.Text)
	}
}

func TestFetcher_StatusFailureIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil)
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("404 must wrap ErrUnreachable, got %v", err)
	}
}

func TestFetcher_NetworkFailureIsUnreachable(t *testing.T) {
	f := NewFetcher(time.Second, nil)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/nothing")
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("connection failure must wrap ErrUnreachable, got %v", err)
	}
}
