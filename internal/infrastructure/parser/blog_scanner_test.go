package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ArticlePromoter/internal/scanner"
)

const indexPage = `
<html><body>
<article><h2><a href="/posts/first">First</a></h2></article>
<article><h2><a href="/posts/second">Second</a></h2></article>
<article><h2><a href="/posts/first">First again</a></h2></article>
<article><h2><a href="mailto:hi@example.com">Mail</a></h2></article>
</body></html>`

func articlePage(title, body string) string {
	return fmt.Sprintf(`<html><head><title>site</title></head>
<body><article><h1>%s</h1><p>%s</p><p>Second paragraph.</p></article></body></html>`, title, body)
}

func newBlogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(indexPage))
	})
	mux.HandleFunc("/posts/first", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage("First Post", "Hello from the first post.")))
	})
	mux.HandleFunc("/posts/second", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage("Second Post", "Hello from the second post.")))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestBlogScannerScan(t *testing.T) {
	t.Parallel()

	server := newBlogServer(t)
	s := NewBlogScanner(server.Client(), nil)

	articles, err := s.Scan(context.Background(), scanner.Request{
		SiteName: "example",
		IndexURL: server.URL + "/blog",
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	first := articles[0]
	if first.URL != server.URL+"/posts/first" {
		t.Fatalf("unexpected url: %q", first.URL)
	}
	if first.Title != "First Post" {
		t.Fatalf("unexpected title: %q", first.Title)
	}
	if first.Content != "Hello from the first post.\n\nSecond paragraph." {
		t.Fatalf("unexpected content: %q", first.Content)
	}
	if articles[1].Title != "Second Post" {
		t.Fatalf("unexpected second title: %q", articles[1].Title)
	}
}

func TestBlogScannerSkipsBrokenPages(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(indexPage))
	})
	mux.HandleFunc("/posts/first", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/posts/second", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage("Survivor", "Still here.")))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	s := NewBlogScanner(server.Client(), nil)

	articles, err := s.Scan(context.Background(), scanner.Request{
		SiteName: "example",
		IndexURL: server.URL + "/blog",
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "Survivor" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
}

func TestBlogScannerCustomLinkSelector(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
<div class="card"><a href="/posts/first">First</a></div>
<article><h2><a href="/posts/second">Ignored</a></h2></article>
</body></html>`))
	})
	mux.HandleFunc("/posts/first", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage("Picked", "Selected by the card selector.")))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	s := NewBlogScanner(server.Client(), nil)

	articles, err := s.Scan(context.Background(), scanner.Request{
		SiteName: "example",
		IndexURL: server.URL + "/blog",
		Options:  map[string]string{"linkSelector": ".card a"},
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "Picked" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
}

func TestBlogScannerRequiresIndexURL(t *testing.T) {
	t.Parallel()

	s := NewBlogScanner(nil, nil)
	if _, err := s.Scan(context.Background(), scanner.Request{SiteName: "example"}); err == nil {
		t.Fatalf("expected error without index url")
	}
}
