package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticlePromoter/internal/domain"
	"ArticlePromoter/internal/scanner"
)

const (
	defaultLinkSelector = "article a, h2 a, h3 a"
	defaultMaxArticles  = 50
)

// BlogScanner walks a blog index page, follows article links, and
// extracts the title and body text of each article page.
type BlogScanner struct {
	client      *http.Client
	logger      *slog.Logger
	maxArticles int
}

// NewBlogScanner wires an HTTP client; maxArticles defaults to 50.
func NewBlogScanner(client *http.Client, logger *slog.Logger) *BlogScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &BlogScanner{client: client, logger: logger, maxArticles: defaultMaxArticles}
}

// Name identifies the strategy inside the registry.
func (b *BlogScanner) Name() string {
	return "blog"
}

// Scan fetches the index page, resolves its article links, and extracts
// each linked article. Pages that fail to fetch or parse are skipped.
func (b *BlogScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if req.IndexURL == "" {
		return nil, fmt.Errorf("no index url provided for site %s", req.SiteName)
	}

	doc, err := b.fetchDocument(ctx, req.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	linkSelector := req.Options["linkSelector"]
	if linkSelector == "" {
		linkSelector = defaultLinkSelector
	}

	links := collectLinks(doc, linkSelector, req.IndexURL)

	articles := make([]domain.Article, 0, len(links))
	for _, link := range links {
		if len(articles) >= b.maxArticles {
			break
		}

		page, err := b.fetchDocument(ctx, link)
		if err != nil {
			b.warn("skipping article page", "url", link, "error", err)
			continue
		}

		article, err := extractArticle(page, link)
		if err != nil {
			b.warn("skipping unparseable article", "url", link, "error", err)
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (b *BlogScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ArticlePromoter/1.0")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// collectLinks resolves the selected anchors against the index URL and
// deduplicates them, preserving document order.
func collectLinks(doc *goquery.Document, selector, indexURL string) []string {
	base, err := url.Parse(indexURL)
	if err != nil {
		return nil
	}

	var links []string
	seen := map[string]struct{}{}

	doc.Find(selector).Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		link := resolved.String()
		if link == indexURL {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	return links
}

// extractArticle pulls the title and body text out of an article page.
func extractArticle(doc *goquery.Document, pageURL string) (domain.Article, error) {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return domain.Article{}, fmt.Errorf("no title found")
	}

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("main").First()
	}
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}

	var paragraphs []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	content := strings.Join(paragraphs, "\n\n")
	if content == "" {
		return domain.Article{}, fmt.Errorf("no content found")
	}

	return domain.Article{
		URL:     pageURL,
		Title:   title,
		Content: content,
	}, nil
}

func (b *BlogScanner) warn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}
