package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ArticlePromoter/internal/domain"
	"ArticlePromoter/internal/ports"
)

// PipelineDeps wires all collaborators into the orchestrator.
type PipelineDeps struct {
	Store     ports.ArticleStore
	Generator *Generator
	Publisher ports.Publisher
	Notifier  ports.Notifier
	Logger    *slog.Logger
}

// Pipeline advances every article through the post → image → publish
// stages. Stage completion is read purely off field presence, so a
// completed stage is never executed again.
type Pipeline struct {
	store     ports.ArticleStore
	generator *Generator
	publisher ports.Publisher
	notifier  ports.Notifier
	logger    *slog.Logger
}

// Stats summarizes one pipeline run.
type Stats struct {
	Posts  int
	Images int
	Tweets int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		store:     deps.Store,
		generator: deps.Generator,
		publisher: deps.Publisher,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
	}
}

// Run performs one pass over all articles. Each article advances as far
// as its pending stages allow; a per-article failure is logged and does
// not stop the run. All mutated records are flushed in one batch after
// the loop — a crash after a successful publish but before the flush
// loses the tweet id and re-publishes on the next run.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	if p.store == nil || p.generator == nil {
		return stats, nil
	}

	articles, err := p.store.GetAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("load articles: %w", err)
	}
	p.info("loaded articles", "count", len(articles))

	var changed []int
	seen := map[string]bool{}

	for i := range articles {
		markChanged := func() {
			url := articles[i].URL
			if url == "" || seen[url] {
				return
			}
			seen[url] = true
			changed = append(changed, i)
		}

		if err := p.advanceArticle(ctx, &articles[i], &stats, markChanged); err != nil {
			p.error("article processing failed", "url", articles[i].URL, "error", err)
		}
	}

	if len(changed) == 0 {
		p.info("no article changes to save")
	} else {
		p.info("saving modified articles", "count", len(changed))
		for _, i := range changed {
			if err := p.store.Update(ctx, articles[i]); err != nil {
				return stats, fmt.Errorf("persist article %s: %w", articles[i].URL, err)
			}
		}
	}

	p.info("run complete", "posts", stats.Posts, "images", stats.Images, "tweets", stats.Tweets)
	p.notifySummary(ctx, stats)
	return stats, nil
}

// advanceArticle evaluates the stage gates top to bottom; completing a
// stage lets the next one fire within the same pass. An empty stage
// result leaves the article where it is and skips the later stages.
func (p *Pipeline) advanceArticle(ctx context.Context, article *domain.Article, stats *Stats, markChanged func()) error {
	if article.NeedsPost() {
		post, err := p.generator.PostText(ctx, article.Title, article.Content)
		if err != nil {
			return err
		}
		if post == "" {
			p.info("empty post text generated, leaving article pending", "url", article.URL)
			return nil
		}
		article.Post = post
		stats.Posts++
		markChanged()
		p.info("generated post", "title", article.Title)
	}

	if article.NeedsImage() {
		urls, err := p.generator.ImageURLs(ctx, article.Post)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			p.info("no usable image, postponing publish", "title", article.Title)
			return nil
		}
		article.ImageURLs = urls
		stats.Images++
		markChanged()
		p.info("generated image", "title", article.Title, "url", urls[0])
	}

	if article.NeedsPublish() && p.publisher != nil {
		text := composeTweetText(article.Post, article.URL)
		tweetID, err := p.publisher.PublishWithMedia(ctx, text, article.ImageURLs[0])
		if err != nil {
			return err
		}
		article.TweetID = tweetID
		stats.Tweets++
		markChanged()
		p.info("published article", "title", article.Title, "tweet_id", tweetID)
	}

	return nil
}

// composeTweetText appends the article URL to the post, trimming the
// generated text (never the URL) so the combined length stays within the
// 280-rune budget. When no room is left for any text, the URL stands
// alone.
func composeTweetText(post, articleURL string) string {
	articleURL = strings.TrimSpace(articleURL)
	if articleURL == "" {
		return post
	}

	const sep = " "
	runes := []rune(post)
	if len(runes)+len(sep)+len([]rune(articleURL)) > maxPostRunes {
		allowed := maxPostRunes - len(sep) - len([]rune(articleURL))
		switch {
		case allowed > 3:
			post = string(runes[:allowed-3]) + "..."
		case allowed > 0:
			post = string(runes[:allowed])
		default:
			post = ""
		}
	}

	if post == "" {
		return articleURL
	}
	return post + sep + articleURL
}

func (p *Pipeline) notifySummary(ctx context.Context, stats Stats) {
	if p.notifier == nil {
		return
	}
	summary := fmt.Sprintf("Promoter run: %d new posts, %d new images, %d tweets",
		stats.Posts, stats.Images, stats.Tweets)
	if err := p.notifier.PublishSummary(ctx, summary); err != nil {
		p.error("publish run summary", "error", err)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) error(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
