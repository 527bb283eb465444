package ports

import (
	"context"
	"time"

	"ArticlePromoter/internal/domain"
)

// ArticleStore persists articles and their pipeline state keyed by URL.
type ArticleStore interface {
	GetAll(ctx context.Context) ([]domain.Article, error)
	Update(ctx context.Context, article domain.Article) error
}

// ArticleSource pulls fresh articles from upstream sites.
type ArticleSource interface {
	FetchAll(ctx context.Context) ([]domain.Article, error)
}

// TextModel runs a text prompt through a generative model.
type TextModel interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// ImageRequest parameterizes a single image-model invocation.
type ImageRequest struct {
	Prompt      string
	AspectRatio string
	FileOutput  bool
}

// ImageModel generates images and returns the produced files.
type ImageModel interface {
	Run(ctx context.Context, req ImageRequest) (domain.ImageOutput, error)
}

// TextExtractor pulls embedded text out of a hosted image. Empty output
// means no text was found; failures are treated as inconclusive by
// callers, never as a block.
type TextExtractor interface {
	Extract(ctx context.Context, fileURL string) (string, error)
}

// Publisher posts text with an attached image and returns the post id.
type Publisher interface {
	PublishWithMedia(ctx context.Context, text, imageURL string) (string, error)
}

// Notifier pushes run summaries to an external channel.
type Notifier interface {
	PublishSummary(ctx context.Context, summary string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
