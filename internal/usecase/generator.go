package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ArticlePromoter/internal/domain"
	"ArticlePromoter/internal/ports"
)

const (
	maxPostRunes     = 280
	imageAttempts    = 3
	imageAspectRatio = "4:3"
)

const postPromptTemplate = `You are a marketing copywriter for SourceBox AI.

Write a single X (Twitter) post promoting the blog article below.

Constraints:
- One tweet only (no thread)
- Maximum 280 characters
- Strong hook, concise value
- Up to 2 emojis
- No hashtags, no @mentions
- Do NOT include any URLs or links of any kind.

Title: %s

Article content:
%s

Now write just the tweet text, nothing else.
`

const scenePromptTemplate = `You are an assistant that converts marketing tweets into
concise, visual-only image descriptions for a text-to-image model.

Given the tweet below, write 1-2 short sentences that describe a single,
coherent scene that captures its core idea.

Constraints:
- Do NOT mention or imply any written text, titles, captions, UI, or
  watermarks in the image.
- Focus on the visual metaphor, environment, subjects, lighting, and mood.
- No hashtags, no URLs, no @mentions.

Tweet:
%s

Now respond with only the image description, nothing else.
`

// GeneratorDeps wires the model adapters into the content generator.
type GeneratorDeps struct {
	TextModel  ports.TextModel
	ImageModel ports.ImageModel
	Extractor  ports.TextExtractor
	Logger     *slog.Logger
}

// Generator produces promotional text and companion images for articles.
type Generator struct {
	textModel  ports.TextModel
	imageModel ports.ImageModel
	extractor  ports.TextExtractor
	logger     *slog.Logger
}

// NewGenerator constructs the content-generation component.
func NewGenerator(deps GeneratorDeps) *Generator {
	return &Generator{
		textModel:  deps.TextModel,
		imageModel: deps.ImageModel,
		extractor:  deps.Extractor,
		logger:     deps.Logger,
	}
}

// PostText generates the promotional text for an article and clamps it
// to the platform budget.
func (g *Generator) PostText(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf(postPromptTemplate, strings.TrimSpace(title), strings.TrimSpace(content))

	text, err := g.textModel.Run(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate post text: %w", err)
	}
	return clampPost(text), nil
}

// clampPost collapses whitespace runs to single spaces and enforces the
// 280-rune cap, truncating to 277 runes plus an ellipsis marker.
func clampPost(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxPostRunes {
		text = string(runes[:maxPostRunes-3]) + "..."
	}
	return text
}

// ImageURLs generates a text-free companion image for the post and
// returns its hosted URLs. An empty result means no acceptable image
// was produced after all attempts; callers must treat that as "no image
// available", not as a failure.
func (g *Generator) ImageURLs(ctx context.Context, post string) ([]string, error) {
	description := g.sceneDescription(ctx, post)

	prompt := fmt.Sprintf("No text, no words just a visual representation of:\n%s\n", description)

	for attempt := 1; attempt <= imageAttempts; attempt++ {
		output, err := g.imageModel.Run(ctx, ports.ImageRequest{
			Prompt:      prompt,
			AspectRatio: imageAspectRatio,
			FileOutput:  true,
		})
		if err != nil {
			return nil, fmt.Errorf("generate image: %w", err)
		}

		urls := collectURLs(output)
		if len(urls) == 0 {
			g.warn("no image URLs returned from image model", "attempt", attempt)
			continue
		}

		if !g.imageHasText(ctx, urls[0]) {
			return urls, nil
		}
		g.warn("image appears to contain text, regenerating", "attempt", attempt)
	}

	g.warn("could not obtain a text-free image", "attempts", imageAttempts)
	return nil, nil
}

// sceneDescription derives a visual-only prompt from the post text,
// falling back to the post itself when the secondary call fails or
// returns nothing.
func (g *Generator) sceneDescription(ctx context.Context, post string) string {
	post = strings.TrimSpace(post)
	if post == "" {
		return ""
	}

	description, err := g.textModel.Run(ctx, fmt.Sprintf(scenePromptTemplate, post))
	if err != nil {
		g.warn("scene description failed, using post text", "error", err)
		return post
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return post
	}
	return description
}

// collectURLs flattens the model output into http(s) URLs, discarding
// everything else.
func collectURLs(output domain.ImageOutput) []string {
	var urls []string
	for _, result := range output.Results() {
		u := strings.TrimSpace(result.URL)
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			urls = append(urls, u)
		}
	}
	return urls
}

// imageHasText runs the extraction gate against the first image. A
// failed or empty extraction accepts the image (fail-open); only
// actually-detected text triggers a regeneration.
func (g *Generator) imageHasText(ctx context.Context, fileURL string) bool {
	if g.extractor == nil {
		return false
	}

	markdown, err := g.extractor.Extract(ctx, fileURL)
	if err != nil {
		g.warn("text extraction failed, accepting image", "error", err)
		return false
	}
	if markdown == "" {
		return false
	}

	snippet := strings.ReplaceAll(markdown, "\n", " ")
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	g.warn("extracted text from image", "snippet", snippet)
	return true
}

func (g *Generator) warn(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}
