package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ArticlePromoter/internal/domain"
	"ArticlePromoter/internal/ports"
)

const defaultEndpoint = "https://api.replicate.com"

// Client talks to the synchronous model-prediction API. One Client is
// shared by all model adapters.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewClient creates a reusable HTTP client for the prediction API.
func NewClient(endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		http:     &http.Client{Timeout: 120 * time.Second},
	}
}

// Run executes one blocking prediction and returns the raw model output.
func (c *Client) Run(ctx context.Context, model string, input map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{"input": input})
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/models/%s/predictions", c.endpoint, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", model, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("model %s error %s: %s", model, resp.Status, strings.TrimSpace(string(payload)))
	}

	var out struct {
		Output json.RawMessage `json:"output"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("model %s failed: %s", model, out.Error)
	}
	return out.Output, nil
}

// TextModel adapts a text-generation model to ports.TextModel.
type TextModel struct {
	client *Client
	model  string
}

var _ ports.TextModel = (*TextModel)(nil)

// NewTextModel binds the shared client to a concrete model id.
func NewTextModel(client *Client, model string) *TextModel {
	return &TextModel{client: client, model: model}
}

// Run returns the model output as one string; chunked outputs are joined.
func (m *TextModel) Run(ctx context.Context, prompt string) (string, error) {
	raw, err := m.client.Run(ctx, m.model, map[string]any{"prompt": prompt})
	if err != nil {
		return "", err
	}
	return decodeText(raw)
}

func decodeText(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var chunks []string
	if err := json.Unmarshal(raw, &chunks); err != nil {
		return "", fmt.Errorf("unexpected text output shape: %s", string(raw))
	}
	return strings.Join(chunks, ""), nil
}

// ImageModel adapts an image-generation model to ports.ImageModel.
type ImageModel struct {
	client *Client
	model  string
}

var _ ports.ImageModel = (*ImageModel)(nil)

// NewImageModel binds the shared client to a concrete model id.
func NewImageModel(client *Client, model string) *ImageModel {
	return &ImageModel{client: client, model: model}
}

// Run generates images and decodes the heterogeneous output shapes into
// the tagged union. The HTTP API always hands back hosted file URLs, so
// req.FileOutput needs no translation here.
func (m *ImageModel) Run(ctx context.Context, req ports.ImageRequest) (domain.ImageOutput, error) {
	input := map[string]any{"prompt": req.Prompt}
	if req.AspectRatio != "" {
		input["aspect_ratio"] = req.AspectRatio
	}

	raw, err := m.client.Run(ctx, m.model, input)
	if err != nil {
		return domain.ImageOutput{}, err
	}

	var out domain.ImageOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.ImageOutput{}, fmt.Errorf("decode image output: %w", err)
	}
	return out, nil
}

// Extractor adapts the document-OCR model to ports.TextExtractor.
type Extractor struct {
	client *Client
	model  string
}

var _ ports.TextExtractor = (*Extractor)(nil)

// NewExtractor binds the shared client to a concrete model id.
func NewExtractor(client *Client, model string) *Extractor {
	return &Extractor{client: client, model: model}
}

// Extract returns the markdown the model read out of the file, or an
// empty string when it found none or answered in an unknown shape.
func (e *Extractor) Extract(ctx context.Context, fileURL string) (string, error) {
	raw, err := e.client.Run(ctx, e.model, map[string]any{"file": fileURL})
	if err != nil {
		return "", err
	}

	var doc struct {
		Markdown string `json:"markdown"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Markdown != "" {
		return strings.TrimSpace(doc.Markdown), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text), nil
	}
	return "", nil
}
