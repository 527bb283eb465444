package twitter

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ArticlePromoter/internal/ports"
	"ArticlePromoter/internal/retry"
)

const (
	defaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	defaultTweetURL  = "https://api.twitter.com/2/tweets"

	uploadAttempts = 3
	uploadBackoff  = 2 * time.Second
)

// Client publishes media-backed posts against the X write API.
type Client struct {
	signer      *Signer
	httpClient  *http.Client
	uploadURL   string
	tweetURL    string
	uploadRetry retry.Policy
	logger      *slog.Logger
}

var _ ports.Publisher = (*Client)(nil)

// NewClient wires a publisher with the standard endpoints and the
// media-upload retry policy: 3 attempts, 2 s apart, secure-transport
// failures only.
func NewClient(creds Credentials, logger *slog.Logger) *Client {
	return &Client{
		signer:     NewSigner(creds),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		uploadURL:  defaultUploadURL,
		tweetURL:   defaultTweetURL,
		uploadRetry: retry.Policy{
			MaxAttempts: uploadAttempts,
			Backoff:     uploadBackoff,
			Retryable:   IsSecureTransportError,
		},
		logger: logger,
	}
}

// UploadMedia pushes raw media bytes and returns the platform media
// handle. Only TLS-level transport failures are retried; an HTTP-level
// rejection propagates immediately.
func (c *Client) UploadMedia(ctx context.Context, media []byte) (string, error) {
	params := map[string]string{
		"media_data": base64.StdEncoding.EncodeToString(media),
	}

	var mediaID string
	err := retry.Do(ctx, c.uploadRetry, func() error {
		id, uploadErr := c.uploadOnce(ctx, params)
		if uploadErr != nil {
			c.warn("media upload attempt failed", "error", uploadErr)
			return uploadErr
		}
		mediaID = id
		return nil
	})
	if err != nil {
		return "", err
	}
	return mediaID, nil
}

func (c *Client) uploadOnce(ctx context.Context, params map[string]string) (string, error) {
	// Each attempt is signed separately so the nonce is never reused.
	header, err := c.signer.AuthorizationHeader(http.MethodPost, c.uploadURL, params)
	if err != nil {
		return "", fmt.Errorf("sign upload request: %w", err)
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("new upload request: %w", err)
	}
	req.Header.Set("Authorization", header)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("media upload rejected %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.MediaIDString == "" {
		return "", fmt.Errorf("upload response missing media_id_string")
	}
	return out.MediaIDString, nil
}

// CreateTweet posts text, optionally referencing uploaded media, and
// returns the platform-assigned tweet id. JSON body parameters do not
// take part in the signature.
func (c *Client) CreateTweet(ctx context.Context, text string, mediaIDs []string) (string, error) {
	payload := map[string]any{"text": text}
	if len(mediaIDs) > 0 {
		payload["media"] = map[string]any{"media_ids": mediaIDs}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal tweet payload: %w", err)
	}

	header, err := c.signer.AuthorizationHeader(http.MethodPost, c.tweetURL, nil)
	if err != nil {
		return "", fmt.Errorf("sign tweet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tweetURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new tweet request: %w", err)
	}
	req.Header.Set("Authorization", header)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create tweet: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read tweet response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("tweet rejected %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode tweet response: %w", err)
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("tweet response missing id")
	}
	return out.Data.ID, nil
}

// PublishWithMedia downloads the image, uploads it as media, and posts
// the tweet referencing it.
func (c *Client) PublishWithMedia(ctx context.Context, text, imageURL string) (string, error) {
	imageBytes, err := c.fetchImage(ctx, imageURL)
	if err != nil {
		return "", err
	}

	mediaID, err := c.UploadMedia(ctx, imageBytes)
	if err != nil {
		return "", err
	}

	return c.CreateTweet(ctx, text, []string{mediaID})
}

func (c *Client) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %s", resp.Status)
	}

	imageBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	return imageBytes, nil
}

// IsSecureTransportError reports whether err is a TLS-level transport
// failure worth retrying. HTTP status failures never match: by the time
// a status arrives the connection already succeeded.
func IsSecureTransportError(err error) bool {
	if err == nil {
		return false
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return false
	}

	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}

	return strings.Contains(urlErr.Err.Error(), "tls:")
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
