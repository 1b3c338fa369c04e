package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"wacloud-ingest/internal/channel"
	"wacloud-ingest/pkg/httputil"
)

// ErrAuthorization is returned when the provider rejects the channel's
// credentials on a media lookup. Callers escalate it channel-level instead of
// treating the attachment as missing.
var ErrAuthorization = errors.New("whatsapp: media authorization rejected")

const signedURLTTL = 5 * time.Minute

// MediaClient fetches message media from the provider: it resolves a media id
// to a short-lived signed URL, then downloads the binary content. Signed URL
// lookups are cached briefly so retried deliveries don't re-hit the endpoint.
type MediaClient struct {
	httpClient *resty.Client
	signedURLs *cache.Cache
}

// NewMediaClient creates a media client with shared HTTP defaults.
func NewMediaClient() *MediaClient {
	return &MediaClient{
		httpClient: httputil.NewClient(30 * time.Second),
		signedURLs: cache.New(signedURLTTL, 10*time.Minute),
	}
}

// mediaURLResponse is the provider's media-lookup response.
type mediaURLResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	FileSize int64  `json:"file_size"`
	ID       string `json:"id"`
}

// SignedURL resolves a provider media id to a signed download URL.
func (c *MediaClient) SignedURL(ctx context.Context, ch *channel.Channel, mediaID string) (string, error) {
	if cached, found := c.signedURLs.Get(mediaID); found {
		return cached.(string), nil
	}

	var result mediaURLResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeaders(ch.APIHeaders()).
		SetResult(&result).
		Get(ch.MediaURL(mediaID))
	if err != nil {
		return "", fmt.Errorf("media url lookup failed for %s: %w", mediaID, err)
	}
	// The lookup fails with 401 when the access token has expired.
	if resp.StatusCode() == http.StatusUnauthorized {
		return "", fmt.Errorf("media url lookup for %s: %w", mediaID, ErrAuthorization)
	}
	if resp.IsError() {
		return "", fmt.Errorf("media url lookup for %s: status %s", mediaID, resp.Status())
	}
	if result.URL == "" {
		return "", fmt.Errorf("media url lookup for %s: empty url in response", mediaID)
	}

	c.signedURLs.Set(mediaID, result.URL, cache.DefaultExpiration)
	log.Debug().Str("mediaID", mediaID).Msg("Resolved signed media URL")
	return result.URL, nil
}

// Download fetches the binary content behind a signed URL. It returns the
// bytes and the content type reported by the provider.
func (c *MediaClient) Download(ctx context.Context, ch *channel.Channel, signedURL string) ([]byte, string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeaders(ch.APIHeaders()).
		Get(signedURL)
	if err != nil {
		return nil, "", fmt.Errorf("media download failed: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, "", fmt.Errorf("media download: %w", ErrAuthorization)
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("media download: status %s", resp.Status())
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}
