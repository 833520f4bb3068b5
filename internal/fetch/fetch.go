package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// DefaultTimeout bounds a single article request.
const DefaultTimeout = 10 * time.Second

// Response is a fetched page with its body decoded to UTF-8.
type Response struct {
	URL         string
	Status      int
	ContentType string
	Body        []byte
}

// Client wraps http.Client with a per-request timeout and a user agent.
// It performs exactly one attempt per call.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// PerRequestTimeout bounds each request. Zero means DefaultTimeout.
	PerRequestTimeout time.Duration
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) timeout() time.Duration {
	if c.PerRequestTimeout > 0 {
		return c.PerRequestTimeout
	}
	return DefaultTimeout
}

// Get issues a single GET. Any status code is accepted; only transport,
// timeout and body read failures are reported as errors.
func (c *Client) Get(ctx context.Context, url string) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Str("url", url).Int("status", resp.StatusCode).Msg("non-2xx response; parsing body anyway")
	}

	// Decode to UTF-8 using the header charset or <meta> hints; fall back to raw bytes.
	var body io.Reader = resp.Body
	if r, cerr := charset.NewReader(resp.Body, contentType); cerr == nil {
		body = r
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return Response{}, fmt.Errorf("read body: %w", err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	log.Debug().Str("url", finalURL).Int("status", resp.StatusCode).Int("bytes", len(b)).Dur("duration", time.Since(start)).Msg("fetched")
	return Response{URL: finalURL, Status: resp.StatusCode, ContentType: contentType, Body: b}, nil
}
