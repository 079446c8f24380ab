package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrURLConstruction = errors.New("failed to construct url")
	ErrTransport       = errors.New("error on downloading data")
	ErrEmptyResponse   = errors.New("empty response body")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client downloads raw payloads with a single GET per call.
// Non-2xx responses are returned as-is so that the caller can interpret the body.
type Client struct {
	client HTTPClient
	logger zerolog.Logger
}

func NewClient(httpClient HTTPClient, logger zerolog.Logger) *Client {
	return &Client{
		client: httpClient,
		logger: logger.With().Str("component", "Fetcher").Logger(),
	}
}

func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	start := time.Now()

	target, err := parseURL(rawURL)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Msg("rejected malformed url")
		return nil, fmt.Errorf("%w: %v", ErrURLConstruction, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrURLConstruction, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).
			Str("host", target.Host).
			Msg("request failed")
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn().Err(cerr).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).
			Str("host", target.Host).
			Msg("failed to read response body")
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if len(body) == 0 {
		c.logger.Warn().Ctx(ctx).
			Str("host", target.Host).
			Int("status_code", resp.StatusCode).
			Msg("empty response body")
		return nil, ErrEmptyResponse
	}

	c.logger.Debug().Ctx(ctx).
		Str("host", target.Host).
		Str("path", target.Path).
		Int("status_code", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("payload downloaded")

	return body, nil
}

// parseURL accepts only absolute http(s) URLs that are already percent-encoded.
func parseURL(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, errors.New("empty url")
	}
	if strings.ContainsAny(rawURL, " \t\r\n") {
		return nil, errors.New("url contains unescaped whitespace")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	if _, err := url.ParseQuery(u.RawQuery); err != nil {
		return nil, err
	}
	return u, nil
}
