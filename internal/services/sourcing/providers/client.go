// Package providers holds the HTTP callers for external catalog services
// One caller per configured provider; the adapter has already rendered the
// provider-native query, so a caller only transports it
package providers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	perr "dealscout/internal/platform/errors"
	"dealscout/internal/platform/logger"
	"dealscout/internal/services/sourcing/domain"
)

const (
	defaultTimeout = 8 * time.Second
	defaultUA      = "dealscout-sourcing"

	// maxPayload bounds what we keep of a provider response
	maxPayload = 4 << 20
)

// Options configures one provider caller
type Options struct {
	ID      string
	BaseURL string
	Path    string
	APIKey  string
	Timeout time.Duration
}

// Client is a JSON catalog caller bound to one provider id
// No retries here: a retry is a new pipeline invocation by the caller
type Client struct {
	opts Options
	http *http.Client
	log  logger.Logger
}

// New creates a caller; ID and BaseURL are required
func New(o Options) *Client {
	if o.ID == "" || o.BaseURL == "" {
		return nil
	}
	if o.Path == "" {
		o.Path = "/search"
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		opts: o,
		http: &http.Client{Timeout: o.Timeout},
		log:  *logger.Named("provider." + o.ID),
	}
}

// ProviderID implements domain.Caller
func (c *Client) ProviderID() string { return c.opts.ID }

// Call implements domain.Caller
// Status mapping: 402 reads as spent quota, 429 as rate limiting; both are
// surfaced as coded errors so the executor can classify the snapshot
func (c *Client) Call(ctx context.Context, q domain.ProviderQuery) (domain.RawProviderResult, error) {
	vals := url.Values{}
	vals.Set("q", q.Query)
	for k, v := range q.Filters {
		vals.Set(k, v)
	}

	reqURL := c.opts.BaseURL + c.opts.Path + "?" + vals.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.RawProviderResult{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "%s new request failed", c.opts.ID)
	}
	req.Header.Set("User-Agent", defaultUA)
	req.Header.Set("Accept", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.RawProviderResult{}, ctx.Err()
		}
		return domain.RawProviderResult{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s call failed", c.opts.ID)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("provider http response")

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
		if err != nil {
			return domain.RawProviderResult{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s read body failed", c.opts.ID)
		}
		return domain.RawProviderResult{ProviderID: c.opts.ID, Query: q, Payload: body}, nil
	case http.StatusTooManyRequests:
		return domain.RawProviderResult{}, perr.Newf(perr.ErrorCodeTooManyRequests, "%s rate limited", c.opts.ID)
	case http.StatusPaymentRequired:
		return domain.RawProviderResult{}, perr.Exhaustedf("%s quota exhausted", c.opts.ID)
	default:
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.RawProviderResult{}, perr.Newf(perr.ErrorCodeUnavailable, "%s unexpected status %d body %s",
			c.opts.ID, resp.StatusCode, string(tail))
	}
}

var _ domain.Caller = (*Client)(nil)
