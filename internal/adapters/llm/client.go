// Package llm provides a resilient client for an OpenAI-compatible chat
// completions endpoint, used for structured intent extraction
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "dealscout/internal/platform/errors"
	"dealscout/internal/platform/logger"
)

const (
	defaultTimeout   = 8 * time.Second
	defaultModel     = "gpt-4o-mini"
	defaultUA        = "dealscout-intent"
	defaultMaxRetry  = 2
	defaultRetryBase = 300 * time.Millisecond
)

// Options configures the Client
type Options struct {
	BaseURL   string
	APIKey    string
	Model     string
	UserAgent string
	Timeout   time.Duration

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal chat completions client with retries
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
// BaseURL is required; an empty one disables the client (nil return)
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		return nil
	}
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("llm"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// chat wire types, trimmed to what extraction needs
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user exchange and returns the assistant content
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "llm marshal request failed")
	}

	url := c.opts.BaseURL + "/chat/completions"
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "llm new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Content-Type", "application/json")
		if c.opts.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if !c.shouldRetry(attempts) {
				return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "llm do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("llm transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("llm http response")

		switch resp.StatusCode {
		case http.StatusOK:
			var out chatResponse
			err := json.NewDecoder(resp.Body).Decode(&out)
			_ = resp.Body.Close()
			if err != nil {
				return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "llm decode response failed")
			}
			if len(out.Choices) == 0 {
				return "", perr.Newf(perr.ErrorCodeUnknown, "llm empty choices")
			}
			return out.Choices[0].Message.Content, nil
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			if !c.shouldRetry(attempts) {
				return "", perr.Newf(perr.ErrorCodeTooManyRequests, "llm unavailable or rate limited")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("llm transient status retrying")
			c.sleep(back)
			attempts++
			continue
		default:
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return "", perr.Newf(perr.ErrorCodeUnknown, "llm unexpected status %d body %s", resp.StatusCode, string(tail))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	ceiling := int64(10 * time.Second / time.Millisecond)
	if ms > ceiling {
		ms = ceiling
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
