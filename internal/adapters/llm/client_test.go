package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", MaxRetries: 2, RetryBase: time.Millisecond})
	if c == nil {
		t.Fatalf("NewClient returned nil for non-empty base URL")
	}
	c.sleep = func(time.Duration) {}
	return c, srv
}

func chatOK(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

func TestNewClient_EmptyBaseURLDisables(t *testing.T) {
	t.Parallel()

	if c := NewClient(Options{}); c != nil {
		t.Fatalf("expected nil client without base URL")
	}
}

func TestComplete_Success(t *testing.T) {
	t.Parallel()

	var gotAuth atomic.Value
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		chatOK(`{"ok":true}`)(w, r)
	})

	out, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("Complete = %q", out)
	}
	if gotAuth.Load() != "Bearer k" {
		t.Fatalf("missing bearer auth: %v", gotAuth.Load())
	}
}

func TestComplete_RetriesOn429ThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		chatOK("later")(w, r)
	})

	out, err := c.Complete(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if out != "later" || calls.Load() != 2 {
		t.Fatalf("out=%q calls=%d", out, calls.Load())
	}
}

func TestComplete_UnexpectedStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	if _, err := c.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatalf("expected error on 400")
	}
	if calls.Load() != 1 {
		t.Fatalf("400 should not retry, calls=%d", calls.Load())
	}
}

func TestExtract_ParsesModelJSON(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, chatOK(`{"category":"footwear","price_min":null,"price_max":80,"currency":"USD","features":{"color":"red"},"keywords":["running","shoes"]}`))

	got, err := c.Extract(context.Background(), "red running shoes under 80")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if got.Category != "footwear" || got.PriceMax == nil || *got.PriceMax != 80 {
		t.Fatalf("Extract = %+v", got)
	}
	if len(got.Keywords) != 2 || got.Features["color"] != "red" {
		t.Fatalf("Extract fields = %+v", got)
	}
}

func TestExtract_CodeFencedJSON(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, chatOK("```json\n{\"category\":\"home\",\"keywords\":[\"desk\"]}\n```"))

	got, err := c.Extract(context.Background(), "desk")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if got.Category != "home" {
		t.Fatalf("Extract = %+v", got)
	}
}

func TestExtract_MalformedJSONErrors(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, chatOK("not json at all"))

	if _, err := c.Extract(context.Background(), "desk"); err == nil {
		t.Fatalf("expected parse error")
	}
}
