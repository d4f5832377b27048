package ch

import (
	"context"
	"testing"
)

// TestOpen_BadDSN rejects a malformed DSN before dialing
func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{URL: "://not-a-dsn"})
	if err == nil {
		t.Fatalf("Open expected error for malformed DSN")
	}
}

// TestNilClient_SafeCalls guards every method against a zero value client
func TestNilClient_SafeCalls(t *testing.T) {
	t.Parallel()

	cl := &CH{}
	ctx := context.Background()

	if err := cl.Insert(ctx, "t", [][]any{{1}}); err == nil {
		t.Fatalf("Insert on nil conn expected error")
	}
	if _, err := cl.Query(ctx, "SELECT 1"); err == nil {
		t.Fatalf("Query on nil conn expected error")
	}
	if err := cl.Ping(ctx); err == nil {
		t.Fatalf("Ping on nil conn expected error")
	}
	if err := cl.Close(); err != nil {
		t.Fatalf("Close on nil conn should be a no op, got %v", err)
	}
}

// TestBuildClientInfo carries role and tag through to products
func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo("api", "v1")
	if len(ci.Products) == 0 {
		t.Fatalf("expected products in client info")
	}
	found := false
	for _, p := range ci.Products {
		if p.Name == "role" && p.Version == "api" {
			found = true
		}
	}
	if !found {
		t.Fatalf("role product missing: %+v", ci.Products)
	}
}
