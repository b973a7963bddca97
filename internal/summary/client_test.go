package summary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSummarizeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "chave-teste" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Evitar manhãs; cachorro na casa 3."}]}}]}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "chave-teste", APIBase: srv.URL})

	got := c.Summarize(context.Background(), "muitas observações")
	if got != "Evitar manhãs; cachorro na casa 3." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestSummarizeEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "chave-teste", APIBase: srv.URL})

	if got := c.Summarize(context.Background(), "texto"); got != FallbackEmpty {
		t.Fatalf("expected %q got %q", FallbackEmpty, got)
	}
}

func TestSummarizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "chave-teste", APIBase: srv.URL})

	if got := c.Summarize(context.Background(), "texto"); got != FallbackError {
		t.Fatalf("expected %q got %q", FallbackError, got)
	}
}

func TestSummarizeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "chave-teste", APIBase: srv.URL, Timeout: 20 * time.Millisecond})

	if got := c.Summarize(context.Background(), "texto"); got != FallbackError {
		t.Fatalf("expected %q got %q", FallbackError, got)
	}
}

func TestSummarizeWithoutKeyDegrades(t *testing.T) {
	c := New(Config{})

	if got := c.Summarize(context.Background(), "texto"); got != FallbackError {
		t.Fatalf("expected %q got %q", FallbackError, got)
	}
}
