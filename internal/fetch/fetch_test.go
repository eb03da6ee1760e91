package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trovekeep/internal/services"
)

func TestFetchReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chunks":2}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), nil)
	body, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != `{"chunks":2}` {
		t.Errorf("body mismatch: got %q", body)
	}
}

func TestFetchNon2xxIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), nil)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 410 response")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Errorf("error should classify as transport: %v", err)
	}
}

func TestFetchConnectionFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := NewHTTPFetcher(nil, nil)
	_, err := fetcher.Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Errorf("error should classify as transport: %v", err)
	}
}

func TestFetchBadLocator(t *testing.T) {
	fetcher := NewHTTPFetcher(nil, nil)
	_, err := fetcher.Fetch(context.Background(), "http://\x00bad")
	if err == nil {
		t.Fatal("expected error for malformed locator")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Errorf("error should classify as transport: %v", err)
	}
}
