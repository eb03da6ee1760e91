// Package fetch provides the network retrieval capability consumed by the
// content cache. The transport itself stays opaque to callers: a locator
// goes in, bytes or a transport error come out.
package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"trovekeep/internal/logging"
	"trovekeep/internal/services"
)

// Fetcher retrieves the raw bytes behind a source locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// HTTPDoer describes the HTTP client used by the default fetcher.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher retrieves locators over HTTP. Timeouts are a client concern;
// inject an *http.Client with one configured.
type HTTPFetcher struct {
	client HTTPDoer
	logger *slog.Logger
}

// NewHTTPFetcher constructs an HTTP-backed fetcher. A nil client falls back
// to http.DefaultClient.
func NewHTTPFetcher(client HTTPDoer, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client: client,
		logger: logging.NewComponentLogger(logger, "fetch"),
	}
}

// Fetch performs a GET for the locator and returns the response body.
// Non-2xx responses and transport failures surface as transport errors
// carrying the locator.
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	logger := logging.WithContext(ctx, f.logger)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "fetch", "build request", locator, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "fetch", "get", locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrTransport, "fetch", "get",
			locator+": status "+resp.Status, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "fetch", "read body", locator, err)
	}

	logger.Debug("fetched locator",
		logging.String(logging.FieldLocator, locator),
		logging.Int("bytes", len(body)))

	return body, nil
}
