package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"ReturnLens/internal/model"
)

// ErrNoData is returned when a provider has no bars for a symbol.
var ErrNoData = errors.New("no price data")

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	// FetchHistory returns the full available daily history of symbol, oldest first.
	FetchHistory(ctx context.Context, symbol string) ([]model.OHLCV, error)
	Name() string
}

// newHTTPClient builds the client shared by fetchers, with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
