package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultTimeout = 20 * time.Second
	userAgent      = "content-news-ingest/1.0"
	// maxFeedSize ограничивает размер читаемой ленты.
	maxFeedSize = 10 << 20
)

// HTTPFetcher реализует интерфейс FeedFetcher для загрузки RSS-лент по HTTP.
type HTTPFetcher struct {
	client *http.Client
	log    *slog.Logger
}

// NewHTTPFetcher создает загрузчик с собственным HTTP-клиентом и таймаутом.
func NewHTTPFetcher(log *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
		log:    log.With(slog.String("component", "fetcher")),
	}
}

// Fetch выполняет GET-запрос ленты по url с учетом ctx.
// Тело ответа ограничено maxFeedSize и должно быть закрыто вызывающей стороной.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	log := f.log.With(slog.String("url", url))
	log.Debug("Fetching URL")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")
	resp, err := f.client.Do(req)
	if err != nil {
		log.Error("HTTP request failed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch url %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		log.Error("Unexpected status code", slog.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("unexpected status code: %d for url %s", resp.StatusCode, url)
	}
	log.Debug("Successfully fetched URL")
	return limitedBody{Reader: io.LimitReader(resp.Body, maxFeedSize), Closer: resp.Body}, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}
