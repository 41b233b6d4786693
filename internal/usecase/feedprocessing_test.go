package usecase

import (
	"content/internal/domain"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	body string
	err  error
	url  string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	f.url = url
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

type stubParser struct {
	feed *domain.Feed
	err  error
}

func (p *stubParser) Parse(ctx context.Context, r io.Reader) (*domain.Feed, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.feed, nil
}

func TestFeedProcessingUseCase_ProcessFeed(t *testing.T) {
	store := newFakeStore(domain.Language{ID: 7, Code: "fr"})
	saver := newNewsUseCase(store)
	fetcher := &stubFetcher{body: "<rss/>"}
	parser := &stubParser{feed: &domain.Feed{Items: []domain.Item{
		{Title: "Bonjour", Link: "https://example.fr/1"},
	}}}
	uc := NewFeedProcessingUseCase(fetcher, parser, saver, discardLogger())

	err := uc.ProcessFeed(context.Background(), domain.FeedSource{
		Name: "lemonde", URL: "https://example.fr/rss", Language: "fr", Theme: "world",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://example.fr/rss", fetcher.url)
	require.Len(t, store.saved, 1)
	assert.Equal(t, int64(7), store.saved[0].LanguageID)
	assert.Equal(t, "world", store.saved[0].Theme)
}

func TestFeedProcessingUseCase_ProcessFeed_Errors(t *testing.T) {
	store := newFakeStore(domain.Language{Code: "fr"})
	fetchErr := errors.New("dial tcp: refused")
	parseErr := errors.New("bad xml")

	uc := NewFeedProcessingUseCase(&stubFetcher{err: fetchErr}, &stubParser{}, newNewsUseCase(store), discardLogger())
	err := uc.ProcessFeed(context.Background(), domain.FeedSource{URL: "https://www.example.com/rss", Language: "fr"})
	assert.ErrorIs(t, err, fetchErr)
	assert.Contains(t, err.Error(), "fetch failed for example.com")

	uc = NewFeedProcessingUseCase(&stubFetcher{}, &stubParser{err: parseErr}, newNewsUseCase(store), discardLogger())
	err = uc.ProcessFeed(context.Background(), domain.FeedSource{Name: "feed", URL: "https://example.com/rss", Language: "fr"})
	assert.ErrorIs(t, err, parseErr)
	assert.Contains(t, err.Error(), "parse failed for feed")
}

func TestFeedName(t *testing.T) {
	assert.Equal(t, "named", feedName(domain.FeedSource{Name: "named", URL: "https://x.org"}))
	assert.Equal(t, "news.ycombinator.com", feedName(domain.FeedSource{URL: "https://news.ycombinator.com/rss"}))
	assert.Equal(t, "Unknown", feedName(domain.FeedSource{URL: "not a url"}))
}
