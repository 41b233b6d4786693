package storage

import (
	"content/internal/domain"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewSQLiteStore(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestSQLiteStore_Languages(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	_, found, err := store.GetLanguageID(ctx, "en")
	require.NoError(t, err)
	assert.False(t, found)

	lang := &domain.Language{Code: "en", Translations: []domain.Translation{
		{Code: "hello", Prefix: "greet", Result: "Hello"},
		{Code: "bye", Prefix: "greet", Result: "Bye"},
	}}
	require.NoError(t, store.SaveLanguage(ctx, lang))
	require.NotZero(t, lang.ID)

	id, found, err := store.GetLanguageID(ctx, "en")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, lang.ID, id)

	got, found, err := store.FindLanguageByCode(ctx, "en")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, lang.Translations, got.Translations)

	replacement := &domain.Language{Code: "en", Translations: []domain.Translation{
		{Code: "only", Prefix: "p", Result: "Only"},
	}}
	require.NoError(t, store.SaveLanguage(ctx, replacement))
	assert.Equal(t, lang.ID, replacement.ID)

	got, _, err = store.FindLanguageByCode(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, replacement.Translations, got.Translations)

	_, found, err = store.FindLanguageByCode(ctx, "fr")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStore_News(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	en := &domain.Language{Code: "en"}
	fr := &domain.Language{Code: "fr"}
	require.NoError(t, store.SaveLanguage(ctx, en))
	require.NoError(t, store.SaveLanguage(ctx, fr))

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	saved, err := store.SaveNews(ctx, []domain.News{
		{LanguageID: en.ID, Theme: "sport", Title: "old", Content: "c", Link: "https://e.com/1", PublishedAt: base},
		{LanguageID: en.ID, Theme: "tech", Title: "new", Content: "c", Link: "https://e.com/2", PublishedAt: base.Add(time.Hour)},
		{LanguageID: fr.ID, Theme: "sport", Title: "fr", Content: "c", Link: "https://e.fr/1", PublishedAt: base},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	saved, err = store.SaveNews(ctx, []domain.News{
		{LanguageID: en.ID, Theme: "sport", Title: "dup", Content: "c", Link: "https://e.com/1", PublishedAt: base},
	})
	require.NoError(t, err)
	assert.Zero(t, saved)

	news, err := store.FindNewsByLanguage(ctx, en.ID)
	require.NoError(t, err)
	require.Len(t, news, 2)
	assert.Equal(t, "new", news[0].Title)
	assert.Equal(t, "old", news[1].Title)
	assert.True(t, base.Equal(news[1].PublishedAt))

	sport, err := store.FindNewsByThemeAndLanguage(ctx, "sport", en.ID)
	require.NoError(t, err)
	require.Len(t, sport, 1)
	assert.Equal(t, "old", sport[0].Title)

	none, err := store.FindNewsByThemeAndLanguage(ctx, "politics", en.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
