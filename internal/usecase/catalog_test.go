package usecase

import (
	"content/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogImportUseCase_Import(t *testing.T) {
	store := newFakeStore(domain.Language{ID: 1, Code: "en", Translations: []domain.Translation{
		{Code: "old", Result: "Old"},
	}})
	uc := NewCatalogImportUseCase(store, discardLogger())

	count, err := uc.Import(context.Background(), []domain.Language{
		{Code: "en", Translations: []domain.Translation{{Code: "hello", Prefix: "greet", Result: "Hello"}}},
		{Code: "pt-BR", Translations: []domain.Translation{{Code: "hello", Prefix: "greet", Result: "Olá"}}},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	en := store.languages["en"]
	assert.Equal(t, int64(1), en.ID)
	assert.Equal(t, []domain.Translation{{Code: "hello", Prefix: "greet", Result: "Hello"}}, en.Translations)
	assert.Contains(t, store.languages, "pt-BR")
}

func TestCatalogImportUseCase_Import_Invalid(t *testing.T) {
	tests := []struct {
		name string
		lang domain.Language
	}{
		{"malformed_code", domain.Language{Code: "not a tag"}},
		{"empty_code", domain.Language{Code: ""}},
		{"translation_without_code", domain.Language{Code: "en", Translations: []domain.Translation{{Result: "x"}}}},
		{"duplicate_translation", domain.Language{Code: "en", Translations: []domain.Translation{
			{Code: "a", Result: "1"}, {Code: "a", Result: "2"},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			uc := NewCatalogImportUseCase(store, discardLogger())

			count, err := uc.Import(context.Background(), []domain.Language{tt.lang})

			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Zero(t, count)
			assert.Empty(t, store.languages)
		})
	}
}
