package usecase

import (
	"content/internal/domain"
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"
)

// CatalogImportUseCase загружает языки с переводами в хранилище.
// Каждый язык сохраняется целиком, заменяя прежний набор переводов.
type CatalogImportUseCase struct {
	languages LanguageWriter
	log       *slog.Logger
}

// NewCatalogImportUseCase создает импорт каталога переводов.
func NewCatalogImportUseCase(languages LanguageWriter, log *slog.Logger) *CatalogImportUseCase {
	return &CatalogImportUseCase{
		languages: languages,
		log:       log.With(slog.String("component", "catalog-import")),
	}
}

// Import проверяет и сохраняет языки по одному. Код языка должен быть
// корректным тегом BCP 47, коды переводов - непустыми и не повторяться
// внутри языка. Возвращает число сохраненных языков.
func (uc *CatalogImportUseCase) Import(ctx context.Context, languages []domain.Language) (int, error) {
	const op = "usecase.CatalogImportUseCase.Import"
	for i := range languages {
		if err := ValidateLanguage(&languages[i]); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}
	saved := 0
	for i := range languages {
		lang := &languages[i]
		if err := uc.languages.SaveLanguage(ctx, lang); err != nil {
			uc.log.Error("Failed to save language",
				slog.String("op", op),
				slog.String("language", lang.Code),
				slog.Any("error", err),
			)
			return saved, fmt.Errorf("%s: failed to save language %q: %w", op, lang.Code, err)
		}
		saved++
		uc.log.Info("Language imported",
			slog.String("language", lang.Code),
			slog.Int("count", len(lang.Translations)),
		)
	}
	return saved, nil
}

// ValidateLanguage проверяет код языка и уникальность кодов переводов.
func ValidateLanguage(lang *domain.Language) error {
	if _, err := language.Parse(lang.Code); err != nil {
		return fmt.Errorf("%w: language code %q: %v", ErrInvalidArgument, lang.Code, err)
	}
	seen := make(map[string]struct{}, len(lang.Translations))
	for _, t := range lang.Translations {
		if t.Code == "" {
			return fmt.Errorf("%w: language %q has a translation without code", ErrInvalidArgument, lang.Code)
		}
		if _, dup := seen[t.Code]; dup {
			return fmt.Errorf("%w: language %q has duplicate translation %q", ErrInvalidArgument, lang.Code, t.Code)
		}
		seen[t.Code] = struct{}{}
	}
	return nil
}
