package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// LanguageGuard - единая точка проверки существования языка.
// Все операции над новостями сначала проходят через него.
type LanguageGuard struct {
	languages LanguageIDGetter
	log       *slog.Logger
}

// NewLanguageGuard создает проверку существования языка поверх хранилища.
func NewLanguageGuard(languages LanguageIDGetter, log *slog.Logger) *LanguageGuard {
	return &LanguageGuard{
		languages: languages,
		log:       log,
	}
}

// LanguageID возвращает идентификатор языка по коду.
// Отсутствие языка - обычный результат (found=false, err=nil).
func (g *LanguageGuard) LanguageID(ctx context.Context, code string) (int64, bool, error) {
	const op = "usecase.LanguageGuard.LanguageID"
	id, found, err := g.languages.GetLanguageID(ctx, code)
	if err != nil {
		return 0, false, fmt.Errorf("%s: failed to get language %q: %w", op, code, err)
	}
	if !found {
		g.log.Debug("Language not found",
			slog.String("component", "language-guard"),
			slog.String("language", code),
		)
	}
	return id, found, nil
}
