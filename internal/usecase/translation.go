package usecase

import (
	"content/internal/domain"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TranslationUseCase разрешает коды строк интерфейса в локализованные значения.
// Если в запрошенном языке строки нет (или нет самого языка), значение берется
// из языка по умолчанию. Наборы переводов неосновных языков считаются разреженными.
type TranslationUseCase struct {
	languages       LanguageFinder
	defaultLanguage string
	log             *slog.Logger
}

// NewTranslationUseCase создает резолвер переводов.
// defaultLanguage - код языка, из которого берутся недостающие строки.
func NewTranslationUseCase(languages LanguageFinder, defaultLanguage string, log *slog.Logger) *TranslationUseCase {
	return &TranslationUseCase{
		languages:       languages,
		defaultLanguage: defaultLanguage,
		log:             log.With(slog.String("component", "translations")),
	}
}

// DefaultLanguage возвращает код языка по умолчанию.
func (uc *TranslationUseCase) DefaultLanguage() string { return uc.defaultLanguage }

// ResolveOne возвращает значение перевода code для языка lang.
// found=false, если кода нет ни в lang, ни в языке по умолчанию.
func (uc *TranslationUseCase) ResolveOne(ctx context.Context, lang, code string) (string, bool, error) {
	t, found, err := uc.resolve(ctx, "usecase.TranslationUseCase.ResolveOne", lang, code)
	if err != nil || !found {
		return "", false, err
	}
	return t.Result, true, nil
}

// ResolveRecord работает как ResolveOne, но возвращает запись перевода целиком.
func (uc *TranslationUseCase) ResolveRecord(ctx context.Context, lang, code string) (domain.Translation, bool, error) {
	return uc.resolve(ctx, "usecase.TranslationUseCase.ResolveRecord", lang, code)
}

func (uc *TranslationUseCase) resolve(ctx context.Context, op, lang, code string) (domain.Translation, bool, error) {
	primary, err := uc.load(ctx, op, lang)
	if err != nil {
		return domain.Translation{}, false, err
	}
	if t, ok := primary.Lookup(code); ok {
		return t, true, nil
	}
	if lang == uc.defaultLanguage {
		return domain.Translation{}, false, nil
	}
	fallback, err := uc.load(ctx, op, uc.defaultLanguage)
	if err != nil {
		return domain.Translation{}, false, err
	}
	t, ok := fallback.Lookup(code)
	if !ok {
		uc.log.Debug("Translation not found",
			slog.String("op", op),
			slog.String("language", lang),
			slog.String("code", code),
		)
	}
	return t, ok, nil
}

// ResolveList разрешает список кодов, сохраняя порядок и повторы.
// Результат выровнен по позициям с codes: ненайденный код дает Found=false.
// Язык по умолчанию читается не более одного раза и только при промахе.
func (uc *TranslationUseCase) ResolveList(ctx context.Context, lang string, codes []string) ([]domain.Resolved, error) {
	const op = "usecase.TranslationUseCase.ResolveList"
	if len(codes) == 0 {
		return nil, fmt.Errorf("%s: %w: empty code list", op, ErrInvalidArgument)
	}
	primary, err := uc.load(ctx, op, lang)
	if err != nil {
		return nil, err
	}
	var (
		fallback       *domain.Language
		fallbackLoaded = lang == uc.defaultLanguage
	)
	res := make([]domain.Resolved, 0, len(codes))
	for _, code := range codes {
		if t, ok := primary.Lookup(code); ok {
			res = append(res, domain.Resolved{Code: code, Result: t.Result, Found: true})
			continue
		}
		if !fallbackLoaded {
			if fallback, err = uc.load(ctx, op, uc.defaultLanguage); err != nil {
				return nil, err
			}
			fallbackLoaded = true
		}
		t, ok := fallback.Lookup(code)
		res = append(res, domain.Resolved{Code: code, Result: t.Result, Found: ok})
	}
	return res, nil
}

// ResolveByPrefix собирает все переводы, чей Prefix содержит prefix как подстроку.
// Сначала берутся строки запрошенного языка (при повторе кода побеждает последняя),
// затем недостающие коды добавляются из языка по умолчанию. Строки языка
// по умолчанию никогда не перезаписывают строки запрошенного языка.
func (uc *TranslationUseCase) ResolveByPrefix(ctx context.Context, lang, prefix string) (map[string]string, error) {
	const op = "usecase.TranslationUseCase.ResolveByPrefix"
	res := make(map[string]string)
	primary, err := uc.load(ctx, op, lang)
	if err != nil {
		return nil, err
	}
	if primary != nil {
		for _, t := range primary.Translations {
			if strings.Contains(t.Prefix, prefix) {
				res[t.Code] = t.Result
			}
		}
	}
	if lang == uc.defaultLanguage {
		return res, nil
	}
	fallback, err := uc.load(ctx, op, uc.defaultLanguage)
	if err != nil {
		return nil, err
	}
	if fallback == nil {
		uc.log.Warn("Default language is missing",
			slog.String("op", op),
			slog.String("language", uc.defaultLanguage),
		)
		return res, nil
	}
	for _, t := range fallback.Translations {
		if !strings.Contains(t.Prefix, prefix) {
			continue
		}
		if _, ok := res[t.Code]; !ok {
			res[t.Code] = t.Result
		}
	}
	return res, nil
}

// Translations возвращает полный набор переводов языка, а если языка нет -
// набор языка по умолчанию. Если нет и его, возвращается пустой набор.
func (uc *TranslationUseCase) Translations(ctx context.Context, lang string) ([]domain.Translation, error) {
	const op = "usecase.TranslationUseCase.Translations"
	language, err := uc.load(ctx, op, lang)
	if err != nil {
		return nil, err
	}
	if language == nil && lang != uc.defaultLanguage {
		if language, err = uc.load(ctx, op, uc.defaultLanguage); err != nil {
			return nil, err
		}
	}
	if language == nil || language.Translations == nil {
		return []domain.Translation{}, nil
	}
	return language.Translations, nil
}

// load читает язык; nil без ошибки означает, что языка нет.
func (uc *TranslationUseCase) load(ctx context.Context, op, code string) (*domain.Language, error) {
	language, found, err := uc.languages.FindLanguageByCode(ctx, code)
	if err != nil {
		uc.log.Error("Failed to load language",
			slog.String("op", op),
			slog.String("language", code),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s: failed to load language %q: %w", op, code, err)
	}
	if !found {
		return nil, nil
	}
	return language, nil
}
