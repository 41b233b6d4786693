package storage

import (
	"content/internal/domain"
	"context"
)

// Storage определяет общий интерфейс хранилища языков и новостей.
// Отсутствие языка возвращается как found=false, а не как ошибка.
type Storage interface {
	GetLanguageID(ctx context.Context, code string) (int64, bool, error)
	FindLanguageByCode(ctx context.Context, code string) (*domain.Language, bool, error)
	SaveLanguage(ctx context.Context, language *domain.Language) error
	FindNewsByLanguage(ctx context.Context, languageID int64) ([]domain.News, error)
	FindNewsByThemeAndLanguage(ctx context.Context, theme string, languageID int64) ([]domain.News, error)
	SaveNews(ctx context.Context, news []domain.News) (int, error)
	Ping(ctx context.Context) error
	Close()
}
