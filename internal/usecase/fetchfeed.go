package usecase

import (
	"content/internal/domain"
	"context"
	"errors"
	"io"
)

// ErrInvalidArgument возвращается при некорректных входных аргументах
// (неположительные page/amount, пустой список кодов, битый код языка).
var ErrInvalidArgument = errors.New("invalid argument")

// FeedFetcher определяет интерфейс для загрузки данных RSS-лент из внешних источников.
// Возвращает io.ReadCloser который должен быть закрыт после использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser определяет интерфейс для парсинга RSS-данных в доменную модель.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error)
}

// NewsSaver сохраняет записи ленты как новости указанного языка.
type NewsSaver interface {
	SaveNews(ctx context.Context, language, theme string, items []domain.Item) (int, error)
}

// LanguageIDGetter возвращает только идентификатор языка по его коду.
// found=false означает, что языка нет, и не является ошибкой.
type LanguageIDGetter interface {
	GetLanguageID(ctx context.Context, code string) (id int64, found bool, err error)
}

// LanguageFinder возвращает язык целиком, вместе с набором переводов.
type LanguageFinder interface {
	FindLanguageByCode(ctx context.Context, code string) (*domain.Language, bool, error)
}

// LanguageWriter создает язык или целиком заменяет существующий с тем же кодом.
type LanguageWriter interface {
	SaveLanguage(ctx context.Context, language *domain.Language) error
}

// NewsStorage определяет операции хранилища новостей, нужные бизнес-логике.
type NewsStorage interface {
	FindNewsByLanguage(ctx context.Context, languageID int64) ([]domain.News, error)
	FindNewsByThemeAndLanguage(ctx context.Context, theme string, languageID int64) ([]domain.News, error)
	SaveNews(ctx context.Context, news []domain.News) (int, error)
}
