package usecase

import (
	"content/internal/domain"
	"context"
	"fmt"
	"log/slog"
)

// NewsUseCase реализует бизнес-логику выдачи и сохранения новостей по языкам.
// Любая операция сначала проверяет существование языка через LanguageGuard.
type NewsUseCase struct {
	guard   *LanguageGuard
	storage NewsStorage
	log     *slog.Logger
}

// NewNewsUseCase создает новый экземпляр UseCase для работы с новостями.
func NewNewsUseCase(guard *LanguageGuard, storage NewsStorage, log *slog.Logger) *NewsUseCase {
	return &NewsUseCase{
		guard:   guard,
		storage: storage,
		log:     log.With(slog.String("component", "news")),
	}
}

// Paginate возвращает страницу page размером amount новостей языка lang,
// отсортированных от новых к старым, и общее количество новостей языка.
// Страница за пределами данных подменяется первой страницей.
// Неизвестный язык дает пустую страницу с Amount=0 без ошибки.
func (uc *NewsUseCase) Paginate(ctx context.Context, lang string, page, amount int) (domain.Page, error) {
	const op = "usecase.NewsUseCase.Paginate"
	empty := domain.Page{Data: []domain.News{}}
	if page < 1 || amount < 1 {
		return empty, fmt.Errorf("%s: %w: page and amount must be positive, got page=%d amount=%d",
			op, ErrInvalidArgument, page, amount)
	}
	langID, found, err := uc.guard.LanguageID(ctx, lang)
	if err != nil {
		return empty, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return empty, nil
	}
	news, err := uc.storage.FindNewsByLanguage(ctx, langID)
	if err != nil {
		uc.log.Error("Failed to load news", slog.String("op", op), slog.Any("error", err))
		return empty, fmt.Errorf("%s: failed to load news: %w", op, err)
	}
	domain.SortNewest(news)
	total := len(news)
	data := pageOf(news, page, amount)
	if len(data) == 0 {
		uc.log.Debug("Requested page is out of range, returning first page",
			slog.String("op", op),
			slog.Int("page", page),
			slog.Int("amount", amount),
			slog.Int("count", total),
		)
		data = pageOf(news, 1, amount)
	}
	return domain.Page{Data: data, Amount: total}, nil
}

// pageOf вырезает из sorted страницу page (с единицы) длиной не больше amount.
// Всегда возвращает не-nil срез.
func pageOf(sorted []domain.News, page, amount int) []domain.News {
	if page-1 > len(sorted)/amount {
		return []domain.News{}
	}
	offset := (page - 1) * amount
	if offset >= len(sorted) {
		return []domain.News{}
	}
	end := len(sorted)
	if amount < end-offset {
		end = offset + amount
	}
	out := make([]domain.News, end-offset)
	copy(out, sorted[offset:end])
	return out
}

// FilterByTheme возвращает все новости языка lang с темой theme (точное совпадение).
// Для неизвестного языка возвращается пустой срез.
func (uc *NewsUseCase) FilterByTheme(ctx context.Context, lang, theme string) ([]domain.News, error) {
	const op = "usecase.NewsUseCase.FilterByTheme"
	langID, found, err := uc.guard.LanguageID(ctx, lang)
	if err != nil {
		return []domain.News{}, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return []domain.News{}, nil
	}
	news, err := uc.storage.FindNewsByThemeAndLanguage(ctx, theme, langID)
	if err != nil {
		uc.log.Error("Failed to load news by theme",
			slog.String("op", op),
			slog.String("theme", theme),
			slog.Any("error", err),
		)
		return []domain.News{}, fmt.Errorf("%s: failed to load news: %w", op, err)
	}
	if news == nil {
		news = []domain.News{}
	}
	return news, nil
}

// SaveNews сохраняет записи ленты как новости языка lang с темой theme.
// Если записи уже задана категория, а theme пуст, темой становится категория.
// Для неизвестного языка ничего не сохраняется и возвращается 0 без ошибки.
func (uc *NewsUseCase) SaveNews(ctx context.Context, lang, theme string, items []domain.Item) (int, error) {
	const op = "usecase.NewsUseCase.SaveNews"
	if len(items) == 0 {
		return 0, nil
	}
	langID, found, err := uc.guard.LanguageID(ctx, lang)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		uc.log.Warn("Skipping news for unknown language",
			slog.String("op", op),
			slog.String("language", lang),
			slog.Int("count", len(items)),
		)
		return 0, nil
	}
	news := make([]domain.News, 0, len(items))
	for _, item := range items {
		itemTheme := theme
		if itemTheme == "" {
			itemTheme = item.Category
		}
		news = append(news, domain.News{
			LanguageID:  langID,
			Theme:       itemTheme,
			Title:       item.Title,
			Content:     item.Description,
			Link:        item.Link,
			PublishedAt: item.PubDate,
		})
	}
	saved, err := uc.storage.SaveNews(ctx, news)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to save news: %w", op, err)
	}
	return saved, nil
}
