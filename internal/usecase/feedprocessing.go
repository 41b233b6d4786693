package usecase

import (
	"content/internal/domain"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// FeedProcessingUseCase реализует загрузку RSS-лент в новости конкретного языка.
// Координирует загрузку, парсинг и сохранение через NewsSaver.
type FeedProcessingUseCase struct {
	fetcher FeedFetcher
	parser  FeedParser
	saver   NewsSaver
	log     *slog.Logger
}

// NewFeedProcessingUseCase создает новый экземпляр UseCase для обработки RSS-лент.
func NewFeedProcessingUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	saver NewsSaver,
	log *slog.Logger,
) *FeedProcessingUseCase {
	return &FeedProcessingUseCase{
		fetcher: fetcher,
		parser:  parser,
		saver:   saver,
		log:     log,
	}
}

// ProcessFeed выполняет полный цикл обработки источника: получение, парсинг и сохранение
// записей как новостей языка источника. Возвращает ошибку при сбое любого этапа.
func (uc *FeedProcessingUseCase) ProcessFeed(ctx context.Context, src domain.FeedSource) error {
	start := time.Now()
	feedName := feedName(src)
	log := uc.log.With(
		slog.String("component", "feed-processor"),
		slog.String("feed", feedName),
		slog.String("language", src.Language),
		slog.String("url", src.URL),
	)

	log.Info("Processing feed started")

	reader, err := uc.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		log.Error("Feed fetch failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		return fmt.Errorf("fetch failed for %s: %w", feedName, err)
	}
	defer reader.Close()

	feed, err := uc.parser.Parse(ctx, reader)
	if err != nil {
		log.Error("Feed parsing failed",
			slog.String("stage", "parse"),
			slog.Any("error", err),
		)
		return fmt.Errorf("parse failed for %s: %w", feedName, err)
	}

	log.Debug("Feed parsed successfully",
		slog.String("stage", "parse"),
		slog.Int("items_parsed", len(feed.Items)),
	)

	savedCount, err := uc.saver.SaveNews(ctx, src.Language, src.Theme, feed.Items)
	if err != nil {
		log.Error("Feed save failed",
			slog.String("stage", "save"),
			slog.Any("error", err),
		)
		return fmt.Errorf("save failed for %s: %w", feedName, err)
	}

	log.Info("Feed processing completed successfully",
		slog.Int("items_found", len(feed.Items)),
		slog.Int("items_saved", savedCount),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// feedName возвращает читаемое имя источника: настроенное имя или домен из URL.
func feedName(src domain.FeedSource) string {
	if src.Name != "" {
		return src.Name
	}
	u, err := url.Parse(src.URL)
	if err != nil || u.Host == "" {
		return "Unknown"
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
