package app

import (
	"content/internal/adapter/catalog"
	"content/internal/adapter/fetcher"
	"content/internal/adapter/parser"
	"content/internal/config"
	"content/internal/domain"
	"content/internal/logger"
	"content/internal/migrations"
	server "content/internal/transport/http"
	"content/internal/usecase"
	"content/internal/worker"
	"content/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App связывает хранилище, бизнес-логику, HTTP-сервер и воркер загрузки лент.
type App struct {
	config    *config.Config
	logger    *slog.Logger
	server    *http.Server
	worker    *worker.Worker
	storage   storage.Storage
	stopChan  chan os.Signal
	closeLogs func() error
}

// New создает и инициализирует приложение: логгер, хранилище, миграции,
// импорт каталога переводов и все зависимости.
func New(cfg *config.Config) (*App, error) {
	appLogger, closeLogs, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)

	ctx := context.Background()
	store, err := openStorage(ctx, cfg.Database, appLogger)
	if err != nil {
		closeLogs()
		return nil, err
	}

	if cfg.App.CatalogFile != "" {
		if err := importCatalog(ctx, cfg.App.CatalogFile, store, appLogger); err != nil {
			store.Close()
			closeLogs()
			return nil, err
		}
	}

	guard := usecase.NewLanguageGuard(store, appLogger)
	newsUseCase := usecase.NewNewsUseCase(guard, store, appLogger)
	translationUseCase := usecase.NewTranslationUseCase(store, cfg.App.DefaultLanguage, appLogger)

	feedProcessor := usecase.NewFeedProcessingUseCase(
		fetcher.NewHTTPFetcher(appLogger),
		parser.NewXMLParser(appLogger),
		newsUseCase,
		appLogger,
	)
	processInterval, err := time.ParseDuration(cfg.App.ProcessingInterval)
	if err == nil && processInterval <= 0 {
		err = fmt.Errorf("processing interval must be positive, got %s", processInterval)
	}
	if err != nil {
		store.Close()
		closeLogs()
		return nil, fmt.Errorf("bad init app: %w", err)
	}
	feedWorker := worker.New(feedProcessor, feedSources(cfg.App.Feeds), processInterval, appLogger)

	handler := server.NewHandler(appLogger, newsUseCase, translationUseCase, guard, store, server.Limits{
		DefaultAmount:     cfg.App.DefaultNewsLimit,
		MaxAmount:         cfg.App.MaxNewsLimit,
		RequestsPerSecond: cfg.Server.RateLimitRPS,
		Burst:             cfg.Server.RateLimitBurst,
	})
	return &App{
		config: cfg,
		logger: appLogger,
		server: &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           server.NewServer(appLogger, handler),
			ReadHeaderTimeout: 5 * time.Second,
		},
		worker:    feedWorker,
		storage:   store,
		stopChan:  make(chan os.Signal, 1),
		closeLogs: closeLogs,
	}, nil
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := storage.NewSQLiteStore(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		dbPool, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		if err := migrations.Apply(ctx, log, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		return storage.NewPostgresStore(dbPool, log), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func importCatalog(ctx context.Context, path string, store storage.Storage, log *slog.Logger) error {
	languages, err := catalog.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	count, err := usecase.NewCatalogImportUseCase(store, log).Import(ctx, languages)
	if err != nil {
		return fmt.Errorf("failed to import catalog: %w", err)
	}
	log.Info("Catalog imported", slog.String("component", "app"), slog.Int("count", count))
	return nil
}

func feedSources(feeds []config.FeedSource) []domain.FeedSource {
	sources := make([]domain.FeedSource, 0, len(feeds))
	for _, f := range feeds {
		sources = append(sources, domain.FeedSource{
			Name:     f.Name,
			URL:      f.URL,
			Language: f.Language,
			Theme:    f.Theme,
		})
	}
	return sources
}

// Run запускает воркер и HTTP-сервер и блокируется до сигнала завершения
// или падения сервера.
func (a *App) Run() error {
	a.logger.Info("Starting content service",
		slog.String("component", "app"),
		slog.String("default_language", a.config.App.DefaultLanguage),
		slog.Int("feed_count", len(a.worker.Sources())),
		slog.String("processing_interval", a.worker.Interval().String()),
	)
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.storage.Close()
		a.closeLogs()
		return fmt.Errorf("failed to create listener: %w", err)
	}
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	a.worker.Start()
	serveErr := make(chan error, 1)
	go func() {
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	var runErr error
	select {
	case sig := <-a.stopChan:
		a.logger.Info("Shutdown signal received",
			slog.String("component", "app"),
			slog.String("signal", sig.String()),
		)
	case err, ok := <-serveErr:
		if ok {
			a.logger.Error("HTTP server failed", slog.String("component", "server"), slog.Any("error", err))
			runErr = fmt.Errorf("http server: %w", err)
		}
	}
	if err := a.Shutdown(); err != nil {
		return err
	}
	return runErr
}

// Shutdown останавливает воркер, HTTP-сервер (с таймаутом 10 секунд) и закрывает хранилище.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown", slog.String("component", "app"))
	signal.Stop(a.stopChan)
	a.worker.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var err error
	if err = a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	a.storage.Close()
	a.logger.Info("Application stopped gracefully", slog.String("component", "app"))
	if closeErr := a.closeLogs(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
