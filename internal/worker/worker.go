package worker

import (
	"content/internal/domain"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const feedTimeout = 30 * time.Second

// FeedProcessor определяет интерфейс для обработки отдельного источника новостей.
type FeedProcessor interface {
	ProcessFeed(ctx context.Context, src domain.FeedSource) error
}

// Worker периодически загружает все настроенные источники новостей.
type Worker struct {
	processor FeedProcessor
	sources   []domain.FeedSource
	interval  time.Duration
	log       *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// New создает воркер для обработки источников с заданным интервалом.
func New(processor FeedProcessor, sources []domain.FeedSource, interval time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		processor: processor,
		sources:   sources,
		interval:  interval,
		log:       log.With(slog.String("component", "worker")),
	}
}

// Start запускает воркер в отдельной горутине. Первый цикл выполняется сразу.
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx)
}

// Stop отменяет контекст воркера и ждет завершения текущего цикла.
func (w *Worker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	w.log.Info("Feed processing worker started",
		slog.String("interval", w.interval.String()),
		slog.Int("feed_count", len(w.sources)),
	)
	if len(w.sources) == 0 {
		w.log.Info("No feeds configured, worker idle")
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			w.RunOnce(ctx)
		case <-ctx.Done():
			w.log.Info("Worker stopping")
			return
		}
	}
}

// RunOnce обрабатывает все источники параллельно и возвращает число неудач.
func (w *Worker) RunOnce(ctx context.Context) int {
	start := time.Now()
	w.log.Info("Feed processing cycle started", slog.Int("feed_to_process", len(w.sources)))
	var wg sync.WaitGroup
	var successCount, errorCount atomic.Int64
	for _, src := range w.sources {
		wg.Add(1)
		go func(src domain.FeedSource) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			opCtx, opCancel := context.WithTimeout(ctx, feedTimeout)
			defer opCancel()
			if err := w.processor.ProcessFeed(opCtx, src); err != nil {
				errorCount.Add(1)
				w.log.Error("Feed processing failed",
					slog.String("url", src.URL),
					slog.Any("error", err),
				)
				return
			}
			successCount.Add(1)
		}(src)
	}
	wg.Wait()
	w.log.Info("Feed processing cycle completed",
		slog.Int("successful", int(successCount.Load())),
		slog.Int("errors", int(errorCount.Load())),
		slog.Int("total", len(w.sources)),
		slog.Duration("duration", time.Since(start)),
	)
	return int(errorCount.Load())
}

// Sources возвращает список обрабатываемых источников.
func (w *Worker) Sources() []domain.FeedSource { return w.sources }

// Interval возвращает интервал обработки.
func (w *Worker) Interval() time.Duration { return w.interval }
