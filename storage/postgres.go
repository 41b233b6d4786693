package storage

import (
	"content/internal/domain"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore хранит языки (переводы - колонка jsonb) и новости в PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, log *slog.Logger) *PostgresStore {
	log.Info("Initializing Postgres storage")
	return &PostgresStore{
		pool: pool,
		log:  log.With(slog.String("component", "storage")),
	}
}

func (db *PostgresStore) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *PostgresStore) Close() {
	db.log.Info("Closing database connection pool")
	db.pool.Close()
}

func (db *PostgresStore) GetLanguageID(ctx context.Context, code string) (int64, bool, error) {
	const op = "storage.postgres.GetLanguageID"
	var id int64
	err := db.pool.QueryRow(ctx, `SELECT id FROM languages WHERE code = $1;`, code).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		db.log.Error("Database query failed", slog.String("op", op), slog.Any("error", err))
		return 0, false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	return id, true, nil
}

func (db *PostgresStore) FindLanguageByCode(ctx context.Context, code string) (*domain.Language, bool, error) {
	const op = "storage.postgres.FindLanguageByCode"
	lang := &domain.Language{}
	err := db.pool.QueryRow(ctx,
		`SELECT id, code, translations FROM languages WHERE code = $1;`, code,
	).Scan(&lang.ID, &lang.Code, &lang.Translations)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		db.log.Error("Database query failed", slog.String("op", op), slog.Any("error", err))
		return nil, false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	return lang, true, nil
}

// SaveLanguage создает язык или целиком заменяет набор переводов языка с тем же кодом.
func (db *PostgresStore) SaveLanguage(ctx context.Context, lang *domain.Language) error {
	const op = "storage.postgres.SaveLanguage"
	translations := lang.Translations
	if translations == nil {
		translations = []domain.Translation{}
	}
	query := `
	INSERT INTO languages (code, translations)
	VALUES ($1, $2)
	ON CONFLICT (code) DO UPDATE SET translations = EXCLUDED.translations
	RETURNING id;
	`
	if err := db.pool.QueryRow(ctx, query, lang.Code, translations).Scan(&lang.ID); err != nil {
		db.log.Error("Failed to save language", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to upsert language %q: %w", op, lang.Code, err)
	}
	return nil
}

func (db *PostgresStore) FindNewsByLanguage(ctx context.Context, languageID int64) ([]domain.News, error) {
	query := `
	SELECT id, language_id, theme, title, content, link, pub_date
	FROM news
	WHERE language_id = $1
	ORDER BY pub_date DESC, id DESC;
	`
	return db.queryNews(ctx, "storage.postgres.FindNewsByLanguage", query, languageID)
}

func (db *PostgresStore) FindNewsByThemeAndLanguage(ctx context.Context, theme string, languageID int64) ([]domain.News, error) {
	query := `
	SELECT id, language_id, theme, title, content, link, pub_date
	FROM news
	WHERE theme = $1 AND language_id = $2
	ORDER BY pub_date DESC, id DESC;
	`
	return db.queryNews(ctx, "storage.postgres.FindNewsByThemeAndLanguage", query, theme, languageID)
}

func (db *PostgresStore) queryNews(ctx context.Context, op, query string, args ...any) ([]domain.News, error) {
	log := db.log.With(slog.String("op", op))
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error("Database query failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()
	news, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.News, error) {
		var n domain.News
		err := row.Scan(
			&n.ID,
			&n.LanguageID,
			&n.Theme,
			&n.Title,
			&n.Content,
			&n.Link,
			&n.PublishedAt,
		)
		return n, err
	})
	if err != nil {
		log.Error("Failed to collect rows", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
	}
	log.Debug("Retrieved news", slog.Int("count", len(news)))
	return news, nil
}

// SaveNews сохраняет новости одним батчем в транзакции.
// Новости с уже известной ссылкой пропускаются; возвращается число вставленных строк.
func (db *PostgresStore) SaveNews(ctx context.Context, news []domain.News) (saved int, err error) {
	const op = "storage.postgres.SaveNews"
	if len(news) == 0 {
		return 0, nil
	}
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		db.log.Error("Failed to begin transaction", slog.String("op", op), slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(context.Background()); rollbackErr != nil {
				db.log.Error("Failed to rollback transaction", slog.Any("error", rollbackErr))
			}
		}
	}()
	batch := &pgx.Batch{}
	query := `
	INSERT INTO news (language_id, theme, title, content, pub_date, link)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (link) DO NOTHING;
	`
	for _, n := range news {
		batch.Queue(query, n.LanguageID, n.Theme, n.Title, n.Content, n.PublishedAt, n.Link)
	}
	results := tx.SendBatch(ctx, batch)
	for range news {
		tag, execErr := results.Exec()
		if execErr != nil {
			results.Close()
			err = execErr
			db.log.Error("Failed to execute batch", slog.String("op", op), slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to execute batch: %w", op, err)
		}
		saved += int(tag.RowsAffected())
	}
	if err = results.Close(); err != nil {
		db.log.Error("Failed to close batch", slog.String("op", op), slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to close batch: %w", op, err)
	}
	if err = tx.Commit(ctx); err != nil {
		db.log.Error("Failed to commit transaction", slog.String("op", op), slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return saved, nil
}
