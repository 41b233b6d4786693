package storage

import (
	"content/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS languages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	translations TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS news (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	language_id INTEGER NOT NULL REFERENCES languages(id),
	theme TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	link TEXT NOT NULL UNIQUE,
	pub_date INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS news_language_theme_idx ON news (language_id, theme);
`

type languageRow struct {
	ID           int64  `db:"id"`
	Code         string `db:"code"`
	Translations string `db:"translations"`
}

type newsRow struct {
	ID         int64  `db:"id"`
	LanguageID int64  `db:"language_id"`
	Theme      string `db:"theme"`
	Title      string `db:"title"`
	Content    string `db:"content"`
	Link       string `db:"link"`
	PubDate    int64  `db:"pub_date"`
}

func (r newsRow) toDomain() domain.News {
	return domain.News{
		ID:          r.ID,
		LanguageID:  r.LanguageID,
		Theme:       r.Theme,
		Title:       r.Title,
		Content:     r.Content,
		Link:        r.Link,
		PublishedAt: time.Unix(0, r.PubDate).UTC(),
	}
}

// SQLiteStore - встраиваемое хранилище на SQLite для локального запуска и тестов.
// Переводы хранятся JSON-строкой, время публикации - в наносекундах Unix.
type SQLiteStore struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewSQLiteStore открывает базу по пути path (":memory:" для базы в памяти)
// и создает схему, если ее еще нет.
func NewSQLiteStore(ctx context.Context, path string, log *slog.Logger) (*SQLiteStore, error) {
	log.Info("Initializing SQLite storage", slog.String("path", path))
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// База в памяти существует только в рамках одного соединения.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &SQLiteStore{
		db:  db,
		log: log.With(slog.String("component", "storage")),
	}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	s.log.Info("Closing sqlite database")
	if err := s.db.Close(); err != nil {
		s.log.Error("Failed to close sqlite database", slog.Any("error", err))
	}
}

func (s *SQLiteStore) GetLanguageID(ctx context.Context, code string) (int64, bool, error) {
	const op = "storage.sqlite.GetLanguageID"
	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM languages WHERE code = ?`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	return id, true, nil
}

func (s *SQLiteStore) FindLanguageByCode(ctx context.Context, code string) (*domain.Language, bool, error) {
	const op = "storage.sqlite.FindLanguageByCode"
	var row languageRow
	err := s.db.GetContext(ctx, &row, `SELECT id, code, translations FROM languages WHERE code = ?`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	lang := &domain.Language{ID: row.ID, Code: row.Code}
	if err := json.Unmarshal([]byte(row.Translations), &lang.Translations); err != nil {
		return nil, false, fmt.Errorf("%s: failed to decode translations of %q: %w", op, code, err)
	}
	return lang, true, nil
}

func (s *SQLiteStore) SaveLanguage(ctx context.Context, lang *domain.Language) error {
	const op = "storage.sqlite.SaveLanguage"
	translations := lang.Translations
	if translations == nil {
		translations = []domain.Translation{}
	}
	data, err := json.Marshal(translations)
	if err != nil {
		return fmt.Errorf("%s: failed to encode translations: %w", op, err)
	}
	query := `
	INSERT INTO languages (code, translations) VALUES (?, ?)
	ON CONFLICT (code) DO UPDATE SET translations = excluded.translations
	RETURNING id
	`
	if err := s.db.GetContext(ctx, &lang.ID, query, lang.Code, string(data)); err != nil {
		s.log.Error("Failed to save language", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to upsert language %q: %w", op, lang.Code, err)
	}
	return nil
}

func (s *SQLiteStore) FindNewsByLanguage(ctx context.Context, languageID int64) ([]domain.News, error) {
	query := `
	SELECT id, language_id, theme, title, content, link, pub_date
	FROM news WHERE language_id = ?
	ORDER BY pub_date DESC, id DESC
	`
	return s.selectNews(ctx, "storage.sqlite.FindNewsByLanguage", query, languageID)
}

func (s *SQLiteStore) FindNewsByThemeAndLanguage(ctx context.Context, theme string, languageID int64) ([]domain.News, error) {
	query := `
	SELECT id, language_id, theme, title, content, link, pub_date
	FROM news WHERE theme = ? AND language_id = ?
	ORDER BY pub_date DESC, id DESC
	`
	return s.selectNews(ctx, "storage.sqlite.FindNewsByThemeAndLanguage", query, theme, languageID)
}

func (s *SQLiteStore) selectNews(ctx context.Context, op, query string, args ...any) ([]domain.News, error) {
	var rows []newsRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.log.Error("Database query failed", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	news := make([]domain.News, 0, len(rows))
	for _, r := range rows {
		news = append(news, r.toDomain())
	}
	return news, nil
}

func (s *SQLiteStore) SaveNews(ctx context.Context, news []domain.News) (int, error) {
	const op = "storage.sqlite.SaveNews"
	if len(news) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()
	query := `
	INSERT INTO news (language_id, theme, title, content, link, pub_date)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (link) DO NOTHING
	`
	saved := 0
	for _, n := range news {
		res, err := tx.ExecContext(ctx, query,
			n.LanguageID, n.Theme, n.Title, n.Content, n.Link, n.PublishedAt.UnixNano())
		if err != nil {
			s.log.Error("Failed to insert news", slog.String("op", op), slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to insert news %s: %w", op, n.Link, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: failed to read affected rows: %w", op, err)
		}
		saved += int(affected)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return saved, nil
}
