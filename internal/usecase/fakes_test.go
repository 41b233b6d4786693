package usecase

import (
	"content/internal/domain"
	"context"
	"io"
	"log/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore - хранилище в памяти с подсчетом обращений.
type fakeStore struct {
	languages map[string]*domain.Language
	news      []domain.News
	err       error
	finds     map[string]int
	saved     []domain.News
}

func newFakeStore(languages ...domain.Language) *fakeStore {
	s := &fakeStore{
		languages: make(map[string]*domain.Language),
		finds:     make(map[string]int),
	}
	for i := range languages {
		lang := languages[i]
		if lang.ID == 0 {
			lang.ID = int64(i + 1)
		}
		s.languages[lang.Code] = &lang
	}
	return s
}

func (s *fakeStore) GetLanguageID(ctx context.Context, code string) (int64, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	lang, ok := s.languages[code]
	if !ok {
		return 0, false, nil
	}
	return lang.ID, true, nil
}

func (s *fakeStore) FindLanguageByCode(ctx context.Context, code string) (*domain.Language, bool, error) {
	s.finds[code]++
	if s.err != nil {
		return nil, false, s.err
	}
	lang, ok := s.languages[code]
	return lang, ok, nil
}

func (s *fakeStore) SaveLanguage(ctx context.Context, lang *domain.Language) error {
	if s.err != nil {
		return s.err
	}
	if existing, ok := s.languages[lang.Code]; ok {
		lang.ID = existing.ID
	} else {
		lang.ID = int64(len(s.languages) + 1)
	}
	stored := *lang
	s.languages[lang.Code] = &stored
	return nil
}

func (s *fakeStore) FindNewsByLanguage(ctx context.Context, languageID int64) ([]domain.News, error) {
	if s.err != nil {
		return nil, s.err
	}
	var res []domain.News
	for _, n := range s.news {
		if n.LanguageID == languageID {
			res = append(res, n)
		}
	}
	return res, nil
}

func (s *fakeStore) FindNewsByThemeAndLanguage(ctx context.Context, theme string, languageID int64) ([]domain.News, error) {
	if s.err != nil {
		return nil, s.err
	}
	var res []domain.News
	for _, n := range s.news {
		if n.LanguageID == languageID && n.Theme == theme {
			res = append(res, n)
		}
	}
	return res, nil
}

func (s *fakeStore) SaveNews(ctx context.Context, news []domain.News) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.saved = append(s.saved, news...)
	return len(news), nil
}
