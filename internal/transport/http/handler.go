package http

import (
	"content/internal/domain"
	"content/internal/usecase"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
)

// negotiateLanguage - значение {lang}, при котором язык берется из Accept-Language.
const negotiateLanguage = "-"

type newsService interface {
	Paginate(ctx context.Context, lang string, page, amount int) (domain.Page, error)
	FilterByTheme(ctx context.Context, lang, theme string) ([]domain.News, error)
}

type translationService interface {
	ResolveOne(ctx context.Context, lang, code string) (string, bool, error)
	ResolveRecord(ctx context.Context, lang, code string) (domain.Translation, bool, error)
	ResolveList(ctx context.Context, lang string, codes []string) ([]domain.Resolved, error)
	ResolveByPrefix(ctx context.Context, lang, prefix string) (map[string]string, error)
	Translations(ctx context.Context, lang string) ([]domain.Translation, error)
	DefaultLanguage() string
}

type languageGuard interface {
	LanguageID(ctx context.Context, code string) (int64, bool, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Limits - ограничения размера страницы новостей и частоты запросов с одного IP.
// Нулевой RequestsPerSecond отключает ограничение частоты.
type Limits struct {
	DefaultAmount     int
	MaxAmount         int
	RequestsPerSecond float64
	Burst             int
}

type Handler struct {
	log          *slog.Logger
	news         newsService
	translations translationService
	languages    languageGuard
	db           pinger
	limits       Limits
}

func NewHandler(
	log *slog.Logger,
	news newsService,
	translations translationService,
	languages languageGuard,
	db pinger,
	limits Limits,
) *Handler {
	return &Handler{
		log:          log,
		news:         news,
		translations: translations,
		languages:    languages,
		db:           db,
		limits:       limits,
	}
}

type lookupRequest struct {
	Codes []string `json:"codes"`
}

type translationResponse struct {
	Code   string `json:"code"`
	Result string `json:"result"`
}

// getNewsPage - хендлер для GET /api/languages/{lang}/news?page=&amount=
func (h *Handler) getNewsPage(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "transport.http/getNewsPage")
	page, ok := h.intParam(w, r, log, "page", 1)
	if !ok {
		return
	}
	amount, ok := h.intParam(w, r, log, "amount", h.limits.DefaultAmount)
	if !ok {
		return
	}
	if amount > h.limits.MaxAmount {
		log.Warn("amount exceeds limit", slog.Int("amount", amount))
		respondWithError(w, http.StatusBadRequest, "'amount' must not exceed "+strconv.Itoa(h.limits.MaxAmount))
		return
	}
	lang, ok := h.requestLanguage(w, r, log)
	if !ok {
		return
	}
	result, err := h.news.Paginate(r.Context(), lang, page, amount)
	if err != nil {
		h.respondWithFailure(w, log, "Failed to get news page", err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// getNewsByTheme - хендлер для GET /api/languages/{lang}/news/themes/{theme}
func (h *Handler) getNewsByTheme(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "transport.http/getNewsByTheme")
	lang, ok := h.requestLanguage(w, r, log)
	if !ok {
		return
	}
	news, err := h.news.FilterByTheme(r.Context(), lang, chi.URLParam(r, "theme"))
	if err != nil {
		h.respondWithFailure(w, log, "Failed to get news by theme", err)
		return
	}
	respondWithJSON(w, http.StatusOK, news)
}

// getTranslations - хендлер для GET /api/languages/{lang}/translations[?prefix=]
func (h *Handler) getTranslations(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "transport.http/getTranslations")
	lang, ok := h.requestLanguage(w, r, log)
	if !ok {
		return
	}
	if r.URL.Query().Has("prefix") {
		res, err := h.translations.ResolveByPrefix(r.Context(), lang, r.URL.Query().Get("prefix"))
		if err != nil {
			h.respondWithFailure(w, log, "Failed to get translations by prefix", err)
			return
		}
		respondWithJSON(w, http.StatusOK, res)
		return
	}
	res, err := h.translations.Translations(r.Context(), lang)
	if err != nil {
		h.respondWithFailure(w, log, "Failed to get translations", err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// lookupTranslations - хендлер для POST /api/languages/{lang}/translations/lookup
func (h *Handler) lookupTranslations(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "transport.http/lookupTranslations")
	var req lookupRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := decoder.Decode(&req); err != nil {
		log.Warn("invalid request body", slog.Any("error", err))
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	lang, ok := h.requestLanguage(w, r, log)
	if !ok {
		return
	}
	res, err := h.translations.ResolveList(r.Context(), lang, req.Codes)
	if err != nil {
		h.respondWithFailure(w, log, "Failed to resolve translations", err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// getTranslation - хендлер для GET /api/languages/{lang}/translations/{code}
func (h *Handler) getTranslation(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "transport.http/getTranslation")
	lang, ok := h.requestLanguage(w, r, log)
	if !ok {
		return
	}
	code := chi.URLParam(r, "code")
	result, found, err := h.translations.ResolveOne(r.Context(), lang, code)
	if err != nil {
		h.respondWithFailure(w, log, "Failed to get translation", err)
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "Translation not found")
		return
	}
	respondWithJSON(w, http.StatusOK, translationResponse{Code: code, Result: result})
}

// getTranslationRecord - хендлер для GET /api/languages/{lang}/translations/{code}/record
func (h *Handler) getTranslationRecord(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "transport.http/getTranslationRecord")
	lang, ok := h.requestLanguage(w, r, log)
	if !ok {
		return
	}
	record, found, err := h.translations.ResolveRecord(r.Context(), lang, chi.URLParam(r, "code"))
	if err != nil {
		h.respondWithFailure(w, log, "Failed to get translation record", err)
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "Translation not found")
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// healthCheck - хендлер для проверки состояния сервиса и доступности хранилища
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.requestLog(r, "transport.http/healthCheck").Error("Storage is unavailable", slog.Any("error", err))
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// language возвращает код языка из пути. Для "-" язык выбирается по
// Accept-Language: для каждого тега в порядке предпочтения проверяются сам тег
// и его родители (pt-BR, затем pt), берется первый известный хранилищу язык.
// Если подходящего нет, используется язык по умолчанию.
func (h *Handler) language(r *http.Request) (string, error) {
	lang := chi.URLParam(r, "lang")
	if lang != negotiateLanguage {
		return lang, nil
	}
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if accept == "" {
		return h.translations.DefaultLanguage(), nil
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil {
		return h.translations.DefaultLanguage(), nil
	}
	tried := make(map[string]bool)
	for _, tag := range tags {
		for _, code := range candidates(tag) {
			if tried[code] {
				continue
			}
			tried[code] = true
			_, found, err := h.languages.LanguageID(r.Context(), code)
			if err != nil {
				return "", err
			}
			if found {
				return code, nil
			}
		}
	}
	return h.translations.DefaultLanguage(), nil
}

var multipleLanguages = language.MustParseBase("mul")

// candidates возвращает тег и его родителей от самого точного к базовому языку.
// "*" и "und" кандидатов не дают.
func candidates(tag language.Tag) []string {
	if base, conf := tag.Base(); tag.IsRoot() || base == multipleLanguages || conf == language.No {
		return nil
	}
	var codes []string
	for t := tag; !t.IsRoot(); t = t.Parent() {
		codes = append(codes, t.String())
	}
	base, _ := tag.Base()
	return append(codes, base.String())
}

func (h *Handler) requestLanguage(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	lang, err := h.language(r)
	if err != nil {
		h.respondWithFailure(w, log, "Failed to negotiate language", err)
		return "", false
	}
	return lang, true
}

func (h *Handler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)
}

func (h *Handler) intParam(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("invalid query parameter", slog.String(name, raw))
		respondWithError(w, http.StatusBadRequest, "Invalid '"+name+"' parameter")
		return 0, false
	}
	return n, true
}

func (h *Handler) respondWithFailure(w http.ResponseWriter, log *slog.Logger, msg string, err error) {
	if errors.Is(err, usecase.ErrInvalidArgument) {
		log.Warn(msg, slog.Any("error", err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Error(msg, slog.Any("error", err))
	respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
}

// Вспомогательные функции для ответов
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
