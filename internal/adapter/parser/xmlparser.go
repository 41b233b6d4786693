package parser

import (
	"content/internal/domain"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

type rssXML struct {
	Channel channelXML `xml:"channel"`
}
type channelXML struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []itemXML `xml:"item"`
}
type itemXML struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate"`
}

// XMLParser разбирает RSS 2.0 в доменную ленту.
// HTML-разметка в заголовках и описаниях записей удаляется.
type XMLParser struct {
	log    *slog.Logger
	policy *bluemonday.Policy
}

func NewXMLParser(log *slog.Logger) *XMLParser {
	return &XMLParser{
		log:    log.With(slog.String("component", "rss-parser")),
		policy: bluemonday.StrictPolicy(),
	}
}

// plainText удаляет теги и возвращает текст без HTML-сущностей.
func (p *XMLParser) plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(p.policy.Sanitize(s)))
}

// Parse реализует метод интерфейса FeedParser.
// Записи без ссылки или с нераспознанной датой пропускаются.
func (p *XMLParser) Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rss rssXML
	decoder := xml.NewDecoder(reader)
	if err := decoder.Decode(&rss); err != nil {
		p.log.Error("Error decoding XML", slog.Any("error", err))
		return nil, fmt.Errorf("failed to decode XML: %w", err)
	}
	feed := domain.Feed{
		Title:       strings.TrimSpace(rss.Channel.Title),
		Link:        strings.TrimSpace(rss.Channel.Link),
		Description: strings.TrimSpace(rss.Channel.Description),
		Items:       make([]domain.Item, 0, len(rss.Channel.Items)),
	}
	for _, itemDTO := range rss.Channel.Items {
		link := strings.TrimSpace(itemDTO.Link)
		if link == "" {
			link = strings.TrimSpace(itemDTO.GUID)
		}
		if link == "" {
			p.log.Warn("item has no link, skipping item", slog.String("item_title", itemDTO.Title))
			continue
		}
		pubDate, err := parsePubDate(itemDTO.PubDate)
		if err != nil {
			p.log.Warn(
				"could not parse item pubDate, skipping item",
				slog.String("pubDate", itemDTO.PubDate),
				slog.String("item_title", itemDTO.Title),
				slog.Any("error", err),
			)
			continue
		}
		feed.Items = append(feed.Items, domain.Item{
			Title:       p.plainText(itemDTO.Title),
			Link:        link,
			Description: p.plainText(itemDTO.Description),
			Category:    firstCategory(itemDTO.Categories),
			PubDate:     pubDate,
		})
	}
	return &feed, nil
}

func firstCategory(categories []string) string {
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// parsePubDate - вспомогательная функция для парсинга даты в разных форматах.
func parsePubDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC822Z,
		time.RFC822,
		time.RFC3339,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, strings.TrimSpace(dateStr)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date in any known format: %q", dateStr)
}
