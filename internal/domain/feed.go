package domain

import "time"

// Item представляет отдельную запись RSS-ленты до привязки к языку.
type Item struct {
	Title       string
	Link        string
	Description string
	Category    string
	PubDate     time.Time
}

// Feed представляет полную RSS-ленту с метаданными и списком записей.
type Feed struct {
	Title       string
	Link        string
	Description string
	Items       []Item
}

// FeedSource описывает настроенный источник новостей: RSS-ленту,
// язык, к которому относятся ее записи, и тему по умолчанию.
type FeedSource struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Language string `json:"language"`
	Theme    string `json:"theme"`
}
