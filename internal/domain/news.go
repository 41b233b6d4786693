package domain

import (
	"sort"
	"time"
)

// News - новость, привязанная к языку по идентификатору.
type News struct {
	ID          int64     `json:"id"`
	LanguageID  int64     `json:"language_id"`
	Theme       string    `json:"theme"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// Page - страница новостей и общее количество новостей языка.
type Page struct {
	Data   []News `json:"data"`
	Amount int    `json:"amount"`
}

// SortNewest упорядочивает новости от новых к старым.
// При равном времени публикации выше идет запись с большим ID.
func SortNewest(news []News) {
	sort.SliceStable(news, func(i, j int) bool {
		if !news[i].PublishedAt.Equal(news[j].PublishedAt) {
			return news[i].PublishedAt.After(news[j].PublishedAt)
		}
		return news[i].ID > news[j].ID
	})
}
