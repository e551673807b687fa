package search

import "github.com/pders01/helpw/internal/helpcenter"

// Searcher queries articles the app has already seen.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// UpdateListener is notified about every batch of articles fetched from the API.
type UpdateListener interface {
	OnArticles(articles []helpcenter.Article)
}

// Result is a scored hit.
type Result struct {
	Article helpcenter.Article
	Score   float64
}
