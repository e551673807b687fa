package widget

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pders01/helpw/internal/helpcenter"
)

const (
	DefaultMaxResults     = 3
	DefaultSnippetLength  = 280
	DefaultMinQueryLength = 3
	DefaultFallbackTerm   = "getting started"

	// Ellipsis follows every snippet, truncated or not.
	Ellipsis = "..."
)

// SearchTermFromPath returns the last non-empty segment of a URL path, or
// fallback when there is none. Full URLs are accepted as well.
func SearchTermFromPath(path, fallback string) string {
	if u, err := url.Parse(path); err == nil && (u.Scheme != "" || u.Host != "") {
		path = u.Path
	}
	parts := strings.Split(path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return fallback
}

// NormalizeQuery trims term and reports whether it is long enough to search.
func NormalizeQuery(term string, minLen int) (string, bool) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < minLen {
		return term, false
	}
	return term, true
}

// Limit keeps the first n articles in their original order.
func Limit(articles []helpcenter.Article, n int) []helpcenter.Article {
	if n >= 0 && len(articles) > n {
		articles = articles[:n]
	}
	out := make([]helpcenter.Article, len(articles))
	copy(out, articles)
	return out
}

// StripTags returns the text content of an HTML fragment with entities
// decoded and whitespace runs collapsed. Script and style contents are dropped.
func StripTags(body string) string {
	if body == "" {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(body))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawText(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	a := atom.Lookup(name)
	return a == atom.Script || a == atom.Style
}

// Snippet strips tags from body, keeps at most n characters and appends Ellipsis.
func Snippet(body string, n int) string {
	text := []rune(StripTags(body))
	if n >= 0 && len(text) > n {
		text = text[:n]
	}
	return string(text) + Ellipsis
}
