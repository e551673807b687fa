package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/helpw/internal/debuglog"
	"github.com/pders01/helpw/internal/helpcenter"
	"github.com/pders01/helpw/internal/widget"
)

func (a *App) loadRelevant(gen uint64) tea.Cmd {
	return func() tea.Msg {
		arts := a.fetcher.Relevant(context.Background())
		return listLoadedMsg{gen: gen, mode: widget.ListRelevant, articles: arts}
	}
}

func (a *App) runSearch(term string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		arts, _ := a.fetcher.Search(context.Background(), term)
		return listLoadedMsg{gen: gen, mode: widget.ListSearch, articles: arts}
	}
}

func (a *App) loadCategories() tea.Cmd {
	return func() tea.Msg {
		return categoriesLoadedMsg{categories: a.fetcher.Categories(context.Background())}
	}
}

func (a *App) loadSections(categoryID int64, gen uint64) tea.Cmd {
	return func() tea.Msg {
		secs := a.fetcher.Sections(context.Background(), categoryID)
		return sectionsLoadedMsg{gen: gen, sections: secs}
	}
}

func (a *App) loadSectionArticles(sectionID int64, gen uint64) tea.Cmd {
	return func() tea.Msg {
		arts := a.fetcher.SectionArticles(context.Background(), sectionID)
		return sectionArticlesLoadedMsg{gen: gen, sectionID: sectionID, articles: arts}
	}
}

// renderDetail converts the article body to markdown and renders it with
// glamour. Bodies are trusted as delivered by the Help Center.
func (a *App) renderDetail(article helpcenter.Article, r *glamour.TermRenderer) tea.Cmd {
	return func() tea.Msg {
		return detailRenderedMsg{articleID: article.ID, content: renderArticle(article, r)}
	}
}

func renderArticle(article helpcenter.Article, r *glamour.TermRenderer) string {
	var doc strings.Builder
	if article.HTMLURL != "" {
		fmt.Fprintf(&doc, "[%s](%s)\n\n", widget.CanonicalLabel, article.HTMLURL)
	}
	fmt.Fprintf(&doc, "# %s\n\n", article.Title)

	body, err := htmltomarkdown.ConvertString(article.Body)
	if err != nil {
		debuglog.WithFields(map[string]any{"article": article.ID}).Warnf("converting body: %v", err)
		body = widget.StripTags(article.Body)
	}
	doc.WriteString(body)

	if r == nil {
		return doc.String()
	}
	rendered, err := r.Render(doc.String())
	if err != nil {
		debuglog.WithFields(map[string]any{"article": article.ID}).Warnf("rendering body: %v", err)
		return doc.String()
	}
	return rendered
}

// showDetailAfter fires the transition once delay has elapsed.
func showDetailAfter(articleID int64, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return detailShownMsg{articleID: articleID} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return detailShownMsg{articleID: articleID}
	})
}

func (a *App) openLink(url string) tea.Cmd {
	return func() tea.Msg {
		if a.opener == nil {
			return linkOpenedMsg{err: fmt.Errorf("no browser configured")}
		}
		return linkOpenedMsg{err: wrapErr("open "+url, a.opener.Open(url))}
	}
}

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
