package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/helpw/internal/helpcenter"
	"github.com/pders01/helpw/internal/widget"
)

// Lines taken by everything except the detail viewport.
const detailChrome = 9

// Side-by-side panes need at least this many columns.
const splitWidth = 100

func (a *App) render() string {
	width := a.width
	if width <= 0 {
		width = 80
	}

	var body string
	if a.state.Visible(widget.RegionDetail) {
		body = a.renderDetailPane(width)
	} else if width >= splitWidth {
		half := width/2 - 1
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(half).MarginRight(2).Render(a.renderListPane(half)),
			lipgloss.NewStyle().Width(half).Render(a.renderBrowserPane(half)),
		)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			a.renderListPane(width),
			"",
			a.renderBrowserPane(width),
		)
	}

	separator := SeparatorStyle.Render(strings.Repeat("─", max(width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderSearchBar(width),
		"",
		body,
		separator,
		a.renderStatusBar(width),
	)
}

func (a *App) renderSearchBar(width int) string {
	return renderInputFrame(a.searchInput.View(), a.focus == FocusSearch, max(width-8, 10))
}

func (a *App) renderListPane(width int) string {
	heading := a.state.ListHeading()
	rows := []string{renderHeading(heading, a.focus == FocusList)}

	if len(a.state.Articles) == 0 {
		rows = append(rows, renderMuted(MsgNoArticles))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	for i, art := range a.state.Articles {
		rows = append(rows, a.renderArticleItem(art, a.focus == FocusList && i == a.listCursor, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderArticleItem(art helpcenter.Article, selected bool, width int) string {
	title := truncateEnd(art.Title, width-2)
	if selected {
		title = SelectedItemStyle.Render(title)
	} else {
		title = ItemTitleStyle.Render(title)
	}
	snippet := SnippetStyle.Width(max(width-2, 10)).Render(a.fetcher.Snippet(art.Body))
	return lipgloss.JoinVertical(lipgloss.Left, title, snippet, "")
}

func (a *App) renderBrowserPane(width int) string {
	focused := a.focus == FocusBrowser
	rows := []string{renderHeading(widget.CategoryHeading, focused)}
	items := a.browserRows()

	if a.state.Visible(widget.RegionCategories) && len(items) == 0 {
		rows = append(rows, renderMuted(MsgNoCategories))
	}

	for i, row := range items {
		selected := focused && i == a.browserCursor
		rows = append(rows, a.renderBrowserRow(row, selected, width))
	}

	if a.state.Visible(widget.RegionSections) && len(a.state.Accordion.Panels) == 0 {
		rows = append(rows, renderMuted(MsgNoSections))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderBrowserRow(row browserRow, selected bool, width int) string {
	pick := func(s lipgloss.Style) lipgloss.Style {
		if selected {
			return SelectedItemStyle
		}
		return s
	}

	switch row.kind {
	case rowCategory:
		name := pick(ItemTitleStyle).Render(truncateEnd(row.category.Name, width-4) + " ›")
		if row.category.Description == "" {
			return name
		}
		return lipgloss.JoinVertical(lipgloss.Left, name,
			SnippetStyle.Render(truncateEnd(row.category.Description, width-2)))

	case rowBreadcrumb:
		return lipgloss.JoinVertical(lipgloss.Left,
			pick(LinkStyle).Render(widget.BreadcrumbLabel),
			HeaderStyle.Render(truncateEnd(a.state.Category.Name, width-2)),
		)

	case rowSection:
		panel, _ := a.state.Accordion.Panel(row.sectionID)
		marker := "▸ "
		if a.state.Accordion.IsExpanded(row.sectionID) {
			marker = "▾ "
		}
		line := pick(ItemTitleStyle).Render(marker + truncateEnd(panel.Section.Name, width-4))
		if a.state.Accordion.IsExpanded(row.sectionID) && panel.Loaded && len(panel.Articles) == 0 {
			line = lipgloss.JoinVertical(lipgloss.Left, line, "    "+renderMuted(MsgNoArticles))
		}
		return line

	case rowArticle:
		title := pick(LinkStyle).Render(truncateEnd(row.article.Title, width-6))
		snippet := SnippetStyle.Width(max(width-6, 10)).Render(a.fetcher.Snippet(row.article.Body))
		return lipgloss.NewStyle().PaddingLeft(4).Render(lipgloss.JoinVertical(lipgloss.Left, title, snippet))
	}
	return ""
}

func (a *App) renderDetailPane(width int) string {
	art := a.state.Article
	if art == nil {
		return ""
	}

	back := LinkStyle.Render("← Back to list")
	link := renderMuted(widget.CanonicalLabel + ": " + truncateMiddle(art.HTMLURL, max(width-len(widget.CanonicalLabel)-4, 10)))

	content := a.viewport.View()
	if !a.state.Shown {
		content = lipgloss.NewStyle().Faint(true).Render(content)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		back,
		link,
		"",
		renderHeader(art.Title, "", width),
		content,
	)
}

func (a *App) renderStatusBar(width int) string {
	var line string
	switch {
	case a.pending > 0:
		line = a.spinner.View() + " " + renderMuted(MsgLoading)
	case a.status.active(timeNow()):
		line = a.status.render()
	}

	keys := a.help.View(contextKeyMap{keys: a.keys, detail: a.state.Detail})
	if line == "" {
		return StatusBarStyle.Width(width).Render(keys)
	}
	return StatusBarStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, line, keys))
}

func renderHeading(text string, focused bool) string {
	if focused {
		return HeadingStyle.Render("› " + text)
	}
	return HeadingStyle.Render(text)
}

// renderHeader returns a consistently styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}
