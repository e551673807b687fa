package tui

import (
	"github.com/pders01/helpw/internal/helpcenter"
	"github.com/pders01/helpw/internal/widget"
)

// Focus is the pane that receives navigation keys.
type Focus int

const (
	FocusList Focus = iota
	FocusBrowser
	FocusSearch
)

type listLoadedMsg struct {
	gen      uint64
	mode     widget.ListMode
	articles []helpcenter.Article
}

type categoriesLoadedMsg struct {
	categories []helpcenter.Category
}

type sectionsLoadedMsg struct {
	gen      uint64
	sections []helpcenter.Section
}

type sectionArticlesLoadedMsg struct {
	gen       uint64
	sectionID int64
	articles  []helpcenter.Article
}

type detailRenderedMsg struct {
	articleID int64
	content   string
}

type detailShownMsg struct {
	articleID int64
}

type linkOpenedMsg struct {
	err error
}

// rowKind tags a line of the browser pane.
type rowKind int

const (
	rowCategory rowKind = iota
	rowBreadcrumb
	rowSection
	rowArticle
)

type browserRow struct {
	kind      rowKind
	category  helpcenter.Category
	sectionID int64
	article   helpcenter.Article
}
