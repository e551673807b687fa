package widget

import "github.com/pders01/helpw/internal/helpcenter"

// ViewState names what the widget is showing.
type ViewState int

const (
	RelevantList ViewState = iota
	SearchResults
	CategoryList
	SectionList
	ArticleDetail
)

func (v ViewState) String() string {
	switch v {
	case RelevantList:
		return "RelevantList"
	case SearchResults:
		return "SearchResults"
	case CategoryList:
		return "CategoryList"
	case SectionList:
		return "SectionList"
	case ArticleDetail:
		return "ArticleDetail"
	default:
		return "Unknown"
	}
}

// Region is one of the fixed display areas the renderer draws.
type Region int

const (
	RegionList Region = iota
	RegionDetail
	RegionBackLink
	RegionRelevantTitle
	RegionCategoryTitle
	RegionCategories
	RegionSections
)

type ListMode int

const (
	ListRelevant ListMode = iota
	ListSearch
)

type Browser int

const (
	BrowseCategories Browser = iota
	BrowseSections
)

const (
	RelevantHeading = "Relevant articles"
	SearchHeading   = "Search results"
	CategoryHeading = "Browse by category"
	BreadcrumbLabel = "← All categories"
	CanonicalLabel  = "See this article in the Help Center"
)

// State is the complete navigation state. It is a value: Reduce returns a
// new State and never mutates its input.
type State struct {
	// Detail is true while a single article fills the primary view.
	Detail  bool
	Article *helpcenter.Article
	// Shown flips once the detail transition delay has elapsed.
	Shown bool

	ListMode ListMode
	Articles []helpcenter.Article

	Browser    Browser
	Categories []helpcenter.Category
	Category   helpcenter.Category
	Accordion  Accordion

	ListGen    uint64
	BrowseGen  uint64
	StaleGuard bool
}

func NewState(staleGuard bool) State {
	return State{StaleGuard: staleGuard}
}

// View reports the primary view.
func (s State) View() ViewState {
	switch {
	case s.Detail:
		return ArticleDetail
	case s.ListMode == ListSearch:
		return SearchResults
	default:
		return RelevantList
	}
}

// BrowserView reports the secondary view, which stays remembered while the
// detail view is open.
func (s State) BrowserView() ViewState {
	if s.Browser == BrowseSections {
		return SectionList
	}
	return CategoryList
}

// Visible reports whether a region is displayed in this state.
func (s State) Visible(r Region) bool {
	switch r {
	case RegionList, RegionRelevantTitle, RegionCategoryTitle:
		return !s.Detail
	case RegionDetail, RegionBackLink:
		return s.Detail
	case RegionCategories:
		return !s.Detail && s.Browser == BrowseCategories
	case RegionSections:
		return !s.Detail && s.Browser == BrowseSections
	default:
		return false
	}
}

// ListHeading is the title above the primary article list.
func (s State) ListHeading() string {
	if s.ListMode == ListSearch {
		return SearchHeading
	}
	return RelevantHeading
}

// ListCurrent reports whether a list response carrying gen would be applied.
func (s State) ListCurrent(gen uint64) bool {
	return !s.stale(gen, s.ListGen)
}

// BrowseCurrent reports whether a section-browser response carrying gen would
// be applied.
func (s State) BrowseCurrent(gen uint64) bool {
	return s.Browser == BrowseSections && !s.stale(gen, s.BrowseGen)
}
