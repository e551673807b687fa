package widget

import "github.com/pders01/helpw/internal/helpcenter"

// Event is anything that moves the widget from one State to the next.
type Event interface{ event() }

// ListRequested starts a relevant-articles or search load. The new
// State's ListGen is the token the matching ListLoaded must carry.
type ListRequested struct{ Mode ListMode }

type ListLoaded struct {
	Gen      uint64
	Mode     ListMode
	Articles []helpcenter.Article
}

type CategoriesLoaded struct{ Categories []helpcenter.Category }

// CategoryOpened switches the browser to the sections of Category. The new
// State's BrowseGen is the token for the section loads that follow.
type CategoryOpened struct{ Category helpcenter.Category }

type SectionsLoaded struct {
	Gen      uint64
	Sections []helpcenter.Section
}

type SectionArticlesLoaded struct {
	Gen       uint64
	SectionID int64
	Articles  []helpcenter.Article
}

type SectionToggled struct{ SectionID int64 }

// BreadcrumbBack returns from sections to the category list without refetching.
type BreadcrumbBack struct{}

type ArticleOpened struct{ Article helpcenter.Article }

// DetailShown fires after the transition delay for the given article.
type DetailShown struct{ ArticleID int64 }

// Back closes the detail view.
type Back struct{}

func (ListRequested) event()         {}
func (ListLoaded) event()            {}
func (CategoriesLoaded) event()      {}
func (CategoryOpened) event()        {}
func (SectionsLoaded) event()        {}
func (SectionArticlesLoaded) event() {}
func (SectionToggled) event()        {}
func (BreadcrumbBack) event()        {}
func (ArticleOpened) event()         {}
func (DetailShown) event()           {}
func (Back) event()                  {}

// Reduce applies ev to s.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case ListRequested:
		s.ListGen++

	case ListLoaded:
		if !s.ListCurrent(ev.Gen) {
			return s
		}
		s.ListMode = ev.Mode
		s.Articles = ev.Articles
		s.closeDetail()

	case CategoriesLoaded:
		s.Categories = ev.Categories

	case CategoryOpened:
		s.BrowseGen++
		s.Browser = BrowseSections
		s.Category = ev.Category
		s.Accordion = Accordion{}

	case SectionsLoaded:
		if !s.BrowseCurrent(ev.Gen) {
			return s
		}
		s.Accordion = NewAccordion(ev.Sections)

	case SectionArticlesLoaded:
		if s.stale(ev.Gen, s.BrowseGen) {
			return s
		}
		s.Accordion = s.Accordion.SetArticles(ev.SectionID, ev.Articles)

	case SectionToggled:
		s.Accordion = s.Accordion.Toggle(ev.SectionID)

	case BreadcrumbBack:
		if s.Browser == BrowseSections {
			s.BrowseGen++
		}
		s.Browser = BrowseCategories

	case ArticleOpened:
		a := ev.Article
		s.Detail = true
		s.Article = &a
		s.Shown = false

	case DetailShown:
		if s.Detail && s.Article != nil && s.Article.ID == ev.ArticleID {
			s.Shown = true
		}

	case Back:
		s.closeDetail()
	}
	return s
}

func (s *State) closeDetail() {
	s.Detail = false
	s.Article = nil
	s.Shown = false
}

func (s State) stale(gen, current uint64) bool {
	return s.StaleGuard && gen != current
}
