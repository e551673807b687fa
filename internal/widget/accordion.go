package widget

import "github.com/pders01/helpw/internal/helpcenter"

// Panel is one collapsible section row and its article list.
type Panel struct {
	Section  helpcenter.Section
	Articles []helpcenter.Article
	Loaded   bool
}

// Accordion keeps at most one panel expanded. The zero value is empty.
type Accordion struct {
	Panels   []Panel
	expanded int64
	open     bool
}

// NewAccordion builds collapsed panels in the order sections are given.
func NewAccordion(sections []helpcenter.Section) Accordion {
	panels := make([]Panel, len(sections))
	for i, s := range sections {
		panels[i] = Panel{Section: s}
	}
	return Accordion{Panels: panels}
}

// Toggle collapses every panel, then expands sectionID unless it was the
// expanded one. Unknown ids leave the accordion unchanged.
func (a Accordion) Toggle(sectionID int64) Accordion {
	if a.index(sectionID) < 0 {
		return a
	}
	if a.open && a.expanded == sectionID {
		a.expanded, a.open = 0, false
		return a
	}
	a.expanded, a.open = sectionID, true
	return a
}

func (a Accordion) Expanded() (int64, bool) {
	return a.expanded, a.open
}

func (a Accordion) IsExpanded(sectionID int64) bool {
	return a.open && a.expanded == sectionID
}

// ExpandedCount is 0 or 1.
func (a Accordion) ExpandedCount() int {
	n := 0
	for _, p := range a.Panels {
		if a.IsExpanded(p.Section.ID) {
			n++
		}
	}
	return n
}

// SetArticles fills a panel's list. The panel slice is copied.
func (a Accordion) SetArticles(sectionID int64, articles []helpcenter.Article) Accordion {
	i := a.index(sectionID)
	if i < 0 {
		return a
	}
	panels := make([]Panel, len(a.Panels))
	copy(panels, a.Panels)
	panels[i].Articles = articles
	panels[i].Loaded = true
	a.Panels = panels
	return a
}

func (a Accordion) Panel(sectionID int64) (Panel, bool) {
	i := a.index(sectionID)
	if i < 0 {
		return Panel{}, false
	}
	return a.Panels[i], true
}

func (a Accordion) index(sectionID int64) int {
	for i, p := range a.Panels {
		if p.Section.ID == sectionID {
			return i
		}
	}
	return -1
}
