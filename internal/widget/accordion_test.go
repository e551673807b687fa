package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/pders01/helpw/internal/helpcenter"
)

func threeSections() Accordion {
	return NewAccordion([]helpcenter.Section{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}})
}

func TestAccordionStartsCollapsed(t *testing.T) {
	a := threeSections()
	_, ok := a.Expanded()
	assert.False(t, ok)
	assert.Equal(t, 0, a.ExpandedCount())
	for _, p := range a.Panels {
		assert.False(t, p.Loaded)
	}
}

func TestAccordionExpandingBCollapsesA(t *testing.T) {
	a := threeSections().Toggle(1)
	assert.True(t, a.IsExpanded(1))

	a = a.Toggle(2)
	assert.False(t, a.IsExpanded(1))
	assert.True(t, a.IsExpanded(2))
	assert.Equal(t, 1, a.ExpandedCount())
}

func TestAccordionToggleExpandedCollapsesAll(t *testing.T) {
	a := threeSections().Toggle(3).Toggle(3)
	_, ok := a.Expanded()
	assert.False(t, ok)
	assert.Equal(t, 0, a.ExpandedCount())
}

func TestAccordionUnknownSectionIsNoop(t *testing.T) {
	a := threeSections().Toggle(2)
	b := a.Toggle(42)
	assert.Equal(t, a, b)
	assert.Equal(t, a, a.SetArticles(42, []helpcenter.Article{{ID: 1}}))
	_, ok := a.Panel(42)
	assert.False(t, ok)
}

func TestAccordionSectionWithZeroID(t *testing.T) {
	a := NewAccordion([]helpcenter.Section{{ID: 0, Name: "General"}, {ID: 7, Name: "Other"}})
	assert.False(t, a.IsExpanded(0))

	a = a.Toggle(0)
	id, ok := a.Expanded()
	assert.True(t, ok)
	assert.Equal(t, int64(0), id)
	assert.True(t, a.IsExpanded(0))
	assert.Equal(t, 1, a.ExpandedCount())

	a = a.Toggle(0)
	assert.False(t, a.IsExpanded(0))
	assert.Equal(t, 0, a.ExpandedCount())
}

func TestAccordionSetArticles(t *testing.T) {
	a := threeSections()
	b := a.SetArticles(2, []helpcenter.Article{{ID: 20}})

	p, ok := b.Panel(2)
	assert.True(t, ok)
	assert.True(t, p.Loaded)
	assert.Len(t, p.Articles, 1)

	p, _ = a.Panel(2)
	assert.False(t, p.Loaded, "original accordion is untouched")
}

func TestAccordionMatchesModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "sections")
		secs := make([]helpcenter.Section, n)
		for i := range secs {
			secs[i] = helpcenter.Section{ID: int64(i + 1)}
		}
		a := NewAccordion(secs)
		var open int64

		clicks := rapid.SliceOfN(rapid.Int64Range(1, int64(n)), 1, 40).Draw(t, "clicks")
		for _, id := range clicks {
			a = a.Toggle(id)
			if open == id {
				open = 0
			} else {
				open = id
			}

			got, ok := a.Expanded()
			if ok != (open != 0) || got != open {
				t.Fatalf("expanded=%d,%v want %d", got, ok, open)
			}
			if a.ExpandedCount() > 1 {
				t.Fatalf("two sections expanded")
			}
		}
	})
}
