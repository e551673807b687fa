package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/helpw/internal/config"
	"github.com/pders01/helpw/internal/debuglog"
	"github.com/pders01/helpw/internal/widget"
)

// Refresher drops cached help-center responses.
type Refresher interface {
	Refresh() error
}

// LinkOpener opens a URL outside the terminal.
type LinkOpener interface {
	Open(url string) error
}

type Option func(*App)

func WithRefresher(r Refresher) Option {
	return func(a *App) { a.refresher = r }
}

func WithOpener(o LinkOpener) Option {
	return func(a *App) { a.opener = o }
}

// App renders widget state and turns input into widget events. The bubbletea
// Init call is the mount signal: it binds keys and starts the first loads.
type App struct {
	config    *config.Config
	fetcher   *widget.Fetcher
	refresher Refresher
	opener    LinkOpener

	session    widget.Session
	state      widget.State
	keys       KeyMap
	keyHandler *KeyHandler
	bindings   int

	focus         Focus
	listCursor    int
	browserCursor int

	searchInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	help        help.Model

	pending  int
	spinning bool
	status   status

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(cfg *config.Config, fetcher *widget.Fetcher, opts ...Option) *App {
	si := textinput.New()
	si.Placeholder = "Search the Help Center..."
	si.CharLimit = 256
	si.Prompt = "? "
	// Blink messages are not routed to the input.
	si.Cursor.SetMode(cursor.CursorStatic)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = StatusInfoStyle

	a := &App{
		config:      cfg,
		fetcher:     fetcher,
		state:       widget.NewState(fetcher.Options().StaleGuard),
		keys:        NewKeyMap(cfg.Keys),
		focus:       FocusList,
		searchInput: si,
		viewport:    viewport.New(0, 0),
		spinner:     spin,
		help:        help.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.mount()
}

// Refresh clears the session and mounts again, reloading everything.
func (a *App) Refresh() tea.Cmd {
	return a.refresh()
}

func (a *App) mount() tea.Cmd {
	if !a.session.Begin() {
		return nil
	}
	a.bind()

	a.state = widget.Reduce(a.state, widget.ListRequested{Mode: widget.ListRelevant})
	return a.track(a.loadRelevant(a.state.ListGen), a.loadCategories())
}

// bind installs the key handler, replacing any previous one.
func (a *App) bind() {
	a.keyHandler = NewKeyHandler(a, a.keys)
	a.bindings++
}

func (a *App) refresh() tea.Cmd {
	if a.refresher != nil {
		if err := a.refresher.Refresh(); err != nil {
			debuglog.Warnf("refresh: %v", err)
		}
	}
	a.session.Reset()
	a.setStatus(MsgRefreshing, StatusInfo, 0)
	return a.mount()
}

// track counts cmds as pending loads and keeps the spinner running while any
// are outstanding.
func (a *App) track(cmds ...tea.Cmd) tea.Cmd {
	a.pending += len(cmds)
	if !a.spinning {
		a.spinning = true
		cmds = append(cmds, a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (a *App) settle() {
	if a.pending > 0 {
		a.pending--
	}
	if a.pending == 0 && a.status.text == MsgRefreshing {
		a.setStatus(MsgRefreshed, StatusSuccess, 3*time.Second)
	}
}

func (a *App) setStatus(text string, kind StatusKind, ttl time.Duration) {
	s := status{text: text, kind: kind}
	if ttl > 0 {
		s.expires = time.Now().Add(ttl)
	}
	a.status = s
}

// dispatch applies ev and starts whatever loads or timers it implies.
func (a *App) dispatch(ev widget.Event) tea.Cmd {
	a.state = widget.Reduce(a.state, ev)

	switch ev := ev.(type) {
	case widget.CategoryOpened:
		a.browserCursor = 0
		return a.track(a.loadSections(ev.Category.ID, a.state.BrowseGen))

	case widget.BreadcrumbBack:
		a.browserCursor = 0

	case widget.SectionToggled:
		a.selectSection(ev.SectionID)

	case widget.ArticleOpened:
		a.viewport.SetContent("")
		a.viewport.GotoTop()
		return tea.Batch(
			a.renderDetail(ev.Article, a.renderer()),
			showDetailAfter(ev.Article.ID, a.fetcher.Options().TransitionDelay),
		)

	case widget.Back:
		a.viewport.SetContent("")
	}
	return nil
}

func (a *App) submitSearch(term string) tea.Cmd {
	if _, ok := widget.NormalizeQuery(term, a.fetcher.Options().MinQueryLength); !ok {
		return nil
	}

	a.searchInput.Blur()
	a.focus = FocusList
	a.state = widget.Reduce(a.state, widget.ListRequested{Mode: widget.ListSearch})
	return a.track(a.runSearch(term, a.state.ListGen))
}

// activate acts on the row under the cursor in the focused pane.
func (a *App) activate() tea.Cmd {
	switch a.focus {
	case FocusList:
		if a.listCursor < len(a.state.Articles) {
			return a.dispatch(widget.ArticleOpened{Article: a.state.Articles[a.listCursor]})
		}
	case FocusBrowser:
		rows := a.browserRows()
		if a.browserCursor >= len(rows) {
			return nil
		}
		row := rows[a.browserCursor]
		switch row.kind {
		case rowCategory:
			return a.dispatch(widget.CategoryOpened{Category: row.category})
		case rowBreadcrumb:
			return a.dispatch(widget.BreadcrumbBack{})
		case rowSection:
			return a.dispatch(widget.SectionToggled{SectionID: row.sectionID})
		case rowArticle:
			return a.dispatch(widget.ArticleOpened{Article: row.article})
		}
	}
	return nil
}

// browserRows flattens the browser pane into selectable rows.
func (a *App) browserRows() []browserRow {
	if a.state.Browser == widget.BrowseCategories {
		rows := make([]browserRow, 0, len(a.state.Categories))
		for _, c := range a.state.Categories {
			rows = append(rows, browserRow{kind: rowCategory, category: c})
		}
		return rows
	}

	rows := []browserRow{{kind: rowBreadcrumb}}
	for _, p := range a.state.Accordion.Panels {
		rows = append(rows, browserRow{kind: rowSection, sectionID: p.Section.ID})
		if a.state.Accordion.IsExpanded(p.Section.ID) {
			for _, art := range p.Articles {
				rows = append(rows, browserRow{kind: rowArticle, sectionID: p.Section.ID, article: art})
			}
		}
	}
	return rows
}

// selectSection moves the browser cursor onto the section's header row, which
// shifts when a panel above it collapses.
func (a *App) selectSection(sectionID int64) {
	for i, row := range a.browserRows() {
		if row.kind == rowSection && row.sectionID == sectionID {
			a.browserCursor = i
			return
		}
	}
	a.clampCursors()
}

func (a *App) moveCursor(delta int) {
	switch a.focus {
	case FocusList:
		a.listCursor += delta
	case FocusBrowser:
		a.browserCursor += delta
	}
	a.clampCursors()
}

func (a *App) clampCursors() {
	a.listCursor = clamp(a.listCursor, len(a.state.Articles))
	a.browserCursor = clamp(a.browserCursor, len(a.browserRows()))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

// renderer returns nil when glamour cannot be set up; the body is then shown
// as plain markdown.
func (a *App) renderer() *glamour.TermRenderer {
	r, err := a.getRenderer()
	if err != nil {
		debuglog.Warnf("glamour renderer: %v", err)
		return nil
	}
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-detailChrome, 3)
		a.searchInput.Width = max(msg.Width-8, 10)
		a.help.Width = msg.Width

	case tea.KeyMsg:
		if a.keyHandler == nil {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			return a, nil
		}
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.pending == 0 {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case listLoadedMsg:
		a.settle()
		if !a.state.ListCurrent(msg.gen) {
			debuglog.Debugf("dropping stale list response gen=%d current=%d", msg.gen, a.state.ListGen)
			return a, nil
		}
		a.dispatch(widget.ListLoaded{Gen: msg.gen, Mode: msg.mode, Articles: msg.articles})
		a.listCursor = 0
		if msg.mode == widget.ListSearch {
			a.setStatus(MsgResultsCount(len(msg.articles)), StatusInfo, 3*time.Second)
		}

	case categoriesLoadedMsg:
		a.settle()
		a.dispatch(widget.CategoriesLoaded{Categories: msg.categories})
		a.clampCursors()

	case sectionsLoadedMsg:
		a.settle()
		if !a.state.BrowseCurrent(msg.gen) {
			return a, nil
		}
		a.dispatch(widget.SectionsLoaded{Gen: msg.gen, Sections: msg.sections})
		cmds := make([]tea.Cmd, 0, len(msg.sections))
		for _, s := range msg.sections {
			cmds = append(cmds, a.loadSectionArticles(s.ID, msg.gen))
		}
		if len(cmds) == 0 {
			return a, nil
		}
		return a, a.track(cmds...)

	case sectionArticlesLoadedMsg:
		a.settle()
		a.dispatch(widget.SectionArticlesLoaded{Gen: msg.gen, SectionID: msg.sectionID, Articles: msg.articles})
		a.clampCursors()

	case detailRenderedMsg:
		if a.state.Detail && a.state.Article != nil && a.state.Article.ID == msg.articleID {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}

	case detailShownMsg:
		a.dispatch(widget.DetailShown{ArticleID: msg.articleID})

	case linkOpenedMsg:
		if msg.err != nil {
			debuglog.Warnf("%v", msg.err)
			a.setStatus(msg.err.Error(), StatusError, 5*time.Second)
		} else {
			a.setStatus(MsgOpenedLink, StatusSuccess, 2*time.Second)
		}
	}

	return a, nil
}

func (a *App) View() string {
	return a.render()
}
