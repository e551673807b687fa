package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/helpw/internal/config"
	"github.com/pders01/helpw/internal/widget"
)

// KeyMap holds the bindings shown in the status bar.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Enter      key.Binding
	Search     key.Binding
	SwitchPane key.Binding
	Back       key.Binding
	Refresh    key.Binding
	OpenLink   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// NewKeyMap builds bindings from the keys section; Refresh and OpenLink take
// the modifier.
func NewKeyMap(cfg config.KeyConfig) KeyMap {
	mod := cfg.Modifier
	if mod != "" && !strings.HasSuffix(mod, "+") {
		mod += "+"
	}
	b := cfg.Bindings
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	search := orDefault(b.Search, "/")
	pane := orDefault(b.SwitchPane, "tab")
	back := orDefault(b.Back, "esc")
	refresh := mod + orDefault(b.Refresh, "r")
	open := mod + orDefault(b.OpenLink, "o")
	helpKey := orDefault(b.Help, "?")
	quit := orDefault(b.Quit, "q")

	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Search: key.NewBinding(
			key.WithKeys(search),
			key.WithHelp(search, "search"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys(pane),
			key.WithHelp(pane, "switch pane"),
		),
		Back: key.NewBinding(
			key.WithKeys(back, "backspace"),
			key.WithHelp(back, "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys(refresh),
			key.WithHelp(refresh, "refresh"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys(open),
			key.WithHelp(open, "open in browser"),
		),
		Help: key.NewBinding(
			key.WithKeys(helpKey),
			key.WithHelp(helpKey, "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys(quit, "ctrl+c"),
			key.WithHelp(quit, "quit"),
		),
	}
}

// contextKeyMap adapts KeyMap to help.KeyMap for the current view.
type contextKeyMap struct {
	keys   KeyMap
	detail bool
}

func (k contextKeyMap) ShortHelp() []key.Binding {
	if k.detail {
		return []key.Binding{k.keys.Back, k.keys.OpenLink, k.keys.Up, k.keys.Down, k.keys.Quit}
	}
	return []key.Binding{k.keys.Search, k.keys.Enter, k.keys.SwitchPane, k.keys.Back, k.keys.Help, k.keys.Quit}
}

func (k contextKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.keys.Up, k.keys.Down, k.keys.Enter},
		{k.keys.Search, k.keys.SwitchPane, k.keys.Back},
		{k.keys.Refresh, k.keys.OpenLink, k.keys.Help, k.keys.Quit},
	}
}

// KeyHandler turns key presses into widget events and commands. An App has at
// most one; binding replaces it instead of stacking handlers.
type KeyHandler struct {
	app  *App
	keys KeyMap
}

func NewKeyHandler(app *App, keys KeyMap) *KeyHandler {
	return &KeyHandler{app: app, keys: keys}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	if a.focus == FocusSearch {
		return kh.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, kh.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, kh.keys.Refresh):
		return a, a.refresh()
	case key.Matches(msg, kh.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	}

	if a.state.Detail {
		return kh.handleDetail(msg)
	}

	switch {
	case key.Matches(msg, kh.keys.Search):
		a.focus = FocusSearch
		return a, a.searchInput.Focus()
	case key.Matches(msg, kh.keys.SwitchPane):
		if a.focus == FocusList {
			a.focus = FocusBrowser
		} else {
			a.focus = FocusList
		}
		return a, nil
	case key.Matches(msg, kh.keys.Back):
		if a.state.Browser == widget.BrowseSections {
			return a, a.dispatch(widget.BreadcrumbBack{})
		}
		return a, nil
	case key.Matches(msg, kh.keys.Up):
		a.moveCursor(-1)
		return a, nil
	case key.Matches(msg, kh.keys.Down):
		a.moveCursor(1)
		return a, nil
	case key.Matches(msg, kh.keys.Enter):
		return a, a.activate()
	}
	return a, nil
}

func (kh *KeyHandler) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.searchInput.Blur()
		a.focus = FocusList
		return a, nil
	case "enter":
		return a, a.submitSearch(a.searchInput.Value())
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch {
	case key.Matches(msg, kh.keys.Back):
		return a, a.dispatch(widget.Back{})
	case key.Matches(msg, kh.keys.OpenLink):
		if a.state.Article != nil && a.state.Article.HTMLURL != "" {
			return a, a.openLink(a.state.Article.HTMLURL)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}
