package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/repositories"
	"github.com/nlandais/top50/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TopListView ViewState = iota
	SearchInputView
	SearchResultsView
)

const searchResultLimit = 20

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	catalog     services.Catalog
	lists       *repositories.ListRepository
	ranked      *models.RankedList
	width       int
	height      int
	topList     list.Model
	resultList  list.Model
	searchInput textinput.Model
	searching   bool
	status      string
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model, loading the persisted ranked list.
func NewModel(ctx context.Context, catalog services.Catalog, lists *repositories.ListRepository) *Model {
	input := textinput.New()
	input.Placeholder = "album or artist"
	input.CharLimit = 120

	m := &Model{
		ctx:         ctx,
		view:        TopListView,
		catalog:     catalog,
		lists:       lists,
		ranked:      lists.Load(),
		searchInput: input,
		help:        help.New(),
		keys:        newKeyMap(),
	}
	m.topList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.topList.Title = "🎵 Top 50 Albums"
	m.topList.SetShowHelp(false)
	m.rebuildTopList(0)
	return m
}

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topList.SetSize(msg.Width-4, msg.Height-8)
		if m.resultList.Width() != 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TopListView:
			return m.handleTopListKeys(msg)
		case SearchInputView:
			return m.handleSearchInputKeys(msg)
		case SearchResultsView:
			return m.handleSearchResultsKeys(msg)
		}

	case Msg:
		return m.handleAppMsg(msg)
	}

	return m, nil
}

func (m *Model) handleAppMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSearchResults:
		m.searching = false
		data := msg.data.(struct {
			albums []models.Album
			err    error
		})
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Search failed: %v", data.err))
			m.view = SearchInputView
			return m, nil
		}
		if len(data.albums) == 0 {
			m.status = styles.warn.Render("No albums found")
			m.view = SearchInputView
			return m, nil
		}
		items := make([]list.Item, len(data.albums))
		for i, album := range data.albums {
			items[i] = resultItem{album: album}
		}
		m.resultList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.resultList.Title = fmt.Sprintf("Results for '%s'", m.searchInput.Value())
		m.resultList.SetShowHelp(false)
		m.view = SearchResultsView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case TopListView:
		return m.renderTopList()
	case SearchInputView:
		return m.renderSearchInput()
	case SearchResultsView:
		return m.renderSearchResults()
	default:
		return ""
	}
}

func (m *Model) handleTopListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.search):
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.status = ""
		m.view = SearchInputView
		return m, textinput.Blink

	case key.Matches(msg, m.keys.moveUp):
		return m.moveSelected(-1)

	case key.Matches(msg, m.keys.moveDown):
		return m.moveSelected(1)

	case key.Matches(msg, m.keys.remove):
		selected, ok := m.topList.SelectedItem().(rankedItem)
		if !ok {
			return m, nil
		}
		m.ranked.Remove(selected.album.ID)
		m.lists.Save(m.ranked)
		m.rebuildTopList(m.topList.Index())
		m.status = fmt.Sprintf("Removed %s", selected.album.Title)
		return m, nil

	case key.Matches(msg, m.keys.mode):
		if m.ranked.Mode == models.SortModeManual {
			m.ranked.SetDateMode(models.Descending)
		} else {
			m.ranked.SetManualMode()
		}
		m.lists.Save(m.ranked)
		m.rebuildTopList(m.topList.Index())
		m.status = fmt.Sprintf("Sort mode: %s", m.ranked.Mode)
		return m, nil
	}

	var cmd tea.Cmd
	m.topList, cmd = m.topList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = TopListView
		m.status = ""
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" || m.searching {
			return m, nil
		}
		m.searching = true
		m.status = "Searching..."
		return m, m.runSearch(query)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchInputView
		return m, textinput.Blink
	case "enter":
		selected, ok := m.resultList.SelectedItem().(resultItem)
		if !ok {
			return m, nil
		}
		res := m.ranked.Add(selected.album)
		switch {
		case !res.Added:
			m.status = styles.warn.Render(fmt.Sprintf("%s is already ranked", selected.album.Title))
		case res.OverCap:
			m.lists.Save(m.ranked)
			m.status = styles.warn.Render(fmt.Sprintf("Added %s (list exceeds %d albums)", selected.album.Title, models.MaxAlbums))
		default:
			m.lists.Save(m.ranked)
			m.status = styles.ok.Render(fmt.Sprintf("Added %s", selected.album.Title))
		}
		m.rebuildTopList(len(m.ranked.Albums) - 1)
		m.view = TopListView
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

// moveSelected shifts the selected album by delta positions. Reordering is
// only meaningful in manual mode; in date mode the year owns the order.
func (m *Model) moveSelected(delta int) (tea.Model, tea.Cmd) {
	if m.ranked.Mode != models.SortModeManual {
		m.status = styles.warn.Render("Switch to manual mode (m) to reorder")
		return m, nil
	}

	from := m.topList.Index()
	to := from + delta
	if from < 0 || to < 0 || to >= len(m.ranked.Albums) {
		return m, nil
	}

	m.ranked.Move(from, to)
	m.lists.Save(m.ranked)
	m.rebuildTopList(to)
	return m, nil
}

// rebuildTopList re-derives the list items from the ranked sequence and
// restores the cursor near the given index.
func (m *Model) rebuildTopList(index int) {
	items := make([]list.Item, len(m.ranked.Albums))
	for i, album := range m.ranked.Albums {
		items[i] = rankedItem{rank: i + 1, album: album}
	}
	m.topList.SetItems(items)
	if len(items) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(items) {
		index = len(items) - 1
	}
	m.topList.Select(index)
}

func (m *Model) runSearch(query string) tea.Cmd {
	return func() tea.Msg {
		albums, err := m.catalog.SearchAlbums(m.ctx, query, searchResultLimit)
		return searchResultsMsg(albums, err)
	}
}

func (m *Model) renderTopList() string {
	mode := styles.help.Render(fmt.Sprintf("mode: %s • %d/%d albums", m.ranked.Mode, len(m.ranked.Albums), models.MaxAlbums))
	helpKeys := []key.Binding{m.keys.search, m.keys.moveUp, m.keys.moveDown, m.keys.remove, m.keys.mode, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	body := m.topList.View()
	if len(m.ranked.Albums) == 0 {
		body = styles.title.Render("🎵 Top 50 Albums") + "\n\nNo albums ranked yet. Press a to search the catalog."
	}

	if m.status != "" {
		return fmt.Sprintf("%s\n%s\n%s\n\n%s", body, mode, m.status, helpView)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", body, mode, helpView)
}

func (m *Model) renderSearchInput() string {
	title := styles.title.Render("Add Album")
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.status != "" {
		return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, m.searchInput.View(), m.status, helpView)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.searchInput.View(), helpView)
}

func (m *Model) renderSearchResults() string {
	addKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add"),
	)
	helpKeys := []key.Binding{addKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.resultList.View(), helpView)
}
