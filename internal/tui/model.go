package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/reeder/internal/articlelist"
	"github.com/glabrego/reeder/internal/feedlist"
	"github.com/glabrego/reeder/internal/models"
	tuiactions "github.com/glabrego/reeder/internal/tui/actions"
	tuistate "github.com/glabrego/reeder/internal/tui/state"
	tuitheme "github.com/glabrego/reeder/internal/tui/theme"
	"github.com/glabrego/reeder/internal/tui/view"
)

const (
	defaultWidth   = 100
	defaultHeight  = 26
	sidebarWidth   = 30
	chromeLines    = 7
	defaultPerPage = 20
)

type Options struct {
	Filter  models.Filter
	Order   models.ArticleOrder
	PerPage int
	Logger  *slog.Logger
}

// Model shows the feed list next to the article list. Both panes only change
// through change-sets computed between the snapshot on screen and the next
// one; when a change-set does not fit, the pane is rebuilt from the snapshot.
type Model struct {
	service tuiactions.Service
	logger  *slog.Logger
	theme   tuitheme.Theme
	keys    keyMap
	spinner spinner.Model

	filter  models.Filter
	order   models.ArticleOrder
	page    int
	perPage int

	articles *articlelist.Model
	rows     *view.ArticleRows
	tree     *feedlist.Tree
	sidebar  *view.Sidebar

	articleCursor  int
	sidebarCursor  int
	sidebarFocused bool

	width        int
	height       int
	loading      bool
	status       string
	err          error
	nowFn        func() time.Time
	relativeTime bool
}

// NewModel starts from cached snapshots; either may be nil.
func NewModel(service tuiactions.Service, articles *articlelist.Model, tree *feedlist.Tree, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	filter := opts.Filter
	if filter == "" {
		filter = models.FilterAll
	}
	if tree == nil {
		tree = feedlist.NewTree()
	}

	return Model{
		service:      service,
		logger:       logger,
		theme:        tuitheme.Default(),
		keys:         defaultKeyMap(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		filter:       filter,
		order:        opts.Order,
		page:         1,
		perPage:      perPage,
		articles:     articles,
		rows:         view.NewArticleRows(articles),
		tree:         tree,
		sidebar:      view.NewSidebar(tree),
		loading:      service != nil,
		nowFn:        time.Now,
		relativeTime: true,
	}
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, tuiactions.RefreshCmd(m.service, m.query(), m.perPage, "init"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tuiactions.RefreshSuccessMsg:
		m.loading = false
		m.err = nil
		m.applyArticles(msg.Articles)
		m.applyTree(msg.Tree)
		m.status = fmt.Sprintf("Refreshed in %s", msg.Duration.Round(time.Millisecond))
		return m, nil
	case tuiactions.RefreshErrorMsg:
		m.loading = false
		m.err = msg.Err
		m.logger.Warn("refresh failed", slog.String("source", msg.Source), slog.String("error", msg.Err.Error()))
		return m, nil
	case tuiactions.FilterLoadSuccessMsg:
		m.loading = false
		m.err = nil
		m.filter = msg.Query.Filter
		m.order = msg.Query.Order
		m.applyArticles(msg.Articles)
		m.applyTree(msg.Tree)
		m.status = fmt.Sprintf("Showing %s, %s", m.filter, m.order)
		return m, nil
	case tuiactions.FilterLoadErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	case tuiactions.LoadMoreSuccessMsg:
		m.loading = false
		m.err = nil
		m.page = msg.Page
		m.applyArticles(msg.Articles)
		if msg.FetchedCount == 0 {
			m.status = "No more entries"
		} else {
			m.status = fmt.Sprintf("Loaded page %d", msg.Page)
		}
		return m, nil
	case tuiactions.LoadMoreErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	case tuiactions.ToggleUnreadSuccessMsg:
		m.loading = false
		m.err = nil
		m.applyArticles(msg.Articles)
		m.applyTree(msg.Tree)
		m.status = msg.Status
		return m, nil
	case tuiactions.ToggleStarredSuccessMsg:
		m.loading = false
		m.err = nil
		m.applyArticles(msg.Articles)
		m.applyTree(msg.Tree)
		m.status = msg.Status
		return m, nil
	case tuiactions.ToggleActionErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		m.sidebarFocused = !m.sidebarFocused
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursorBy(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursorBy(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursorBy(-tuistate.PageStep(m.height, m.status != "" || m.err != nil))
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursorBy(tuistate.PageStep(m.height, m.status != "" || m.err != nil))
		return m, nil
	case key.Matches(msg, m.keys.Collapse):
		m.toggleCurrentCategory()
		return m, nil
	}

	// everything below talks to the service; one request at a time
	if m.service == nil || m.loading {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.startLoading(tuiactions.RefreshCmd(m.service, m.query(), m.perPage, "manual"))
	case key.Matches(msg, m.keys.More):
		current := m.articles
		if current == nil {
			current = articlelist.New(m.order)
		}
		return m.startLoading(tuiactions.LoadMoreCmd(m.service, current, m.filter, m.page+1, m.perPage))
	case key.Matches(msg, m.keys.Unread):
		article, ok := m.currentArticle()
		if !ok {
			return m, nil
		}
		return m.startLoading(tuiactions.ToggleUnreadCmd(m.service, m.query(), article.ID, article.Unread))
	case key.Matches(msg, m.keys.Star):
		article, ok := m.currentArticle()
		if !ok {
			return m, nil
		}
		return m.startLoading(tuiactions.ToggleStarredCmd(m.service, m.query(), article.ID, article.Marked))
	case key.Matches(msg, m.keys.Filter):
		q := m.query()
		q.Filter = nextFilter(m.filter)
		return m.startLoading(tuiactions.LoadFilterCmd(m.service, q))
	case key.Matches(msg, m.keys.Order):
		q := m.query()
		q.Order = models.NewestFirst
		if m.order == models.NewestFirst {
			q.Order = models.OldestFirst
		}
		return m.startLoading(tuiactions.LoadFilterCmd(m.service, q))
	}
	return m, nil
}

func (m Model) startLoading(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	m.status = ""
	m.err = nil
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// query keeps the article list at least as long as it is now.
func (m Model) query() tuiactions.Query {
	limit := m.perPage
	if m.rows.Len() > limit {
		limit = m.rows.Len()
	}
	return tuiactions.Query{Filter: m.filter, Order: m.order, Limit: limit}
}

func nextFilter(f models.Filter) models.Filter {
	switch f {
	case models.FilterAll:
		return models.FilterUnread
	case models.FilterUnread:
		return models.FilterStarred
	default:
		return models.FilterAll
	}
}

func (m *Model) applyArticles(next *articlelist.Model) {
	if next == nil {
		return
	}
	anchor := m.currentArticleID()
	if m.articles == nil {
		m.rows.Reset(next)
	} else if err := m.rows.Apply(m.articles.Diff(next)); err != nil {
		m.logger.Warn("article rows out of sync, rebuilding", slog.String("error", err.Error()))
		m.rows.Reset(next)
	}
	m.articles = next
	index := tuistate.ArticleIndex(m.rows.Rows(), anchor)
	m.articleCursor = tuistate.RestoreCursor(index, m.articleCursor, m.rows.Len())
}

func (m *Model) applyTree(next *feedlist.Tree) {
	if next == nil {
		return
	}
	anchor := m.currentSidebarAnchor()
	if err := m.sidebar.Apply(m.tree.Diff(next)); err != nil {
		m.logger.Warn("sidebar rows out of sync, rebuilding", slog.String("error", err.Error()))
		m.sidebar.Reset(next)
	}
	m.tree = next
	visible := m.sidebar.VisibleRows()
	index := tuistate.SidebarIndex(visible, anchor)
	m.sidebarCursor = tuistate.RestoreCursor(index, m.sidebarCursor, len(visible))
}

func (m Model) currentArticle() (articlelist.Article, bool) {
	return m.rows.At(m.articleCursor)
}

func (m Model) currentArticleID() models.ArticleID {
	article, ok := m.currentArticle()
	if !ok {
		return ""
	}
	return article.ID
}

func (m Model) currentSidebarAnchor() tuistate.SidebarAnchor {
	visible := m.sidebar.VisibleRows()
	if m.sidebarCursor < 0 || m.sidebarCursor >= len(visible) {
		return tuistate.SidebarAnchor{}
	}
	return tuistate.AnchorOf(visible[m.sidebarCursor])
}

func (m *Model) moveCursorBy(delta int) {
	if m.sidebarFocused {
		m.sidebarCursor = tuistate.ClampCursor(m.sidebarCursor+delta, len(m.sidebar.VisibleRows()))
		return
	}
	m.articleCursor = tuistate.ClampCursor(m.articleCursor+delta, m.rows.Len())
}

func (m *Model) toggleCurrentCategory() {
	if !m.sidebarFocused {
		return
	}
	anchor := m.currentSidebarAnchor()
	if anchor.Kind != feedlist.NodeCategory {
		return
	}
	if !m.sidebar.Toggle(m.tree, anchor.CategoryID) {
		return
	}
	m.sidebarCursor = tuistate.RestoreCursor(tuistate.SidebarIndex(m.sidebar.VisibleRows(), anchor), m.sidebarCursor, len(m.sidebar.VisibleRows()))
}

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	height := m.height
	if height <= 0 {
		height = defaultHeight
	}
	bodyHeight := height - chromeLines
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	articleWidth := width - sidebarWidth - 3
	if articleWidth < 20 {
		articleWidth = 20
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Reeder") + " " + m.theme.ModePill.Render(string(m.filter)))
	b.WriteString("\n")
	b.WriteString(view.Toolbar(m.sidebarFocused))
	b.WriteString("\n\n")

	sidebar := view.RenderSidebar(view.SidebarRenderInput{
		Rows:   m.sidebar.VisibleRows(),
		Cursor: m.sidebarCursor,
		Height: bodyHeight,
		Width:  sidebarWidth,
		Active: m.sidebarFocused,
	}, m.theme)
	articles := view.RenderArticles(view.ArticleRenderInput{
		Rows:         m.rows,
		Cursor:       m.articleCursor,
		Height:       bodyHeight,
		Width:        articleWidth,
		Active:       !m.sidebarFocused,
		Now:          m.nowFn(),
		RelativeTime: m.relativeTime,
	}, m.theme)
	left := lipgloss.NewStyle().Width(sidebarWidth).Render(strings.TrimRight(sidebar, "\n"))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " | ", strings.TrimRight(articles, "\n")))
	b.WriteString("\n\n")

	warning := ""
	if m.err != nil {
		warning = "Error: " + m.err.Error()
	}
	b.WriteString(view.CompactMessage(m.loading, m.spinner.View(), m.status, warning, m.theme))
	b.WriteString("\n")
	b.WriteString(view.Footer(m.order.String(), string(m.filter), m.page, m.rows.Len(), m.theme))
	b.WriteString("\n")
	return b.String()
}
