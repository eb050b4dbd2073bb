package ui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/detail"
	"github.com/five82/marquee/internal/overlay"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
)

// API is the part of the metadata client the UI calls directly.
type API interface {
	catalog.Lister
	detail.API
	Genres(ctx context.Context, media tmdb.MediaType) ([]tmdb.Genre, error)
	ImageURL(path, size string) string
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    API
	Overlay   *overlay.Overlay
	Session   session.Source
	Store     *state.Store
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logout    func(context.Context) error
	Logger    *slog.Logger
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	api       API
	overlay   *overlay.Overlay
	session   session.Source
	store     *state.Store
	config    *config.Config
	prefs     prefs.Prefs
	prefsPath string
	logout    func(context.Context) error
	logger    *slog.Logger
	tick      time.Duration
	keys      keyMap

	// UI state
	theme   Theme
	current screen
	width   int
	height  int
	ready   bool

	// Data state
	lists          map[screen]*listScreen
	themes         []catalog.ThemePreset
	themeIdx       int
	genres         map[tmdb.MediaType][]tmdb.Genre
	hot            []tmdb.Item
	snapshot       state.Snapshot
	sessionVersion uint64

	// Widgets
	spinner  spinner.Model
	spinning bool
	search   textinput.Model

	// Detail overlay
	showDetail     bool
	detailViewport viewport.Model
	details        map[detail.Key]detailEntry

	// Log view
	logViewport viewport.Model
	logLines    []string
	logFollow   bool

	showHelp bool

	// Footer flash message
	flash    string
	flashErr bool
	flashAt  time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sess := opts.Session
	if sess == nil {
		sess = session.Static{}
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	ov := opts.Overlay
	if ov == nil {
		ov = overlay.New(nil, nil, session.Static{})
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.Prompt = "/ "
	ti.CharLimit = 120

	m := Model{
		ctx:       ctx,
		api:       opts.Client,
		overlay:   ov,
		session:   sess,
		store:     store,
		config:    cfg,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		logout:    opts.Logout,
		logger:    logger,
		tick:      tick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		current:   screenDiscover,
		genres:    make(map[tmdb.MediaType][]tmdb.Genre),
		details:   make(map[detail.Key]detailEntry),
		themes:    catalog.Themes(),
		spinner:   sp,
		search:    ti,
		logFollow: true,
	}
	m.lists = m.buildLists()
	return m
}

func (m Model) buildLists() map[screen]*listScreen {
	media := m.prefs.Media()
	base := catalog.Filter{Media: media, Region: m.config.Region}

	discover := base
	discover.SortField = m.prefs.SortField
	discover.SortOrder = catalog.SortOrder(m.prefs.SortOrder)
	if discover.SortField == "" {
		discover.SortField = "popularity"
	}

	lists := map[screen]*listScreen{
		screenDiscover:  newListScreen(screenDiscover, catalog.Discover(m.api), discover),
		screenSearch:    newListScreen(screenSearch, catalog.Search(m.api), base),
		screenTrending:  newListScreen(screenTrending, catalog.Trending(m.api), base),
		screenFavorites: newListScreen(screenFavorites, catalog.Favorites(m.api, m.session), base),
		screenThemes:    newListScreen(screenThemes, catalog.Theme(m.api), m.themes[0].Filter(m.config.Region)),
	}
	for _, ls := range lists {
		ls.ctrl.WithLogger(m.logger)
	}
	return lists
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
		fetchSnapshotCmd(m.store),
	}
	if m.api != nil {
		cmds = append(cmds,
			fetchGenresCmd(m.ctx, m.api, tmdb.MediaMovie),
			fetchGenresCmd(m.ctx, m.api, tmdb.MediaTV),
			fetchHotCmd(m.ctx, m.api),
		)
	}
	if ls := m.lists[m.current]; ls != nil {
		ls.started = true
		req, _ := ls.ctrl.SetFilter(ls.ctrl.Filter())
		cmds = append(cmds, fetchPageCmd(m.ctx, ls.kind, ls.source, req), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		return m.handleSnapshot(state.Snapshot(msg))

	case pageMsg:
		return m.handlePage(msg)

	case statusMsg:
		if msg.err == nil {
			m.overlay.Merge(msg.status)
		}
		m.refreshDetail()
		return m, nil

	case toggleMsg:
		return m.handleToggle(msg)

	case detailMsg:
		m.details[msg.key] = detailEntry{bundle: msg.bundle, err: msg.err}
		m.refreshDetail()
		return m, nil

	case genresMsg:
		if msg.err != nil {
			m.logger.Warn("genre list fetch failed", "media", msg.media, "error", msg.err)
			return m, nil
		}
		m.genres[msg.media] = msg.genres
		return m, nil

	case hotMsg:
		if msg.err != nil {
			m.logger.Warn("hot list fetch failed", "error", msg.err)
			return m, nil
		}
		m.hot = msg.items
		return m, nil

	case logsMsg:
		if msg.err != nil {
			m.setFlash("read log: "+msg.err.Error(), true)
			return m, nil
		}
		m.logLines = msg.lines
		m.updateLogViewport()
		return m, nil

	case logoutMsg:
		return m.handleLogout(msg)

	case spinner.TickMsg:
		if !m.anyLoading() {
			m.spinning = false
			return m, nil
		}
		m.spinning = true
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{fetchSnapshotCmd(m.store), tickCmd(m.tick)}
	if m.current == screenLogs && m.logFollow {
		cmds = append(cmds, readLogsCmd(m.config.LogFile))
	}
	if m.flash != "" && time.Since(m.flashAt) > FlashDuration {
		m.flash = ""
	}
	return m, tea.Batch(cmds...)
}

// handleSnapshot picks up session changes made by the watcher: statuses are
// re-resolved for everything on screen and the favorites list is refetched.
func (m Model) handleSnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	if snap.SessionVersion == m.sessionVersion {
		return m, nil
	}
	m.sessionVersion = snap.SessionVersion

	var cmds []tea.Cmd
	for _, ls := range m.lists {
		if !ls.started {
			continue
		}
		cmds = append(cmds, m.resolveCmd(ls.ctrl.Snapshot().Items))
	}
	if fav := m.lists[screenFavorites]; fav.started {
		if m.current == screenFavorites {
			cmds = append(cmds, m.reload(fav))
		} else {
			fav.dirty = true
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	ls := m.lists[msg.screen]
	if ls == nil {
		return m, nil
	}
	applied, err := ls.ctrl.Apply(msg.req, msg.page, msg.err)
	if !applied {
		return m, nil
	}
	ls.clamp(ls.ctrl.Snapshot())
	m.refreshDetail()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			m.setFlash("Sign in to see favorites", true)
		} else {
			m.setFlash(errorSummary(err), true)
		}
		return m, nil
	}
	return m, m.resolveCmd(msg.page.Results)
}

func (m Model) handleToggle(msg toggleMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, overlay.ErrToggleInFlight):
		return m, nil
	case errors.Is(msg.err, session.ErrNoSession):
		m.setFlash("Sign in to change your "+fieldLabel(msg.field), true)
		return m, nil
	case msg.err != nil:
		m.setFlash(fieldLabel(msg.field)+" update failed: "+errorSummary(msg.err), true)
		return m, nil
	}

	title := truncate(msg.item.DisplayTitle(), 40)
	if msg.status.Get(msg.field) {
		m.setFlash("Added "+title+" to "+fieldLabel(msg.field), false)
	} else {
		m.setFlash("Removed "+title+" from "+fieldLabel(msg.field), false)
	}
	m.refreshDetail()

	if msg.field != overlay.Favorite {
		return m, nil
	}
	fav := m.lists[screenFavorites]
	if !fav.started {
		return m, nil
	}
	if m.current == screenFavorites {
		return m, m.reload(fav)
	}
	fav.dirty = true
	return m, nil
}

func (m Model) handleLogout(msg logoutMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, session.ErrNoSession):
		m.setFlash("Not signed in", false)
		return m, nil
	case msg.err != nil:
		m.setFlash("Signed out locally; server said: "+errorSummary(msg.err), true)
	default:
		m.setFlash("Signed out", false)
	}
	return m, fetchSnapshotCmd(m.store)
}

// activate switches to s and starts its first load, or a pending reload.
func (m *Model) activate(s screen) tea.Cmd {
	m.current = s
	m.showDetail = false
	if s == screenLogs {
		return readLogsCmd(m.config.LogFile)
	}
	ls := m.lists[s]
	switch {
	case !ls.started:
		ls.started = true
		if s == screenSearch && strings.TrimSpace(ls.ctrl.Filter().Query) == "" {
			m.search.Focus()
		}
		return m.reload(ls)
	case ls.dirty:
		return m.reload(ls)
	}
	return nil
}

func (m *Model) reload(ls *listScreen) tea.Cmd {
	ls.dirty = false
	ls.selected = 0
	return m.startFetch(ls, ls.ctrl.Reload())
}

// applyFilter hands f to the controller and fetches when it changed.
func (m *Model) applyFilter(ls *listScreen, f catalog.Filter) tea.Cmd {
	req, ok := ls.ctrl.SetFilter(f)
	if !ok {
		return nil
	}
	ls.selected = 0
	ls.started = true
	if ls.kind == screenDiscover {
		m.saveListPrefs(f)
	}
	return m.startFetch(ls, req)
}

func (m *Model) loadMore(ls *listScreen) tea.Cmd {
	req, ok := ls.ctrl.LoadMore()
	if !ok {
		return nil
	}
	return m.startFetch(ls, req)
}

func (m *Model) startFetch(ls *listScreen, req catalog.Request) tea.Cmd {
	cmds := []tea.Cmd{fetchPageCmd(m.ctx, ls.kind, ls.source, req)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// resolveCmd issues one status lookup per item that still needs one.
func (m Model) resolveCmd(items []tmdb.Item) tea.Cmd {
	pending := m.overlay.Pending(items)
	if len(pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(pending))
	for i, item := range pending {
		cmds[i] = lookupStatusCmd(m.ctx, m.overlay, item)
	}
	return tea.Batch(cmds...)
}

func (m Model) anyLoading() bool {
	for _, ls := range m.lists {
		snap := ls.ctrl.Snapshot()
		if snap.Loading || snap.LoadingMore {
			return true
		}
	}
	return false
}

func (m *Model) saveListPrefs(f catalog.Filter) {
	m.prefs.MediaType = string(f.Media)
	m.prefs.SortField = f.SortField
	m.prefs.SortOrder = string(f.SortOrder)
	if m.prefs.SortOrder == "" {
		m.prefs.SortOrder = string(catalog.Desc)
	}
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
	m.flashAt = time.Now()
}

func (m *Model) resizeViewports() {
	w, h := m.width-4, m.height-5
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(w, h)
		m.detailViewport = viewport.New(w, h)
	}
	m.logViewport.Width, m.logViewport.Height = w, h
	m.detailViewport.Width, m.detailViewport.Height = w, h
	m.updateLogViewport()
	m.refreshDetail()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderContent() string {
	height := m.height - 3
	if height < 3 {
		height = 3
	}
	switch {
	case m.current == screenLogs:
		return m.renderLogs(height)
	case m.showDetail:
		return m.renderDetailFull(height)
	}
	ls := m.lists[m.current]
	if m.width < LayoutCompactWidth {
		return m.renderList(ls, m.width, height)
	}
	listWidth := m.width * 3 / 5
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderList(ls, listWidth, height),
		m.renderDetailPane(ls, m.width-listWidth, height),
	)
}

// errorSummary shortens API errors for the footer.
func errorSummary(err error) string {
	var status *tmdb.HTTPStatusError
	var netErr *tmdb.NetworkError
	switch {
	case errors.As(err, &status):
		if status.Message != "" {
			return status.Message
		}
		return "server returned " + strconv.Itoa(status.Status)
	case errors.As(err, &netErr):
		return "network unavailable"
	default:
		return err.Error()
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
