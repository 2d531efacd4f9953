package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviebot/internal/formatter"
	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/notify"
	"github.com/desertthunder/moviebot/internal/session"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MovieListView ViewState = iota
	DetailView
	LoginView
)

// ToastDuration is how long a notice stays on screen.
const ToastDuration = 3 * time.Second

// Options carries the TUI dependencies.
type Options struct {
	Engine        *tasks.Engine
	Dispatcher    *tasks.Dispatcher
	Sessions      *session.Manager
	Feed          *notify.Feed  // receives the core's notices and navigation
	RedirectDelay time.Duration // pause between a navigation intent and the view switch
	Query         tasks.BrowseQuery
	OpenURL       func(url string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	engine     *tasks.Engine
	dispatcher *tasks.Dispatcher
	sessions   *session.Manager
	feed       *notify.Feed
	redirect   time.Duration
	query      tasks.BrowseQuery
	openURL    func(string) error

	width     int
	height    int
	movieList list.Model
	source    string
	loading   bool

	detail     *models.MovieDetail
	detailItem tasks.BrowseItem

	email    textinput.Model
	password textinput.Model
	remember bool
	pending  bool

	user     *models.Session
	toast    *models.Notice
	toastSeq int
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Feed == nil {
		opts.Feed = notify.NewFeed(32)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	movies := list.New(nil, list.NewDefaultDelegate(), 76, 18)
	movies.Title = "Trending This Week"

	m := &Model{
		ctx:        ctx,
		view:       MovieListView,
		engine:     opts.Engine,
		dispatcher: opts.Dispatcher,
		sessions:   opts.Sessions,
		feed:       opts.Feed,
		redirect:   opts.RedirectDelay,
		query:      opts.Query,
		openURL:    opts.OpenURL,
		width:      80,
		height:     24,
		movieList:  movies,
		loading:    true,
		email:      email,
		password:   password,
		help:       help.New(),
		keys:       newKeyMap(),
	}
	if opts.Sessions != nil {
		m.user = opts.Sessions.Current(ctx)
	}
	return m
}

// Run starts the TUI in the alternate screen and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init loads the listing and starts listening to the feed.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadMovies(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movieList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MovieListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case LoginView:
			return m.handleLoginKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgMoviesLoaded:
		res := msg.data.(tasks.BrowseResult)
		m.loading = false
		m.source = res.Source
		m.err = res.Err
		m.movieList.Title = listTitle(res.Source, m.query.Query)
		cmd := m.movieList.SetItems(toListItems(res.Items))
		return m, cmd

	case MsgDetailLoaded:
		d := msg.data.(detailLoaded)
		m.loading = false
		if d.err != nil {
			m.err = d.err
			return m, nil
		}
		m.err = nil
		m.detail, m.detailItem = d.detail, d.item
		m.view = DetailView
		return m, nil

	case MsgIntentDone:
		return m.handleOutcome(msg.data.(tasks.Outcome))

	case MsgFeedEvent:
		e := msg.data.(notify.Event)
		cmds := []tea.Cmd{m.waitForEvent()}
		if e.Notice != nil {
			cmds = append(cmds, m.showToast(*e.Notice))
		}
		if e.Location != "" {
			to := e.Location
			cmds = append(cmds, tea.Tick(m.redirect, func(time.Time) tea.Msg { return redirectMsg(to) }))
		}
		return m, tea.Batch(cmds...)

	case MsgToastExpired:
		if msg.data.(int) == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case MsgRedirect:
		return m.navigate(msg.data.(models.Location))
	}
	return m, nil
}

// handleOutcome refreshes local state after an intent settled.
func (m *Model) handleOutcome(out tasks.Outcome) (tea.Model, tea.Cmd) {
	m.user = out.Session

	switch out.Kind {
	case tasks.IntentLogin, tasks.IntentRegister, tasks.IntentSocialLogin:
		m.pending = false
		if out.Err == nil {
			m.password.SetValue("")
		}
		return m, nil
	case tasks.IntentLogout:
		return m, nil
	}

	if out.Err != nil {
		return m, nil
	}

	id := m.selectedID()
	if m.view == DetailView {
		id = m.detailItem.Movie.ID
	}
	m.patchItem(id, func(it *tasks.BrowseItem) {
		switch out.Kind {
		case tasks.IntentToggleWatchlist, tasks.IntentAddWatchlist, tasks.IntentRemoveWatchlist:
			it.InWatchlist = out.InWatchlist
		case tasks.IntentRate:
			it.Rating = out.Rating
		}
	})
	return m, nil
}

// patchItem applies fn to the list entry and the open detail with id.
func (m *Model) patchItem(id models.MovieID, fn func(*tasks.BrowseItem)) {
	if id == "" {
		return
	}
	for i, raw := range m.movieList.Items() {
		item, ok := raw.(movieItem)
		if !ok || item.Movie.ID != id {
			continue
		}
		fn(&item.BrowseItem)
		m.movieList.SetItem(i, item)
	}
	if m.detail != nil && m.detailItem.Movie.ID == id {
		fn(&m.detailItem)
	}
}

func (m *Model) navigate(to models.Location) (tea.Model, tea.Cmd) {
	switch to {
	case models.LocationLogin:
		m.view = LoginView
		m.pending = false
		return m, m.email.Focus()
	case models.LocationHome:
		m.view = MovieListView
		m.detail = nil
		m.email.Blur()
		m.password.Blur()
		m.loading = true
		return m, m.loadMovies()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case MovieListView:
		body = m.renderList()
	case DetailView:
		body = m.renderDetail()
	case LoginView:
		body = m.renderLogin()
	}

	header := styles.help.Render("Guest")
	if m.user != nil {
		header = styles.ok.Render("● " + m.user.Name)
	}

	out := header + "\n" + body
	if m.toast != nil {
		out += "\n" + styles.toast.Render(notify.Render(m.toast.Message, m.toast.Kind))
	}
	return out
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.movieList.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if id := m.selectedID(); id != "" {
			m.loading = true
			return m, m.loadDetail(id)
		}
		return m, nil
	case key.Matches(msg, m.keys.watchlist):
		return m, m.dispatch(tasks.Intent{Kind: tasks.IntentToggleWatchlist, MovieID: m.selectedID()})
	case key.Matches(msg, m.keys.rate):
		v, _ := strconv.Atoi(msg.String())
		return m, m.dispatch(tasks.Intent{Kind: tasks.IntentRate, MovieID: m.selectedID(), Rating: v})
	case key.Matches(msg, m.keys.login):
		return m.navigate(models.LocationLogin)
	case key.Matches(msg, m.keys.logout):
		return m, m.dispatch(tasks.Intent{Kind: tasks.IntentLogout})
	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		return m, m.loadMovies()
	case key.Matches(msg, m.keys.open):
		return m, m.open(m.selectedID())
	}

	return m.updateList(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.detailItem.Movie.ID

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MovieListView
		m.detail = nil
		return m, nil
	case key.Matches(msg, m.keys.watchlist):
		return m, m.dispatch(tasks.Intent{Kind: tasks.IntentToggleWatchlist, MovieID: id})
	case key.Matches(msg, m.keys.rate):
		v, _ := strconv.Atoi(msg.String())
		return m, m.dispatch(tasks.Intent{Kind: tasks.IntentRate, MovieID: id, Rating: v})
	case key.Matches(msg, m.keys.open):
		return m, m.open(id)
	case key.Matches(msg, m.keys.login):
		return m.navigate(models.LocationLogin)
	case key.Matches(msg, m.keys.logout):
		return m, m.dispatch(tasks.Intent{Kind: tasks.IntentLogout})
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MovieListView
		m.email.Blur()
		m.password.Blur()
		return m, nil
	case "tab", "shift+tab", "up", "down":
		if m.email.Focused() {
			m.email.Blur()
			return m, m.password.Focus()
		}
		m.password.Blur()
		return m, m.email.Focus()
	case "ctrl+r":
		m.remember = !m.remember
		return m, nil
	case "ctrl+g":
		return m, m.dispatch(tasks.Intent{Kind: tasks.IntentSocialLogin, Provider: string(models.ProviderGoogle)})
	case "ctrl+f":
		return m, m.dispatch(tasks.Intent{Kind: tasks.IntentSocialLogin, Provider: string(models.ProviderFacebook)})
	case "enter":
		if m.pending {
			return m, nil
		}
		m.pending = true
		return m, m.dispatch(tasks.Intent{
			Kind:     tasks.IntentLogin,
			Email:    m.email.Value(),
			Password: m.password.Value(),
			Remember: m.remember,
		})
	}

	var cmd tea.Cmd
	if m.email.Focused() {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == MovieListView {
		m.movieList, cmd = m.movieList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedID() models.MovieID {
	if item, ok := m.movieList.SelectedItem().(movieItem); ok {
		return item.Movie.ID
	}
	return ""
}

func (m *Model) loadMovies() tea.Cmd {
	q := m.query
	return func() tea.Msg {
		return moviesLoadedMsg(m.engine.Browse(m.ctx, q))
	}
}

func (m *Model) loadDetail(id models.MovieID) tea.Cmd {
	return func() tea.Msg {
		detail, item, err := m.engine.Details(m.ctx, id)
		return detailLoadedMsg(detail, item, err)
	}
}

func (m *Model) dispatch(in tasks.Intent) tea.Cmd {
	if in.MovieID == "" && in.Kind != tasks.IntentLogout && in.Kind != tasks.IntentLogin && in.Kind != tasks.IntentSocialLogin {
		return nil
	}
	return func() tea.Msg {
		return intentDoneMsg(m.dispatcher.Dispatch(m.ctx, in))
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.feed.Events()
	return func() tea.Msg {
		select {
		case e := <-events:
			return feedEventMsg(e)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) showToast(n models.Notice) tea.Cmd {
	m.toastSeq++
	m.toast = &n
	seq := m.toastSeq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg(seq) })
}

func (m *Model) open(id models.MovieID) tea.Cmd {
	if id == "" {
		return nil
	}
	url := shared.MovieWebURL(id.String())
	return func() tea.Msg {
		if err := m.openURL(url); err != nil {
			return feedEventMsg(notify.Event{Notice: &models.Notice{Message: "Could not open browser", Kind: models.NoticeError}})
		}
		return nil
	}
}

func listTitle(source, query string) string {
	if source == "search" {
		return fmt.Sprintf("Results for %q", query)
	}
	return "Trending This Week"
}

func (m *Model) renderList() string {
	if m.loading && len(m.movieList.Items()) == 0 {
		return styles.title.Render("Loading movies...")
	}

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render("Could not load movies. Is the proxy running?") + "\n"
	} else if len(m.movieList.Items()) == 0 {
		errLine = styles.warn.Render("No movies found.") + "\n"
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.filter, m.keys.watchlist, m.keys.rate, m.keys.login, m.keys.logout, m.keys.quit}
	if m.user != nil {
		helpKeys = []key.Binding{m.keys.enter, m.keys.filter, m.keys.watchlist, m.keys.rate, m.keys.logout, m.keys.quit}
	}
	return fmt.Sprintf("%s%s\n\n%s", errLine, m.movieList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	d := m.detail
	if d == nil {
		return styles.err.Render("No movie selected\n\nPress esc to go back")
	}

	var b strings.Builder
	title := d.Title
	if y := d.Summary().Year(); y != "" {
		title = fmt.Sprintf("%s (%s)", title, y)
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")
	if d.Tagline != "" {
		b.WriteString(styles.help.Render(d.Tagline) + "\n\n")
	}

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.label.Render(label) + value + "\n")
	}
	row("Rating", formatter.FormatRating(d.VoteAverage))
	row("Runtime", formatter.FormatRuntime(d.Runtime))
	row("Released", formatter.FormatDate(d.ReleaseDate))
	row("Genres", strings.Join(d.GenreNames(), ", "))
	row("Director", strings.Join(d.Directors(), ", "))

	cast := make([]string, 0, 5)
	for _, c := range d.TopCast(5) {
		cast = append(cast, c.Name)
	}
	row("Cast", strings.Join(cast, ", "))
	if d.Budget > 0 {
		row("Budget", formatter.FormatMoney(d.Budget))
	}
	if d.Revenue > 0 {
		row("Revenue", formatter.FormatMoney(d.Revenue))
	}

	mine := "Not rated"
	if r := m.detailItem.Rating; r != nil {
		mine = r.Stars()
	}
	row("Your rating", mine)
	if m.detailItem.InWatchlist {
		row("Watchlist", styles.ok.Render("✓ In your watchlist"))
	} else {
		row("Watchlist", "Not in your watchlist")
	}

	if d.Overview != "" {
		b.WriteString("\n" + d.Overview + "\n")
	}

	helpKeys := []key.Binding{m.keys.watchlist, m.keys.rate, m.keys.open, m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Sign in to MovieBot"))
	b.WriteString("\n")

	field := func(label string, in textinput.Model) {
		l := styles.label.Render(label)
		if in.Focused() {
			l = styles.active.Width(12).Render(label)
		}
		b.WriteString(l + in.View() + "\n")
	}
	field("Email", m.email)
	field("Password", m.password)

	check := "[ ]"
	if m.remember {
		check = "[x]"
	}
	b.WriteString(styles.label.Render("") + check + " Remember me\n\n")

	if m.pending {
		b.WriteString(styles.warn.Render(shared.UserMessage(shared.ErrAuthInProgress)) + "\n\n")
	}

	helpKeys := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
		m.keys.next, m.keys.remember, m.keys.google, m.keys.facebook, m.keys.back,
	}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}
