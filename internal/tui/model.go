package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"github.com/pointsheet/paddock/internal/database"
	"github.com/pointsheet/paddock/internal/standings"
	"github.com/pointsheet/paddock/internal/tabs"
)

// ────────────────────────────────────────────────────────────
// Sections and panes
// ────────────────────────────────────────────────────────────

// Section is a top-level navigation entry.
type Section int

const (
	SectionDashboard Section = iota
	SectionCalendar
	SectionRaces
	SectionDrivers
)

var sectionNames = []string{"Dashboard", "Calendar", "Races", "Drivers"}

func (s Section) String() string { return sectionNames[s] }

// Dashboard tab labels.
const (
	TabUpcoming  = "upcoming"
	TabAvailable = "available"
	TabStandings = "standings"
)

// tabPane is the content behind one dashboard tab. Only the active pane is
// rendered; the others keep their data and selection.
type tabPane struct {
	events   []*database.Event
	selected int
	empty    string
}

func (p *tabPane) current() *database.Event {
	if p == nil || p.selected < 0 || p.selected >= len(p.events) {
		return nil
	}
	return p.events[p.selected]
}

func (p *tabPane) setEvents(events []*database.Event) {
	p.events = events
	p.selected = clamp(p.selected, 0, maxInt(len(events)-1, 0))
}

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Options configures a dashboard model.
type Options struct {
	TeamName   string
	DriverID   string
	DefaultTab string
	DateFormat string
	Mouse      bool
	Logger     *zap.Logger
	// Now is the clock used for event windows; time.Now when nil.
	Now func() time.Time
}

// Model is the root BubbleTea model for the paddock dashboard.
// State is organized by concern; rendering is delegated
// to component functions in separate files.
type Model struct {
	store  database.Store
	calc   *standings.Calculator
	opts   Options
	logger *zap.Logger

	// Dashboard
	lastRace     *database.LastRace
	seriesJoined int
	seriesTotal  int
	tabs         *tabs.Container[*tabPane]
	series       []*database.Series
	seriesIdx    int
	table        *standings.Table

	// Other sections
	calendar    []*database.Event
	calendarSel int
	drivers     []*database.Driver

	// Event detail overlay
	detail       *database.Event
	detailRules  string
	detailScroll int

	// UI state
	section  Section
	width    int
	height   int
	keys     keyMap
	help     help.Model
	zone     *zone.Manager
	loaded   bool
	joinBusy bool

	// Status
	statusMsg string
	err       error
}

// NewModel creates a dashboard backed by store. It fails only when the
// tab set cannot be built.
func NewModel(store database.Store, opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	container, err := tabs.New(
		tabs.Tab[*tabPane]{Label: TabUpcoming, Title: "Upcoming Events",
			Content: &tabPane{empty: "You have not joined any upcoming events."}},
		tabs.Tab[*tabPane]{Label: TabAvailable, Title: "Available Events",
			Content: &tabPane{empty: "No open events to join right now."}},
		tabs.Tab[*tabPane]{Label: TabStandings, Title: "Standings",
			Content: &tabPane{empty: "No series to rank yet."}},
	)
	if err != nil {
		return Model{}, fmt.Errorf("building dashboard tabs: %w", err)
	}
	if opts.DefaultTab != "" && !container.Select(opts.DefaultTab) {
		opts.Logger.Warn("unknown default tab, keeping first", zap.String("tab", opts.DefaultTab))
	}

	m := Model{
		store:     store,
		calc:      standings.NewCalculator(store),
		opts:      opts,
		logger:    opts.Logger,
		tabs:      container,
		keys:      defaultKeyMap(),
		help:      newHelp(),
		statusMsg: "Loading league...",
	}
	if opts.Mouse {
		m.zone = zone.New()
	}
	return m, nil
}

// ActiveTab returns the label of the selected dashboard tab.
func (m Model) ActiveTab() string { return m.tabs.ActiveLabel() }

// ActiveSection returns the section shown in the body.
func (m Model) ActiveSection() Section { return m.section }

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

const statusReloading = "Reloading..."

// ReloadMsg asks the dashboard to re-read the store. The database watcher
// sends it through tea.Program.Send.
type ReloadMsg struct{}

type dashboardLoadedMsg struct {
	lastRace  *database.LastRace
	joined    int
	total     int
	upcoming  []*database.Event
	available []*database.Event
	series    []*database.Series
}

type standingsLoadedMsg struct{ table *standings.Table }
type calendarLoadedMsg []*database.Event
type driversLoadedMsg []*database.Driver

type detailLoadedMsg struct {
	event *database.Event
	rules string
}

type registrationMsg struct {
	event  *database.Event
	joined bool
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ────────────────────────────────────────────────────────────
// Init and loaders
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.loadDashboard()
}

func (m Model) loadDashboard() tea.Cmd {
	store, driverID, now := m.store, m.opts.DriverID, m.opts.Now()
	return func() tea.Msg {
		var msg dashboardLoadedMsg

		if driverID != "" {
			last, err := store.LastResult(driverID)
			switch {
			case errors.Is(err, database.ErrNotFound):
			case err != nil:
				return errMsg{err}
			default:
				msg.lastRace = last
			}

			upcoming, err := store.UpcomingEvents(driverID, now)
			if err != nil {
				return errMsg{err}
			}
			msg.upcoming = upcoming
		}

		joined, total, err := store.SignedOnSeries(driverID)
		if err != nil {
			return errMsg{err}
		}
		msg.joined, msg.total = joined, total

		available, err := store.AvailableEvents(driverID, now)
		if err != nil {
			return errMsg{err}
		}
		msg.available = available

		series, err := store.QuerySeries(database.SeriesFilter{})
		if err != nil {
			return errMsg{err}
		}
		msg.series = series
		return msg
	}
}

func (m Model) loadStandings(seriesID string) tea.Cmd {
	calc := m.calc
	return func() tea.Msg {
		table, err := calc.Series(seriesID)
		if err != nil {
			return errMsg{err}
		}
		return standingsLoadedMsg{table}
	}
}

func (m Model) loadCalendar() tea.Cmd {
	store, now := m.store, m.opts.Now()
	return func() tea.Msg {
		events, err := store.QueryEvents(database.EventFilter{
			Since: now.AddDate(0, 0, -30),
			Limit: 200,
		})
		if err != nil {
			return errMsg{err}
		}
		return calendarLoadedMsg(events)
	}
}

func (m Model) loadDrivers() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		drivers, err := store.ListDrivers()
		if err != nil {
			return errMsg{err}
		}
		return driversLoadedMsg(drivers)
	}
}

func (m Model) loadDetail(eventID string) tea.Cmd {
	store, width := m.store, m.width
	return func() tea.Msg {
		ev, err := store.GetEvent(eventID)
		if err != nil {
			return errMsg{err}
		}
		return detailLoadedMsg{event: ev, rules: renderRules(ev.Rules, width)}
	}
}

// renderRules turns an event's markdown rules into terminal output.
// Rendering failures fall back to the raw text.
func renderRules(rules string, width int) string {
	if rules == "" {
		return ""
	}
	wrap := clamp(width-8, 20, 100)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return rules
	}
	out, err := r.Render(rules)
	if err != nil {
		return rules
	}
	return out
}

func (m Model) join(ev *database.Event) tea.Cmd {
	store, driverID, now := m.store, m.opts.DriverID, m.opts.Now()
	return func() tea.Msg {
		if err := store.JoinEvent(ev.EventID, driverID, now); err != nil {
			return errMsg{err}
		}
		return registrationMsg{event: ev, joined: true}
	}
}

func (m Model) leave(ev *database.Event) tea.Cmd {
	store, driverID := m.store, m.opts.DriverID
	return func() tea.Msg {
		if err := store.LeaveEvent(ev.EventID, driverID); err != nil {
			return errMsg{err}
		}
		return registrationMsg{event: ev, joined: false}
	}
}

// reload refreshes the dashboard and whatever the current section shows.
func (m Model) reload() tea.Cmd {
	cmds := []tea.Cmd{m.loadDashboard()}
	switch m.section {
	case SectionCalendar:
		cmds = append(cmds, m.loadCalendar())
	case SectionDrivers:
		cmds = append(cmds, m.loadDrivers())
	}
	if m.detail != nil {
		cmds = append(cmds, m.loadDetail(m.detail.EventID))
	}
	return tea.Batch(cmds...)
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.detailScroll = clamp(m.detailScroll, 0, m.maxDetailScroll())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case ReloadMsg:
		m.logger.Debug("reloading dashboard")
		return m, m.reload()

	case dashboardLoadedMsg:
		return m.applyDashboard(msg)

	case standingsLoadedMsg:
		want := m.currentSeriesID()
		if msg.table == nil || msg.table.Series == nil || msg.table.Series.SeriesID != want {
			// A picker change overtook this load.
			m.logger.Debug("dropping stale standings", zap.String("series", want))
			if want != "" && (m.table == nil || m.table.Series == nil || m.table.Series.SeriesID != want) {
				return m, m.loadStandings(want)
			}
			return m, nil
		}
		m.table = msg.table
		return m, nil

	case calendarLoadedMsg:
		m.calendar = []*database.Event(msg)
		m.calendarSel = clamp(m.calendarSel, 0, maxInt(len(m.calendar)-1, 0))
		m.statusMsg = fmt.Sprintf("%d events in the calendar", len(m.calendar))
		return m, nil

	case driversLoadedMsg:
		m.drivers = []*database.Driver(msg)
		m.statusMsg = fmt.Sprintf("%d drivers", len(m.drivers))
		return m, nil

	case detailLoadedMsg:
		m.detail = msg.event
		m.detailRules = msg.rules
		m.detailScroll = 0
		return m, nil

	case registrationMsg:
		m.joinBusy = false
		m.err = nil
		if msg.joined {
			m.statusMsg = fmt.Sprintf("Joined %s", msg.event.Title)
		} else {
			m.statusMsg = fmt.Sprintf("Left %s", msg.event.Title)
		}
		m.logger.Info("registration changed",
			zap.String("event", msg.event.EventID),
			zap.String("driver", m.opts.DriverID),
			zap.Bool("joined", msg.joined))
		return m, m.reload()

	case errMsg:
		m.joinBusy = false
		m.err = msg.err
		m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		m.logger.Warn("dashboard error", zap.Error(msg.err))
		return m, nil
	}

	return m, nil
}

func (m Model) applyDashboard(msg dashboardLoadedMsg) (tea.Model, tea.Cmd) {
	firstLoad := !m.loaded
	m.loaded = true
	m.lastRace = msg.lastRace
	m.seriesJoined, m.seriesTotal = msg.joined, msg.total

	for _, t := range m.tabs.Tabs() {
		switch t.Label {
		case TabUpcoming:
			t.Content.setEvents(msg.upcoming)
		case TabAvailable:
			t.Content.setEvents(msg.available)
		}
	}

	prev := m.currentSeriesID()
	m.series = msg.series
	m.seriesIdx = 0
	for i, s := range m.series {
		if s.SeriesID == prev {
			m.seriesIdx = i
			break
		}
	}

	// Keep registration and error messages visible across the reload
	// they trigger.
	if firstLoad || m.statusMsg == statusReloading {
		m.err = nil
		m.statusMsg = fmt.Sprintf("%d upcoming  %d available", len(msg.upcoming), len(msg.available))
	}

	if id := m.currentSeriesID(); id != "" {
		return m, m.loadStandings(id)
	}
	m.table = nil
	return m, nil
}

// bodyHeight is the height left between the header and the footer.
func (m Model) bodyHeight() int {
	return m.height - lipgloss.Height(renderHeader(&m)) - lipgloss.Height(renderFooter(&m))
}

func (m Model) currentSeriesID() string {
	if m.seriesIdx < 0 || m.seriesIdx >= len(m.series) {
		return ""
	}
	return m.series[m.seriesIdx].SeriesID
}

// activePane returns the pane behind the selected tab.
func (m Model) activePane() *tabPane {
	p, _ := m.tabs.Content()
	return p
}

// selectTab changes the dashboard tab and logs the switch.
func (m *Model) selectTab(label string) {
	if m.tabs.Select(label) {
		m.logger.Debug("tab selected", zap.String("label", label))
	}
}

func (m *Model) setSection(s Section) tea.Cmd {
	if s == m.section {
		return nil
	}
	m.section = s
	m.detail = nil
	switch s {
	case SectionCalendar:
		return m.loadCalendar()
	case SectionDrivers:
		return m.loadDrivers()
	}
	return nil
}

// handleKey routes keyboard input based on current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ── Global ──

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.statusMsg = statusReloading
		return m, m.reload()
	}

	// ── Event detail ──

	if m.detail != nil {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.detail = nil
			m.detailScroll = 0
		case key.Matches(msg, m.keys.Down):
			if m.detailScroll < m.maxDetailScroll() {
				m.detailScroll++
			}
		case key.Matches(msg, m.keys.Up):
			if m.detailScroll > 0 {
				m.detailScroll--
			}
		case key.Matches(msg, m.keys.Join):
			return m.register(m.detail, true)
		case key.Matches(msg, m.keys.Leave):
			return m.register(m.detail, false)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextSect):
		return m, m.setSection((m.section + 1) % Section(len(sectionNames)))
	case key.Matches(msg, m.keys.PrevSect):
		n := Section(len(sectionNames))
		return m, m.setSection((m.section + n - 1) % n)
	}

	// ── Calendar section ──

	if m.section == SectionCalendar {
		switch {
		case key.Matches(msg, m.keys.Down):
			if m.calendarSel < len(m.calendar)-1 {
				m.calendarSel++
			}
		case key.Matches(msg, m.keys.Up):
			if m.calendarSel > 0 {
				m.calendarSel--
			}
		case key.Matches(msg, m.keys.Open):
			if m.calendarSel < len(m.calendar) {
				return m, m.loadDetail(m.calendar[m.calendarSel].EventID)
			}
		}
		return m, nil
	}

	if m.section != SectionDashboard {
		return m, nil
	}

	// ── Dashboard tabs ──

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.tabs.Next()
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.tabs.Prev()
		return m, nil
	case key.Matches(msg, m.keys.Tab1):
		m.selectTab(TabUpcoming)
		return m, nil
	case key.Matches(msg, m.keys.Tab2):
		m.selectTab(TabAvailable)
		return m, nil
	case key.Matches(msg, m.keys.Tab3):
		m.selectTab(TabStandings)
		return m, nil
	}

	if m.tabs.ActiveLabel() == TabStandings {
		switch {
		case key.Matches(msg, m.keys.NextSeries):
			if len(m.series) > 0 {
				m.seriesIdx = (m.seriesIdx + 1) % len(m.series)
				return m, m.loadStandings(m.currentSeriesID())
			}
		case key.Matches(msg, m.keys.PrevSeries):
			if len(m.series) > 0 {
				m.seriesIdx = (m.seriesIdx + len(m.series) - 1) % len(m.series)
				return m, m.loadStandings(m.currentSeriesID())
			}
		}
		return m, nil
	}

	pane := m.activePane()
	if pane == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		if pane.selected < len(pane.events)-1 {
			pane.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if pane.selected > 0 {
			pane.selected--
		}
	case key.Matches(msg, m.keys.Open):
		if ev := pane.current(); ev != nil {
			return m, m.loadDetail(ev.EventID)
		}
	case key.Matches(msg, m.keys.Join):
		if ev := pane.current(); ev != nil {
			return m.register(ev, true)
		}
	case key.Matches(msg, m.keys.Leave):
		if ev := pane.current(); ev != nil {
			return m.register(ev, false)
		}
	}
	return m, nil
}

// register joins or leaves ev for the configured driver.
func (m Model) register(ev *database.Event, join bool) (tea.Model, tea.Cmd) {
	if m.opts.DriverID == "" {
		m.statusMsg = "Set team.driver_id in the config to join events"
		return m, nil
	}
	if m.joinBusy {
		return m, nil
	}
	m.joinBusy = true
	if join {
		m.statusMsg = fmt.Sprintf("Joining %s...", ev.Title)
		return m, m.join(ev)
	}
	m.statusMsg = fmt.Sprintf("Leaving %s...", ev.Title)
	return m, m.leave(ev)
}

// handleMouse resolves clicks on the tab strip, the navigation bar and
// event cards.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.zone == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for i := range sectionNames {
		if m.zone.Get(navZoneID(Section(i))).InBounds(msg) {
			return m, m.setSection(Section(i))
		}
	}

	if m.section != SectionDashboard || m.detail != nil {
		return m, nil
	}

	for _, c := range m.tabs.Controls() {
		if m.zone.Get(tabZoneID(c.Label)).InBounds(msg) {
			m.selectTab(c.Label)
			return m, nil
		}
	}

	if pane := m.activePane(); pane != nil && m.tabs.ActiveLabel() != TabStandings {
		for i, ev := range pane.events {
			if m.zone.Get(eventZoneID(ev.EventID)).InBounds(msg) {
				if pane.selected == i {
					return m, m.loadDetail(ev.EventID)
				}
				pane.selected = i
				return m, nil
			}
		}
	}
	return m, nil
}

// mark wraps s in a clickable zone when mouse support is on.
func (m *Model) mark(id, s string) string {
	if m.zone == nil {
		return s
	}
	return m.zone.Mark(id, s)
}

func navZoneID(s Section) string    { return fmt.Sprintf("nav-%d", s) }
func tabZoneID(label string) string { return "tab-" + label }
func eventZoneID(id string) string  { return "event-" + id }

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := renderHeader(&m)
	footer := renderFooter(&m)
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)

	var body string
	switch {
	case m.detail != nil:
		body = renderEventDetail(&m, m.width, bodyHeight)
	case m.section == SectionCalendar:
		body = renderCalendar(&m, m.width, bodyHeight)
	case m.section == SectionRaces:
		body = renderRaces(&m, m.width, bodyHeight)
	case m.section == SectionDrivers:
		body = renderDrivers(&m, m.width, bodyHeight)
	default:
		body = renderDashboard(&m, m.width, bodyHeight)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	if m.zone != nil {
		return m.zone.Scan(out)
	}
	return out
}
