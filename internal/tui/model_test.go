package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pointsheet/paddock/internal/database"
)

var now = time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *database.DBService {
	t.Helper()
	store, err := database.NewDBService(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.InsertDriver(&database.Driver{DriverID: "drv-ana", Name: "Ana Costa", Team: "Apex"}))
	require.NoError(t, store.InsertDriver(&database.Driver{DriverID: "drv-ben", Name: "Ben Ito", Team: "Apex"}))

	gt3 := "gt3"
	require.NoError(t, store.InsertSeries(&database.Series{SeriesID: gt3, Title: "GT3 Sprint Cup", Status: database.SeriesStarted,
		StartsAt: now.AddDate(0, 0, -14)}))
	require.NoError(t, store.InsertSeries(&database.Series{SeriesID: "endu", Title: "Endurance", Status: database.SeriesStarted}))

	require.NoError(t, store.InsertEvent(&database.Event{
		EventID: "ev-laguna", SeriesID: &gt3, Title: "Round 1", Track: "Laguna Seca",
		Status: database.EventClosed, StartsAt: now.AddDate(0, 0, -7), MaxParticipants: 20,
	}))
	require.NoError(t, store.InsertEvent(&database.Event{
		EventID: "ev-road-america", SeriesID: &gt3, Title: "Round 2", Track: "Road America",
		Status: database.EventOpen, StartsAt: now.AddDate(0, 0, 6), EndsAt: now.AddDate(0, 0, 6).Add(2 * time.Hour),
		MaxParticipants: 20,
		Rules:           "## Race rules\n\nMandatory pit stop between laps 8 and 12.",
		Schedule:        []database.Schedule{{Type: database.SessionRace, Laps: 18}},
	}))
	require.NoError(t, store.InsertEvent(&database.Event{
		EventID: "ev-spa", Title: "Spa Fun Race", Track: "Spa-Francorchamps",
		Status: database.EventOpen, StartsAt: now.AddDate(0, 0, 2), MaxParticipants: 12,
	}))

	require.NoError(t, store.ImportParticipants("ev-laguna", []string{"drv-ana", "drv-ben"}, now))
	require.NoError(t, store.JoinEvent("ev-road-america", "drv-ana", now))
	require.NoError(t, store.BatchInsertResults([]*database.RaceResult{
		{EventID: "ev-laguna", DriverID: "drv-ben", Position: 1, BestLapMs: 81333, Points: 25},
		{EventID: "ev-laguna", DriverID: "drv-ana", Position: 2, BestLapMs: 81540, Points: 18, FastestLapPoints: 1},
	}))
	return store
}

func newTestModel(t *testing.T, store database.Store, opts Options) Model {
	t.Helper()
	opts.Now = func() time.Time { return now }
	m, err := NewModel(store, opts)
	require.NoError(t, err)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// drain runs cmd and feeds every resulting message back into the model,
// following batches, until no commands remain.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 50, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		next, more := m.Update(msg)
		m = next.(Model)
		queue = append(queue, more)
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestNewModelDefaultTab(t *testing.T) {
	store := seededStore(t)

	m := newTestModel(t, store, Options{DefaultTab: TabStandings})
	assert.Equal(t, TabStandings, m.ActiveTab())

	m = newTestModel(t, store, Options{DefaultTab: "calendar"})
	assert.Equal(t, TabUpcoming, m.ActiveTab())
}

func TestDashboardLoads(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{DriverID: "drv-ana", TeamName: "Apex Racing"})
	m = drain(t, m, m.Init())

	require.NotNil(t, m.lastRace)
	assert.Equal(t, 2, m.lastRace.Result.Position)
	assert.Equal(t, 1, m.seriesJoined)
	assert.Equal(t, 2, m.seriesTotal)
	assert.Len(t, m.activePane().events, 1)
	require.NotNil(t, m.table)
	assert.Equal(t, "gt3", m.table.Series.SeriesID)

	view := m.View()
	assert.Contains(t, view, "Apex Racing")
	assert.Contains(t, view, "Last Race")
	assert.Contains(t, view, "1 / 2")
	assert.Contains(t, view, "Upcoming Events (1)")
	assert.Contains(t, view, "Round 2")
	assert.NotContains(t, view, "Spa Fun Race", "inactive tab content must not render")
}

func TestTabNavigation(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{DriverID: "drv-ana"})
	m = drain(t, m, m.Init())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabAvailable, m.ActiveTab())
	assert.Contains(t, m.View(), "Spa Fun Race")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabUpcoming, m.ActiveTab(), "tab wraps around")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabStandings, m.ActiveTab())

	m, _ = press(t, m, runes("2"))
	assert.Equal(t, TabAvailable, m.ActiveTab())
	m, _ = press(t, m, runes("2"))
	assert.Equal(t, TabAvailable, m.ActiveTab(), "selecting the active tab is a no-op")
}

func TestJoinAndLeaveFromDashboard(t *testing.T) {
	store := seededStore(t)
	m := newTestModel(t, store, Options{DriverID: "drv-ana", DefaultTab: TabAvailable})
	m = drain(t, m, m.Init())
	require.Equal(t, "ev-spa", m.activePane().current().EventID)

	m, cmd := press(t, m, runes("j"))
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)

	assert.Contains(t, m.statusMsg, "Spa Fun Race")
	assert.Empty(t, m.activePane().events, "joined event leaves the available tab")

	m, _ = press(t, m, runes("1"))
	require.Len(t, m.activePane().events, 2)
	assert.Equal(t, "ev-spa", m.activePane().current().EventID)

	m, cmd = press(t, m, runes("l"))
	m = drain(t, m, cmd)
	assert.Len(t, m.activePane().events, 1)
}

func TestJoinErrorShowsInStatus(t *testing.T) {
	store := seededStore(t)
	m := newTestModel(t, store, Options{DriverID: "drv-ana"})
	m = drain(t, m, m.Init())

	// Already joined the selected upcoming event.
	m, cmd := press(t, m, runes("j"))
	m = drain(t, m, cmd)

	assert.ErrorIs(t, m.err, database.ErrAlreadyJoined)
	assert.Contains(t, m.View(), "Error:")
}

func TestJoinWithoutDriver(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{DefaultTab: TabAvailable})
	m = drain(t, m, m.Init())
	require.Len(t, m.activePane().events, 2)

	m, cmd := press(t, m, runes("j"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.statusMsg, "driver_id")
}

func TestEventDetail(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{DriverID: "drv-ana"})
	m = drain(t, m, m.Init())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)
	require.NotNil(t, m.detail)
	assert.Equal(t, "ev-road-america", m.detail.EventID)

	view := m.View()
	assert.Contains(t, view, "Road America")
	assert.Contains(t, view, "18 laps")
	assert.Contains(t, view, "Mandatory")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.detail)
}

func TestStandingsSeriesPicker(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{DriverID: "drv-ana", DefaultTab: TabStandings})
	m = drain(t, m, m.Init())

	view := m.View()
	assert.Contains(t, view, "GT3 Sprint Cup")
	assert.Contains(t, view, "Ben Ito")

	m, cmd := press(t, m, runes("]"))
	m = drain(t, m, cmd)
	assert.Equal(t, "endu", m.table.Series.SeriesID)
	assert.Contains(t, m.View(), "No results in this series yet.")

	m, cmd = press(t, m, runes("["))
	m = drain(t, m, cmd)
	assert.Equal(t, "gt3", m.table.Series.SeriesID)
}

func TestSections(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{DriverID: "drv-ana"})
	m = drain(t, m, m.Init())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = drain(t, m, cmd)
	assert.Equal(t, SectionCalendar, m.ActiveSection())
	assert.Len(t, m.calendar, 3)
	assert.Contains(t, m.View(), "Laguna Seca")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, SectionRaces, m.ActiveSection())
	assert.Contains(t, m.View(), "Endurance")

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = drain(t, m, cmd)
	assert.Equal(t, SectionDrivers, m.ActiveSection())
	assert.Contains(t, m.View(), "Ben Ito")
	assert.Contains(t, m.View(), "Apex")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, SectionDashboard, m.ActiveSection())
}

func TestReloadMsgRefreshes(t *testing.T) {
	store := seededStore(t)
	m := newTestModel(t, store, Options{DriverID: "drv-ana", DefaultTab: TabAvailable})
	m = drain(t, m, m.Init())
	require.Len(t, m.activePane().events, 1)

	require.NoError(t, store.InsertEvent(&database.Event{
		EventID: "ev-monza", Title: "Monza Night", Track: "Monza",
		Status: database.EventOpen, StartsAt: now.AddDate(0, 0, 4), MaxParticipants: 10,
	}))

	_, cmd := m.Update(ReloadMsg{})
	m = drain(t, m, cmd)
	assert.Len(t, m.activePane().events, 2)
}

func TestMouseIgnoredWhenDisabled(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{})
	next, cmd := m.Update(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd)
	assert.Equal(t, TabUpcoming, next.(Model).ActiveTab())
}

func TestStandingsIgnoresStaleTable(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{DriverID: "drv-ana", DefaultTab: TabStandings})
	m = drain(t, m, m.Init())
	require.Equal(t, "gt3", m.table.Series.SeriesID)

	// Flip to endurance and back; the endurance load lands last.
	m, toEndu := press(t, m, runes("]"))
	m, toGT3 := press(t, m, runes("["))
	m = drain(t, m, toGT3)
	next, cmd := m.Update(toEndu())
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "gt3", m.table.Series.SeriesID)
	assert.NotContains(t, m.View(), "Loading standings")

	// An outdated table while the selected one is missing triggers a fresh load.
	stale := m.loadStandings("gt3")
	m, _ = press(t, m, runes("]"))
	next, cmd = m.Update(stale())
	m = next.(Model)
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)
	assert.Equal(t, "endu", m.table.Series.SeriesID)
}

func TestDetailScrollStopsAtEnd(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{DriverID: "drv-ana"})
	m = drain(t, m, m.Init())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m = next.(Model)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)
	require.NotNil(t, m.detail)

	limit := m.maxDetailScroll()
	require.Positive(t, limit)
	for i := 0; i < limit+10; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, limit, m.detailScroll)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, limit-1, m.detailScroll)
}

func TestClickTabControl(t *testing.T) {
	m := newTestModel(t, seededStore(t), Options{DriverID: "drv-ana", Mouse: true})
	t.Cleanup(m.zone.Close)
	m = drain(t, m, m.Init())

	// Zones are recorded by a background worker after each scan.
	var x, y int
	require.Eventually(t, func() bool {
		m.View()
		z := m.zone.Get(tabZoneID(TabAvailable))
		if z.IsZero() {
			return false
		}
		x, y = z.StartX, z.StartY
		return true
	}, time.Second, 10*time.Millisecond)

	next, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd)
	assert.Equal(t, TabAvailable, next.(Model).ActiveTab())
}

func TestTeamRoster(t *testing.T) {
	drivers := []*database.Driver{
		{DriverID: "d1", Name: "Ana", Team: "Zenith"},
		{DriverID: "d2", Name: "Bo"},
		{DriverID: "d3", Name: "Cy", Team: "Apex"},
		{DriverID: "d4", Name: "Di", Team: "Zenith"},
	}

	groups := teamRoster(drivers)
	require.Len(t, groups, 3)
	assert.Equal(t, "Apex", groups[0].name)
	assert.Equal(t, "Zenith", groups[1].name)
	assert.Equal(t, "", groups[2].name)

	var names []string
	for _, d := range groups[1].drivers {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Ana", "Di"}, names)
}
