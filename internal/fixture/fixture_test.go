package fixture

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pointsheet/paddock/internal/database"
)

var now = time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *database.DBService {
	t.Helper()
	store, err := database.NewDBService(filepath.Join(t.TempDir(), "fixture.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadFileAssignsStableIDs(t *testing.T) {
	l, err := LoadFile("testdata/league.yaml")
	require.NoError(t, err)

	require.Len(t, l.Series, 2)
	assert.Equal(t, "gt3", l.Series[0].ID)
	assert.Equal(t, stableID("series", "Winter Endurance"), l.Series[1].ID)

	again, err := LoadFile("testdata/league.yaml")
	require.NoError(t, err)
	assert.Equal(t, l.Series[1].ID, again.Series[1].ID)
}

func TestApplyLeague(t *testing.T) {
	l, err := LoadFile("testdata/league.yaml")
	require.NoError(t, err)
	store := newStore(t)

	sum, err := Apply(store, l, now)
	require.NoError(t, err)
	assert.Equal(t, Summary{Drivers: 3, Series: 2, Events: 3, Participants: 4, Results: 3}, sum)

	ev, err := store.GetEvent("ev-laguna")
	require.NoError(t, err)
	assert.Equal(t, database.EventClosed, ev.Status)
	assert.Equal(t, 3, ev.Participants)
	assert.Equal(t, 90*time.Minute, ev.Duration())
	require.Len(t, ev.Schedule, 2)
	assert.Equal(t, database.SessionRace, ev.Schedule[1].Type)
	assert.Contains(t, ev.Rules, "Mandatory")

	last, err := store.LastResult("drv-ben")
	require.NoError(t, err)
	assert.Equal(t, 1, last.Result.Position)
	assert.Equal(t, int64(81333), last.Result.BestLapMs)
	assert.Equal(t, 3, last.FieldSize)

	avail, err := store.AvailableEvents("drv-ana", now)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, "ev-spa", avail[0].EventID)

	upcoming, err := store.UpcomingEvents("drv-ana", now)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "ev-road-america", upcoming[0].EventID)
}

func TestApplyTwiceIsStable(t *testing.T) {
	l, err := LoadFile("testdata/league.yaml")
	require.NoError(t, err)
	store := newStore(t)

	_, err = Apply(store, l, now)
	require.NoError(t, err)
	_, err = Apply(store, l, now)
	require.NoError(t, err)

	drivers, err := store.ListDrivers()
	require.NoError(t, err)
	assert.Len(t, drivers, 3)

	ev, err := store.GetEvent("ev-laguna")
	require.NoError(t, err)
	assert.Equal(t, 3, ev.Participants)
	assert.Len(t, ev.Schedule, 2)
}

func TestLoadEmptyDocument(t *testing.T) {
	l, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, l.Events)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "drivers:\n  - id: a\n    name: A\n    nickname: x\n"},
		{"bad series status", "series:\n  - title: S\n    status: paused\n"},
		{"unknown series", `
events:
  - title: E
    series: nope
    status: open
    starts_at: 2025-01-01T00:00:00Z
    max_participants: 4
`},
		{"unknown participant", `
events:
  - title: E
    status: open
    starts_at: 2025-01-01T00:00:00Z
    max_participants: 4
    participants: [ghost]
`},
		{"overbooked", `
drivers:
  - {id: a, name: A}
  - {id: b, name: B}
events:
  - title: E
    status: open
    starts_at: 2025-01-01T00:00:00Z
    max_participants: 1
    participants: [a, b]
`},
		{"repeated position", `
drivers:
  - {id: a, name: A}
  - {id: b, name: B}
events:
  - title: E
    status: closed
    starts_at: 2025-01-01T00:00:00Z
    max_participants: 4
    results:
      - {driver: a, position: 1}
      - {driver: b, position: 1}
`},
		{"bad lap", `
drivers:
  - {id: a, name: A}
events:
  - title: E
    status: closed
    starts_at: 2025-01-01T00:00:00Z
    max_participants: 4
    results:
      - {driver: a, position: 1, best_lap: quick}
`},
		{"mixed-case series status", "series:\n  - title: S\n    status: Started\n"},
		{"mixed-case event status", `
events:
  - title: E
    status: Open
    starts_at: 2025-01-01T00:00:00Z
    max_participants: 4
`},
		{"driver classified twice", `
drivers:
  - {id: a, name: A}
  - {id: b, name: B}
events:
  - title: E
    status: closed
    starts_at: 2025-01-01T00:00:00Z
    max_participants: 4
    results:
      - {driver: a, position: 1, points: 25}
      - {driver: a, position: 2, points: 18}
`},
		{"bad session", `
events:
  - title: E
    status: open
    starts_at: 2025-01-01T00:00:00Z
    max_participants: 4
    schedule:
      - type: warmup
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			if tt.name != "unknown key" {
				assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
			}
		})
	}
}

func TestApplyRejectsInvalidLeagueBeforeWriting(t *testing.T) {
	store := newStore(t)
	l := &League{
		Drivers: []database.Driver{{DriverID: "d1", Name: "Dee"}},
		Series:  []Series{{ID: "s1", Title: "Sprint", Status: "Started"}},
	}

	sum, err := Apply(store, l, now)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, Summary{}, sum)

	drivers, err := store.ListDrivers()
	require.NoError(t, err)
	assert.Empty(t, drivers)
}
