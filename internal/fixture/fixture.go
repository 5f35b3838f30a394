// Package fixture loads league data from YAML documents into a Store.
//
// A fixture lists drivers, series and events. Events may carry their
// schedule, registered drivers and a classification. Records without an
// id get a stable one derived from their title, so loading the same file
// twice updates rather than duplicates.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pointsheet/paddock/internal/database"
	"github.com/pointsheet/paddock/pkg/timeutil"
)

// ErrInvalid is returned when a fixture references unknown records or
// carries values the store would reject.
var ErrInvalid = errors.New("invalid fixture")

// League is the top-level fixture document.
type League struct {
	Drivers []database.Driver `yaml:"drivers"`
	Series  []Series          `yaml:"series"`
	Events  []Event           `yaml:"events"`
}

// Series is a championship entry.
type Series struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Status   string    `yaml:"status"`
	StartsAt time.Time `yaml:"starts_at"`
	EndsAt   time.Time `yaml:"ends_at"`
}

// Event is a race meeting entry.
type Event struct {
	ID              string    `yaml:"id"`
	Series          string    `yaml:"series"`
	Title           string    `yaml:"title"`
	Track           string    `yaml:"track"`
	Host            string    `yaml:"host"`
	Status          string    `yaml:"status"`
	Rules           string    `yaml:"rules"`
	StartsAt        time.Time `yaml:"starts_at"`
	Duration        string    `yaml:"duration"`
	MaxParticipants int       `yaml:"max_participants"`
	Schedule        []Session `yaml:"schedule"`
	Participants    []string  `yaml:"participants"`
	Results         []Result  `yaml:"results"`
}

// Session is one schedule entry of an event.
type Session struct {
	Type     string `yaml:"type"`
	Laps     int    `yaml:"laps"`
	Duration string `yaml:"duration"`
}

// Result is one classified driver. BestLap uses the "1:21.333" notation.
type Result struct {
	Driver     string `yaml:"driver"`
	Position   int    `yaml:"position"`
	BestLap    string `yaml:"best_lap"`
	TotalTime  string `yaml:"total_time"`
	Penalties  int    `yaml:"penalties"`
	FastestLap int    `yaml:"fl_points"`
	Points     int    `yaml:"points"`
}

// Summary counts what Apply wrote.
type Summary struct {
	Drivers      int
	Series       int
	Events       int
	Participants int
	Results      int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d drivers, %d series, %d events, %d registrations, %d results",
		s.Drivers, s.Series, s.Events, s.Participants, s.Results)
}

// Load decodes a fixture document, fills missing ids and validates it.
// Unknown keys are rejected so typos do not silently drop data.
func Load(r io.Reader) (*League, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var l League
	if err := dec.Decode(&l); err != nil {
		if errors.Is(err, io.EOF) {
			return &l, nil
		}
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	l.assignIDs()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile reads a fixture from disk.
func LoadFile(path string) (*League, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	l, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

func stableID(kind, title string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+title)).String()
}

func (l *League) assignIDs() {
	for i := range l.Drivers {
		if l.Drivers[i].DriverID == "" {
			l.Drivers[i].DriverID = stableID("driver", l.Drivers[i].Name)
		}
	}
	for i := range l.Series {
		if l.Series[i].ID == "" {
			l.Series[i].ID = stableID("series", l.Series[i].Title)
		}
	}
	for i := range l.Events {
		if l.Events[i].ID == "" {
			l.Events[i].ID = stableID("event", l.Events[i].Series+"/"+l.Events[i].Title)
		}
	}
}

// Validate checks statuses, session types and that every reference
// points at a record in the same document.
func (l *League) Validate() error {
	drivers := make(map[string]bool, len(l.Drivers))
	for _, d := range l.Drivers {
		if d.Name == "" {
			return fmt.Errorf("%w: driver %s has no name", ErrInvalid, d.DriverID)
		}
		if drivers[d.DriverID] {
			return fmt.Errorf("%w: duplicate driver %s", ErrInvalid, d.DriverID)
		}
		drivers[d.DriverID] = true
	}

	series := make(map[string]bool, len(l.Series))
	for _, s := range l.Series {
		if s.Title == "" {
			return fmt.Errorf("%w: series %s has no title", ErrInvalid, s.ID)
		}
		if !database.IsStatus(s.Status, database.SeriesNotStarted, database.SeriesStarted, database.SeriesClosed) {
			return fmt.Errorf("%w: series %q has status %q", ErrInvalid, s.Title, s.Status)
		}
		if series[s.ID] {
			return fmt.Errorf("%w: duplicate series %s", ErrInvalid, s.ID)
		}
		series[s.ID] = true
	}

	events := make(map[string]bool, len(l.Events))
	for _, e := range l.Events {
		if err := e.validate(drivers, series); err != nil {
			return err
		}
		if events[e.ID] {
			return fmt.Errorf("%w: duplicate event %s", ErrInvalid, e.ID)
		}
		events[e.ID] = true
	}
	return nil
}

func (e *Event) validate(drivers, series map[string]bool) error {
	switch {
	case e.Title == "":
		return fmt.Errorf("%w: event %s has no title", ErrInvalid, e.ID)
	case e.StartsAt.IsZero():
		return fmt.Errorf("%w: event %q has no start time", ErrInvalid, e.Title)
	case e.MaxParticipants < 1:
		return fmt.Errorf("%w: event %q needs max_participants of at least 1", ErrInvalid, e.Title)
	case !database.IsStatus(e.Status, database.EventOpen, database.EventInProgress, database.EventClosed):
		return fmt.Errorf("%w: event %q has status %q", ErrInvalid, e.Title, e.Status)
	case e.Series != "" && !series[e.Series]:
		return fmt.Errorf("%w: event %q references unknown series %s", ErrInvalid, e.Title, e.Series)
	case e.Host != "" && !drivers[e.Host]:
		return fmt.Errorf("%w: event %q hosted by unknown driver %s", ErrInvalid, e.Title, e.Host)
	}
	if _, err := e.duration(); err != nil {
		return fmt.Errorf("%w: event %q: %v", ErrInvalid, e.Title, err)
	}

	for _, s := range e.Schedule {
		if !database.IsStatus(s.Type, database.SessionPractice, database.SessionQualification, database.SessionRace) {
			return fmt.Errorf("%w: event %q has session type %q", ErrInvalid, e.Title, s.Type)
		}
	}

	if len(e.Participants) > e.MaxParticipants {
		return fmt.Errorf("%w: event %q has %d participants for %d slots",
			ErrInvalid, e.Title, len(e.Participants), e.MaxParticipants)
	}
	for _, id := range e.Participants {
		if !drivers[id] {
			return fmt.Errorf("%w: event %q lists unknown driver %s", ErrInvalid, e.Title, id)
		}
	}

	positions := make(map[int]bool, len(e.Results))
	classified := make(map[string]bool, len(e.Results))
	for _, r := range e.Results {
		if !drivers[r.Driver] {
			return fmt.Errorf("%w: event %q classifies unknown driver %s", ErrInvalid, e.Title, r.Driver)
		}
		if classified[r.Driver] {
			return fmt.Errorf("%w: event %q classifies driver %s twice", ErrInvalid, e.Title, r.Driver)
		}
		classified[r.Driver] = true
		if r.Position < 1 || positions[r.Position] {
			return fmt.Errorf("%w: event %q has bad or repeated position %d", ErrInvalid, e.Title, r.Position)
		}
		positions[r.Position] = true
		if _, err := timeutil.ParseLap(r.BestLap); err != nil {
			return fmt.Errorf("%w: event %q: %v", ErrInvalid, e.Title, err)
		}
	}
	return nil
}

func (e *Event) duration() (time.Duration, error) {
	if e.Duration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.Duration)
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", e.Duration, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", e.Duration)
	}
	return d, nil
}

func (e *Event) model() *database.Event {
	ev := &database.Event{
		EventID:         e.ID,
		Title:           e.Title,
		Track:           e.Track,
		Host:            e.Host,
		Status:          e.Status,
		Rules:           e.Rules,
		StartsAt:        e.StartsAt.UTC(),
		MaxParticipants: e.MaxParticipants,
	}
	if e.Series != "" {
		id := e.Series
		ev.SeriesID = &id
	}
	if d, _ := e.duration(); d > 0 {
		ev.EndsAt = ev.StartsAt.Add(d)
	}
	for _, s := range e.Schedule {
		ev.Schedule = append(ev.Schedule, database.Schedule{
			EventID:  e.ID,
			Type:     s.Type,
			Laps:     s.Laps,
			Duration: s.Duration,
		})
	}
	return ev
}

// Apply validates the league and writes it into store: drivers first,
// then series, then events with their registrations and results. Registrations are
// imported as-is, so closed events may carry their historical field.
func Apply(store database.Store, l *League, now time.Time) (Summary, error) {
	var sum Summary

	l.assignIDs()
	if err := l.Validate(); err != nil {
		return sum, err
	}

	for i := range l.Drivers {
		d := l.Drivers[i]
		if err := store.InsertDriver(&d); err != nil {
			return sum, err
		}
		sum.Drivers++
	}

	for _, s := range l.Series {
		err := store.InsertSeries(&database.Series{
			SeriesID: s.ID,
			Title:    s.Title,
			Status:   s.Status,
			StartsAt: s.StartsAt.UTC(),
			EndsAt:   s.EndsAt.UTC(),
		})
		if err != nil {
			return sum, err
		}
		sum.Series++
	}

	for i := range l.Events {
		e := &l.Events[i]
		if err := store.InsertEvent(e.model()); err != nil {
			return sum, err
		}
		sum.Events++

		if len(e.Participants) > 0 {
			if err := store.ImportParticipants(e.ID, e.Participants, now); err != nil {
				return sum, err
			}
			sum.Participants += len(e.Participants)
		}

		if len(e.Results) == 0 {
			continue
		}
		results := make([]*database.RaceResult, 0, len(e.Results))
		for _, r := range e.Results {
			lap, _ := timeutil.ParseLap(r.BestLap)
			results = append(results, &database.RaceResult{
				EventID:          e.ID,
				DriverID:         r.Driver,
				Position:         r.Position,
				BestLapMs:        lap,
				TotalTime:        r.TotalTime,
				Penalties:        r.Penalties,
				FastestLapPoints: r.FastestLap,
				Points:           r.Points,
			})
		}
		if err := store.BatchInsertResults(results); err != nil {
			return sum, err
		}
		sum.Results += len(results)
	}
	return sum, nil
}
