package database

import "time"

// ============================================================
// Domain Models
// ============================================================

// Series statuses.
const (
	SeriesNotStarted = "not_started"
	SeriesStarted    = "started"
	SeriesClosed     = "closed"
)

// Event statuses.
const (
	EventOpen       = "open"
	EventInProgress = "in_progress"
	EventClosed     = "closed"
)

// Schedule session types.
const (
	SessionPractice      = "practice"
	SessionQualification = "qualification"
	SessionRace          = "race"
)

// Driver is a league member who can join events.
type Driver struct {
	DriverID string `json:"driver_id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Team     string `json:"team,omitempty" yaml:"team"`
}

// Series groups events into a championship.
type Series struct {
	SeriesID string    `json:"series_id"`
	Title    string    `json:"title"`
	Status   string    `json:"status"`
	StartsAt time.Time `json:"starts_at,omitempty"`
	EndsAt   time.Time `json:"ends_at,omitempty"`
}

// Event is a single race meeting, optionally part of a series.
type Event struct {
	EventID         string     `json:"event_id"`
	SeriesID        *string    `json:"series_id,omitempty"`
	Title           string     `json:"title"`
	Track           string     `json:"track"`
	Host            string     `json:"host"`
	Status          string     `json:"status"`
	Rules           string     `json:"rules,omitempty"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          time.Time  `json:"ends_at,omitempty"`
	MaxParticipants int        `json:"max_participants"`
	Participants    int        `json:"participants"`
	Schedule        []Schedule `json:"schedule,omitempty"`
}

// Duration returns the planned length of the event, or zero when the end
// time is unknown.
func (e *Event) Duration() time.Duration {
	if e.EndsAt.IsZero() || e.EndsAt.Before(e.StartsAt) {
		return 0
	}
	return e.EndsAt.Sub(e.StartsAt)
}

// Schedule is one session of an event.
type Schedule struct {
	ScheduleID int64  `json:"schedule_id"`
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	Laps       int    `json:"laps"`
	Duration   string `json:"duration"`
}

// RaceResult is a driver's classification in an event.
type RaceResult struct {
	EventID          string `json:"event_id"`
	DriverID         string `json:"driver_id"`
	Driver           string `json:"driver,omitempty"`
	Position         int    `json:"position"`
	BestLapMs        int64  `json:"best_lap_ms"`
	TotalTime        string `json:"total_time,omitempty"`
	Penalties        int    `json:"penalties"`
	FastestLapPoints int    `json:"fl_points"`
	Points           int    `json:"points"`
}

// LastRace is a driver's most recent classified result with its context.
type LastRace struct {
	Result    RaceResult `json:"result"`
	Event     string     `json:"event"`
	Track     string     `json:"track"`
	StartsAt  time.Time  `json:"starts_at"`
	FieldSize int        `json:"field_size"`
}

// SeriesFilter defines query parameters for series listing.
type SeriesFilter struct {
	Status *string `json:"status,omitempty"`
	Limit  int     `json:"limit"`
}

// EventFilter defines query parameters for the calendar.
type EventFilter struct {
	SeriesID *string   `json:"series_id,omitempty"`
	Since    time.Time `json:"since,omitempty"`
	Until    time.Time `json:"until,omitempty"`
	Limit    int       `json:"limit"`
}
