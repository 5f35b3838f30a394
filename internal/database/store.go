// Package database provides the storage layer for paddock.
//
// It implements the Store interface on SQLite with WAL mode and a single
// writer connection. The schema is applied from embedded golang-migrate
// migrations. DBService is the primary entry point for all league data:
// drivers, series, events, registrations and race results.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyJoined is returned when a driver joins an event twice.
	ErrAlreadyJoined = errors.New("driver already joined event")
	// ErrEventClosed is returned when joining an event that is not open.
	ErrEventClosed = errors.New("event is not open for registration")
	// ErrEventFull is returned when an event has no free slots.
	ErrEventFull = errors.New("event is full")
	// ErrInvalidStatus is returned for a status outside the allowed set.
	ErrInvalidStatus = errors.New("invalid status")
)

// Store defines the interface for league data persistence.
// The TUI and CLI depend on it rather than on DBService so tests can
// substitute their own implementation.
type Store interface {
	// InsertDriver creates or renames a driver.
	InsertDriver(d *Driver) error
	// InsertSeries creates or updates a series.
	InsertSeries(s *Series) error
	// SetSeriesStatus moves a series to not_started, started or closed.
	SetSeriesStatus(id, status string) error
	// InsertEvent creates or updates an event. A non-empty Schedule
	// replaces the stored sessions.
	InsertEvent(e *Event) error
	// AddSchedule appends a session to an event.
	AddSchedule(sc *Schedule) error

	// JoinEvent registers a driver for an open event.
	JoinEvent(eventID, driverID string, at time.Time) error
	// LeaveEvent removes a driver's registration.
	LeaveEvent(eventID, driverID string) error
	// ImportParticipants registers drivers without registration rules.
	// Existing registrations are kept.
	ImportParticipants(eventID string, driverIDs []string, at time.Time) error

	// InsertResult records or replaces one classification.
	InsertResult(r *RaceResult) error
	// BatchInsertResults records a full classification in one transaction.
	BatchInsertResults(results []*RaceResult) error

	// GetDriver returns a driver by id.
	GetDriver(id string) (*Driver, error)
	// ListDrivers returns every driver ordered by name.
	ListDrivers() ([]*Driver, error)
	// GetSeries returns a series by id.
	GetSeries(id string) (*Series, error)
	// QuerySeries returns series matching the filter, ordered by start date.
	QuerySeries(filter SeriesFilter) ([]*Series, error)
	// GetEvent returns an event with its schedule and participant count.
	GetEvent(id string) (*Event, error)
	// QueryEvents returns events matching the filter, ordered by start time.
	QueryEvents(filter EventFilter) ([]*Event, error)

	// UpcomingEvents returns open or running events the driver joined
	// that have not finished yet.
	UpcomingEvents(driverID string, now time.Time) ([]*Event, error)
	// AvailableEvents returns future open events the driver has not joined.
	AvailableEvents(driverID string, now time.Time) ([]*Event, error)
	// LastResult returns the driver's most recent classification.
	LastResult(driverID string) (*LastRace, error)
	// SeriesResults returns every classification of a series' events.
	SeriesResults(seriesID string) ([]*RaceResult, error)
	// SignedOnSeries counts started series the driver races in, and all
	// started series.
	SignedOnSeries(driverID string) (joined, total int, err error)

	// Close gracefully shuts down the database connection.
	Close() error
}

// ============================================================
// DBService Implementation
// ============================================================

// DBService implements the Store interface using SQLite.
// It manages the connection, prepared statements and serializes
// writers through a read-write mutex.
type DBService struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	// Prepared statements for hot-path operations
	stmtInsertDriver *sql.Stmt
	stmtInsertSeries *sql.Stmt
	stmtInsertEvent  *sql.Stmt
	stmtInsertResult *sql.Stmt
}

// NewDBService opens the database at path, applies migrations and
// prepares frequently-used statements.
//
// Use ":memory:" for in-memory databases (useful for testing).
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}

	// SQLite only supports one writer at a time; an in-memory database
	// also lives and dies with its single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{
		db:   db,
		path: path,
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	if err := svc.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}

	return svc, nil
}

// Path returns the file the service was opened on.
func (s *DBService) Path() string { return s.path }

func (s *DBService) prepareStatements() error {
	var err error

	s.stmtInsertDriver, err = s.db.Prepare(`
		INSERT INTO drivers (driver_id, name, team) VALUES (?, ?, ?)
		ON CONFLICT(driver_id) DO UPDATE SET
			name = excluded.name,
			team = excluded.team
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertDriver: %w", err)
	}

	s.stmtInsertSeries, err = s.db.Prepare(`
		INSERT INTO series (series_id, title, status, starts_at, ends_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(series_id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			starts_at = COALESCE(excluded.starts_at, series.starts_at),
			ends_at = COALESCE(excluded.ends_at, series.ends_at)
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertSeries: %w", err)
	}

	s.stmtInsertEvent, err = s.db.Prepare(`
		INSERT INTO events (event_id, series_id, title, track, host, status, rules,
			starts_at, ends_at, max_participants)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			series_id = excluded.series_id,
			title = excluded.title,
			track = excluded.track,
			host = excluded.host,
			status = excluded.status,
			rules = excluded.rules,
			starts_at = excluded.starts_at,
			ends_at = COALESCE(excluded.ends_at, events.ends_at),
			max_participants = excluded.max_participants
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertEvent: %w", err)
	}

	s.stmtInsertResult, err = s.db.Prepare(`
		INSERT INTO results (event_id, driver_id, position, best_lap_ms, total_time,
			penalties, fl_points, points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id, driver_id) DO UPDATE SET
			position = excluded.position,
			best_lap_ms = excluded.best_lap_ms,
			total_time = excluded.total_time,
			penalties = excluded.penalties,
			fl_points = excluded.fl_points,
			points = excluded.points
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertResult: %w", err)
	}

	return nil
}

// ============================================================
// Writes
// ============================================================

// InsertDriver creates or renames a driver.
func (s *DBService) InsertDriver(d *Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stmtInsertDriver.Exec(d.DriverID, d.Name, d.Team); err != nil {
		return fmt.Errorf("inserting driver %s: %w", d.DriverID, err)
	}
	return nil
}

// InsertSeries creates or updates a series. An empty status defaults to
// not_started.
func (s *DBService) InsertSeries(sr *Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sr.Status == "" {
		sr.Status = SeriesNotStarted
	}
	_, err := s.stmtInsertSeries.Exec(
		sr.SeriesID, sr.Title, sr.Status, unixOrNil(sr.StartsAt), unixOrNil(sr.EndsAt),
	)
	if err != nil {
		return fmt.Errorf("inserting series %s: %w", sr.SeriesID, err)
	}
	return nil
}

// SetSeriesStatus changes the status of an existing series.
func (s *DBService) SetSeriesStatus(id, status string) error {
	if !IsStatus(status, SeriesNotStarted, SeriesStarted, SeriesClosed) {
		return fmt.Errorf("series %s: %w %q", id, ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE series SET status = ? WHERE series_id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating series %s status: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("series %s: %w", id, ErrNotFound)
	}
	return nil
}

// InsertEvent creates or updates an event. When e.Schedule is non-empty the
// stored sessions are replaced within the same transaction.
func (s *DBService) InsertEvent(e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Status == "" {
		e.Status = EventOpen
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning event transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.Stmt(s.stmtInsertEvent).Exec(
		e.EventID, e.SeriesID, e.Title, e.Track, e.Host, e.Status, e.Rules,
		e.StartsAt.Unix(), unixOrNil(e.EndsAt), e.MaxParticipants,
	)
	if err != nil {
		return fmt.Errorf("inserting event %s: %w", e.EventID, err)
	}

	if len(e.Schedule) > 0 {
		if _, err := tx.Exec(`DELETE FROM schedules WHERE event_id = ?`, e.EventID); err != nil {
			return fmt.Errorf("clearing schedule for event %s: %w", e.EventID, err)
		}
		for i := range e.Schedule {
			sc := &e.Schedule[i]
			sc.EventID = e.EventID
			res, err := tx.Exec(`
				INSERT INTO schedules (event_id, type, laps, duration) VALUES (?, ?, ?, ?)
			`, sc.EventID, sc.Type, sc.Laps, sc.Duration)
			if err != nil {
				return fmt.Errorf("inserting %s session for event %s: %w", sc.Type, e.EventID, err)
			}
			sc.ScheduleID, _ = res.LastInsertId()
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing event %s: %w", e.EventID, err)
	}
	return nil
}

// AddSchedule appends a session to an existing event.
func (s *DBService) AddSchedule(sc *Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO schedules (event_id, type, laps, duration) VALUES (?, ?, ?, ?)
	`, sc.EventID, sc.Type, sc.Laps, sc.Duration)
	if err != nil {
		return fmt.Errorf("adding %s session to event %s: %w", sc.Type, sc.EventID, err)
	}
	sc.ScheduleID, err = res.LastInsertId()
	return err
}

// JoinEvent registers a driver for an event. The event must be open and
// have a free slot when MaxParticipants is set.
func (s *DBService) JoinEvent(eventID, driverID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning join transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM drivers WHERE driver_id = ?`, driverID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("looking up driver %s: %w", driverID, err)
	}
	if exists == 0 {
		return fmt.Errorf("driver %s: %w", driverID, ErrNotFound)
	}

	var status string
	var capacity, taken int
	err = tx.QueryRow(`
		SELECT status, max_participants,
			(SELECT COUNT(*) FROM participants p WHERE p.event_id = e.event_id)
		FROM events e WHERE event_id = ?
	`, eventID).Scan(&status, &capacity, &taken)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("looking up event %s: %w", eventID, err)
	}
	if status != EventOpen {
		return fmt.Errorf("event %s is %s: %w", eventID, status, ErrEventClosed)
	}
	if capacity > 0 && taken >= capacity {
		return fmt.Errorf("event %s has %d/%d drivers: %w", eventID, taken, capacity, ErrEventFull)
	}

	res, err := tx.Exec(`
		INSERT INTO participants (event_id, driver_id, joined_at) VALUES (?, ?, ?)
		ON CONFLICT(event_id, driver_id) DO NOTHING
	`, eventID, driverID, at.Unix())
	if err != nil {
		return fmt.Errorf("joining event %s: %w", eventID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("driver %s in event %s: %w", driverID, eventID, ErrAlreadyJoined)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing join of event %s: %w", eventID, err)
	}
	return nil
}

// LeaveEvent removes a driver's registration.
func (s *DBService) LeaveEvent(eventID, driverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM participants WHERE event_id = ? AND driver_id = ?`, eventID, driverID)
	if err != nil {
		return fmt.Errorf("leaving event %s: %w", eventID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("driver %s in event %s: %w", driverID, eventID, ErrNotFound)
	}
	return nil
}

// ImportParticipants registers drivers for an event regardless of its
// status or capacity. It is used when loading historical data.
func (s *DBService) ImportParticipants(eventID string, driverIDs []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning participant import: %w", err)
	}
	defer tx.Rollback()

	for _, id := range driverIDs {
		_, err := tx.Exec(`
			INSERT INTO participants (event_id, driver_id, joined_at) VALUES (?, ?, ?)
			ON CONFLICT(event_id, driver_id) DO NOTHING
		`, eventID, id, at.Unix())
		if err != nil {
			return fmt.Errorf("importing driver %s into event %s: %w", id, eventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing participant import for %s: %w", eventID, err)
	}
	return nil
}

// InsertResult records or replaces one classification.
func (s *DBService) InsertResult(r *RaceResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stmtInsertResult.Exec(resultArgs(r)...); err != nil {
		return fmt.Errorf("inserting result for %s in %s: %w", r.DriverID, r.EventID, err)
	}
	return nil
}

// BatchInsertResults records a classification within a single transaction.
// Either every row is stored or none is.
func (s *DBService) BatchInsertResults(results []*RaceResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning batch result transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := tx.Stmt(s.stmtInsertResult)
	for _, r := range results {
		if _, err := stmt.Exec(resultArgs(r)...); err != nil {
			return fmt.Errorf("batch inserting result for %s in %s: %w", r.DriverID, r.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch result transaction: %w", err)
	}
	return nil
}

func resultArgs(r *RaceResult) []any {
	return []any{
		r.EventID, r.DriverID, r.Position, r.BestLapMs, r.TotalTime,
		r.Penalties, r.FastestLapPoints, r.Points,
	}
}

// ============================================================
// Reads
// ============================================================

// GetDriver returns a driver by id.
func (s *DBService) GetDriver(id string) (*Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := &Driver{}
	err := s.db.QueryRow(`SELECT driver_id, name, team FROM drivers WHERE driver_id = ?`, id).
		Scan(&d.DriverID, &d.Name, &d.Team)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("driver %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying driver %s: %w", id, err)
	}
	return d, nil
}

// ListDrivers returns every driver ordered by name.
func (s *DBService) ListDrivers() ([]*Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT driver_id, name, team FROM drivers ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("listing drivers: %w", err)
	}
	defer rows.Close()

	var drivers []*Driver
	for rows.Next() {
		d := &Driver{}
		if err := rows.Scan(&d.DriverID, &d.Name, &d.Team); err != nil {
			return nil, fmt.Errorf("scanning driver row: %w", err)
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// GetSeries returns a series by id.
func (s *DBService) GetSeries(id string) (*Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT series_id, title, status, starts_at, ends_at FROM series WHERE series_id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying series %s: %w", id, err)
	}
	defer rows.Close()

	series, err := scanSeries(rows)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("series %s: %w", id, ErrNotFound)
	}
	return series[0], nil
}

// QuerySeries returns series matching the filter. Series without a start
// date sort last.
func (s *DBService) QuerySeries(filter SeriesFilter) ([]*Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT series_id, title, status, starts_at, ends_at FROM series WHERE 1=1`
	args := make([]any, 0)

	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, *filter.Status)
	}

	query += ` ORDER BY starts_at IS NULL, starts_at ASC, title ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying series: %w", err)
	}
	defer rows.Close()

	return scanSeries(rows)
}

// eventColumns selects an event row plus its participant count. Queries
// using it must alias events as e.
const eventColumns = `
	e.event_id, e.series_id, e.title, e.track, e.host, e.status, e.rules,
	e.starts_at, e.ends_at, e.max_participants,
	(SELECT COUNT(*) FROM participants p WHERE p.event_id = e.event_id)`

// GetEvent returns an event with its schedule and participant count.
func (s *DBService) GetEvent(id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT `+eventColumns+` FROM events e WHERE e.event_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying event %s: %w", id, err)
	}
	events, err := scanEvents(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	ev := events[0]

	srows, err := s.db.Query(`
		SELECT schedule_id, event_id, type, laps, duration
		FROM schedules WHERE event_id = ? ORDER BY schedule_id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying schedule for event %s: %w", id, err)
	}
	defer srows.Close()

	for srows.Next() {
		var sc Schedule
		if err := srows.Scan(&sc.ScheduleID, &sc.EventID, &sc.Type, &sc.Laps, &sc.Duration); err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		ev.Schedule = append(ev.Schedule, sc)
	}
	return ev, srows.Err()
}

// QueryEvents returns events matching the filter, ordered by start time.
func (s *DBService) QueryEvents(filter EventFilter) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + eventColumns + ` FROM events e WHERE 1=1`
	args := make([]any, 0)

	if filter.SeriesID != nil {
		query += ` AND e.series_id = ?`
		args = append(args, *filter.SeriesID)
	}
	if !filter.Since.IsZero() {
		query += ` AND e.starts_at >= ?`
		args = append(args, filter.Since.Unix())
	}
	if !filter.Until.IsZero() {
		query += ` AND e.starts_at <= ?`
		args = append(args, filter.Until.Unix())
	}

	query += ` ORDER BY e.starts_at ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	} else {
		query += ` LIMIT 200`
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// UpcomingEvents returns open or in-progress events the driver joined whose
// end (or start, when no end is known) is not in the past.
func (s *DBService) UpcomingEvents(driverID string, now time.Time) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+eventColumns+`
		FROM events e
		INNER JOIN participants me ON me.event_id = e.event_id AND me.driver_id = ?
		WHERE e.status IN (?, ?)
			AND COALESCE(e.ends_at, e.starts_at) >= ?
		ORDER BY e.starts_at ASC
	`, driverID, EventOpen, EventInProgress, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying upcoming events for %s: %w", driverID, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// AvailableEvents returns open events starting after now that the driver
// has not joined.
func (s *DBService) AvailableEvents(driverID string, now time.Time) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+eventColumns+`
		FROM events e
		WHERE e.status = ?
			AND e.starts_at > ?
			AND NOT EXISTS (
				SELECT 1 FROM participants me
				WHERE me.event_id = e.event_id AND me.driver_id = ?
			)
		ORDER BY e.starts_at ASC
	`, EventOpen, now.Unix(), driverID)
	if err != nil {
		return nil, fmt.Errorf("querying available events for %s: %w", driverID, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// LastResult returns the driver's classification in the most recent event
// they have a result for.
func (s *DBService) LastResult(driverID string) (*LastRace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lr := &LastRace{}
	var startsAt int64
	err := s.db.QueryRow(`
		SELECT r.event_id, r.driver_id, d.name, r.position, r.best_lap_ms, r.total_time,
			r.penalties, r.fl_points, r.points,
			e.title, e.track, e.starts_at,
			(SELECT COUNT(*) FROM results f WHERE f.event_id = r.event_id)
		FROM results r
		INNER JOIN events e ON e.event_id = r.event_id
		INNER JOIN drivers d ON d.driver_id = r.driver_id
		WHERE r.driver_id = ?
		ORDER BY e.starts_at DESC
		LIMIT 1
	`, driverID).Scan(
		&lr.Result.EventID, &lr.Result.DriverID, &lr.Result.Driver, &lr.Result.Position,
		&lr.Result.BestLapMs, &lr.Result.TotalTime, &lr.Result.Penalties,
		&lr.Result.FastestLapPoints, &lr.Result.Points,
		&lr.Event, &lr.Track, &startsAt, &lr.FieldSize,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("last result for %s: %w", driverID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying last result for %s: %w", driverID, err)
	}
	lr.StartsAt = time.Unix(startsAt, 0).UTC()
	return lr, nil
}

// SeriesResults returns every classification of the series' events,
// ordered by event start and position.
func (s *DBService) SeriesResults(seriesID string) ([]*RaceResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT r.event_id, r.driver_id, d.name, r.position, r.best_lap_ms, r.total_time,
			r.penalties, r.fl_points, r.points
		FROM results r
		INNER JOIN events e ON e.event_id = r.event_id
		INNER JOIN drivers d ON d.driver_id = r.driver_id
		WHERE e.series_id = ?
		ORDER BY e.starts_at ASC, r.position ASC
	`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("querying results for series %s: %w", seriesID, err)
	}
	defer rows.Close()

	var results []*RaceResult
	for rows.Next() {
		r := &RaceResult{}
		if err := rows.Scan(
			&r.EventID, &r.DriverID, &r.Driver, &r.Position, &r.BestLapMs, &r.TotalTime,
			&r.Penalties, &r.FastestLapPoints, &r.Points,
		); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SignedOnSeries counts the started series in which the driver joined at
// least one event, and all started series.
func (s *DBService) SignedOnSeries(driverID string) (joined, total int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.db.QueryRow(`
		SELECT
			(SELECT COUNT(DISTINCT e.series_id)
				FROM events e
				INNER JOIN participants p ON p.event_id = e.event_id
				INNER JOIN series sr ON sr.series_id = e.series_id
				WHERE p.driver_id = ? AND sr.status = ?),
			(SELECT COUNT(*) FROM series WHERE status = ?)
	`, driverID, SeriesStarted, SeriesStarted).Scan(&joined, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("counting series for %s: %w", driverID, err)
	}
	return joined, total, nil
}

// Close closes the prepared statements and the underlying connection.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmts := []*sql.Stmt{
		s.stmtInsertDriver, s.stmtInsertSeries, s.stmtInsertEvent, s.stmtInsertResult,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}

	return s.db.Close()
}

// ============================================================
// Scan Helpers
// ============================================================

func scanSeries(rows *sql.Rows) ([]*Series, error) {
	var out []*Series
	for rows.Next() {
		sr := &Series{}
		var startsAt, endsAt sql.NullInt64
		if err := rows.Scan(&sr.SeriesID, &sr.Title, &sr.Status, &startsAt, &endsAt); err != nil {
			return nil, fmt.Errorf("scanning series row: %w", err)
		}
		sr.StartsAt = fromUnix(startsAt)
		sr.EndsAt = fromUnix(endsAt)
		out = append(out, sr)
	}
	return out, rows.Err()
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var out []*Event
	for rows.Next() {
		ev := &Event{}
		var startsAt int64
		var endsAt sql.NullInt64
		if err := rows.Scan(
			&ev.EventID, &ev.SeriesID, &ev.Title, &ev.Track, &ev.Host, &ev.Status, &ev.Rules,
			&startsAt, &endsAt, &ev.MaxParticipants, &ev.Participants,
		); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		ev.StartsAt = time.Unix(startsAt, 0).UTC()
		ev.EndsAt = fromUnix(endsAt)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func unixOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}

func fromUnix(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0).UTC()
}

// IsStatus reports whether status is exactly one of the allowed values.
// Matching is case-sensitive, as are the schema's CHECK constraints.
func IsStatus(status string, allowed ...string) bool {
	for _, a := range allowed {
		if status == a {
			return true
		}
	}
	return false
}
