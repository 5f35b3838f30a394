// Package standings computes championship tables from race results.
//
// A driver's score for one race is points + fastest lap points - penalties,
// never below zero. Totals are ranked by points, then wins, then best
// finish, then name. Drivers level on points, wins and best finish share
// a position.
package standings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pointsheet/paddock/internal/database"
	"github.com/pointsheet/paddock/pkg/timeutil"
)

// Row is one line of a championship table.
type Row struct {
	Position   int    `json:"position"`
	DriverID   string `json:"driver_id"`
	Driver     string `json:"driver"`
	Points     int    `json:"points"`
	Wins       int    `json:"wins"`
	Podiums    int    `json:"podiums"`
	Starts     int    `json:"starts"`
	BestFinish int    `json:"best_finish"`
	BestLapMs  int64  `json:"best_lap_ms,omitempty"`
}

// TotalPoints returns the championship points a single result is worth.
func TotalPoints(r *database.RaceResult) int {
	total := r.Points + r.FastestLapPoints - r.Penalties
	if total < 0 {
		return 0
	}
	return total
}

// Compute aggregates results into a ranked table.
func Compute(results []*database.RaceResult) []Row {
	byDriver := make(map[string]*Row)
	var order []string

	for _, r := range results {
		row, ok := byDriver[r.DriverID]
		if !ok {
			name := r.Driver
			if name == "" {
				name = r.DriverID
			}
			row = &Row{DriverID: r.DriverID, Driver: name}
			byDriver[r.DriverID] = row
			order = append(order, r.DriverID)
		}

		row.Points += TotalPoints(r)
		row.Starts++
		if r.Position == 1 {
			row.Wins++
		}
		if r.Position <= 3 {
			row.Podiums++
		}
		if row.BestFinish == 0 || r.Position < row.BestFinish {
			row.BestFinish = r.Position
		}
		if r.BestLapMs > 0 && (row.BestLapMs == 0 || r.BestLapMs < row.BestLapMs) {
			row.BestLapMs = r.BestLapMs
		}
	}

	rows := make([]Row, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byDriver[id])
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.BestFinish != b.BestFinish {
			return a.BestFinish < b.BestFinish
		}
		return a.Driver < b.Driver
	})

	for i := range rows {
		if i > 0 && tied(rows[i-1], rows[i]) {
			rows[i].Position = rows[i-1].Position
		} else {
			rows[i].Position = i + 1
		}
	}
	return rows
}

func tied(a, b Row) bool {
	return a.Points == b.Points && a.Wins == b.Wins && a.BestFinish == b.BestFinish
}

// ============================================================
// Store-backed calculator
// ============================================================

// Table is a computed championship table for one series.
type Table struct {
	Series *database.Series `json:"series"`
	Rows   []Row            `json:"rows"`
	Races  int              `json:"races"`
}

// Calculator builds tables from a store.
type Calculator struct {
	store database.Store
}

// NewCalculator creates a calculator backed by the given store.
func NewCalculator(store database.Store) *Calculator {
	return &Calculator{store: store}
}

// Series computes the table for one series.
func (c *Calculator) Series(seriesID string) (*Table, error) {
	series, err := c.store.GetSeries(seriesID)
	if err != nil {
		return nil, fmt.Errorf("loading series for standings: %w", err)
	}

	results, err := c.store.SeriesResults(seriesID)
	if err != nil {
		return nil, fmt.Errorf("loading results for standings: %w", err)
	}

	races := make(map[string]struct{})
	for _, r := range results {
		races[r.EventID] = struct{}{}
	}

	return &Table{
		Series: series,
		Rows:   Compute(results),
		Races:  len(races),
	}, nil
}

// FormatMarkdown renders a table as a markdown report.
func FormatMarkdown(t *Table) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t.Series.Title)
	fmt.Fprintf(&b, "**Status:** %s  \n", strings.ReplaceAll(t.Series.Status, "_", " "))
	fmt.Fprintf(&b, "**Races:** %d\n\n", t.Races)

	if len(t.Rows) == 0 {
		b.WriteString("_No results yet._\n")
		return b.String()
	}

	b.WriteString("| Pos | Driver | Pts | Wins | Podiums | Starts | Best Lap |\n")
	b.WriteString("|-----|--------|-----|------|---------|--------|----------|\n")
	for _, r := range t.Rows {
		lap := "-"
		if r.BestLapMs > 0 {
			lap = timeutil.FormatLap(r.BestLapMs)
		}
		fmt.Fprintf(&b, "| %d | %s | %d | %d | %d | %d | %s |\n",
			r.Position, r.Driver, r.Points, r.Wins, r.Podiums, r.Starts, lap)
	}
	return b.String()
}
