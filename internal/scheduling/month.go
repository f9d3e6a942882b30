// Package scheduling projects events onto calendar grids. Every function is
// pure: inputs are never mutated and results can be recomputed freely.
package scheduling

import (
	"sort"
	"time"

	"github.com/joshua-takyi/jocky/internal/models"
)

// MondayIndex maps a weekday onto a Monday-first column: Monday is 0 and
// Sunday is 6.
func MondayIndex(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}

// Cell is one day of a month grid. Placeholder cells before day 1 have a
// zero Date and no events.
type Cell struct {
	Date        models.Date     `json:"date"`
	Events      []*models.Event `json:"events"`
	Today       bool            `json:"today,omitempty"`
	Unavailable bool            `json:"unavailable,omitempty"`
}

func (c Cell) IsPlaceholder() bool {
	return c.Date.IsZero()
}

type Month struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Leading int        `json:"leading"`
	Days    []Cell     `json:"days"`
}

// Cells returns the grid in render order: Leading placeholders, then days.
func (m Month) Cells() []Cell {
	out := make([]Cell, m.Leading, m.Leading+len(m.Days))
	return append(out, m.Days...)
}

// Day returns the cell for a day of the month, 1-based.
func (m Month) Day(day int) (Cell, bool) {
	if day < 1 || day > len(m.Days) {
		return Cell{}, false
	}
	return m.Days[day-1], true
}

type monthConfig struct {
	today        models.Date
	availability *models.Availability
}

type MonthOption func(*monthConfig)

// WithToday flags the cell matching d.
func WithToday(d models.Date) MonthOption {
	return func(c *monthConfig) { c.today = d }
}

// WithAvailability marks the venue's closed days.
func WithAvailability(a models.Availability) MonthOption {
	return func(c *monthConfig) { c.availability = &a }
}

// MonthGrid builds the month containing ref. Each day holds its events
// ordered by start time, ties kept in input order.
func MonthGrid(ref models.Date, events []*models.Event, opts ...MonthOption) Month {
	var cfg monthConfig
	for _, o := range opts {
		o(&cfg)
	}

	first := models.NewDate(ref.Year, ref.Month, 1)
	n := models.DaysIn(first.Year, first.Month)
	m := Month{
		Year:    first.Year,
		Month:   first.Month,
		Leading: MondayIndex(first.Weekday()),
		Days:    make([]Cell, n),
	}
	for i := range m.Days {
		d := first.AddDays(i)
		m.Days[i] = Cell{
			Date:   d,
			Events: []*models.Event{},
			Today:  !cfg.today.IsZero() && d == cfg.today,
		}
		if cfg.availability != nil {
			m.Days[i].Unavailable = cfg.availability.IsDateUnavailable(d)
		}
	}

	for _, ev := range events {
		if ev == nil || !ev.Date.SameMonth(m.Year, m.Month) {
			continue
		}
		if ev.Date.Day < 1 || ev.Date.Day > n {
			continue
		}
		cell := &m.Days[ev.Date.Day-1]
		cell.Events = append(cell.Events, ev)
	}
	for i := range m.Days {
		byStartTime(m.Days[i].Events)
	}
	return m
}

func byStartTime(events []*models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime < events[j].StartTime
	})
}
