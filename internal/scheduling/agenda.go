package scheduling

import (
	"sort"
	"time"

	"github.com/joshua-takyi/jocky/internal/models"
)

// Agenda is the list view: events dated within [from, to], ordered by date
// and start time. A zero bound is open.
func Agenda(events []*models.Event, from, to models.Date) []*models.Event {
	out := make([]*models.Event, 0, len(events))
	for _, ev := range events {
		if ev == nil {
			continue
		}
		if !from.IsZero() && ev.Date.Before(from) {
			continue
		}
		if !to.IsZero() && ev.Date.After(to) {
			continue
		}
		out = append(out, ev)
	}
	models.SortEvents(out)
	return out
}

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
)

type HistoryEntry struct {
	Event   *models.Event `json:"event"`
	Outcome Outcome       `json:"outcome"`
}

type HistoryGroup struct {
	Year    int            `json:"year"`
	Month   time.Month     `json:"month"`
	Entries []HistoryEntry `json:"entries"`
}

// outcomeOf reports how a past event ended: a confirmed event dated before
// today is completed, a cancelled one is cancelled, anything else is not
// history yet.
func outcomeOf(ev *models.Event, today models.Date) (Outcome, bool) {
	switch {
	case ev.Status == models.EventCancelled:
		return OutcomeCancelled, true
	case ev.Status == models.EventConfirmed && ev.Date.Before(today):
		return OutcomeCompleted, true
	}
	return "", false
}

// History lists the finished events of one month, most recent first.
func History(events []*models.Event, year int, month time.Month, today models.Date) []HistoryEntry {
	var out []HistoryEntry
	for _, g := range HistoryByMonth(events, today) {
		if g.Year == year && g.Month == month {
			out = g.Entries
		}
	}
	return out
}

// HistoryByMonth groups finished events by month, newest month first and
// newest event first within a month.
func HistoryByMonth(events []*models.Event, today models.Date) []HistoryGroup {
	var entries []HistoryEntry
	for _, ev := range events {
		if ev == nil {
			continue
		}
		if o, ok := outcomeOf(ev, today); ok {
			entries = append(entries, HistoryEntry{Event: ev, Outcome: o})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Event, entries[j].Event
		if c := a.Date.Compare(b.Date); c != 0 {
			return c > 0
		}
		return a.StartTime > b.StartTime
	})

	var groups []HistoryGroup
	for _, e := range entries {
		n := len(groups)
		if n == 0 || groups[n-1].Year != e.Event.Date.Year || groups[n-1].Month != e.Event.Date.Month {
			groups = append(groups, HistoryGroup{Year: e.Event.Date.Year, Month: e.Event.Date.Month})
			n++
		}
		groups[n-1].Entries = append(groups[n-1].Entries, e)
	}
	return groups
}
