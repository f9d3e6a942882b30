package scheduling

import (
	"fmt"

	"github.com/joshua-takyi/jocky/internal/models"
)

// Window is the inclusive range of hour rows shown in a week grid.
type Window struct {
	StartHour int `json:"start_hour" yaml:"start_hour"`
	EndHour   int `json:"end_hour" yaml:"end_hour"`
}

// DefaultWindow covers the evening slots venues book most: 14:00 to 23:00.
var DefaultWindow = Window{StartHour: 14, EndHour: 23}

func (w Window) Validate() error {
	if w.StartHour < 0 || w.EndHour > 23 || w.StartHour > w.EndHour {
		return fmt.Errorf("invalid hour window %02d-%02d", w.StartHour, w.EndHour)
	}
	return nil
}

func (w Window) Contains(hour int) bool {
	return hour >= w.StartHour && hour <= w.EndHour
}

// Hours lists the row hours of the window.
func (w Window) Hours() []int {
	hours := make([]int, 0, w.EndHour-w.StartHour+1)
	for h := w.StartHour; h <= w.EndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Row holds one hour across the seven days, Monday first.
type Row struct {
	Hour  int                `json:"hour"`
	Cells [7][]*models.Event `json:"cells"`
}

type Week struct {
	Days    [7]models.Date `json:"days"`
	ISOYear int            `json:"iso_year"`
	Number  int            `json:"number"`
	Window  Window         `json:"window"`
	Rows    []Row          `json:"rows"`
	// Outside holds events of this week whose start hour falls outside the window.
	Outside []*models.Event `json:"outside,omitempty"`
}

func (w Week) Start() models.Date { return w.Days[0] }
func (w Week) End() models.Date   { return w.Days[6] }

// Row returns the row for an hour, or nil outside the window.
func (w Week) Row(hour int) *Row {
	if !w.Window.Contains(hour) {
		return nil
	}
	return &w.Rows[hour-w.Window.StartHour]
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d models.Date) models.Date {
	return d.AddDays(-MondayIndex(d.Weekday()))
}

// ISOWeek returns the ISO-8601 year and week number of d. The week belongs
// to the year of its Thursday.
func ISOWeek(d models.Date) (year, week int) {
	thursday := d.AddDays(3 - MondayIndex(d.Weekday()))
	yearStart := models.NewDate(thursday.Year, 1, 1)
	offset := int(thursday.Time().Sub(yearStart.Time()).Hours() / 24)
	return thursday.Year, (offset+1+6)/7
}

// WeekGrid builds the Monday to Sunday week containing ref. An event lands
// in the row of its start hour on its day; events sharing a cell stay
// ordered by start time, then input order. An invalid window falls back to
// DefaultWindow.
func WeekGrid(ref models.Date, events []*models.Event, w Window) Week {
	if w.Validate() != nil {
		w = DefaultWindow
	}

	start := WeekStart(ref)
	week := Week{Window: w}
	for i := range week.Days {
		week.Days[i] = start.AddDays(i)
	}
	week.ISOYear, week.Number = ISOWeek(start)

	week.Rows = make([]Row, 0, w.EndHour-w.StartHour+1)
	for _, h := range w.Hours() {
		row := Row{Hour: h}
		for i := range row.Cells {
			row.Cells[i] = []*models.Event{}
		}
		week.Rows = append(week.Rows, row)
	}

	end := week.End()
	for _, ev := range events {
		if ev == nil || ev.Date.Before(start) || ev.Date.After(end) {
			continue
		}
		hour := ev.StartHour()
		if !w.Contains(hour) {
			week.Outside = append(week.Outside, ev)
			continue
		}
		col := MondayIndex(ev.Date.Weekday())
		row := &week.Rows[hour-w.StartHour]
		row.Cells[col] = append(row.Cells[col], ev)
	}

	for r := range week.Rows {
		for c := range week.Rows[r].Cells {
			byStartTime(week.Rows[r].Cells[c])
		}
	}
	return week
}
