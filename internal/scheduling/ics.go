package scheduling

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/joshua-takyi/jocky/internal/models"
)

type ICSOptions struct {
	Name string
	// Domain makes event UIDs globally unique, e.g. "jocky.app".
	Domain string
	// Now stamps DTSTAMP; zero means time.Now.
	Now time.Time
}

func floating(d models.Date, hhmm string) string {
	return fmt.Sprintf("%04d%02d%02dT%s00", d.Year, int(d.Month), d.Day, strings.ReplaceAll(hhmm, ":", ""))
}

func icsStatus(s models.EventStatus) (ics.ObjectStatus, bool) {
	switch s {
	case models.EventConfirmed:
		return ics.ObjectStatusConfirmed, true
	case models.EventOffered:
		return ics.ObjectStatusTentative, true
	case models.EventCancelled:
		return ics.ObjectStatusCancelled, true
	}
	return "", false
}

// BuildCalendar turns events into a VCALENDAR. Times are written floating
// because events carry venue-local wall-clock times with no zone.
func BuildCalendar(events []*models.Event, opts ICSOptions) *ics.Calendar {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	domain := opts.Domain
	if domain == "" {
		domain = "jocky"
	}

	cal := ics.NewCalendarFor("jocky")
	cal.SetMethod(ics.MethodPublish)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, ev := range Agenda(events, models.Date{}, models.Date{}) {
		if !models.IsClockTime(ev.StartTime) || !models.IsClockTime(ev.EndTime) {
			continue
		}
		vev := cal.AddEvent(fmt.Sprintf("%s@%s", ev.ID, domain))
		vev.SetDtStampTime(now)
		vev.SetProperty(ics.ComponentPropertyDtStart, floating(ev.Date, ev.StartTime))
		vev.SetProperty(ics.ComponentPropertyDtEnd, floating(ev.Date, ev.EndTime))
		summary := ev.Name
		if ev.ArtistName != "" {
			summary += " - " + ev.ArtistName
		}
		vev.SetSummary(summary)
		if ev.Notes != "" {
			vev.SetDescription(ev.Notes)
		}
		if ev.DanceFloorID != "" {
			vev.SetLocation(ev.DanceFloorID)
		}
		if st, ok := icsStatus(ev.Status); ok {
			vev.SetStatus(st)
		}
	}
	return cal
}

// WriteICS serializes events as an iCalendar feed.
func WriteICS(w io.Writer, events []*models.Event, opts ICSOptions) error {
	return BuildCalendar(events, opts).SerializeTo(w)
}
