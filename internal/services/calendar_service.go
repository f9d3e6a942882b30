package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/scheduling"
)

// CalendarService projects a venue's events onto the month, week and ICS
// views.
type CalendarService struct {
	events models.EventRepo
	venues models.VenuesRepo
	anchor models.Date
}

// NewCalendarService pins "today" to anchor when it is set.
func NewCalendarService(events models.EventRepo, venues models.VenuesRepo, anchor models.Date) *CalendarService {
	return &CalendarService{events: events, venues: venues, anchor: anchor}
}

func (cs *CalendarService) Today() models.Date {
	if !cs.anchor.IsZero() {
		return cs.anchor
	}
	return models.DateOf(time.Now())
}

func (cs *CalendarService) availability(ctx context.Context, venueID string) (models.Availability, error) {
	if venueID == "" || cs.venues == nil {
		return models.Availability{}, nil
	}
	v, err := cs.venues.GetVenue(ctx, venueID)
	if errors.Is(err, models.ErrVenueNotFound) {
		return models.Availability{}, nil
	}
	if err != nil {
		return models.Availability{}, err
	}
	return v.Availability, nil
}

func (cs *CalendarService) Month(ctx context.Context, venueID string, ref models.Date) (scheduling.Month, error) {
	if ref.IsZero() {
		ref = cs.Today()
	}
	first := models.NewDate(ref.Year, ref.Month, 1)
	last := models.NewDate(ref.Year, ref.Month, models.DaysIn(ref.Year, ref.Month))
	events, err := cs.events.ListEvents(ctx, models.EventQuery{VenueID: venueID, From: first, To: last})
	if err != nil {
		return scheduling.Month{}, err
	}
	avail, err := cs.availability(ctx, venueID)
	if err != nil {
		return scheduling.Month{}, err
	}
	return scheduling.MonthGrid(ref, events, scheduling.WithToday(cs.Today()), scheduling.WithAvailability(avail)), nil
}

func (cs *CalendarService) Week(ctx context.Context, venueID string, ref models.Date, w scheduling.Window) (scheduling.Week, error) {
	if ref.IsZero() {
		ref = cs.Today()
	}
	start := scheduling.WeekStart(ref)
	events, err := cs.events.ListEvents(ctx, models.EventQuery{VenueID: venueID, From: start, To: start.AddDays(6)})
	if err != nil {
		return scheduling.Week{}, err
	}
	return scheduling.WeekGrid(ref, events, w), nil
}

func (cs *CalendarService) History(ctx context.Context, venueID string) ([]scheduling.HistoryGroup, error) {
	events, err := cs.events.ListEvents(ctx, models.EventQuery{VenueID: venueID})
	if err != nil {
		return nil, err
	}
	return scheduling.HistoryByMonth(events, cs.Today()), nil
}

func (cs *CalendarService) WriteICS(ctx context.Context, w io.Writer, venueID string, opts scheduling.ICSOptions) error {
	events, err := cs.events.ListEvents(ctx, models.EventQuery{VenueID: venueID})
	if err != nil {
		return err
	}
	return scheduling.WriteICS(w, events, opts)
}
