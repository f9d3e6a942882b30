package models

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type EventStatus string

const (
	// EventCreated only exists between remote creation and normalization; it
	// never reaches a calendar or list view.
	EventCreated   EventStatus = "created"
	EventOpen      EventStatus = "open"
	EventOffered   EventStatus = "offered"
	EventConfirmed EventStatus = "confirmed"
	EventDeclined  EventStatus = "declined"
	EventCancelled EventStatus = "cancelled"
)

// EventStatuses lists the states visible to venues, in lifecycle order.
var EventStatuses = []EventStatus{EventOpen, EventOffered, EventConfirmed, EventDeclined, EventCancelled}

func (s EventStatus) Valid() bool {
	return slices.Contains(EventStatuses, s)
}

type Frequency string

const (
	FrequencySingle   Frequency = "single"
	FrequencyMultiple Frequency = "multiple"
)

var clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsClockTime reports whether s is a 24-hour HH:MM value.
func IsClockTime(s string) bool {
	return clockTime.MatchString(s)
}

func isClockTime(fl validator.FieldLevel) bool {
	return IsClockTime(fl.Field().String())
}

// TrimSeconds drops the seconds suffix ("21:00:00") that SQL time columns add.
func TrimSeconds(s string) string {
	if len(s) == 8 && s[2] == ':' && s[5] == ':' {
		return s[:5]
	}
	return s
}

// ClockHour returns the hour of a HH:MM value, or -1 when s is malformed.
func ClockHour(s string) int {
	if !IsClockTime(s) {
		return -1
	}
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

// Event is a bookable time slot at a venue.
type Event struct {
	ID              string      `json:"id,omitempty"`
	Name            string      `json:"event_name" validate:"required,max=200"`
	Date            Date        `json:"event_date"`
	StartTime       string      `json:"start_time" validate:"required,hhmm"`
	EndTime         string      `json:"end_time" validate:"required,hhmm"`
	VenueID         string      `json:"venue_id,omitempty"`
	DanceFloorID    string      `json:"dance_floor_id,omitempty"`
	Amount          Amount      `json:"amount_sek" validate:"gte=0"`
	Notes           string      `json:"notes"`
	Frequency       Frequency   `json:"frequency" validate:"oneof=single multiple"`
	Status          EventStatus `json:"status" validate:"oneof=open offered confirmed declined cancelled"`
	ArtistID        string      `json:"artist_id,omitempty"`
	ArtistName      string      `json:"artist_name,omitempty"`
	RequestCount    *int        `json:"request_count,omitempty"`
	DesiredGenres   []string    `json:"desired_genres,omitempty"`
	OpenForRequests bool        `json:"open_for_requests"`
	AttachmentURL   string      `json:"attachment_url,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// EventInput carries the venue-entered fields for a new event.
type EventInput struct {
	Name          string
	Date          Date
	StartTime     string
	EndTime       string
	VenueID       string
	DanceFloorID  string
	Amount        Amount
	Notes         string
	Frequency     Frequency
	DesiredGenres []string
}

// NewEvent builds an open event and validates it.
func NewEvent(in EventInput) (*Event, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Untitled Gig"
	}
	freq := in.Frequency
	if freq == "" {
		freq = FrequencySingle
	}
	ev := &Event{
		Name:            name,
		Date:            in.Date,
		StartTime:       strings.TrimSpace(in.StartTime),
		EndTime:         strings.TrimSpace(in.EndTime),
		VenueID:         in.VenueID,
		DanceFloorID:    in.DanceFloorID,
		Amount:          in.Amount,
		Notes:           in.Notes,
		Frequency:       freq,
		Status:          EventOpen,
		DesiredGenres:   RemoveDuplicates(in.DesiredGenres),
		OpenForRequests: true,
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Validate checks the field rules plus the cross-field invariants: the slot
// must start before it ends on the same day, and a confirmed event needs a
// bound artist.
func (e *Event) Validate() error {
	if e.Date.IsZero() {
		return newValidationError("event_date", "is required")
	}
	if err := Validate.Struct(e); err != nil {
		return fromValidator(err)
	}
	if e.StartTime >= e.EndTime {
		return newValidationError("end_time", "must be after start_time %s", e.StartTime)
	}
	if e.Status == EventConfirmed && strings.TrimSpace(e.ArtistID) == "" {
		return newValidationError("artist_id", "a confirmed event must have an artist")
	}
	return nil
}

// StartHour is the hour row the event occupies in a week grid.
func (e *Event) StartHour() int {
	return ClockHour(e.StartTime)
}

// HasArtist reports whether an artist is currently bound to the event.
func (e *Event) HasArtist() bool {
	return strings.TrimSpace(e.ArtistID) != ""
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	if e.RequestCount != nil {
		n := *e.RequestCount
		c.RequestCount = &n
	}
	c.DesiredGenres = slices.Clone(e.DesiredGenres)
	return &c
}

// EventQuery narrows an event listing.
type EventQuery struct {
	VenueID string
	Status  EventStatus
	From    Date
	To      Date
}

// Matches applies the query in memory; zero fields match everything.
func (q EventQuery) Matches(e *Event) bool {
	if q.VenueID != "" && e.VenueID != q.VenueID {
		return false
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	if !q.From.IsZero() && e.Date.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && e.Date.After(q.To) {
		return false
	}
	return true
}
