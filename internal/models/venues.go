package models

import (
	"slices"
	"time"
)

type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"` // optional, if empty = same as Start
}

// Availability holds the days a venue is closed for bookings.
type Availability struct {
	UnavailableDates      []Date      `json:"unavailable_dates,omitempty"`       // e.g., ["2026-02-12","2026-02-18"]
	UnavailableDateRanges []DateRange `json:"unavailable_date_ranges,omitempty"` // e.g., [{"start":"2026-12-24","end":"2026-12-26"}]
}

// IsDateUnavailable returns true if d is blocked by a single date or an
// inclusive range.
func (a Availability) IsDateUnavailable(d Date) bool {
	if slices.Contains(a.UnavailableDates, d) {
		return true
	}

	for _, r := range a.UnavailableDateRanges {
		if r.Start.IsZero() {
			continue
		}
		end := r.End
		if end.IsZero() {
			end = r.Start
		}
		if !d.Before(r.Start) && !d.After(end) {
			return true
		}
	}
	return false
}

// CalendarSnapshot returns a map[dayOfMonth]unavailable for the requested month.
func (a Availability) CalendarSnapshot(year int, month time.Month) map[int]bool {
	days := DaysIn(year, month)
	out := make(map[int]bool, days)
	for day := 1; day <= days; day++ {
		out[day] = a.IsDateUnavailable(NewDate(year, month, day))
	}
	return out
}

// DanceFloor is a named area of a venue where an event takes place.
type DanceFloor struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity,omitempty" validate:"gte=0"`
}

type Venue struct {
	ID           string       `db:"id" json:"id,omitempty"`
	OwnerID      string       `db:"owner_id" json:"owner_id,omitempty"`
	Name         string       `db:"name" json:"name" validate:"required"`
	Location     string       `db:"location" json:"location,omitempty"`
	Description  string       `db:"description" json:"description,omitempty"`
	DanceFloors  []DanceFloor `db:"dance_floors" json:"dance_floors,omitempty" validate:"dive"`
	Availability Availability `db:"availability" json:"availability"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

func (v *Venue) Validate() error {
	if err := Validate.Struct(v); err != nil {
		return fromValidator(err)
	}
	return nil
}

// Floor looks up a dance floor by id.
func (v *Venue) Floor(id string) (DanceFloor, bool) {
	for _, f := range v.DanceFloors {
		if f.ID == id {
			return f, true
		}
	}
	return DanceFloor{}, false
}
