package models

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is the durable record written next to an offer.
type Booking struct {
	ID        string        `db:"id" json:"id"`
	EventID   string        `db:"event_id" json:"event_id" validate:"required"`
	ArtistID  string        `db:"artist_id" json:"artist_id" validate:"required"`
	VenueID   string        `db:"venue_id" json:"venue_id,omitempty"`
	Status    BookingStatus `db:"status" json:"status" validate:"oneof=pending confirmed cancelled"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// BookingStatusFor mirrors an event status onto its booking record.
func BookingStatusFor(s EventStatus) BookingStatus {
	switch s {
	case EventConfirmed:
		return BookingConfirmed
	case EventDeclined, EventCancelled:
		return BookingCancelled
	default:
		return BookingPending
	}
}
