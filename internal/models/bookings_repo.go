package models

import (
	"context"
	"encoding/json"
	"fmt"
)

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	ListBookings(ctx context.Context, eventID string) ([]*Booking, error)
	UpdateBookingStatus(ctx context.Context, eventID string, status BookingStatus) error
	GetBooking(ctx context.Context, id string) (*Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

func (su *SupabaseRepo) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	data, _, err := su.supabaseClient.From(BookingsTable).
		Insert(booking, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	var created []*Booking
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("booking insert returned no rows")
	}
	return created[0], nil
}

func (su *SupabaseRepo) ListBookings(ctx context.Context, eventID string) ([]*Booking, error) {
	data, _, err := su.supabaseClient.From(BookingsTable).
		Select("*", "exact", false).
		Eq("event_id", eventID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	var bookings []*Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookings: %w", err)
	}
	return bookings, nil
}

// UpdateBookingStatus moves every booking of an event that is still pending.
func (su *SupabaseRepo) UpdateBookingStatus(ctx context.Context, eventID string, status BookingStatus) error {
	_, _, err := su.supabaseClient.From(BookingsTable).
		Update(map[string]any{"status": status}, "minimal", "").
		Eq("event_id", eventID).
		Eq("status", string(BookingPending)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update bookings for event %s: %w", eventID, err)
	}
	return nil
}

func (su *SupabaseRepo) GetBooking(ctx context.Context, id string) (*Booking, error) {
	data, _, err := su.supabaseClient.From(BookingsTable).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	var bookings []*Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking: %w", err)
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}
	return bookings[0], nil
}

func (su *SupabaseRepo) DeleteBooking(ctx context.Context, id string) error {
	_, count, err := su.supabaseClient.From(BookingsTable).
		Delete("", "exact").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	if count == 0 {
		return ErrBookingNotFound
	}
	return nil
}
