package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/jocky/internal/lifecycle"
	"github.com/joshua-takyi/jocky/internal/models"
)

type BookingService struct {
	bookings models.BookingRepo
	events   models.EventRepo
}

func NewBookingService(bookings models.BookingRepo, events models.EventRepo) *BookingService {
	return &BookingService{bookings: bookings, events: events}
}

// CreateBooking records a pending booking ahead of an offer. The event must
// still be able to take one.
func (bs *BookingService) CreateBooking(ctx context.Context, eventID, artistID string) (*models.Booking, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return nil, models.ErrArtistRequired
	}
	ev, err := bs.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanSendOffer(lifecycle.Normalize(ev.Status)) {
		return nil, fmt.Errorf("%w: event %s is %s", models.ErrInvalidTransition, ev.ID, ev.Status)
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:        uuid.NewString(),
		EventID:   ev.ID,
		ArtistID:  artistID,
		VenueID:   ev.VenueID,
		Status:    models.BookingPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := models.Validate.Struct(booking); err != nil {
		return nil, fmt.Errorf("invalid booking: %w", err)
	}
	return bs.bookings.CreateBooking(ctx, booking)
}

func (bs *BookingService) ListBookings(ctx context.Context, eventID string) ([]*models.Booking, error) {
	return bs.bookings.ListBookings(ctx, eventID)
}

func (bs *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return bs.bookings.GetBooking(ctx, id)
}

// DeleteBooking removes a booking that has not been confirmed.
func (bs *BookingService) DeleteBooking(ctx context.Context, id string) error {
	booking, err := bs.bookings.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status == models.BookingConfirmed {
		return fmt.Errorf("%w: booking %s is confirmed", models.ErrInvalidTransition, id)
	}
	return bs.bookings.DeleteBooking(ctx, id)
}
