package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/jocky/internal/lifecycle"
	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/resolver"
)

// Resolution is the state after an accept or decline.
type Resolution struct {
	Event    *models.Event          `json:"event,omitempty"`
	Requests []models.ArtistRequest `json:"requests"`
	Outcome  resolver.Outcome       `json:"outcome"`
}

type RequestService struct {
	requests models.RequestRepo
	events   models.EventRepo
	bookings models.BookingRepo
	artists  models.ArtistRepo
	guard    *models.Guard
	logger   *slog.Logger
}

func NewRequestService(requests models.RequestRepo, events models.EventRepo, bookings models.BookingRepo, artists models.ArtistRepo, guard *models.Guard, logger *slog.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		events:   events,
		bookings: bookings,
		artists:  artists,
		guard:    guard,
		logger:   logger,
	}
}

// Apply files an artist's request for an open event.
func (rs *RequestService) Apply(ctx context.Context, eventID, artistID, message string) (*models.ArtistRequest, error) {
	ev, err := rs.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if lifecycle.Normalize(ev.Status) != models.EventOpen || !ev.OpenForRequests {
		return nil, fmt.Errorf("%w: event %s is not open for requests", models.ErrInvalidTransition, ev.ID)
	}
	artist, err := rs.artists.GetArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}

	existing, err := rs.requests.ListRequests(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.ArtistID == artist.ID && r.IsPending() {
			return nil, &models.ValidationError{Field: "artist_id", Message: "a request from this artist is already pending"}
		}
	}

	req, err := models.NewArtistRequest(uuid.NewString(), ev, artist, message, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	created, err := rs.requests.CreateRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	count := len(existing) + 1
	if _, err := rs.events.UpdateEvent(ctx, ev.ID, map[string]any{"request_count": count}); err != nil {
		rs.logger.Error("failed to update request count", "event_id", ev.ID, "error", err)
	}
	return created, nil
}

func (rs *RequestService) List(ctx context.Context, eventID string) ([]models.ArtistRequest, error) {
	reqs, err := rs.requests.ListRequests(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return resolver.Sorted(reqs), nil
}

// Accept settles the event on one request. The booking is written first,
// then the event, then the request statuses; a failed event update removes
// the booking again.
func (rs *RequestService) Accept(ctx context.Context, eventID, requestID string) (*Resolution, error) {
	release, err := rs.guard.Acquire(eventID)
	if err != nil {
		return nil, err
	}
	defer release()

	ev, err := rs.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	reqs, err := rs.requests.ListRequests(ctx, eventID)
	if err != nil {
		return nil, err
	}

	next := ev.Clone()
	next.Status = lifecycle.Normalize(next.Status)
	out, err := resolver.Accept(next, reqs, requestID)
	if err != nil {
		return nil, err
	}
	if !out.Changed {
		return &Resolution{Event: ev, Requests: resolver.Sorted(reqs), Outcome: out}, nil
	}

	updated := ev
	if out.EventChanged {
		updated, err = rs.offer(ctx, next)
		if err != nil {
			return nil, err
		}
	}

	if err := rs.requests.SetRequestStatus(ctx, []string{out.Accepted}, models.RequestAccepted); err != nil {
		return nil, fmt.Errorf("event offered but request %s not marked accepted: %w", out.Accepted, err)
	}
	if len(out.Declined) > 0 {
		if err := rs.requests.SetRequestStatus(ctx, out.Declined, models.RequestDeclined); err != nil {
			return nil, fmt.Errorf("event offered but sibling requests not declined: %w", err)
		}
	}
	return &Resolution{Event: updated, Requests: resolver.Sorted(reqs), Outcome: out}, nil
}

func (rs *RequestService) offer(ctx context.Context, next *models.Event) (*models.Event, error) {
	now := time.Now().UTC()
	booking, err := rs.bookings.CreateBooking(ctx, &models.Booking{
		ID:        uuid.NewString(),
		EventID:   next.ID,
		ArtistID:  next.ArtistID,
		VenueID:   next.VenueID,
		Status:    models.BookingPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	patch := models.StatusPatch(models.EventOffered, true, next.ArtistID, next.ArtistName).Columns()
	patch["updated_at"] = now
	updated, err := rs.events.UpdateEvent(ctx, next.ID, patch)
	if err != nil {
		if rbErr := rs.bookings.DeleteBooking(ctx, booking.ID); rbErr != nil {
			rs.logger.Error("failed to roll back booking", "booking_id", booking.ID, "error", rbErr)
			return nil, errors.Join(err, rbErr)
		}
		return nil, err
	}
	return updated, nil
}

// Decline turns down one pending request; the event is not touched.
func (rs *RequestService) Decline(ctx context.Context, eventID, requestID string) (*Resolution, error) {
	release, err := rs.guard.Acquire(eventID)
	if err != nil {
		return nil, err
	}
	defer release()

	reqs, err := rs.requests.ListRequests(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out, err := resolver.Decline(eventID, reqs, requestID)
	if err != nil {
		return nil, err
	}
	if err := rs.requests.SetRequestStatus(ctx, out.Declined, models.RequestDeclined); err != nil {
		return nil, err
	}
	return &Resolution{Requests: resolver.Sorted(reqs), Outcome: out}, nil
}
