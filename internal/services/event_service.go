package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/jocky/internal/helpers"
	"github.com/joshua-takyi/jocky/internal/lifecycle"
	"github.com/joshua-takyi/jocky/internal/models"
)

type EventService struct {
	events   models.EventRepo
	bookings models.BookingRepo
	uploader helpers.Uploader
	guard    *models.Guard
	logger   *slog.Logger
	now      func() time.Time
}

func NewEventService(events models.EventRepo, bookings models.BookingRepo, uploader helpers.Uploader, guard *models.Guard, logger *slog.Logger) *EventService {
	return &EventService{
		events:   events,
		bookings: bookings,
		uploader: uploader,
		guard:    guard,
		logger:   logger,
		now:      time.Now,
	}
}

// validateStored checks ev as it will be seen once settled; the stored
// status may still be created.
func validateStored(ev *models.Event) error {
	check := ev.Clone()
	check.Status = lifecycle.Normalize(check.Status)
	return check.Validate()
}

// CreateEvent stores a new event in the created state. The client settles
// it to open or offered with a follow-up update.
func (es *EventService) CreateEvent(ctx context.Context, ev *models.Event, venueID string) (*models.Event, error) {
	if ev == nil {
		return nil, fmt.Errorf("event is nil")
	}
	ev.Name = strings.TrimSpace(ev.Name)
	if ev.Name == "" {
		ev.Name = "Untitled Gig"
	}
	if ev.Frequency == "" {
		ev.Frequency = models.FrequencySingle
	}
	if venueID != "" {
		ev.VenueID = venueID
	}
	ev.Status = models.EventCreated
	ev.ArtistID, ev.ArtistName = "", ""
	ev.DesiredGenres = models.RemoveDuplicates(ev.DesiredGenres)
	ev.OpenForRequests = true
	if err := validateStored(ev); err != nil {
		return nil, err
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	now := es.now().UTC()
	ev.CreatedAt, ev.UpdatedAt = now, now

	return es.events.CreateEvent(ctx, ev)
}

func (es *EventService) ListEvents(ctx context.Context, q models.EventQuery) ([]*models.Event, error) {
	events, err := es.events.ListEvents(ctx, q)
	if err != nil {
		return nil, err
	}
	models.SortEvents(events)
	return events, nil
}

func (es *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return es.events.GetEvent(ctx, id)
}

// UpdateEvent applies a partial update. A status change must follow the
// lifecycle; the booking record of the event follows the new status.
func (es *EventService) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	release, err := es.guard.Acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()
	return es.update(ctx, id, patch)
}

func (es *EventService) update(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	current, err := es.events.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	next := current.Clone()
	patch.Apply(next)
	if err := lifecycle.ValidateChange(current.Status, next.Status); err != nil {
		return nil, err
	}
	if err := validateStored(next); err != nil {
		return nil, err
	}

	cols := patch.Columns()
	cols["updated_at"] = es.now().UTC()
	updated, err := es.events.UpdateEvent(ctx, id, cols)
	if err != nil {
		return nil, err
	}

	if next.Status != current.Status && es.bookings != nil {
		status := models.BookingStatusFor(next.Status)
		if status != models.BookingPending {
			if err := es.bookings.UpdateBookingStatus(ctx, id, status); err != nil {
				es.logger.Error("failed to sync booking status", "event_id", id, "status", status, "error", err)
			}
		}
	}
	return updated, nil
}

// DeleteEvent removes an event. Cancelled events are kept for history.
func (es *EventService) DeleteEvent(ctx context.Context, id string) error {
	release, err := es.guard.Acquire(id)
	if err != nil {
		return err
	}
	defer release()

	ev, err := es.events.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.CheckDelete(&models.Event{Status: lifecycle.Normalize(ev.Status)}, true); err != nil {
		return err
	}
	return es.events.DeleteEvent(ctx, id)
}

// AttachRider uploads the technical rider and stores its URL on the event.
func (es *EventService) AttachRider(ctx context.Context, id string, file io.Reader, filename string) (*models.Event, error) {
	if es.uploader == nil {
		return nil, helpers.ErrUploadsDisabled
	}
	release, err := es.guard.Acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := es.events.GetEvent(ctx, id); err != nil {
		return nil, err
	}
	url, err := es.uploader.Upload(ctx, file, id+"-"+filename)
	if err != nil {
		return nil, err
	}
	return es.update(ctx, id, models.EventPatch{AttachmentURL: models.Ptr(url)})
}
