package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/joshua-takyi/jocky/internal/lifecycle"
	"github.com/joshua-takyi/jocky/internal/models"
)

type Query struct {
	VenueID string
	Status  models.EventStatus
	From    models.Date
	To      models.Date
}

func (q Query) encode() string {
	v := url.Values{}
	if q.VenueID != "" {
		v.Set("venue_id", q.VenueID)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if !q.From.IsZero() {
		v.Set("from", q.From.String())
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.String())
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

type InviteMethod string

const (
	// InviteOpen publishes the event for artist requests.
	InviteOpen InviteMethod = "open"
	// InviteDirect offers the event to one chosen artist.
	InviteDirect InviteMethod = "direct"
)

type Invite struct {
	Method     InviteMethod
	ArtistID   string
	ArtistName string
}

type eventEnvelope struct {
	Event wireEvent `json:"event"`
}

type eventsEnvelope struct {
	Events []wireEvent `json:"events"`
}

func eventPath(id string) string {
	return "/events/" + url.PathEscape(id)
}

func (c *Client) ListEvents(ctx context.Context, q Query) ([]*models.Event, error) {
	var res eventsEnvelope
	if err := c.do(ctx, http.MethodGet, "/events"+q.encode(), nil, &res); err != nil {
		return nil, err
	}
	events := make([]*models.Event, 0, len(res.Events))
	for _, w := range res.Events {
		ev, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		events = append(events, normalized(ev))
	}
	models.SortEvents(events)
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var res eventEnvelope
	if err := c.do(ctx, http.MethodGet, eventPath(id), nil, &res); err != nil {
		return nil, err
	}
	ev, err := fromWire(res.Event)
	if err != nil {
		return nil, err
	}
	return normalized(ev), nil
}

// CreateEvent validates the input, posts it (the API stores it as created)
// and then settles it: open for requests, or offered to the invited artist.
func (c *Client) CreateEvent(ctx context.Context, in models.EventInput, inv Invite) (*models.Event, error) {
	ev, err := models.NewEvent(in)
	if err != nil {
		return nil, err
	}
	if inv.Method == InviteDirect && strings.TrimSpace(inv.ArtistID) == "" {
		return nil, models.ErrArtistRequired
	}

	body := toWire(ev)
	body.Status = string(models.EventCreated)
	body.ArtistID, body.ArtistName = "", ""

	var res eventEnvelope
	if err := c.do(ctx, http.MethodPost, "/events", body, &res); err != nil {
		return nil, err
	}
	created, err := fromWire(res.Event)
	if err != nil {
		return nil, err
	}

	var settled *models.Event
	if inv.Method == InviteDirect {
		settled, err = c.SendOffer(ctx, created, inv.ArtistID, inv.ArtistName)
	} else {
		settled, err = c.put(ctx, created.ID, models.StatusPatch(models.EventOpen, false, "", ""))
	}
	if err != nil {
		return nil, fmt.Errorf("event %s was created but could not be published: %w", created.ID, err)
	}
	return settled, nil
}

func (c *Client) put(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	var res eventEnvelope
	if err := c.do(ctx, http.MethodPut, eventPath(id), patch, &res); err != nil {
		return nil, err
	}
	ev, err := fromWire(res.Event)
	if err != nil {
		return nil, err
	}
	return normalized(ev), nil
}

// UpdateEvent applies patch locally first; an invalid result or an illegal
// status change is rejected before any request is sent.
func (c *Client) UpdateEvent(ctx context.Context, ev *models.Event, patch models.EventPatch) (*models.Event, error) {
	if patch.IsEmpty() {
		return ev.Clone(), nil
	}
	next := ev.Clone()
	patch.Apply(next)
	if err := lifecycle.ValidateChange(ev.Status, next.Status); err != nil {
		return nil, err
	}
	next.Status = lifecycle.Normalize(next.Status)
	if err := next.Validate(); err != nil {
		return nil, err
	}

	release, err := c.guard.Acquire(ev.ID)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.put(ctx, ev.ID, patch)
}

type bookingEnvelope struct {
	Booking struct {
		ID FlexID `json:"id"`
	} `json:"booking"`
}

// SendOffer offers ev to an artist. The booking record is written first and
// the event moved to offered second; if the event update fails the booking
// is deleted again, so the caller sees both or neither.
func (c *Client) SendOffer(ctx context.Context, ev *models.Event, artistID, artistName string) (*models.Event, error) {
	next := ev.Clone()
	next.Status = lifecycle.Normalize(next.Status)
	if err := lifecycle.SendOffer(next, artistID, artistName); err != nil {
		return nil, err
	}

	release, err := c.guard.Acquire(ev.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	body := map[string]string{"event_id": ev.ID, "artist_id": next.ArtistID}
	var booking bookingEnvelope
	if err := c.do(ctx, http.MethodPost, "/bookings", body, &booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	updated, err := c.put(ctx, ev.ID, models.StatusPatch(models.EventOffered, true, next.ArtistID, next.ArtistName))
	if err != nil {
		if booking.Booking.ID != "" {
			path := "/bookings/" + url.PathEscape(string(booking.Booking.ID))
			if rbErr := c.do(ctx, http.MethodDelete, path, nil, nil); rbErr != nil {
				c.logger.Error("failed to roll back booking", "booking_id", booking.Booking.ID, "event_id", ev.ID, "error", rbErr)
				return nil, errors.Join(err, fmt.Errorf("rollback of booking %s failed: %w", booking.Booking.ID, rbErr))
			}
		}
		return nil, err
	}
	return updated, nil
}

// transition runs a lifecycle step on a copy of ev and, if it is legal,
// persists the resulting status.
func (c *Client) transition(ctx context.Context, ev *models.Event, step func(*models.Event) error, unbind bool) (*models.Event, error) {
	next := ev.Clone()
	if err := step(next); err != nil {
		return nil, err
	}

	release, err := c.guard.Acquire(ev.ID)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.put(ctx, ev.ID, models.StatusPatch(next.Status, unbind, "", ""))
}

func (c *Client) AcceptOffer(ctx context.Context, ev *models.Event) (*models.Event, error) {
	return c.transition(ctx, ev, lifecycle.Accept, false)
}

func (c *Client) DeclineOffer(ctx context.Context, ev *models.Event) (*models.Event, error) {
	return c.transition(ctx, ev, lifecycle.Decline, true)
}

func (c *Client) CancelOffer(ctx context.Context, ev *models.Event) (*models.Event, error) {
	return c.transition(ctx, ev, lifecycle.CancelOffer, true)
}

func (c *Client) CancelEvent(ctx context.Context, ev *models.Event) (*models.Event, error) {
	return c.transition(ctx, ev, lifecycle.Cancel, false)
}

// DeleteEvent removes ev after confirm agrees. A refusal returns
// ErrConfirmationRequired and nothing is sent.
func (c *Client) DeleteEvent(ctx context.Context, ev *models.Event, confirm Confirmer) error {
	if err := lifecycle.CheckDelete(ev, true); err != nil {
		return err
	}
	if confirm == nil {
		return models.ErrConfirmationRequired
	}
	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Delete %q on %s? This cannot be undone.", ev.Name, ev.Date))
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if err := lifecycle.CheckDelete(ev, ok); err != nil {
		return err
	}

	release, err := c.guard.Acquire(ev.ID)
	if err != nil {
		return err
	}
	defer release()
	return c.do(ctx, http.MethodDelete, eventPath(ev.ID), nil, nil)
}
