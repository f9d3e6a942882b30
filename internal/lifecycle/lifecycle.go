// Package lifecycle holds the event status machine. Every status change an
// event goes through, on the server or in the client, is checked here.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/joshua-takyi/jocky/internal/models"
)

type Action string

const (
	ActionSendOffer   Action = "send_offer"
	ActionAccept      Action = "accept"
	ActionDecline     Action = "decline"
	ActionCancelOffer Action = "cancel_offer"
	ActionCancel      Action = "cancel"
	ActionDelete      Action = "delete"
)

// Transition is one edge of the machine. A zero To means the event is
// removed rather than moved.
type Transition struct {
	From   models.EventStatus `json:"from"`
	Action Action             `json:"action"`
	To     models.EventStatus `json:"to,omitempty"`
}

var table = []Transition{
	{models.EventOpen, ActionSendOffer, models.EventOffered},
	{models.EventDeclined, ActionSendOffer, models.EventOffered},
	{models.EventOffered, ActionAccept, models.EventConfirmed},
	{models.EventOffered, ActionDecline, models.EventDeclined},
	{models.EventOffered, ActionCancelOffer, models.EventDeclined},
	{models.EventOpen, ActionCancel, models.EventCancelled},
	{models.EventOffered, ActionCancel, models.EventCancelled},
	{models.EventConfirmed, ActionCancel, models.EventCancelled},
	{models.EventDeclined, ActionCancel, models.EventCancelled},
	{models.EventOpen, ActionDelete, ""},
	{models.EventOffered, ActionDelete, ""},
	{models.EventConfirmed, ActionDelete, ""},
	{models.EventDeclined, ActionDelete, ""},
}

// Transitions returns a copy of the transition table.
func Transitions() []Transition {
	out := make([]Transition, len(table))
	copy(out, table)
	return out
}

// Next returns the state reached by applying a to from.
func Next(from models.EventStatus, a Action) (models.EventStatus, error) {
	for _, t := range table {
		if t.From == from && t.Action == a {
			return t.To, nil
		}
	}
	return from, fmt.Errorf("%w: cannot %s an event that is %s", models.ErrInvalidTransition, a, from)
}

// Allowed lists the actions available from s, in table order.
func Allowed(s models.EventStatus) []Action {
	var out []Action
	for _, t := range table {
		if t.From == s {
			out = append(out, t.Action)
		}
	}
	return out
}

// CanSendOffer reports whether an event in status s may receive a new offer.
func CanSendOffer(s models.EventStatus) bool {
	return s == models.EventOpen || s == models.EventDeclined
}

// Normalize maps the transient created state (and a missing status) to open.
func Normalize(s models.EventStatus) models.EventStatus {
	if s == "" || s == models.EventCreated {
		return models.EventOpen
	}
	return s
}

func apply(ev *models.Event, a Action) error {
	to, err := Next(ev.Status, a)
	if err != nil {
		return err
	}
	ev.Status = to
	return nil
}

// SendOffer binds an artist and moves the event to offered. An empty artist
// id is a validation error and leaves ev untouched.
func SendOffer(ev *models.Event, artistID, artistName string) error {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return models.ErrArtistRequired
	}
	if _, err := Next(ev.Status, ActionSendOffer); err != nil {
		return err
	}
	ev.Status = models.EventOffered
	ev.ArtistID = artistID
	ev.ArtistName = strings.TrimSpace(artistName)
	return nil
}

// Accept confirms an offered event. The bound artist becomes the booking.
func Accept(ev *models.Event) error {
	if ev.Status == models.EventOffered && !ev.HasArtist() {
		return models.ErrArtistRequired
	}
	return apply(ev, ActionAccept)
}

// Decline records the artist's refusal and releases the binding.
func Decline(ev *models.Event) error {
	if err := apply(ev, ActionDecline); err != nil {
		return err
	}
	unbind(ev)
	return nil
}

// CancelOffer withdraws the venue's offer and releases the binding.
func CancelOffer(ev *models.Event) error {
	if err := apply(ev, ActionCancelOffer); err != nil {
		return err
	}
	unbind(ev)
	return nil
}

// Cancel ends the event. A confirmed artist stays recorded for history.
func Cancel(ev *models.Event) error {
	return apply(ev, ActionCancel)
}

// CheckDelete gates removal. Nothing is deleted here; callers issue the
// delete only when this returns nil.
func CheckDelete(ev *models.Event, confirmed bool) error {
	if _, err := Next(ev.Status, ActionDelete); err != nil {
		return err
	}
	if !confirmed {
		return models.ErrConfirmationRequired
	}
	return nil
}

// ValidateChange checks a raw status change such as one arriving in a
// partial update. A created event may settle on open or offered.
func ValidateChange(from, to models.EventStatus) error {
	if from == to {
		return nil
	}
	if from == models.EventCreated && (to == models.EventOpen || to == models.EventOffered) {
		return nil
	}
	for _, t := range table {
		if t.From == from && t.To == to && t.To != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, from, to)
}

func unbind(ev *models.Event) {
	ev.ArtistID = ""
	ev.ArtistName = ""
}
