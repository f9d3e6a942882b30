// Package resolver settles competing artist requests for a single event.
package resolver

import (
	"fmt"
	"sort"

	"github.com/joshua-takyi/jocky/internal/lifecycle"
	"github.com/joshua-takyi/jocky/internal/models"
)

// Outcome records what a resolution changed, so callers persist only that.
type Outcome struct {
	Changed  bool     `json:"changed"`
	Accepted string   `json:"accepted,omitempty"`
	Declined []string `json:"declined,omitempty"`
	// EventChanged is set when the owning event moved to offered.
	EventChanged bool `json:"event_changed"`
}

func find(reqs []models.ArtistRequest, id string) int {
	for i := range reqs {
		if reqs[i].ID == id {
			return i
		}
	}
	return -1
}

// Accept makes requestID the single accepted request of ev. Every other
// pending or previously accepted request of the same event is declined and
// ev moves to offered with the artist bound. All checks run before anything
// is written, so a failed Accept mutates neither ev nor reqs.
func Accept(ev *models.Event, reqs []models.ArtistRequest, requestID string) (Outcome, error) {
	i := find(reqs, requestID)
	if i < 0 || reqs[i].EventID != ev.ID {
		return Outcome{}, fmt.Errorf("%w: %s", models.ErrRequestNotFound, requestID)
	}
	target := reqs[i]

	switch target.Status {
	case models.RequestAccepted:
		return Outcome{Accepted: target.ID}, nil
	case models.RequestPending:
	default:
		return Outcome{}, fmt.Errorf("%w: %s is %s", models.ErrRequestNotPending, target.ID, target.Status)
	}

	if !lifecycle.CanSendOffer(ev.Status) {
		return Outcome{}, fmt.Errorf("%w: event %s is %s", models.ErrInvalidTransition, ev.ID, ev.Status)
	}
	if err := lifecycle.SendOffer(ev, target.ArtistID, target.ArtistName); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Changed: true, Accepted: target.ID, EventChanged: true}
	reqs[i].Status = models.RequestAccepted
	for _, j := range order(reqs) {
		r := &reqs[j]
		if j == i || r.EventID != ev.ID {
			continue
		}
		if r.Status == models.RequestPending || r.Status == models.RequestAccepted {
			r.Status = models.RequestDeclined
			out.Declined = append(out.Declined, r.ID)
		}
	}
	return out, nil
}

// Decline turns down one pending request of eventID. Siblings and the event
// are left alone.
func Decline(eventID string, reqs []models.ArtistRequest, requestID string) (Outcome, error) {
	i := find(reqs, requestID)
	if i < 0 || reqs[i].EventID != eventID {
		return Outcome{}, fmt.Errorf("%w: %s", models.ErrRequestNotFound, requestID)
	}
	if reqs[i].Status != models.RequestPending {
		return Outcome{}, fmt.Errorf("%w: %s is %s", models.ErrRequestNotPending, requestID, reqs[i].Status)
	}
	reqs[i].Status = models.RequestDeclined
	return Outcome{Changed: true, Declined: []string{requestID}}, nil
}

// order returns indexes of reqs by ascending request time, stable on ties.
func order(reqs []models.ArtistRequest) []int {
	idx := make([]int, len(reqs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return reqs[idx[a]].RequestedAt.Before(reqs[idx[b]].RequestedAt)
	})
	return idx
}

// Sorted returns a copy of reqs in ascending request time.
func Sorted(reqs []models.ArtistRequest) []models.ArtistRequest {
	out := make([]models.ArtistRequest, 0, len(reqs))
	for _, i := range order(reqs) {
		out = append(out, reqs[i])
	}
	return out
}

// AcceptEarliest accepts the first pending request in time order.
func AcceptEarliest(ev *models.Event, reqs []models.ArtistRequest) (Outcome, error) {
	for _, i := range order(reqs) {
		if reqs[i].EventID == ev.ID && reqs[i].IsPending() {
			return Accept(ev, reqs, reqs[i].ID)
		}
	}
	return Outcome{}, fmt.Errorf("%w: no pending requests for event %s", models.ErrRequestNotFound, ev.ID)
}

// DeclineAllPending declines every pending request in time order and
// returns the ids it changed.
func DeclineAllPending(reqs []models.ArtistRequest) []string {
	var ids []string
	for _, i := range order(reqs) {
		if reqs[i].IsPending() {
			reqs[i].Status = models.RequestDeclined
			ids = append(ids, reqs[i].ID)
		}
	}
	return ids
}

// Counts tallies requests per status.
func Counts(reqs []models.ArtistRequest) map[models.RequestStatus]int {
	out := make(map[models.RequestStatus]int, 3)
	for _, r := range reqs {
		out[r.Status]++
	}
	return out
}
