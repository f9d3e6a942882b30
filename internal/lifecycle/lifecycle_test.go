package lifecycle

import (
	"errors"
	"testing"

	"github.com/joshua-takyi/jocky/internal/models"
)

var actions = []Action{ActionSendOffer, ActionAccept, ActionDecline, ActionCancelOffer, ActionCancel, ActionDelete}

func TestNextRejectsUndefinedEdges(t *testing.T) {
	defined := map[[2]string]bool{}
	for _, tr := range Transitions() {
		defined[[2]string{string(tr.From), string(tr.Action)}] = true
	}

	for _, from := range models.EventStatuses {
		for _, a := range actions {
			_, err := Next(from, a)
			if defined[[2]string{string(from), string(a)}] {
				if err != nil {
					t.Errorf("%s --%s--> should be allowed, got %v", from, a, err)
				}
				continue
			}
			if !errors.Is(err, models.ErrInvalidTransition) {
				t.Errorf("%s --%s--> should be rejected, got %v", from, a, err)
			}
		}
	}
}

func TestCancelledIsTerminal(t *testing.T) {
	if got := Allowed(models.EventCancelled); len(got) != 0 {
		t.Errorf("cancelled should have no actions, got %v", got)
	}
}

func TestConfirmedCannotBeReoffered(t *testing.T) {
	ev := &models.Event{Status: models.EventConfirmed, ArtistID: "a1", ArtistName: "DJ Nova"}
	err := SendOffer(ev, "a2", "Kite")
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if ev.Status != models.EventConfirmed || ev.ArtistID != "a1" {
		t.Errorf("event should be untouched, got %+v", ev)
	}
}

func TestOfferScenario(t *testing.T) {
	ev := &models.Event{ID: "e1", Status: models.EventOpen}

	if err := SendOffer(ev, "x", "Artist X"); err != nil {
		t.Fatalf("SendOffer from open: %v", err)
	}
	if ev.Status != models.EventOffered || ev.ArtistID != "x" {
		t.Fatalf("expected offered to x, got %s/%s", ev.Status, ev.ArtistID)
	}

	if err := Decline(ev); err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if ev.Status != models.EventDeclined || ev.HasArtist() {
		t.Fatalf("expected declined without artist, got %s/%q", ev.Status, ev.ArtistID)
	}

	if err := SendOffer(ev, "y", "Artist Y"); err != nil {
		t.Fatalf("re-offer after decline: %v", err)
	}
	if ev.Status != models.EventOffered || ev.ArtistID != "y" {
		t.Fatalf("expected offered to y, got %s/%s", ev.Status, ev.ArtistID)
	}
}

func TestSendOfferWithoutArtist(t *testing.T) {
	ev := &models.Event{Status: models.EventOpen}
	err := SendOffer(ev, "   ", "")
	if !errors.Is(err, models.ErrArtistRequired) {
		t.Fatalf("expected ErrArtistRequired, got %v", err)
	}
	if !models.IsValidation(err) {
		t.Error("missing artist should count as a validation error")
	}
	if ev.Status != models.EventOpen {
		t.Errorf("status should stay open, got %s", ev.Status)
	}
}

func TestAcceptRequiresBinding(t *testing.T) {
	ev := &models.Event{Status: models.EventOffered}
	if err := Accept(ev); !errors.Is(err, models.ErrArtistRequired) {
		t.Fatalf("expected ErrArtistRequired, got %v", err)
	}
	ev.ArtistID = "a1"
	if err := Accept(ev); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if ev.Status != models.EventConfirmed || ev.ArtistID != "a1" {
		t.Errorf("expected confirmed with a1, got %s/%s", ev.Status, ev.ArtistID)
	}
}

func TestCancelOfferReleasesArtist(t *testing.T) {
	ev := &models.Event{Status: models.EventOffered, ArtistID: "a1", ArtistName: "A"}
	if err := CancelOffer(ev); err != nil {
		t.Fatalf("CancelOffer: %v", err)
	}
	if ev.Status != models.EventDeclined || ev.HasArtist() {
		t.Errorf("expected declined without artist, got %+v", ev)
	}
}

func TestCancelFromEveryLiveState(t *testing.T) {
	for _, s := range []models.EventStatus{models.EventOpen, models.EventOffered, models.EventConfirmed, models.EventDeclined} {
		ev := &models.Event{Status: s, ArtistID: "a1"}
		if err := Cancel(ev); err != nil {
			t.Errorf("Cancel from %s: %v", s, err)
		}
		if ev.Status != models.EventCancelled {
			t.Errorf("Cancel from %s gave %s", s, ev.Status)
		}
	}
	ev := &models.Event{Status: models.EventCancelled}
	if err := Cancel(ev); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("cancelling twice should fail, got %v", err)
	}
}

func TestCheckDelete(t *testing.T) {
	ev := &models.Event{Status: models.EventOpen}
	if err := CheckDelete(ev, false); !errors.Is(err, models.ErrConfirmationRequired) {
		t.Errorf("expected ErrConfirmationRequired, got %v", err)
	}
	if err := CheckDelete(ev, true); err != nil {
		t.Errorf("confirmed delete should pass, got %v", err)
	}
	ev.Status = models.EventCancelled
	if err := CheckDelete(ev, true); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("cancelled event delete should fail, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	if Normalize(models.EventCreated) != models.EventOpen || Normalize("") != models.EventOpen {
		t.Error("created and empty should normalize to open")
	}
	if Normalize(models.EventOffered) != models.EventOffered {
		t.Error("offered should be kept")
	}
}

func TestValidateChange(t *testing.T) {
	ok := [][2]models.EventStatus{
		{models.EventCreated, models.EventOpen},
		{models.EventCreated, models.EventOffered},
		{models.EventOpen, models.EventOffered},
		{models.EventOffered, models.EventConfirmed},
		{models.EventOffered, models.EventDeclined},
		{models.EventConfirmed, models.EventCancelled},
		{models.EventOpen, models.EventOpen},
	}
	for _, c := range ok {
		if err := ValidateChange(c[0], c[1]); err != nil {
			t.Errorf("%s -> %s should be allowed: %v", c[0], c[1], err)
		}
	}

	bad := [][2]models.EventStatus{
		{models.EventConfirmed, models.EventOffered},
		{models.EventCancelled, models.EventOpen},
		{models.EventOpen, models.EventConfirmed},
		{models.EventCreated, models.EventConfirmed},
	}
	for _, c := range bad {
		if err := ValidateChange(c[0], c[1]); !errors.Is(err, models.ErrInvalidTransition) {
			t.Errorf("%s -> %s should be rejected, got %v", c[0], c[1], err)
		}
	}
}
