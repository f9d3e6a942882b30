package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/remote"
	"github.com/joshua-takyi/jocky/internal/scheduling"
)

func TestRenderMonth(t *testing.T) {
	today := models.NewDate(2025, time.June, 1)
	events := []*models.Event{
		{ID: "e1", Name: "Friday Late", Date: models.NewDate(2025, time.June, 20), StartTime: "21:00", EndTime: "23:00"},
		{ID: "e2", Name: "Early Set", Date: models.NewDate(2025, time.June, 20), StartTime: "19:00", EndTime: "20:30"},
	}

	var buf bytes.Buffer
	renderMonth(&buf, scheduling.MonthGrid(today, events, scheduling.WithToday(today)))
	out := buf.String()

	if !strings.HasPrefix(out, "June 2025\n") {
		t.Errorf("unexpected heading in %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Sunday the 1st closes the first Monday-first row.
	if !strings.HasSuffix(lines[2], "[ 1] ") {
		t.Errorf("expected today at the end of the first row, got %q", lines[2])
	}
	if !strings.Contains(out, " 20 2") {
		t.Errorf("expected two events on the 20th in %q", out)
	}
}

func TestRenderRequestsSummary(t *testing.T) {
	reqs := []models.ArtistRequest{
		{ID: "r1", ArtistName: "DJ Nova", Status: models.RequestAccepted},
		{ID: "r2", ArtistName: "Lina Keys", Status: models.RequestDeclined},
		{ID: "r3", ArtistName: "Sam", Status: models.RequestPending},
	}
	var buf bytes.Buffer
	renderRequests(&buf, reqs)
	if !strings.Contains(buf.String(), "1 pending, 1 accepted, 1 declined") {
		t.Errorf("missing summary in %q", buf.String())
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"validation", fmt.Errorf("wrap: %w", &models.ValidationError{Field: "end_time", Message: "must be after start"}), "invalid end_time: must be after start"},
		{"api", &remote.APIError{Status: 409, Message: "illegal change"}, "server said illegal change (HTTP 409)"},
		{"refused", models.ErrConfirmationRequired, "cancelled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := describe(tc.err); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
