package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/joshua-takyi/jocky/internal/lifecycle"
	"github.com/joshua-takyi/jocky/internal/models"
)

// FlexID accepts an identifier sent as a JSON string or number.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid id %s", b)
		}
		if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
			return fmt.Errorf("invalid id %s", b)
		}
		*f = FlexID(n.String())
	}
	return nil
}

// wireEvent is the snake_case event record exchanged with the API.
type wireEvent struct {
	ID              FlexID        `json:"id,omitempty"`
	EventName       string        `json:"event_name"`
	EventDate       string        `json:"event_date"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	VenueID         FlexID        `json:"venue_id,omitempty"`
	DanceFloorID    FlexID        `json:"dance_floor_id,omitempty"`
	AmountSEK       models.Amount `json:"amount_sek"`
	Notes           string        `json:"notes"`
	Frequency       string        `json:"frequency"`
	Status          string        `json:"status"`
	ArtistID        FlexID        `json:"artist_id,omitempty"`
	ArtistName      string        `json:"artist_name,omitempty"`
	RequestCount    *int          `json:"request_count,omitempty"`
	DesiredGenres   []string      `json:"desired_genres,omitempty"`
	OpenForRequests *bool         `json:"open_for_requests,omitempty"`
	AttachmentURL   string        `json:"attachment_url,omitempty"`
	CreatedAt       *time.Time    `json:"created_at,omitempty"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}

// toWire renders ev for a create call.
func toWire(ev *models.Event) wireEvent {
	open := ev.OpenForRequests
	return wireEvent{
		ID:              FlexID(ev.ID),
		EventName:       ev.Name,
		EventDate:       ev.Date.String(),
		StartTime:       ev.StartTime,
		EndTime:         ev.EndTime,
		VenueID:         FlexID(ev.VenueID),
		DanceFloorID:    FlexID(ev.DanceFloorID),
		AmountSEK:       ev.Amount,
		Notes:           ev.Notes,
		Frequency:       string(ev.Frequency),
		Status:          string(ev.Status),
		ArtistID:        FlexID(ev.ArtistID),
		ArtistName:      ev.ArtistName,
		RequestCount:    ev.RequestCount,
		DesiredGenres:   ev.DesiredGenres,
		OpenForRequests: &open,
		AttachmentURL:   ev.AttachmentURL,
	}
}

// fromWire converts an API record into a domain event. The date keeps only
// its calendar part so a timestamp never shifts the day.
func fromWire(w wireEvent) (*models.Event, error) {
	date, err := models.ParseDate(w.EventDate)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", w.ID, err)
	}
	ev := &models.Event{
		ID:            string(w.ID),
		Name:          w.EventName,
		Date:          date,
		StartTime:     models.TrimSeconds(w.StartTime),
		EndTime:       models.TrimSeconds(w.EndTime),
		VenueID:       string(w.VenueID),
		DanceFloorID:  string(w.DanceFloorID),
		Amount:        w.AmountSEK,
		Notes:         w.Notes,
		Frequency:     models.Frequency(w.Frequency),
		Status:        models.EventStatus(w.Status),
		ArtistID:      string(w.ArtistID),
		ArtistName:    w.ArtistName,
		RequestCount:  w.RequestCount,
		DesiredGenres: w.DesiredGenres,
		AttachmentURL: w.AttachmentURL,
	}
	if ev.Frequency == "" {
		ev.Frequency = models.FrequencySingle
	}
	if !lifecycle.Normalize(ev.Status).Valid() {
		return nil, fmt.Errorf("event %s: unknown status %q", w.ID, w.Status)
	}
	if w.OpenForRequests != nil {
		ev.OpenForRequests = *w.OpenForRequests
	}
	if w.CreatedAt != nil {
		ev.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		ev.UpdatedAt = *w.UpdatedAt
	}
	return ev, nil
}

// normalized returns the event as the UI may see it: the transient created
// state is never exposed.
func normalized(ev *models.Event) *models.Event {
	ev.Status = lifecycle.Normalize(ev.Status)
	return ev
}

type wireRequest struct {
	ID           FlexID    `json:"id"`
	EventID      FlexID    `json:"event_id"`
	EventName    string    `json:"event_name"`
	ArtistID     FlexID    `json:"artist_id"`
	ArtistName   string    `json:"artist_name"`
	ArtistType   string    `json:"artist_type,omitempty"`
	ArtistGenres []string  `json:"artist_genres,omitempty"`
	ArtistRating *float64  `json:"artist_rating,omitempty"`
	Message      string    `json:"message"`
	RequestedAt  time.Time `json:"requested_at"`
	Status       string    `json:"status"`
}

func requestFromWire(w wireRequest) models.ArtistRequest {
	return models.ArtistRequest{
		ID:           string(w.ID),
		EventID:      string(w.EventID),
		EventName:    w.EventName,
		ArtistID:     string(w.ArtistID),
		ArtistName:   w.ArtistName,
		ArtistType:   w.ArtistType,
		ArtistGenres: w.ArtistGenres,
		ArtistRating: w.ArtistRating,
		Message:      w.Message,
		RequestedAt:  w.RequestedAt,
		Status:       models.RequestStatus(w.Status),
	}
}

func requestsFromWire(ws []wireRequest) []models.ArtistRequest {
	out := make([]models.ArtistRequest, 0, len(ws))
	for _, w := range ws {
		out = append(out, requestFromWire(w))
	}
	return out
}
