package models

import (
	"slices"
	"strings"
)

// EventPatch is a partial event update. Nil fields are left alone. An empty
// ArtistID clears the artist binding.
type EventPatch struct {
	Name            *string      `json:"event_name,omitempty"`
	Date            *Date        `json:"event_date,omitempty"`
	StartTime       *string      `json:"start_time,omitempty"`
	EndTime         *string      `json:"end_time,omitempty"`
	DanceFloorID    *string      `json:"dance_floor_id,omitempty"`
	Amount          *Amount      `json:"amount_sek,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	Frequency       *Frequency   `json:"frequency,omitempty"`
	Status          *EventStatus `json:"status,omitempty"`
	ArtistID        *string      `json:"artist_id,omitempty"`
	ArtistName      *string      `json:"artist_name,omitempty"`
	DesiredGenres   []string     `json:"desired_genres,omitempty"`
	OpenForRequests *bool        `json:"open_for_requests,omitempty"`
	AttachmentURL   *string      `json:"attachment_url,omitempty"`
}

func Ptr[T any](v T) *T {
	return &v
}

// StatusPatch sets a status and, when bind is true, the artist binding.
func StatusPatch(s EventStatus, bind bool, artistID, artistName string) EventPatch {
	p := EventPatch{Status: Ptr(s)}
	if bind {
		p.ArtistID = Ptr(artistID)
		p.ArtistName = Ptr(artistName)
	}
	return p
}

// FullPatch carries every editable field of ev.
func FullPatch(ev *Event) EventPatch {
	return EventPatch{
		Name:            Ptr(ev.Name),
		Date:            Ptr(ev.Date),
		StartTime:       Ptr(ev.StartTime),
		EndTime:         Ptr(ev.EndTime),
		DanceFloorID:    Ptr(ev.DanceFloorID),
		Amount:          Ptr(ev.Amount),
		Notes:           Ptr(ev.Notes),
		Frequency:       Ptr(ev.Frequency),
		Status:          Ptr(ev.Status),
		ArtistID:        Ptr(ev.ArtistID),
		ArtistName:      Ptr(ev.ArtistName),
		DesiredGenres:   slices.Clone(ev.DesiredGenres),
		OpenForRequests: Ptr(ev.OpenForRequests),
		AttachmentURL:   Ptr(ev.AttachmentURL),
	}
}

func (p EventPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

// Apply writes the set fields onto ev.
func (p EventPatch) Apply(ev *Event) {
	if p.Name != nil {
		ev.Name = strings.TrimSpace(*p.Name)
	}
	if p.Date != nil {
		ev.Date = *p.Date
	}
	if p.StartTime != nil {
		ev.StartTime = strings.TrimSpace(*p.StartTime)
	}
	if p.EndTime != nil {
		ev.EndTime = strings.TrimSpace(*p.EndTime)
	}
	if p.DanceFloorID != nil {
		ev.DanceFloorID = *p.DanceFloorID
	}
	if p.Amount != nil {
		ev.Amount = *p.Amount
	}
	if p.Notes != nil {
		ev.Notes = *p.Notes
	}
	if p.Frequency != nil {
		ev.Frequency = *p.Frequency
	}
	if p.Status != nil {
		ev.Status = *p.Status
	}
	if p.ArtistID != nil {
		ev.ArtistID = strings.TrimSpace(*p.ArtistID)
	}
	if p.ArtistName != nil {
		ev.ArtistName = strings.TrimSpace(*p.ArtistName)
	}
	if p.DesiredGenres != nil {
		ev.DesiredGenres = RemoveDuplicates(p.DesiredGenres)
	}
	if p.OpenForRequests != nil {
		ev.OpenForRequests = *p.OpenForRequests
	}
	if p.AttachmentURL != nil {
		ev.AttachmentURL = *p.AttachmentURL
	}
}

// Columns renders the patch as a column map for a table update. A cleared
// artist binding becomes NULL.
func (p EventPatch) Columns() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["event_name"] = strings.TrimSpace(*p.Name)
	}
	if p.Date != nil {
		m["event_date"] = p.Date.String()
	}
	if p.StartTime != nil {
		m["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		m["end_time"] = *p.EndTime
	}
	if p.DanceFloorID != nil {
		m["dance_floor_id"] = nullable(*p.DanceFloorID)
	}
	if p.Amount != nil {
		m["amount_sek"] = *p.Amount
	}
	if p.Notes != nil {
		m["notes"] = *p.Notes
	}
	if p.Frequency != nil {
		m["frequency"] = *p.Frequency
	}
	if p.Status != nil {
		m["status"] = *p.Status
	}
	if p.ArtistID != nil {
		m["artist_id"] = nullable(*p.ArtistID)
	}
	if p.ArtistName != nil {
		m["artist_name"] = nullable(*p.ArtistName)
	}
	if p.DesiredGenres != nil {
		m["desired_genres"] = RemoveDuplicates(p.DesiredGenres)
	}
	if p.OpenForRequests != nil {
		m["open_for_requests"] = *p.OpenForRequests
	}
	if p.AttachmentURL != nil {
		m["attachment_url"] = *p.AttachmentURL
	}
	return m
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.TrimSpace(s)
}
