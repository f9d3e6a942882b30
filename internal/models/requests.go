package models

import (
	"slices"
	"strings"
	"time"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

// ArtistRequest is an artist's application to play an open event. The
// event name and artist fields are display copies taken when the request was
// written; they are not refreshed when the source records change.
type ArtistRequest struct {
	ID           string        `json:"id" bson:"_id"`
	EventID      string        `json:"event_id" bson:"event_id" validate:"required"`
	EventName    string        `json:"event_name" bson:"event_name"`
	ArtistID     string        `json:"artist_id" bson:"artist_id" validate:"required"`
	ArtistName   string        `json:"artist_name" bson:"artist_name"`
	ArtistType   string        `json:"artist_type,omitempty" bson:"artist_type,omitempty"`
	ArtistGenres []string      `json:"artist_genres,omitempty" bson:"artist_genres,omitempty"`
	ArtistRating *float64      `json:"artist_rating,omitempty" bson:"artist_rating,omitempty"`
	Message      string        `json:"message" bson:"message"`
	RequestedAt  time.Time     `json:"requested_at" bson:"requested_at"`
	Status       RequestStatus `json:"status" bson:"status" validate:"oneof=pending accepted declined"`
}

// NewArtistRequest snapshots the artist and event for display and starts the
// request as pending.
func NewArtistRequest(id string, ev *Event, artist *Artist, message string, at time.Time) (*ArtistRequest, error) {
	r := &ArtistRequest{
		ID:           id,
		EventID:      ev.ID,
		EventName:    ev.Name,
		ArtistID:     artist.ID,
		ArtistName:   artist.Name,
		ArtistType:   artist.Type,
		ArtistGenres: slices.Clone(artist.Genres),
		ArtistRating: artist.Rating,
		Message:      strings.TrimSpace(message),
		RequestedAt:  at,
		Status:       RequestPending,
	}
	if err := Validate.Struct(r); err != nil {
		return nil, fromValidator(err)
	}
	return r, nil
}

func (r *ArtistRequest) IsPending() bool {
	return r.Status == RequestPending
}
