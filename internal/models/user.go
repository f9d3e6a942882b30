package models

import (
	"time"
)

type Role string

const (
	RoleVenue  Role = "venue"
	RoleArtist Role = "artist"
)

type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email" validate:"required,email"`
	Name      string    `db:"name" json:"name" validate:"required"`
	Role      Role      `db:"role" json:"role" validate:"oneof=venue artist"`
	VenueID   string    `db:"venue_id" json:"venue_id,omitempty"`
	ArtistID  string    `db:"artist_id" json:"artist_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user"`
}
