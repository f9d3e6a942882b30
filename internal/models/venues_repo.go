package models

import (
	"context"
	"encoding/json"
	"fmt"
)

const VenuesTable = "venues"

type VenuesRepo interface {
	GetVenue(ctx context.Context, id string) (*Venue, error)
	SaveVenue(ctx context.Context, venue *Venue) (*Venue, error)
}

func (su *SupabaseRepo) GetVenue(ctx context.Context, id string) (*Venue, error) {
	data, _, err := su.supabaseClient.From(VenuesTable).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}

	var venues []*Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venues: %w", err)
	}
	if len(venues) == 0 {
		return nil, ErrVenueNotFound
	}
	return venues[0], nil
}

// SaveVenue upserts on id so a venue can edit its floors and closed days.
func (su *SupabaseRepo) SaveVenue(ctx context.Context, venue *Venue) (*Venue, error) {
	data, _, err := su.supabaseClient.From(VenuesTable).
		Upsert(venue, "id", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to save venue: %w", err)
	}

	var saved []*Venue
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venue: %w", err)
	}
	if len(saved) == 0 {
		return nil, fmt.Errorf("venue upsert returned no rows")
	}
	return saved[0], nil
}
