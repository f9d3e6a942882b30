package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/jocky/internal/models"
)

type VenuesService struct {
	venuesRepo models.VenuesRepo
}

func NewVenuesService(venuesRepo models.VenuesRepo) *VenuesService {
	return &VenuesService{
		venuesRepo: venuesRepo,
	}
}

func (vs *VenuesService) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	return vs.venuesRepo.GetVenue(ctx, id)
}

// SaveVenue creates or replaces the owner's venue, including its dance
// floors and closed days.
func (vs *VenuesService) SaveVenue(ctx context.Context, venue *models.Venue, ownerID string) (*models.Venue, error) {
	if venue == nil {
		return nil, fmt.Errorf("venue is nil")
	}
	if err := venue.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if venue.ID != "" {
		existing, err := vs.venuesRepo.GetVenue(ctx, venue.ID)
		switch {
		case err == nil:
			if existing.OwnerID != "" && existing.OwnerID != ownerID {
				return nil, models.ErrForbidden
			}
			venue.CreatedAt = existing.CreatedAt
		case err != models.ErrVenueNotFound:
			return nil, err
		}
	} else {
		venue.ID = uuid.NewString()
	}
	if venue.CreatedAt.IsZero() {
		venue.CreatedAt = now
	}
	venue.OwnerID = ownerID
	venue.UpdatedAt = now
	for i := range venue.DanceFloors {
		if venue.DanceFloors[i].ID == "" {
			venue.DanceFloors[i].ID = uuid.NewString()
		}
	}
	return vs.venuesRepo.SaveVenue(ctx, venue)
}
