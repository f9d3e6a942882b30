package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/jocky/internal/models"
)

type ArtistService struct {
	artists models.ArtistRepo
}

func NewArtistService(artists models.ArtistRepo) *ArtistService {
	return &ArtistService{artists: artists}
}

// ListArtists returns the marketplace filtered in memory; the catalogue is
// small enough that a collection scan is fine.
func (as *ArtistService) ListArtists(ctx context.Context, f models.ArtistFilter) ([]*models.Artist, error) {
	all, err := as.artists.ListArtists(ctx)
	if err != nil {
		return nil, err
	}
	return models.FilterArtists(all, f), nil
}

func (as *ArtistService) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("artist ID cannot be empty")
	}
	return as.artists.GetArtist(ctx, id)
}

// SaveArtist creates or replaces the caller's artist profile. Rating and
// review count are owned by reviews and are kept from the stored profile.
func (as *ArtistService) SaveArtist(ctx context.Context, in *models.Artist, ownerID string) (*models.Artist, error) {
	if in == nil {
		return nil, fmt.Errorf("artist is nil")
	}
	in.ID, in.UserID = ownerID, ownerID
	in.Rating, in.ReviewCount = nil, nil

	now := time.Now().UTC()
	in.CreatedAt = now
	existing, err := as.artists.GetArtist(ctx, ownerID)
	switch {
	case err == nil:
		in.CreatedAt = existing.CreatedAt
		in.Rating, in.ReviewCount = existing.Rating, existing.ReviewCount
	case !errors.Is(err, models.ErrArtistNotFound):
		return nil, err
	}
	in.UpdatedAt = now

	artist, err := models.NewArtist(*in)
	if err != nil {
		return nil, err
	}
	return as.artists.SaveArtist(ctx, artist)
}

// PoolService keeps each venue's shortlist of artists.
type PoolService struct {
	pool    models.PoolRepo
	artists models.ArtistRepo
}

func NewPoolService(pool models.PoolRepo, artists models.ArtistRepo) *PoolService {
	return &PoolService{pool: pool, artists: artists}
}

func (ps *PoolService) AddToPool(ctx context.Context, venueID, artistID string) (*models.ArtistPool, error) {
	if strings.TrimSpace(venueID) == "" {
		return nil, fmt.Errorf("invalid venue ID")
	}
	if _, err := ps.artists.GetArtist(ctx, artistID); err != nil {
		return nil, err
	}
	return ps.pool.AddToPool(ctx, venueID, artistID)
}

func (ps *PoolService) RemoveFromPool(ctx context.Context, venueID, artistID string) error {
	if strings.TrimSpace(venueID) == "" {
		return fmt.Errorf("invalid venue ID")
	}
	if strings.TrimSpace(artistID) == "" {
		return fmt.Errorf("artist ID cannot be empty")
	}
	return ps.pool.RemoveFromPool(ctx, venueID, artistID)
}

// ListPool resolves the pool to artist records in the order they were
// added. Artists removed from the marketplace are skipped.
func (ps *PoolService) ListPool(ctx context.Context, venueID string) ([]*models.Artist, error) {
	pool, err := ps.pool.GetPool(ctx, venueID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Artist, 0, len(pool.Items))
	for _, id := range pool.ArtistIDs() {
		a, err := ps.artists.GetArtist(ctx, id)
		if errors.Is(err, models.ErrArtistNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
