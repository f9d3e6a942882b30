package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/joshua-takyi/jocky/internal/models"
)

type artistsEnvelope struct {
	Artists []*models.Artist `json:"artists"`
}

// ListArtists searches the marketplace.
func (c *Client) ListArtists(ctx context.Context, f models.ArtistFilter) ([]*models.Artist, error) {
	v := url.Values{}
	for k, s := range map[string]string{"q": f.Query, "type": f.Type, "genre": f.Genre, "location": f.Location} {
		if s != "" {
			v.Set(k, s)
		}
	}
	path := "/artists"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var res artistsEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Artists, nil
}

func (c *Client) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	var res struct {
		Artist *models.Artist `json:"artist"`
	}
	if err := c.do(ctx, http.MethodGet, "/artists/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return res.Artist, nil
}

// ListPool returns the venue's saved artists.
func (c *Client) ListPool(ctx context.Context) ([]*models.Artist, error) {
	var res artistsEnvelope
	if err := c.do(ctx, http.MethodGet, "/pool", nil, &res); err != nil {
		return nil, err
	}
	return res.Artists, nil
}

func (c *Client) AddToPool(ctx context.Context, artistID string) error {
	return c.do(ctx, http.MethodPost, "/pool/"+url.PathEscape(artistID), nil, nil)
}

func (c *Client) RemoveFromPool(ctx context.Context, artistID string) error {
	return c.do(ctx, http.MethodDelete, "/pool/"+url.PathEscape(artistID), nil, nil)
}
