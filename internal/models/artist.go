package models

import (
	"fmt"
	"strings"
	"time"
)

// PriceRange is an artist's asking fee, in the same units as Event.Amount.
type PriceRange struct {
	Min Amount `json:"min" bson:"min"`
	Max Amount `json:"max" bson:"max"`
}

func (p PriceRange) IsZero() bool {
	return p.Min == 0 && p.Max == 0
}

func (p PriceRange) String() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d-%d", p.Min.Major(), p.Max.Major())
}

// ParsePriceRange reads the "5000-8000" form artists enter on their profile.
// A single number is treated as a fixed price.
func ParsePriceRange(s string) (PriceRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriceRange{}, nil
	}
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		hi = lo
	}
	min, err := ParseAmount(lo)
	if err != nil {
		return PriceRange{}, fmt.Errorf("invalid price range %q: %w", s, err)
	}
	max, err := ParseAmount(hi)
	if err != nil {
		return PriceRange{}, fmt.Errorf("invalid price range %q: %w", s, err)
	}
	if min < 0 || max < min {
		return PriceRange{}, newValidationError("price_range", "bounds out of order in %q", s)
	}
	return PriceRange{Min: min, Max: max}, nil
}

// Artist is a performer profile. Stored in MongoDB.
type Artist struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      string     `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Name        string     `json:"name" bson:"name" validate:"required"`
	Type        string     `json:"type" bson:"type"`
	Location    string     `json:"location" bson:"location"`
	Genres      []string   `json:"genres" bson:"genres"`
	About       string     `json:"about,omitempty" bson:"about,omitempty"`
	Image       string     `json:"image,omitempty" bson:"image,omitempty"`
	PriceRange  PriceRange `json:"price_range" bson:"price_range"`
	Rating      *float64   `json:"rating,omitempty" bson:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount *int       `json:"review_count,omitempty" bson:"review_count,omitempty" validate:"omitempty,gte=0"`
	Experience  string     `json:"experience,omitempty" bson:"experience,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// NewArtist validates a profile. Duplicate genres are dropped (compared
// case-insensitively) and the first spelling is kept in its position.
func NewArtist(a Artist) (*Artist, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Genres = RemoveDuplicates(a.Genres)
	if err := Validate.Struct(&a); err != nil {
		return nil, fromValidator(err)
	}
	if a.PriceRange.Min < 0 || a.PriceRange.Max < a.PriceRange.Min {
		return nil, newValidationError("price_range", "bounds out of order")
	}
	return &a, nil
}

// HasGenre matches case-insensitively.
func (a *Artist) HasGenre(genre string) bool {
	for _, g := range a.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// RemoveDuplicates trims values, drops empty ones and keeps the first of any
// case-insensitive duplicates.
func RemoveDuplicates(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ArtistFilter is the marketplace search. Empty fields match everything.
type ArtistFilter struct {
	Query    string
	Type     string
	Genre    string
	Location string
}

func (f ArtistFilter) Match(a *Artist) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hit := strings.Contains(strings.ToLower(a.Name), q)
		for _, g := range a.Genres {
			if hit {
				break
			}
			hit = strings.Contains(strings.ToLower(g), q)
		}
		if !hit {
			return false
		}
	}
	if f.Type != "" && !strings.EqualFold(a.Type, f.Type) {
		return false
	}
	if f.Genre != "" && !a.HasGenre(f.Genre) {
		return false
	}
	if f.Location != "" && !strings.EqualFold(a.Location, f.Location) {
		return false
	}
	return true
}

// FilterArtists keeps input order.
func FilterArtists(artists []*Artist, f ArtistFilter) []*Artist {
	out := make([]*Artist, 0, len(artists))
	for _, a := range artists {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
