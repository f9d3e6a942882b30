package helpers

import (
	"github.com/joshua-takyi/jocky/internal/models"
)

// Claims is the authenticated caller as stored in the gin context.
type Claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email,omitempty"`
	Role   models.Role `json:"role"`
	Name   string      `json:"name,omitempty"`
}

// ClaimsFrom reads the caller's role from user metadata, where signup puts
// it. The top-level role claim is Supabase's database role, not ours.
func ClaimsFrom(c *CustomClaims) *Claims {
	out := &Claims{UserID: c.Subject, Email: c.Email, Role: models.RoleVenue}
	if role, ok := c.UserMetadata["role"].(string); ok && role != "" {
		out.Role = models.Role(role)
	}
	if name, ok := c.UserMetadata["name"].(string); ok {
		out.Name = name
	}
	return out
}

func (c *Claims) IsVenue() bool {
	return c.Role == models.RoleVenue
}

func (c *Claims) HasRole(role models.Role) bool {
	return c.Role == role
}

func (c *Claims) IsOwner(userID string) bool {
	return c.UserID == userID
}
