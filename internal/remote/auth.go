package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/joshua-takyi/jocky/internal/models"
)

type RegisterInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, &models.ValidationError{Field: "email", Message: "email and password are required"}
	}
	if in.Role == "" {
		in.Role = models.RoleVenue
	}
	var res authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &res); err != nil {
		return nil, err
	}
	return c.signIn(ctx, res)
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &models.ValidationError{Field: "email", Message: "email and password are required"}
	}
	body := map[string]string{"email": email, "password": password}
	var res authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return c.signIn(ctx, res)
}

func (c *Client) signIn(ctx context.Context, res authResponse) (*models.User, error) {
	if res.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	c.session.Set(res.Token, res.User)
	if c.store != nil {
		if err := c.store.Save(ctx, res.Token, res.User); err != nil {
			return nil, fmt.Errorf("signed in but failed to persist session: %w", err)
		}
	}
	return c.session.User(), nil
}

// Logout clears the session and everything persisted for it.
func (c *Client) Logout(ctx context.Context) error {
	c.session.Clear()
	if c.store != nil {
		return c.store.Clear(ctx)
	}
	return nil
}
