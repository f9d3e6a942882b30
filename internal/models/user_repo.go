package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/supabase-community/gotrue-go/types"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User, password string) (*AuthResult, error)
	AuthenticateUser(ctx context.Context, email, password string) (*AuthResult, error)
	GetUser(ctx context.Context, id string, accessToken string) (*User, error)
}

func ConvertToUser(raw map[string]any) (*User, error) {
	userBytes, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raw user: %w", err)
	}

	user := &User{}
	if err := json.Unmarshal(userBytes, user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to user struct: %w", err)
	}

	return user, nil
}

// cleanSignupError maps GoTrue and PostgREST failures to messages that are
// safe to show a user.
func cleanSignupError(err error) error {
	errMsg := err.Error()
	switch {
	case strings.Contains(strings.ToLower(errMsg), "already registered"):
		return fmt.Errorf("email already in use")
	case strings.Contains(errMsg, "null value in column"):
		return fmt.Errorf("required field is missing")
	case strings.Contains(errMsg, "unique constraint"):
		return fmt.Errorf("user already exists")
	case strings.Contains(errMsg, "invalid input syntax"):
		return fmt.Errorf("invalid input format")
	}
	return fmt.Errorf("failed to create user")
}

func (su *SupabaseRepo) CreateUser(ctx context.Context, user *User, password string) (*AuthResult, error) {
	res, err := su.supabaseClient.Auth.Signup(types.SignupRequest{
		Email:    user.Email,
		Password: password,
		Data: map[string]any{
			"name": user.Name,
			"role": string(user.Role),
		},
	})
	if err != nil {
		return nil, cleanSignupError(err)
	}

	user.ID = res.User.ID.String()
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	_, _, err = su.supabaseClient.From(ProfileTable).
		Insert(user, false, "", "minimal", "").
		Execute()
	if err != nil {
		return nil, cleanSignupError(err)
	}

	token, refresh := res.AccessToken, res.RefreshToken
	if token == "" {
		// no session comes back when autoconfirm is off
		login, err := su.supabaseClient.Auth.SignInWithEmailPassword(user.Email, password)
		if err != nil {
			return nil, fmt.Errorf("account created but sign-in failed: %w", err)
		}
		token, refresh = login.AccessToken, login.RefreshToken
	}

	return &AuthResult{Token: token, RefreshToken: refresh, User: user}, nil
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (*AuthResult, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	user, err := su.GetUser(ctx, resp.User.ID.String(), resp.AccessToken)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: resp.AccessToken, RefreshToken: resp.RefreshToken, User: user}, nil
}

func (su *SupabaseRepo) GetUser(ctx context.Context, id string, accessToken string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid user id")
	}

	client, err := su.GetAuthenticatedClient(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, status, err := client.From(ProfileTable).
		Select("id,email,name,role,venue_id,artist_id,created_at,updated_at", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		if status != 0 {
			return nil, fmt.Errorf("postgrest error: status=%d body=%s err=%w", status, string(raw), err)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	// Supabase returns an array even for single results
	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user rows: %w", err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("user not found")
	}

	return &users[0], nil
}
