package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/jocky/internal/helpers"
	"github.com/joshua-takyi/jocky/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

type RegisterInput struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

func (us *UserService) Register(ctx context.Context, in RegisterInput) (*models.AuthResult, error) {
	user := &models.User{
		Email: strings.TrimSpace(in.Email),
		Name:  strings.TrimSpace(in.Name),
		Role:  in.Role,
	}
	if user.Role == "" {
		user.Role = models.RoleVenue
	}
	if user.Name == "" {
		user.Name, _, _ = strings.Cut(user.Email, "@")
	}
	if err := models.Validate.Struct(user); err != nil {
		return nil, fmt.Errorf("invalid user data: %w", err)
	}

	if !helpers.IsPasswordStrong(in.Password) {
		return nil, &models.ValidationError{Field: "password", Message: "password is not strong enough"}
	}

	return us.userRepo.CreateUser(ctx, user, in.Password)
}

func (us *UserService) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, &models.ValidationError{Field: "email", Message: "invalid email format"}
	}
	if password == "" {
		return nil, &models.ValidationError{Field: "password", Message: "password is required"}
	}
	res, err := us.userRepo.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return res, nil
}

func (us *UserService) GetUser(ctx context.Context, id, accessToken string) (*models.User, error) {
	res, err := us.userRepo.GetUser(ctx, id, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return res, nil
}
