// Package users implements registration, login and profile management for
// the auth service.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-events/internal/auth"
	"ms-events/internal/models"
	"ms-events/internal/users/db"

	"github.com/google/uuid"
)

var (
	// ErrEmailExists is returned when a registration or profile update
	// collides with another account's email.
	ErrEmailExists = errors.New("email already in use")
	// ErrInvalidCredentials is returned on a failed login or password check.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// DBLayer is the slice of the user store the service needs.
type DBLayer interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
}

type UserService struct {
	DB     DBLayer
	Tokens *auth.TokenIssuer
}

func NewUserService(db DBLayer, tokens *auth.TokenIssuer) *UserService {
	return &UserService{DB: db, Tokens: tokens}
}

// Register creates an account and logs the new user straight in.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	existing, err := s.DB.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.DB.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResponse(user)
}

// Login verifies credentials and issues a token. A missing account and a
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.DB.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(*user)
}

// Profile returns the authenticated user's account.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.DB.GetUserByID(ctx, userID)
}

// UpdateProfile changes name and email. Email changes are checked against
// other accounts first.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.DB.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" && req.Email != user.Email {
		other, err := s.DB.GetUserByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if other != nil {
			return nil, ErrEmailExists
		}
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.DB.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	user, err := s.DB.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := s.DB.UpdateUser(ctx, *user); err != nil {
		return fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return nil
}

func (s *UserService) authResponse(user models.User) (*models.AuthResponse, error) {
	token, err := s.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
