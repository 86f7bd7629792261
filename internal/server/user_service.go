package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mariana/devlink-assistant/internal/config"
	"github.com/mariana/devlink-assistant/internal/db"
	"github.com/mariana/devlink-assistant/internal/types"
)

// UserStore is the subset of the database used by UserService.
// An interface so handler tests can substitute a fake.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*db.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*db.UserRecord, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*db.UserRecord, error)
}

// UserService provides business logic for account operations.
type UserService struct {
	store     UserStore
	passwords *config.PasswordConfig
}

// NewUserService creates a UserService with the given dependencies.
func NewUserService(store UserStore, passwords *config.PasswordConfig) *UserService {
	return &UserService{store: store, passwords: passwords}
}

// toAPIUser converts a db.UserRecord to types.User, excluding the password hash.
func toAPIUser(record *db.UserRecord) *types.User {
	if record == nil {
		return nil
	}
	return &types.User{
		ID:        record.ID,
		Name:      record.Name,
		Email:     record.Email,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// SignUp registers a new user with a hashed password.
func (s *UserService) SignUp(ctx context.Context, req *types.SignUpRequest) (*types.User, error) {
	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record, err := s.store.CreateUser(ctx, req.Name, req.Email, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toAPIUser(record), nil
}

// SignIn authenticates a user by email and password.
// A missing user and a wrong password return the same error.
func (s *UserService) SignIn(ctx context.Context, req *types.SignInRequest) (*types.User, error) {
	record, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if record == nil {
		return nil, &ErrInvalidCredentials{}
	}

	if !s.passwords.VerifyPassword(req.Password, record.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return toAPIUser(record), nil
}

// GetUser returns the profile for a user ID.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	record, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if record == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return toAPIUser(record), nil
}
