package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/repository"
	"github.com/stemsi/kelas-backend/internal/validator"
)

// UserService handles registration and credential checks.
type UserService struct {
	users      UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(users UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Register creates a student account. Accounts created here are never admins.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.KTP = strings.TrimSpace(req.KTP)

	if err := invalid(validator.Struct(req)); err != nil {
		return nil, err
	}
	ktp, _ := validator.ParseKTP(req.KTP)

	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		KTP:          ktp,
		PasswordHash: hash,
		Role:         model.RoleStudent,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, &ConflictError{Field: "email"}
		case errors.Is(err, repository.ErrDuplicateKTP):
			return nil, &ConflictError{Field: "ktp"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user owning email if password matches.
// Returns ErrNotFound for an unknown email and ErrInvalidCredentials for a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fromRepo("get user", err)
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID loads a user for the identity middleware.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("get user", err)
	}
	return user, nil
}
