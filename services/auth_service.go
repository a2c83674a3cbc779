package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/repositories"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type RegisterInput struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type LoginInput struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type authService struct {
	userRepo   repositories.UserRepository
	bcryptCost int
}

func NewAuthService(userRepo repositories.UserRepository, bcryptCost int) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// Register creates a non-admin user. The unique index on handle is the
// authority for conflicts.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	handle := strings.TrimSpace(input.Handle)
	if handle == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: handle and password are required", ErrValidationFailed)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Handle:       handle,
		PasswordHash: string(hashedPassword),
		IsAdmin:      false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserHandleConflict) {
			return nil, ErrHandleConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Login never tells an unknown handle apart from a wrong password.
func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	handle := strings.TrimSpace(input.Handle)
	if handle == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: handle and password are required", ErrValidationFailed)
	}

	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by handle: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}
