package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// UserService handles profile operations for the authenticated user
type UserService struct {
	userRepo  ports.UserRepository
	authRepo  ports.AuthRepository
	validator *ValidationService
	logger    *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, authRepo ports.AuthRepository, validator *ValidationService, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		authRepo:  authRepo,
		validator: validator,
		logger:    logger,
	}
}

// GetProfile returns the user's account
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return user, nil
}

// UpdateProfile applies the non-nil request fields. Changing the password
// requires the current one; changing the email requires it to be free.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req ports.UpdateProfileRequest) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if result := s.validator.ValidateEmail(email); !result.IsValid {
			return nil, result
		}
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err == nil && existing != nil {
				return nil, entities.ErrEmailTaken
			} else if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}

	if req.FullName != nil {
		if result := s.validator.ValidateFullName(*req.FullName); !result.IsValid {
			return nil, result
		}
		user.FullName = strings.TrimSpace(*req.FullName)
	}

	if req.NewPassword != nil {
		if req.CurrentPassword == nil {
			return nil, fmt.Errorf("current password is required to set a new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*req.CurrentPassword)); err != nil {
			return nil, entities.ErrUnauthorized
		}
		if result := s.validator.ValidatePassword(*req.NewPassword); !result.IsValid {
			return nil, result
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)

		// Old sessions die with the old password.
		if err := s.authRepo.RevokeAllUserTokens(ctx, userID); err != nil {
			s.logger.Warnw("Failed to revoke tokens after password change", "error", err, "user_id", userID)
		}
	}

	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Infow("Profile updated", "user_id", userID)

	return user, nil
}

// DeleteAccount removes the user. Items, categories, audit entries and
// refresh tokens go with it via database cascades.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.LogSecurityEvent("account_deleted", userID.String(), "", nil)

	return nil
}
