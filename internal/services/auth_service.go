package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/group-task-api/internal/constants"
	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/repository"
)

// AuthService handles users, credentials and sessions.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   *PasswordHasher
	sessions *SessionManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher *PasswordHasher, sessions *SessionManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	UserName string `validate:"required,max=255"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required"`
}

// Signup creates a new user. The email must not be registered yet.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	input.UserName = strings.TrimSpace(input.UserName)
	input.Email = normalizeEmail(input.Email)

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := checkPasswordLength(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserName:       input.UserName,
		Email:          input.Email,
		HashedPassword: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials and issues a session. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.HashedPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.sessions.Issue(user.UserID)
}

// ResolveSession returns the id of the user a token was issued for. Tokens
// of deleted users are rejected.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (string, error) {
	userID, err := s.sessions.Parse(token)
	if err != nil {
		return "", err
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidSession
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	return userID, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput holds the profile fields to change; nil leaves a field as is.
type UpdateProfileInput struct {
	UserName *string `validate:"omitnil,min=1,max=255"`
	Email    *string `validate:"omitnil,email,max=255"`
}

// UpdateProfile changes a user's name and/or email.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	if input.UserName != nil {
		name := strings.TrimSpace(*input.UserName)
		input.UserName = &name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		input.Email = &email
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.UserName != nil {
		user.UserName = *input.UserName
	}

	if input.Email != nil && *input.Email != user.Email {
		if other, err := s.userRepo.FindByEmail(ctx, *input.Email); err == nil && other.UserID != user.UserID {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *input.Email
	}

	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(currentPassword, user.HashedPassword)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}

	hashedPassword, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.HashedPassword = hashedPassword
	return s.saveUser(ctx, user)
}

// DeleteUser removes a user with their memberships and task relations.
// Tasks assigned to the user are kept and become unassigned.
func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserReference) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *AuthService) saveUser(ctx context.Context, user *models.User) error {
	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return ErrEmailTaken
		case errors.Is(err, repository.ErrUserReference):
			return ErrUserNotFound
		default:
			return fmt.Errorf("failed to update user: %w", err)
		}
	}

	return nil
}

func checkPasswordLength(password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > constants.MaxPasswordLength {
		return fmt.Errorf("password longer than %d bytes: %w", constants.MaxPasswordLength, ErrValidation)
	}
	return nil
}
