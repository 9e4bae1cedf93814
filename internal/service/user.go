// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/storage"
	"github.com/fintrack/fintrack/internal/token"
)

// User service errors.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPhotoUpload        = errors.New("photo upload failed")
)

// UserStore is the slice of the repository the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// ObjectStore is the external photo-hosting contract.
type ObjectStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (storage.Object, error)
	Delete(ctx context.Context, ref string) error
}

// ProfileCache caches public profile views. All methods are best-effort;
// the service never fails a request on a cache error.
type ProfileCache interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	SetProfile(ctx context.Context, user *model.User) error
	DeleteProfile(ctx context.Context, userID string) error
}

// AuthResult bundles a fresh session token with the account it belongs to.
type AuthResult struct {
	Token string
	User  *model.User
}

// UserService handles signup, login and profile management.
type UserService struct {
	users        UserStore
	photos       ObjectStore
	cache        ProfileCache
	tokens       *token.Issuer
	metrics      metrics.Recorder
	logger       *slog.Logger
	defaultPhoto string
}

// NewUserService creates a new UserService.
func NewUserService(
	users UserStore,
	photos ObjectStore,
	cache ProfileCache,
	tokens *token.Issuer,
	recorder metrics.Recorder,
	logger *slog.Logger,
	defaultPhoto string,
) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if defaultPhoto == "" {
		defaultPhoto = model.DefaultProfilePhoto
	}
	return &UserService{
		users:        users,
		photos:       photos,
		cache:        cache,
		tokens:       tokens,
		metrics:      recorder,
		logger:       logger,
		defaultPhoto: defaultPhoto,
	}
}

// Signup registers a new account and issues a session token for it.
// The raw password is hashed before storage and never logged.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	email = model.NormalizeEmail(email)
	if !model.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           newULID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		ProfilePhoto: s.defaultPhoto,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncUserSignedUp()

	return &AuthResult{Token: signed, User: user}, nil
}

// Login verifies credentials and issues a session token.
// Unknown email and wrong password fail with distinct errors; both map to
// the same HTTP status upstream.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetUserByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncUserLoggedIn()

	return &AuthResult{Token: signed, User: user}, nil
}

// GetProfile returns the account behind an authenticated principal.
// Served from the profile cache when possible.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	if cached, _ := s.cache.GetProfile(ctx, userID); cached != nil {
		s.metrics.IncProfileCacheHit()
		return cached, nil
	}
	s.metrics.IncProfileCacheMiss()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.cache.SetProfile(ctx, user); err != nil {
		s.logger.Warn("profile cache write failed", "user_id", userID, "error", err)
	}

	return user, nil
}

// PhotoUpload describes a new profile photo supplied with an update.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Name  string
	Email string
	Photo *PhotoUpload
}

// UpdateProfile updates name and email, and optionally replaces the profile
// photo. The previous hosted image is deleted best-effort before the new one
// is uploaded; a failed delete is logged and does not abort the update, a
// failed upload does, leaving the stored photo untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		email := model.NormalizeEmail(input.Email)
		if !model.ValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		user.Email = email
	}

	if input.Photo != nil {
		if user.PhotoRef != "" {
			if err := s.photos.Delete(ctx, user.PhotoRef); err != nil {
				s.logger.Warn("old photo delete failed",
					"user_id", userID,
					"photo_ref", user.PhotoRef,
					"error", err,
				)
			}
		}

		obj, err := s.photos.Upload(ctx, input.Photo.Filename, input.Photo.ContentType, input.Photo.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPhotoUpload, err)
		}

		user.ProfilePhoto = obj.URL
		user.PhotoRef = obj.Ref
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := s.cache.DeleteProfile(ctx, userID); err != nil {
		s.logger.Warn("profile cache invalidation failed", "user_id", userID, "error", err)
	}

	return user, nil
}
