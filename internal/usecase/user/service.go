package user

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "stratforge/platform/internal/domain/auth"
)

// Service provides profile management use cases for the authenticated user.
type Service struct {
	repo    domain.UserRepository
	nowFunc func() time.Time
}

// NewService constructs a user service around the provided repository.
func NewService(repo domain.UserRepository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// UpdateInput defines the payload to update a profile.
type UpdateInput struct {
	Email    *string
	FullName *string
}

// Get retrieves a single user by its identifier.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id is required")
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// Update modifies the persisted profile.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id is required")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, errors.New("email is required")
		}
		if email != user.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return nil, domain.ErrEmailExists
			} else if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}

	user.UpdatedAt = s.nowFunc().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	copy.PasswordHash = ""
	return &copy
}
