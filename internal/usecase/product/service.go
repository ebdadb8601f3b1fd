package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "stratforge/platform/internal/domain/product"

	"github.com/google/uuid"
)

// Service encapsulates product submission use cases.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a product service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required for product submission.
type CreateInput struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	CostPrice          float64  `json:"cost_price"`
	TargetProfitMargin *float64 `json:"target_profit_margin"`
}

// UpdateInput encapsulates partial product updates.
type UpdateInput struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Category           *string  `json:"category"`
	CostPrice          *float64 `json:"cost_price"`
	TargetProfitMargin *float64 `json:"target_profit_margin"`
}

// Create stores a new product for the owning user after validation.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	if input.Category == "" {
		return nil, errors.New("category is required")
	}
	if input.CostPrice < 0 {
		return nil, errors.New("cost_price cannot be negative")
	}

	now := s.nowFunc().UTC()
	product := &domain.Product{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		Name:               input.Name,
		Description:        strings.TrimSpace(input.Description),
		Category:           input.Category,
		CostPrice:          input.CostPrice,
		TargetProfitMargin: input.TargetProfitMargin,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// List retrieves the products owned by the given user.
func (s *Service) List(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get fetches a product by id, enforcing ownership.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != ownerID {
		return nil, domain.ErrNotOwner
	}
	return product, nil
}

// Update applies partial updates to an owned product.
func (s *Service) Update(ctx context.Context, ownerID, id string, input UpdateInput) (*domain.Product, error) {
	product, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, errors.New("name cannot be empty")
	}
	if input.CostPrice != nil && *input.CostPrice < 0 {
		return nil, errors.New("cost_price cannot be negative")
	}

	product.Update(input.Name, input.Description, input.Category, input.CostPrice, input.TargetProfitMargin)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes an owned product.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
