package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "stratforge/platform/internal/domain/product"
)

type memoryProductRepo struct {
	products map[string]*domain.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: map[string]*domain.Product{}}
}

func (r *memoryProductRepo) Create(ctx context.Context, product *domain.Product) error {
	p := *product
	r.products[p.ID] = &p
	return nil
}

func (r *memoryProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *memoryProductRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			copy := *p
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *memoryProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	p := *product
	r.products[p.ID] = &p
	return nil
}

func (r *memoryProductRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func TestCreate(t *testing.T) {
	svc := NewService(newMemoryProductRepo())

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:               "  Widget ",
		Description:        "A fine widget",
		Category:           "hardware",
		CostPrice:          12.5,
		TargetProfitMargin: floatPtr(0.4),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.Equal(t, "Widget", p.Name)
	require.NotNil(t, p.TargetProfitMargin)
	assert.Equal(t, 0.4, *p.TargetProfitMargin)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryProductRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "o", CreateInput{Category: "c"})
	assert.EqualError(t, err, "name is required")

	_, err = svc.Create(ctx, "o", CreateInput{Name: "n"})
	assert.EqualError(t, err, "category is required")

	_, err = svc.Create(ctx, "o", CreateInput{Name: "n", Category: "c", CostPrice: -1})
	assert.EqualError(t, err, "cost_price cannot be negative")
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc := NewService(newMemoryProductRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{Name: "n", Category: "c"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "owner-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Get(ctx, "owner-2", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = svc.Get(ctx, "owner-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePartial(t *testing.T) {
	svc := NewService(newMemoryProductRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{Name: "n", Category: "c", CostPrice: 10})
	require.NoError(t, err)

	name := "renamed"
	updated, err := svc.Update(ctx, "owner-1", p.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "c", updated.Category)
	assert.Equal(t, 10.0, updated.CostPrice)

	empty := " "
	_, err = svc.Update(ctx, "owner-1", p.ID, UpdateInput{Name: &empty})
	assert.EqualError(t, err, "name cannot be empty")

	_, err = svc.Update(ctx, "owner-2", p.ID, UpdateInput{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestDelete(t *testing.T) {
	svc := NewService(newMemoryProductRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{Name: "n", Category: "c"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "owner-2", p.ID), domain.ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, "owner-1", p.ID))

	_, err = svc.Get(ctx, "owner-1", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList(t *testing.T) {
	svc := NewService(newMemoryProductRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner-1", CreateInput{Name: "a", Category: "c"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner-2", CreateInput{Name: "b", Category: "c"})
	require.NoError(t, err)

	items, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Name)
}
