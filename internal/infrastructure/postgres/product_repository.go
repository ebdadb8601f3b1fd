package postgres

import (
	"context"
	"errors"

	domain "stratforge/platform/internal/domain/product"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository persists products in PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository constructs a repository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product record.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
INSERT INTO products (id, owner_id, name, description, category, cost_price, target_profit_margin, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.OwnerID,
		product.Name,
		product.Description,
		product.Category,
		product.CostPrice,
		product.TargetProfitMargin,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return err
}

// GetByID retrieves a product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
SELECT id, owner_id, name, description, category, cost_price, target_profit_margin, created_at, updated_at
FROM products WHERE id = $1
`
	row := r.pool.QueryRow(ctx, query, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListByOwner returns the products belonging to the given user.
func (r *ProductRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	const query = `
SELECT id, owner_id, name, description, category, cost_price, target_profit_margin, created_at, updated_at
FROM products WHERE owner_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// Update modifies an existing product record.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
UPDATE products
SET name = $2, description = $3, category = $4, cost_price = $5, target_profit_margin = $6, updated_at = $7
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Category,
		product.CostPrice,
		product.TargetProfitMargin,
		product.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM products WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.CostPrice,
		&p.TargetProfitMargin,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
