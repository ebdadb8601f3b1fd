package product

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a product could not be located.
	ErrNotFound = errors.New("product not found")
	// ErrNotOwner signals an access attempt by a non-owning user.
	ErrNotOwner = errors.New("product belongs to another user")
)

// Product captures a submitted product awaiting strategy work.
type Product struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"owner_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	CostPrice          float64   `json:"cost_price"`
	TargetProfitMargin *float64  `json:"target_profit_margin,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Update applies partial field updates to the product.
func (p *Product) Update(name, description, category *string, costPrice, margin *float64) {
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	if category != nil {
		p.Category = *category
	}
	if costPrice != nil {
		p.CostPrice = *costPrice
	}
	if margin != nil {
		p.TargetProfitMargin = margin
	}
	p.UpdatedAt = time.Now().UTC()
}
