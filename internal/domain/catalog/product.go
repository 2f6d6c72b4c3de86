package catalog

import (
	"time"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents an item for sale
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey"`
	Code      string          `json:"code" gorm:"index"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(18,2)"`
	Stock     int             `json:"stock"`
	ImageURL  string          `json:"image_url"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewProduct creates a new product
func NewProduct(code, name string, price decimal.Decimal) (Product, error) {
	if name == "" {
		return Product{}, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return Product{}, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	now := time.Now()
	return Product{
		Code:      code,
		Name:      name,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// EntityID returns the product id
func (p Product) EntityID() string {
	return p.ID
}

// WithID returns a copy with the canonical id assigned
func (p Product) WithID(id string) Product {
	p.ID = id
	return p
}

// Clone returns a copy of the product. All fields are value types.
func (p Product) Clone() Product {
	return p
}
