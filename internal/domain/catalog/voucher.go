package catalog

import (
	"time"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Voucher represents a discount voucher
type Voucher struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	Code           string          `json:"code" gorm:"index"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(18,2)"`
	ExpiresAt      *time.Time      `json:"expires_at"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewVoucher creates a new active voucher
func NewVoucher(code string, discountAmount decimal.Decimal, expiresAt *time.Time) (Voucher, error) {
	if code == "" {
		return Voucher{}, shared.NewDomainError("INVALID_CODE", "Voucher code cannot be empty")
	}
	if discountAmount.LessThanOrEqual(decimal.Zero) {
		return Voucher{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount amount must be positive")
	}

	now := time.Now()
	return Voucher{
		Code:           code,
		DiscountAmount: discountAmount,
		ExpiresAt:      expiresAt,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// EntityID returns the voucher id
func (v Voucher) EntityID() string {
	return v.ID
}

// WithID returns a copy with the canonical id assigned
func (v Voucher) WithID(id string) Voucher {
	v.ID = id
	return v
}

// WithActive returns a copy with the active flag set
func (v Voucher) WithActive(active bool) Voucher {
	v.IsActive = active
	v.UpdatedAt = time.Now()
	return v
}

// Clone returns a copy with its own ExpiresAt pointer
func (v Voucher) Clone() Voucher {
	if v.ExpiresAt != nil {
		expiry := *v.ExpiresAt
		v.ExpiresAt = &expiry
	}
	return v
}

// IsExpired reports whether the voucher has passed its expiry
func (v Voucher) IsExpired(now time.Time) bool {
	return v.ExpiresAt != nil && now.After(*v.ExpiresAt)
}
