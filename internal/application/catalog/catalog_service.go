package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/shopdesk/backend/internal/domain/activity"
	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/shared"
	syncx "github.com/shopdesk/backend/internal/sync"
	"go.uber.org/zap"
)

// CatalogService handles product and voucher maintenance. These are
// single-entity mutations through the coordinator with a best-effort
// activity entry; nothing downstream depends on them.
type CatalogService struct {
	products *syncx.EntityStore[catalog.Product]
	vouchers *syncx.EntityStore[catalog.Voucher]
	activity *syncx.EntityStore[activity.Entry]
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	products *syncx.EntityStore[catalog.Product],
	vouchers *syncx.EntityStore[catalog.Voucher],
	activityStore *syncx.EntityStore[activity.Entry],
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		products: products,
		vouchers: vouchers,
		activity: activityStore,
		logger:   logger,
	}
}

// SaveProduct creates or updates a product
func (s *CatalogService) SaveProduct(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	created := product.EntityID() == ""
	saved, err := s.products.Save(ctx, product)
	if err != nil {
		return catalog.Product{}, err
	}

	verb := "updated"
	if created {
		verb = "created"
	}
	s.logActivity(ctx, fmt.Sprintf("Product %s %s", saved.Name, verb), shared.EntityTypeProduct, saved.ID)
	return saved, nil
}

// DeleteProduct removes a product
func (s *CatalogService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.products.Remove(ctx, productID); err != nil {
		return err
	}
	s.logActivity(ctx, "Product deleted", shared.EntityTypeProduct, productID)
	return nil
}

// SaveVoucher creates or updates a voucher
func (s *CatalogService) SaveVoucher(ctx context.Context, voucher catalog.Voucher) (catalog.Voucher, error) {
	saved, err := s.vouchers.Save(ctx, voucher)
	if err != nil {
		return catalog.Voucher{}, err
	}
	s.logActivity(ctx, fmt.Sprintf("Voucher %s saved", saved.Code), shared.EntityTypeVoucher, saved.ID)
	return saved, nil
}

// ToggleVoucher flips a voucher's active flag. An expired voucher can be
// deactivated but not reactivated.
func (s *CatalogService) ToggleVoucher(ctx context.Context, voucherID string) (catalog.Voucher, error) {
	voucher, ok := s.vouchers.Get(voucherID)
	if !ok {
		return catalog.Voucher{}, shared.ErrNotFound
	}
	if !voucher.IsActive && voucher.IsExpired(time.Now()) {
		return catalog.Voucher{}, fmt.Errorf("voucher %s expired: %w", voucher.Code, shared.ErrInvalidState)
	}

	saved, err := s.vouchers.Save(ctx, voucher.WithActive(!voucher.IsActive))
	if err != nil {
		return catalog.Voucher{}, err
	}
	s.logActivity(ctx, fmt.Sprintf("Voucher %s toggled", saved.Code), shared.EntityTypeVoucher, saved.ID)
	return saved, nil
}

// DeleteVoucher removes a voucher
func (s *CatalogService) DeleteVoucher(ctx context.Context, voucherID string) error {
	if err := s.vouchers.Remove(ctx, voucherID); err != nil {
		return err
	}
	s.logActivity(ctx, "Voucher deleted", shared.EntityTypeVoucher, voucherID)
	return nil
}

func (s *CatalogService) logActivity(ctx context.Context, description string, targetType shared.EntityType, targetID string) {
	syncx.BestEffort(s.logger, "append activity", func() error {
		_, err := s.activity.Save(ctx, activity.NewEntry(description, targetType, targetID))
		return err
	})
}
