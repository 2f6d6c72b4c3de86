package trade

import (
	"context"
	"fmt"

	"github.com/shopdesk/backend/internal/domain/activity"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/trade"
	syncx "github.com/shopdesk/backend/internal/sync"
	"go.uber.org/zap"
)

// ReturnService handles return request operations
type ReturnService struct {
	returns  *syncx.EntityStore[trade.ReturnRequest]
	orders   *syncx.EntityStore[trade.Order]
	activity *syncx.EntityStore[activity.Entry]
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	returns *syncx.EntityStore[trade.ReturnRequest],
	orders *syncx.EntityStore[trade.Order],
	activityStore *syncx.EntityStore[activity.Entry],
	events shared.EventPublisher,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		returns:  returns,
		orders:   orders,
		activity: activityStore,
		events:   events,
		logger:   logger,
	}
}

// RequestReturn files a return request against an existing order
func (s *ReturnService) RequestReturn(ctx context.Context, orderID, reason string) (trade.ReturnRequest, error) {
	order, ok := s.orders.Get(orderID)
	if !ok {
		return trade.ReturnRequest{}, shared.ErrNotFound
	}

	request, err := trade.NewReturnRequest(orderID, order.CustomerID, reason)
	if err != nil {
		return trade.ReturnRequest{}, err
	}

	saved, err := s.returns.Save(ctx, request)
	if err != nil {
		return trade.ReturnRequest{}, err
	}

	syncx.BestEffort(s.logger, "publish return requested", func() error {
		return s.events.Publish(ctx, trade.NewReturnRequestedEvent(saved, order))
	})
	s.logActivity(ctx, fmt.Sprintf("Return requested for order %s", orderID), saved.ID)

	return saved, nil
}

// Approve marks a return request as approved
func (s *ReturnService) Approve(ctx context.Context, requestID string) (trade.ReturnRequest, error) {
	return s.transition(ctx, requestID, trade.ReturnStatusApproved, "Return request approved")
}

// Reject marks a return request as rejected
func (s *ReturnService) Reject(ctx context.Context, requestID string) (trade.ReturnRequest, error) {
	return s.transition(ctx, requestID, trade.ReturnStatusRejected, "Return request rejected")
}

// MarkRefunded records that the return was refunded
func (s *ReturnService) MarkRefunded(ctx context.Context, requestID string) (trade.ReturnRequest, error) {
	return s.transition(ctx, requestID, trade.ReturnStatusRefunded, "Return refunded")
}

func (s *ReturnService) transition(ctx context.Context, requestID string, status trade.ReturnStatus, description string) (trade.ReturnRequest, error) {
	request, ok := s.returns.Get(requestID)
	if !ok {
		return trade.ReturnRequest{}, shared.ErrNotFound
	}
	if !request.Status.CanTransitionTo(status) {
		return trade.ReturnRequest{}, fmt.Errorf("return %s is %s: %w", requestID, request.Status, shared.ErrInvalidState)
	}

	saved, err := s.returns.Save(ctx, request.WithStatus(status))
	if err != nil {
		return trade.ReturnRequest{}, err
	}

	s.logActivity(ctx, description, saved.ID)
	return saved, nil
}

func (s *ReturnService) logActivity(ctx context.Context, description, requestID string) {
	syncx.BestEffort(s.logger, "append activity", func() error {
		_, err := s.activity.Save(ctx, activity.NewEntry(description, shared.EntityTypeReturnRequest, requestID))
		return err
	})
}
