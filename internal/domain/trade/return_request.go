package trade

import (
	"time"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// ReturnStatus represents the status of a return request
type ReturnStatus string

const (
	ReturnStatusRequested ReturnStatus = "REQUESTED"
	ReturnStatusApproved  ReturnStatus = "APPROVED"
	ReturnStatusRejected  ReturnStatus = "REJECTED"
	ReturnStatusRefunded  ReturnStatus = "REFUNDED"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusRequested, ReturnStatusApproved, ReturnStatusRejected, ReturnStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving to the target status follows the
// return lifecycle. Unlike order statuses, return transitions are enforced:
// a rejected or refunded request is terminal.
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusRequested:
		return target == ReturnStatusApproved || target == ReturnStatusRejected
	case ReturnStatusApproved:
		return target == ReturnStatusRefunded
	}
	return false
}

// ReturnRequest represents a customer's request to return an order
type ReturnRequest struct {
	ID         string       `json:"id" gorm:"primaryKey"`
	OrderID    string       `json:"order_id" gorm:"index"`
	CustomerID string       `json:"customer_id"`
	Reason     string       `json:"reason"`
	Status     ReturnStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// NewReturnRequest creates a new return request for an order
func NewReturnRequest(orderID, customerID, reason string) (ReturnRequest, error) {
	if orderID == "" {
		return ReturnRequest{}, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if reason == "" {
		return ReturnRequest{}, shared.NewDomainError("INVALID_REASON", "Return reason cannot be empty")
	}

	now := time.Now()
	return ReturnRequest{
		OrderID:    orderID,
		CustomerID: customerID,
		Reason:     reason,
		Status:     ReturnStatusRequested,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// EntityID returns the return request id
func (r ReturnRequest) EntityID() string {
	return r.ID
}

// WithID returns a copy with the canonical id assigned
func (r ReturnRequest) WithID(id string) ReturnRequest {
	r.ID = id
	return r
}

// Clone returns a copy of the request. All fields are value types.
func (r ReturnRequest) Clone() ReturnRequest {
	return r
}

// WithStatus returns a copy with the status changed
func (r ReturnRequest) WithStatus(status ReturnStatus) ReturnRequest {
	r.Status = status
	r.UpdatedAt = time.Now()
	return r
}
