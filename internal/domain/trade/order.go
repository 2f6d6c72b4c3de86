package trade

import (
	"time"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether moving to the target status follows the
// conventional forward lifecycle. Advisory only: the mutation path does not
// reject transitions, matching the dashboard's existing behavior.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentStatus represents the payment status of an order.
// It is an independent axis from OrderStatus; a cancelled order can carry
// either payment status.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewOrderItem creates a new order line item
func NewOrderItem(productID, productName string, quantity int, unitPrice decimal.Decimal) (OrderItem, error) {
	if productID == "" {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return OrderItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return OrderItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Order represents a customer order. Orders are plain values; the sync layer
// copies them freely, so mutation helpers return updated copies.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey"`
	CustomerID    string          `json:"customer_id" gorm:"index"`
	CustomerName  string          `json:"customer_name"`
	Items         []OrderItem     `json:"items" gorm:"serializer:json"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,2)"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	ShippingCode  string          `json:"shipping_code"`
	Note          string          `json:"note"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewOrder creates a new pending, unpaid order for the given customer
func NewOrder(customerID, customerName string, items []OrderItem) (Order, error) {
	if customerID == "" {
		return Order{}, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(items) == 0 {
		return Order{}, shared.NewDomainError("INVALID_ITEMS", "Order must have at least one item")
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}

	now := time.Now()
	return Order{
		CustomerID:    customerID,
		CustomerName:  customerName,
		Items:         items,
		TotalAmount:   total,
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// EntityID returns the order id
func (o Order) EntityID() string {
	return o.ID
}

// WithID returns a copy of the order with the canonical id assigned
func (o Order) WithID(id string) Order {
	o.ID = id
	return o
}

// WithStatus returns a copy with the fulfillment status changed
func (o Order) WithStatus(status OrderStatus) Order {
	o.Status = status
	o.UpdatedAt = time.Now()
	return o
}

// WithPaymentStatus returns a copy with the payment status changed
func (o Order) WithPaymentStatus(status PaymentStatus) Order {
	o.PaymentStatus = status
	o.UpdatedAt = time.Now()
	return o
}

// WithShipping returns a copy with the shipping code set
func (o Order) WithShipping(code string) Order {
	o.ShippingCode = code
	o.UpdatedAt = time.Now()
	return o
}

// Clone returns a copy with its own Items backing array
func (o Order) Clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}

// IsNew reports whether the order has not been persisted yet
func (o Order) IsNew() bool {
	return o.ID == ""
}
