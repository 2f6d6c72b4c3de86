package partner

import (
	"time"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// Customer represents a retail customer. The phone number is the de-facto
// natural key: saving an order with a known phone updates the existing
// customer instead of creating a duplicate, regardless of id.
type Customer struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone" gorm:"index"`
	Address   string    `json:"address"`
	Note      string    `json:"note"`
	Tags      []string  `json:"tags" gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomer creates a new customer
func NewCustomer(name, phone string) (Customer, error) {
	if name == "" {
		return Customer{}, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if phone == "" {
		return Customer{}, shared.NewDomainError("INVALID_PHONE", "Customer phone cannot be empty")
	}

	now := time.Now()
	return Customer{
		Name:      name,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// EntityID returns the customer id
func (c Customer) EntityID() string {
	return c.ID
}

// WithID returns a copy with the canonical id assigned
func (c Customer) WithID(id string) Customer {
	c.ID = id
	return c
}

// Clone returns a copy with its own Tags backing array
func (c Customer) Clone() Customer {
	c.Tags = append([]string(nil), c.Tags...)
	return c
}

// HasTag reports whether the customer already carries the tag
func (c Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// WithTag returns a copy with the tag added. Tag addition is a set union:
// adding an already-present tag returns the customer unchanged, which keeps
// rule actions safe under event re-delivery.
func (c Customer) WithTag(tag string) Customer {
	if tag == "" || c.HasTag(tag) {
		return c
	}
	tags := make([]string, 0, len(c.Tags)+1)
	tags = append(tags, c.Tags...)
	tags = append(tags, tag)
	c.Tags = tags
	c.UpdatedAt = time.Now()
	return c
}

// Merge applies the details of an incoming save onto the existing customer,
// preserving identity, tags, and creation time. Used when an order save
// matches an existing customer by id or phone.
func (c Customer) Merge(incoming Customer) Customer {
	if incoming.Name != "" {
		c.Name = incoming.Name
	}
	if incoming.Phone != "" {
		c.Phone = incoming.Phone
	}
	if incoming.Address != "" {
		c.Address = incoming.Address
	}
	if incoming.Note != "" {
		c.Note = incoming.Note
	}
	c.UpdatedAt = time.Now()
	return c
}
