package shared

// EntityType identifies one of the synchronized collections.
type EntityType string

const (
	EntityTypeOrder          EntityType = "ORDER"
	EntityTypeCustomer       EntityType = "CUSTOMER"
	EntityTypeProduct        EntityType = "PRODUCT"
	EntityTypeVoucher        EntityType = "VOUCHER"
	EntityTypeActivityLog    EntityType = "ACTIVITY_LOG"
	EntityTypeAutomationRule EntityType = "AUTOMATION_RULE"
	EntityTypeReturnRequest  EntityType = "RETURN_REQUEST"
)

// IsValid checks if the entity type is one of the known collections
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeOrder, EntityTypeCustomer, EntityTypeProduct, EntityTypeVoucher,
		EntityTypeActivityLog, EntityTypeAutomationRule, EntityTypeReturnRequest:
		return true
	}
	return false
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// EntityTypes lists every synchronized collection, in display order
func EntityTypes() []EntityType {
	return []EntityType{
		EntityTypeOrder,
		EntityTypeCustomer,
		EntityTypeProduct,
		EntityTypeVoucher,
		EntityTypeActivityLog,
		EntityTypeAutomationRule,
		EntityTypeReturnRequest,
	}
}

// Identifiable is any record with a stable, globally unique string id.
type Identifiable interface {
	EntityID() string
}

// Record is the constraint satisfied by every synchronized entity. Records are
// plain values; WithID returns a copy with the canonical id assigned (used by
// gateways on create, never by callers). Clone returns a copy whose reference
// fields (slices, pointers) have their own backing storage, so a record handed
// out of a collection cannot alias the stored one.
type Record[T any] interface {
	Identifiable
	WithID(id string) T
	Clone() T
}
