package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidState   = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrWriteRejected  = NewDomainError("WRITE_REJECTED", "Remote store rejected the write")
	ErrMissingEntity  = NewDomainError("MISSING_ENTITY", "Referenced entity does not exist")
	ErrRuleValidation = NewDomainError("RULE_VALIDATION", "Automation rule definition is invalid")
)
