// internal/errors/errors.go
package appErrors

import "fmt"

// StoreError wraps a failed metadata store operation
type StoreError struct {
    Op  string
    Err error
}

func (e *StoreError) Error() string {
    return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
    return e.Err
}

// Helper constructor
func NewStoreError(op string, err error) error {
    return &StoreError{Op: op, Err: err}
}

// ValidationError is a sentinel error for malformed write payloads
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
    return &ValidationError{Field: field, Reason: reason}
}

// ErrTestNotFound is a sentinel error
type ErrTestNotFound struct {
    CampaignID string
}

func (e *ErrTestNotFound) Error() string {
    return fmt.Sprintf("test for campaign %s not found", e.CampaignID)
}

func NewTestNotFound(id string) error {
    return &ErrTestNotFound{CampaignID: id}
}
