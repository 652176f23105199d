package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Typed failures returned by the processors. Handlers map them to HTTP
// statuses; the services never format user-facing prose beyond Error().

// ErrEmptyBatch is returned when an order, sale, or purchase carries no lines.
var ErrEmptyBatch = errors.New("batch contains no line items")

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError reports a field rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientStockError rejects a whole outbound batch when any single line
// requests more than the fabric's derived current stock.
type InsufficientStockError struct {
	FabricID  uuid.UUID
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for fabric %s: requested %s, available %s",
		e.FabricID, e.Requested, e.Available)
}

// ConstraintViolationError reports a uniqueness conflict (duplicate product code).
type ConstraintViolationError struct {
	Field string
	Value string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// UnresolvableLineError aborts a purchase batch whose line can neither be
// matched to an existing fabric nor create one.
type UnresolvableLineError struct {
	Description string
}

func (e *UnresolvableLineError) Error() string {
	return fmt.Sprintf("could not process purchase line: %s", e.Description)
}
