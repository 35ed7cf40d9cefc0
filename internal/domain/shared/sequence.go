package shared

import "context"

// SequenceName identifies a logical document number sequence
type SequenceName string

const (
	SequenceOrders        SequenceName = "orders"
	SequenceInvoices      SequenceName = "invoices"
	SequenceDeliveryNotes SequenceName = "delivery_notes"
)

// SequenceAllocator hands out strictly increasing, gap-tolerant document
// numbers with a date-scoped human-readable prefix. Implementations must be
// safe under concurrent callers (serialize on the counter row) and must run
// on the caller's transaction handle. On failure the caller falls back to
// the entity's deterministic legacy number instead of blocking the
// operation.
type SequenceAllocator interface {
	NextNumber(ctx context.Context, name SequenceName) (string, error)
}
