package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/distriflow/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceCounter is the dedicated counter row behind a document sequence.
// One row per sequence and year; numbering restarts each year under a new
// date-scoped prefix.
type SequenceCounter struct {
	Name  string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

var sequencePrefixes = map[shared.SequenceName]string{
	shared.SequenceOrders:        "ORD",
	shared.SequenceInvoices:      "FAC",
	shared.SequenceDeliveryNotes: "BL",
}

// GormSequenceAllocator allocates document numbers with an atomic
// increment-and-read on the counter row, never a max() scan. Constructed
// over the enclosing transaction handle so concurrent allocations for the
// same counter serialize on the row lock.
type GormSequenceAllocator struct {
	db *gorm.DB
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db}
}

// NextNumber returns the next formatted number, e.g. ORD-2026-00042
func (a *GormSequenceAllocator) NextNumber(ctx context.Context, name shared.SequenceName) (string, error) {
	prefix, ok := sequencePrefixes[name]
	if !ok {
		return "", fmt.Errorf("unknown sequence %q", name)
	}

	year := time.Now().Year()
	key := fmt.Sprintf("%s:%d", name, year)

	// Ensure the counter row exists, then atomically increment and read.
	if err := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SequenceCounter{Name: key, Value: 0}).Error; err != nil {
		return "", err
	}

	var next int64
	if err := a.db.WithContext(ctx).
		Raw("UPDATE sequence_counters SET value = value + 1 WHERE name = ? RETURNING value", key).
		Scan(&next).Error; err != nil {
		return "", err
	}
	if next == 0 {
		return "", fmt.Errorf("sequence %q returned no value", key)
	}

	return fmt.Sprintf("%s-%d-%05d", prefix, year, next), nil
}

// Ensure GormSequenceAllocator implements SequenceAllocator
var _ shared.SequenceAllocator = (*GormSequenceAllocator)(nil)
