package inventory

import (
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementDirection is the direction of a stock movement
type MovementDirection string

const (
	// MovementIn increases the stock counter (release, return, restock)
	MovementIn MovementDirection = "IN"
	// MovementOut decreases the stock counter (reservation, shipment)
	MovementOut MovementDirection = "OUT"
)

// IsValid checks if the direction is valid
func (d MovementDirection) IsValid() bool {
	return d == MovementIn || d == MovementOut
}

// String returns the string representation of the direction
func (d MovementDirection) String() string {
	return string(d)
}

// StockMovement is an immutable ledger entry. The ledger is the audit trail;
// the counter on the product/variant row is only a cache of its sum. Every
// counter change is paired with exactly one movement in the same transaction.
type StockMovement struct {
	shared.BaseEntity
	ProductID uuid.UUID         `gorm:"type:uuid;not null;index"`
	VariantID *uuid.UUID        `gorm:"type:uuid;index"`
	Direction MovementDirection `gorm:"type:varchar(3);not null"`
	Quantity  int               `gorm:"not null"`
	Reference string            `gorm:"type:varchar(200)"`
	ActorID   uuid.UUID         `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new ledger entry
func NewStockMovement(productID uuid.UUID, variantID *uuid.UUID, direction MovementDirection, quantity int, reference string, actorID uuid.UUID) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Produit obligatoire")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("Sens de mouvement invalide")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("La quantité doit être strictement positive")
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		VariantID:  variantID,
		Direction:  direction,
		Quantity:   quantity,
		Reference:  reference,
		ActorID:    actorID,
	}, nil
}
