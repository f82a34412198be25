package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot is a quantity of one part version with an optional unit price.
// Lots are never deleted; consumption moves quantity from on-hand to consumed.
type InventoryLot struct {
	ID               int64
	PartID           int64
	PartVersion      int
	QuantityOnHand   Quantity
	QuantityConsumed Quantity
	UnitPrice        decimal.NullDecimal
	Notes            string
	CreatedAt        time.Time
}

// NewInventoryLot creates a validated InventoryLot
func NewInventoryLot(partID int64, partVersion int, quantity Quantity, unitPrice decimal.NullDecimal, notes string) (*InventoryLot, error) {
	if partID <= 0 {
		return nil, invalid("part id must be positive, got %d", partID)
	}
	if partVersion < 1 {
		return nil, invalid("part version must be at least 1, got %d", partVersion)
	}
	if quantity < 0 {
		return nil, invalid("quantity cannot be negative, got %d", quantity)
	}
	if unitPrice.Valid && unitPrice.Decimal.IsNegative() {
		return nil, invalid("unit price cannot be negative, got %s", unitPrice.Decimal)
	}

	return &InventoryLot{
		PartID:         partID,
		PartVersion:    partVersion,
		QuantityOnHand: quantity,
		UnitPrice:      unitPrice,
		Notes:          notes,
	}, nil
}

// NewAdjustmentLot creates a manual stock correction. Unlike a received lot
// the quantity may be negative to record a write-off.
func NewAdjustmentLot(partID int64, partVersion int, quantity Quantity, unitPrice decimal.NullDecimal, notes string) (*InventoryLot, error) {
	if quantity == 0 {
		return nil, invalid("adjustment quantity cannot be zero")
	}
	magnitude := quantity
	if magnitude < 0 {
		magnitude = -magnitude
	}
	lot, err := NewInventoryLot(partID, partVersion, magnitude, unitPrice, notes)
	if err != nil {
		return nil, err
	}
	lot.QuantityOnHand = quantity
	return lot, nil
}

// Take draws up to want units from the lot and returns how many were drawn
func (l *InventoryLot) Take(want Quantity) Quantity {
	if want <= 0 || l.QuantityOnHand <= 0 {
		return 0
	}
	used := min(l.QuantityOnHand, want)
	l.QuantityOnHand -= used
	l.QuantityConsumed += used
	return used
}

// Cost returns the extended price of qty units and whether the lot is priced
func (l *InventoryLot) Cost(qty Quantity) (decimal.Decimal, bool) {
	if !l.UnitPrice.Valid {
		return decimal.Zero, false
	}
	return l.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(qty))), true
}

// LotConsumption records a draw from a lot made while completing a build
type LotConsumption struct {
	ID        int64
	RunID     string
	BuildID   int64
	LotID     int64
	PartID    int64
	Quantity  Quantity
	UnitPrice decimal.NullDecimal
	CreatedAt time.Time
}
