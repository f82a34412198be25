package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Build is a request to produce Quantity units of an assembly version.
// A build moves from open to complete exactly once.
type Build struct {
	ID          int64
	PartID      int64
	PartVersion int
	Quantity    Quantity
	Complete    bool
	Notes       string
	Cost        decimal.NullDecimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBuild creates a validated open Build
func NewBuild(partID int64, partVersion int, quantity Quantity, notes string) (*Build, error) {
	if partID <= 0 {
		return nil, invalid("part id must be positive, got %d", partID)
	}
	if partVersion < 1 {
		return nil, invalid("part version must be at least 1, got %d", partVersion)
	}
	if quantity <= 0 {
		return nil, invalid("build quantity must be positive, got %d", quantity)
	}

	return &Build{
		PartID:      partID,
		PartVersion: partVersion,
		Quantity:    quantity,
		Notes:       notes,
	}, nil
}

// MarkComplete closes the build and records its total material cost
func (b *Build) MarkComplete(totalCost decimal.Decimal) error {
	if b.Complete {
		return fmt.Errorf("build %d: %w", b.ID, ErrBuildComplete)
	}
	b.Complete = true
	b.Cost = decimal.NewNullDecimal(totalCost)
	return nil
}

// Status returns a display label for the build state
func (b *Build) Status() string {
	if b.Complete {
		return "complete"
	}
	return "open"
}
