package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// NewInventoryRecord is one row of a purchase or stock-take import, keyed by
// manufacturer part number. A row without quantity creates nothing.
type NewInventoryRecord struct {
	ManufacturerPartNumber string
	Quantity               *entities.Quantity
	Notes                  string
	UnitPrice              decimal.NullDecimal
}

// InventoryEntry is one exported lot. Editing and re-importing entries
// updates the lots in place.
type InventoryEntry struct {
	ID                     int64
	ManufacturerPartNumber string
	Quantity               entities.Quantity
	Consumed               entities.Quantity
	UnitPrice              decimal.NullDecimal
	Notes                  string
	PartVersion            int
	PartID                 int64
}

// PartRecord is one row of a part catalog import
type PartRecord struct {
	PartNumber             entities.PartNumber
	ManufacturerPartNumber string
	Description            string
}
