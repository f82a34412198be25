package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// BOMView is an assembly version with its lines resolved to parts
type BOMView struct {
	PartNumber  entities.PartNumber
	Description string
	Version     int
	Lines       []BOMViewLine
}

// BOMViewLine is one BOM line joined with its component and current stock
type BOMViewLine struct {
	Quantity               entities.Quantity
	ReferenceDesignator    string
	PartNumber             entities.PartNumber
	ManufacturerPartNumber string
	Description            string
	Version                int
	NoStuff                bool
	OnHand                 entities.Quantity
}

// PickListRow is one component to pull from stock for a build
type PickListRow struct {
	PartNumber             entities.PartNumber
	ManufacturerPartNumber string
	Description            string
	QuantityInStock        entities.Quantity
	QuantityNeeded         entities.Quantity
	Checked                bool
}

// PickList is the kitting sheet of one build
type PickList struct {
	BuildID    int64
	PartNumber entities.PartNumber
	Version    int
	Quantity   entities.Quantity
	Rows       []PickListRow
}

// BuildView is a build joined with its assembly
type BuildView struct {
	ID         int64
	PartNumber entities.PartNumber
	Version    int
	Quantity   entities.Quantity
	Status     string
	Notes      string
	Cost       decimal.NullDecimal
}

// LotView is an inventory lot joined with its part
type LotView struct {
	Entry       InventoryEntry
	PartNumber  entities.PartNumber
	Description string
}
