package entities

import "github.com/shopspring/decimal"

// Shortage is the aggregated demand for one component across open builds
type Shortage struct {
	PartID                 int64
	PartNumber             PartNumber
	ManufacturerPartNumber string
	Description            string
	OnHand                 Quantity
	Needed                 Quantity
	Short                  Quantity
}

// Recompute sets Short to the unmet part of Needed, never below zero
func (s *Shortage) Recompute() {
	s.Short = max(0, s.Needed-s.OnHand)
}

// ComponentShortfall is demand the allocator could not satisfy from stock
type ComponentShortfall struct {
	PartID  int64
	Missing Quantity
}

// CompletionSummary reports what completing a build consumed and produced
type CompletionSummary struct {
	BuildID          int64
	RunID            string
	TotalCost        decimal.Decimal
	UnitCost         decimal.Decimal
	NewLotID         int64
	Consumptions     []LotConsumption
	Shortfalls       []ComponentShortfall
	UnpricedQuantity Quantity
}
