package mrp

import (
	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// Core types re-exported for callers embedding the engine
type (
	PartNumber           = entities.PartNumber
	Quantity             = entities.Quantity
	Part                 = entities.Part
	BOMLine              = entities.BOMLine
	InventoryLot         = entities.InventoryLot
	Build                = entities.Build
	ComponentRequirement = entities.ComponentRequirement
	Shortage             = entities.Shortage
	CompletionSummary    = entities.CompletionSummary
	LotConsumption       = entities.LotConsumption
	ComponentShortfall   = entities.ComponentShortfall
)

// Error kinds, matched with errors.Is
var (
	ErrNotFound      = entities.ErrNotFound
	ErrInvalidInput  = entities.ErrInvalidInput
	ErrInconsistent  = entities.ErrInconsistent
	ErrStorage       = entities.ErrStorage
	ErrBuildComplete = entities.ErrBuildComplete
)
