package repositories

import (
	"context"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// InventoryRepository provides access to inventory lots and their consumption history
type InventoryRepository interface {
	// ListInventoryLots returns all lots of a part, any version, oldest first
	ListInventoryLots(ctx context.Context, partID int64) ([]*entities.InventoryLot, error)
	ListAllInventoryLots(ctx context.Context) ([]*entities.InventoryLot, error)
	GetInventoryLot(ctx context.Context, id int64) (*entities.InventoryLot, error)
	InsertLot(ctx context.Context, lot *entities.InventoryLot) error
	UpdateLot(ctx context.Context, lot *entities.InventoryLot) error
	InsertConsumption(ctx context.Context, c *entities.LotConsumption) error
	ListConsumptions(ctx context.Context, buildID int64) ([]*entities.LotConsumption, error)
}
