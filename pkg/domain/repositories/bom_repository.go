package repositories

import (
	"context"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// BOMRepository provides access to bill of materials lines
type BOMRepository interface {
	// ListBOMLines returns the lines of one assembly version in insertion order.
	// An assembly version without lines yields an empty slice, not an error.
	ListBOMLines(ctx context.Context, partID int64, version int) ([]*entities.BOMLine, error)
	ListAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error)
	CreateBOMLine(ctx context.Context, line *entities.BOMLine) error
	DeleteBOMLines(ctx context.Context, partID int64, version int) error
	// CountBOMReferences counts lines naming the part as assembly or component
	CountBOMReferences(ctx context.Context, partID int64) (int64, error)
}
