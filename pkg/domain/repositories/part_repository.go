package repositories

import (
	"context"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// PartRepository provides access to the part catalog
type PartRepository interface {
	GetPart(ctx context.Context, id int64) (*entities.Part, error)
	FindPartByNumber(ctx context.Context, pn entities.PartNumber) (*entities.Part, error)
	FindPartByMPN(ctx context.Context, mpn string) (*entities.Part, error)
	// ListParts returns every part ordered by part number
	ListParts(ctx context.Context) ([]*entities.Part, error)
	CreatePart(ctx context.Context, part *entities.Part) error
	UpdatePart(ctx context.Context, part *entities.Part) error
	DeletePart(ctx context.Context, id int64) error
}
