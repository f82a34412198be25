package repositories

import (
	"context"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// BuildRepository provides access to production builds
type BuildRepository interface {
	GetBuild(ctx context.Context, id int64) (*entities.Build, error)
	// ListOpenBuilds returns incomplete builds ordered by id
	ListOpenBuilds(ctx context.Context) ([]*entities.Build, error)
	ListBuilds(ctx context.Context) ([]*entities.Build, error)
	CreateBuild(ctx context.Context, build *entities.Build) error
	UpdateBuild(ctx context.Context, build *entities.Build) error
	DeleteBuild(ctx context.Context, id int64) error
}
