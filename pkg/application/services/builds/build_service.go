package builds

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	"github.com/vsinha/partsmrp/pkg/application/services/mrp"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
	"github.com/vsinha/partsmrp/pkg/infrastructure/events"
)

// Service opens, lists and removes builds
type Service struct {
	store     repositories.Store
	publisher events.Publisher
	log       *zap.Logger
}

// NewService creates a build service
func NewService(store repositories.Store, publisher events.Publisher, log *zap.Logger) *Service {
	return &Service{store: store, publisher: publisher, log: log.Named("builds")}
}

// Create opens a build of the current version of an assembly. A zero
// version means the current one; any other version must match it.
func (s *Service) Create(ctx context.Context, pn entities.PartNumber, version int, qty entities.Quantity, notes string) (*entities.Build, error) {
	var build *entities.Build
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		part, err := tx.FindPartByNumber(ctx, pn)
		if err != nil {
			return err
		}
		if version == 0 {
			version = part.Version
		}
		if version != part.Version {
			return fmt.Errorf("%w: %s is at version %d, cannot build version %d", entities.ErrInvalidInput, pn, part.Version, version)
		}
		build, err = entities.NewBuild(part.ID, version, qty, notes)
		if err != nil {
			return err
		}
		return tx.CreateBuild(ctx, build)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("build created", zap.Int64("build", build.ID), zap.String("pn", string(pn)), zap.Int64("quantity", int64(qty)))
	s.publish(events.BuildCreatedEvent, build)
	return build, nil
}

// List returns open builds, or every build when includeComplete is set
func (s *Service) List(ctx context.Context, includeComplete bool) ([]dto.BuildView, error) {
	var views []dto.BuildView
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var (
			builds []*entities.Build
			err    error
		)
		if includeComplete {
			builds, err = tx.ListBuilds(ctx)
		} else {
			builds, err = tx.ListOpenBuilds(ctx)
		}
		if err != nil {
			return err
		}
		for _, b := range builds {
			part, err := tx.GetPart(ctx, b.PartID)
			if err != nil {
				return fmt.Errorf("%w: build %d: %w", entities.ErrInconsistent, b.ID, err)
			}
			views = append(views, dto.BuildView{
				ID:         b.ID,
				PartNumber: part.PartNumber,
				Version:    b.PartVersion,
				Quantity:   b.Quantity,
				Status:     b.Status(),
				Notes:      b.Notes,
				Cost:       b.Cost,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Delete removes an open build. Completed builds are history and stay.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var build *entities.Build
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		build, err = tx.GetBuild(ctx, id)
		if err != nil {
			return err
		}
		if build.Complete {
			return fmt.Errorf("build %d: %w", id, entities.ErrBuildComplete)
		}
		return tx.DeleteBuild(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("build deleted", zap.Int64("build", id))
	s.publish(events.BuildDeletedEvent, build)
	return nil
}

// PickList lists the stuffed components of a build with the quantity to pull
// and what is in stock
func (s *Service) PickList(ctx context.Context, id int64) (*dto.PickList, error) {
	var list *dto.PickList
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		build, err := tx.GetBuild(ctx, id)
		if err != nil {
			return err
		}
		assembly, err := tx.GetPart(ctx, build.PartID)
		if err != nil {
			return fmt.Errorf("%w: build %d: %w", entities.ErrInconsistent, id, err)
		}
		reqs, err := mrp.Explode(ctx, tx, build.PartID, build.PartVersion)
		if err != nil {
			return fmt.Errorf("%w: build %d: %w", entities.ErrInconsistent, id, err)
		}

		list = &dto.PickList{
			BuildID:    build.ID,
			PartNumber: assembly.PartNumber,
			Version:    build.PartVersion,
			Quantity:   build.Quantity,
		}
		for _, req := range reqs {
			if req.NoStuff {
				continue
			}
			component, err := tx.GetPart(ctx, req.ComponentPartID)
			if err != nil {
				return fmt.Errorf("%w: component %d: %w", entities.ErrInconsistent, req.ComponentPartID, err)
			}
			lots, err := tx.ListInventoryLots(ctx, component.ID)
			if err != nil {
				return err
			}
			var inStock entities.Quantity
			for _, lot := range lots {
				inStock += lot.QuantityOnHand
			}
			list.Rows = append(list.Rows, dto.PickListRow{
				PartNumber:             component.PartNumber,
				ManufacturerPartNumber: component.ManufacturerPartNumber,
				Description:            component.Description,
				QuantityInStock:        inStock,
				QuantityNeeded:         req.PerUnitQuantity * build.Quantity,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) publish(eventType string, build *entities.Build) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(events.NewEvent(eventType, events.BuildStream(build.ID), *build))
}
