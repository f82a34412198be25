package mrp

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
)

// ShortageService aggregates component demand of open builds against stock
type ShortageService struct {
	store repositories.Store
	log   *zap.Logger
}

// NewShortageService creates a shortage service
func NewShortageService(store repositories.Store, log *zap.Logger) *ShortageService {
	return &ShortageService{store: store, log: log.Named("mrp.shortages")}
}

// ComputeShortages reports demand of every open build. On-hand stock is a
// snapshot: it is not drawn down as successive builds are accumulated.
// Entries with nothing short are dropped unless includeSatisfied is set.
func (s *ShortageService) ComputeShortages(ctx context.Context, includeSatisfied bool) ([]entities.Shortage, error) {
	var report []entities.Shortage
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		builds, err := tx.ListOpenBuilds(ctx)
		if err != nil {
			return fmt.Errorf("list open builds: %w", err)
		}
		report, err = aggregate(ctx, tx, builds, includeSatisfied)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("computed shortages", zap.Int("entries", len(report)))
	return report, nil
}

// ComputeBuildShortages runs the same aggregation for a single open build
func (s *ShortageService) ComputeBuildShortages(ctx context.Context, buildID int64, includeSatisfied bool) ([]entities.Shortage, error) {
	var report []entities.Shortage
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		build, err := tx.GetBuild(ctx, buildID)
		if err != nil {
			return err
		}
		if build.Complete {
			return fmt.Errorf("build %d: %w", buildID, entities.ErrBuildComplete)
		}
		report, err = aggregate(ctx, tx, []*entities.Build{build}, includeSatisfied)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

type explosionKey struct {
	partID  int64
	version int
}

func aggregate(ctx context.Context, repo repositories.Store, builds []*entities.Build, includeSatisfied bool) ([]entities.Shortage, error) {
	acc := make(map[int64]*entities.Shortage)
	var order []int64
	exploded := make(map[explosionKey][]entities.ComponentRequirement)

	for _, build := range builds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := explosionKey{partID: build.PartID, version: build.PartVersion}
		reqs, ok := exploded[key]
		if !ok {
			var err error
			reqs, err = Explode(ctx, repo, build.PartID, build.PartVersion)
			if err != nil {
				return nil, inconsistent(fmt.Sprintf("build %d", build.ID), err)
			}
			exploded[key] = reqs
		}

		for _, req := range reqs {
			if req.NoStuff {
				continue
			}
			entry, ok := acc[req.ComponentPartID]
			if !ok {
				var err error
				entry, err = newShortageEntry(ctx, repo, req.ComponentPartID)
				if err != nil {
					return nil, err
				}
				acc[req.ComponentPartID] = entry
				order = append(order, req.ComponentPartID)
			}
			entry.Needed += build.Quantity * req.PerUnitQuantity
			entry.Recompute()
		}
	}

	report := make([]entities.Shortage, 0, len(order))
	for _, id := range order {
		entry := acc[id]
		if entry.Short == 0 && !includeSatisfied {
			continue
		}
		report = append(report, *entry)
	}
	return report, nil
}

func newShortageEntry(ctx context.Context, repo repositories.Store, partID int64) (*entities.Shortage, error) {
	part, err := repo.GetPart(ctx, partID)
	if err != nil {
		return nil, inconsistent(fmt.Sprintf("bom line component %d", partID), err)
	}
	lots, err := repo.ListInventoryLots(ctx, partID)
	if err != nil {
		return nil, fmt.Errorf("inventory of %s: %w", part.PartNumber, err)
	}

	entry := &entities.Shortage{
		PartID:                 part.ID,
		PartNumber:             part.PartNumber,
		ManufacturerPartNumber: part.ManufacturerPartNumber,
		Description:            part.Description,
	}
	for _, lot := range lots {
		entry.OnHand += lot.QuantityOnHand
	}
	return entry, nil
}

// inconsistent marks a missing referenced record as a data integrity failure
// while keeping ErrNotFound in the chain
func inconsistent(what string, err error) error {
	if errors.Is(err, entities.ErrNotFound) {
		return fmt.Errorf("%w: %s: %w", entities.ErrInconsistent, what, err)
	}
	return err
}
