package mrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
	"github.com/vsinha/partsmrp/pkg/infrastructure/events"
)

// CompletionService closes builds by drawing components from stock FIFO and
// receiving the finished assemblies as a new lot
type CompletionService struct {
	store     repositories.Store
	publisher events.Publisher
	log       *zap.Logger
	newRunID  func() string
}

// NewCompletionService creates a completion service
func NewCompletionService(store repositories.Store, publisher events.Publisher, log *zap.Logger) *CompletionService {
	return &CompletionService{
		store:     store,
		publisher: publisher,
		log:       log.Named("mrp.completion"),
		newRunID:  uuid.NewString,
	}
}

// CompleteBuild consumes component stock for an open build and records the
// finished goods lot. It does not check for shortages first: stock that runs
// out is reported in the summary and the build still completes. All writes
// happen in one transaction.
func (s *CompletionService) CompleteBuild(ctx context.Context, buildID int64) (*entities.CompletionSummary, error) {
	var (
		summary *entities.CompletionSummary
		build   *entities.Build
	)
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		build, err = tx.GetBuild(ctx, buildID)
		if err != nil {
			return err
		}
		if build.Complete {
			return fmt.Errorf("build %d: %w", build.ID, entities.ErrBuildComplete)
		}
		summary, err = s.complete(ctx, tx, build)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("build completed",
		zap.Int64("build", build.ID),
		zap.String("run", summary.RunID),
		zap.String("total_cost", summary.TotalCost.StringFixed(4)),
		zap.Int("shortfalls", len(summary.Shortfalls)),
		zap.Int64("unpriced", int64(summary.UnpricedQuantity)))
	s.publish(build, summary)
	return summary, nil
}

func (s *CompletionService) complete(ctx context.Context, tx repositories.Store, build *entities.Build) (*entities.CompletionSummary, error) {
	reqs, err := Explode(ctx, tx, build.PartID, build.PartVersion)
	if err != nil {
		return nil, inconsistent(fmt.Sprintf("build %d", build.ID), err)
	}

	summary := &entities.CompletionSummary{
		BuildID:   build.ID,
		RunID:     s.newRunID(),
		TotalCost: decimal.Zero,
	}

	for _, req := range reqs {
		if req.NoStuff {
			continue
		}
		if _, err := tx.GetPart(ctx, req.ComponentPartID); err != nil {
			return nil, inconsistent(fmt.Sprintf("bom line component %d", req.ComponentPartID), err)
		}
		remaining := build.Quantity * req.PerUnitQuantity
		remaining, err = s.drawLots(ctx, tx, build, req.ComponentPartID, remaining, summary)
		if err != nil {
			return nil, err
		}
		if remaining > 0 {
			summary.Shortfalls = append(summary.Shortfalls, entities.ComponentShortfall{
				PartID:  req.ComponentPartID,
				Missing: remaining,
			})
		}
	}

	summary.UnitCost = summary.TotalCost.Div(decimal.NewFromInt(int64(build.Quantity)))

	lot, err := entities.NewInventoryLot(build.PartID, build.PartVersion, build.Quantity,
		decimal.NewNullDecimal(summary.UnitCost), fmt.Sprintf("Build %d", build.ID))
	if err != nil {
		return nil, err
	}
	if err := tx.InsertLot(ctx, lot); err != nil {
		return nil, fmt.Errorf("receive build %d: %w", build.ID, err)
	}
	summary.NewLotID = lot.ID

	if err := build.MarkComplete(summary.TotalCost); err != nil {
		return nil, err
	}
	if err := tx.UpdateBuild(ctx, build); err != nil {
		return nil, fmt.Errorf("close build %d: %w", build.ID, err)
	}
	return summary, nil
}

// drawLots consumes up to remaining units of a component in lot id order and
// returns what could not be covered
func (s *CompletionService) drawLots(ctx context.Context, tx repositories.Store, build *entities.Build, partID int64, remaining entities.Quantity, summary *entities.CompletionSummary) (entities.Quantity, error) {
	lots, err := tx.ListInventoryLots(ctx, partID)
	if err != nil {
		return 0, fmt.Errorf("inventory of part %d: %w", partID, err)
	}

	for _, lot := range lots {
		if remaining <= 0 {
			break
		}
		used := lot.Take(remaining)
		if used == 0 {
			continue
		}
		remaining -= used

		if cost, priced := lot.Cost(used); priced {
			summary.TotalCost = summary.TotalCost.Add(cost)
		} else {
			summary.UnpricedQuantity += used
		}

		if err := tx.UpdateLot(ctx, lot); err != nil {
			return 0, fmt.Errorf("update lot %d: %w", lot.ID, err)
		}
		consumption := entities.LotConsumption{
			RunID:     summary.RunID,
			BuildID:   build.ID,
			LotID:     lot.ID,
			PartID:    partID,
			Quantity:  used,
			UnitPrice: lot.UnitPrice,
		}
		if err := tx.InsertConsumption(ctx, &consumption); err != nil {
			return 0, fmt.Errorf("journal lot %d: %w", lot.ID, err)
		}
		summary.Consumptions = append(summary.Consumptions, consumption)
	}
	return remaining, nil
}

func (s *CompletionService) publish(build *entities.Build, summary *entities.CompletionSummary) {
	if s.publisher == nil {
		return
	}
	stream := events.BuildStream(build.ID)
	for _, c := range summary.Consumptions {
		_ = s.publisher.Publish(events.NewEvent(events.InventoryConsumedEvent, stream, events.InventoryConsumed{Consumption: c}))
	}
	_ = s.publisher.Publish(events.NewEvent(events.BuildCompletedEvent, stream, events.BuildCompleted{Build: *build, Summary: *summary}))
}
