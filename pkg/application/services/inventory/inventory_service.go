package inventory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
	"github.com/vsinha/partsmrp/pkg/infrastructure/events"
)

// Service receives, corrects and reports stock lots
type Service struct {
	store     repositories.Store
	publisher events.Publisher
	log       *zap.Logger
}

// NewService creates an inventory service
func NewService(store repositories.Store, publisher events.Publisher, log *zap.Logger) *Service {
	return &Service{store: store, publisher: publisher, log: log.Named("inventory")}
}

// ReceiveResult lists the lots created by an import
type ReceiveResult struct {
	Lots    []*entities.InventoryLot
	Skipped int
}

// ImportRecords creates one lot per record at the part's current version.
// Every MPN is resolved before anything is written; unknown MPNs abort the
// import with ErrNotFound. Records without a quantity are skipped.
func (s *Service) ImportRecords(ctx context.Context, records []dto.NewInventoryRecord) (*ReceiveResult, error) {
	result := &ReceiveResult{}
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		parts := make([]*entities.Part, len(records))
		var missing []string
		for i, rec := range records {
			part, err := tx.FindPartByMPN(ctx, strings.TrimSpace(rec.ManufacturerPartNumber))
			if errors.Is(err, entities.ErrNotFound) {
				missing = append(missing, rec.ManufacturerPartNumber)
				continue
			}
			if err != nil {
				return err
			}
			parts[i] = part
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: no part with MPN %s", entities.ErrNotFound, strings.Join(missing, ", "))
		}

		for i, rec := range records {
			if rec.Quantity == nil {
				result.Skipped++
				continue
			}
			lot, err := entities.NewInventoryLot(parts[i].ID, parts[i].Version, *rec.Quantity, rec.UnitPrice, rec.Notes)
			if err != nil {
				return fmt.Errorf("record %d (%s): %w", i+1, rec.ManufacturerPartNumber, err)
			}
			if err := tx.InsertLot(ctx, lot); err != nil {
				return err
			}
			result.Lots = append(result.Lots, lot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("received inventory", zap.Int("lots", len(result.Lots)), zap.Int("skipped", result.Skipped))
	for _, lot := range result.Lots {
		s.publish(events.InventoryReceivedEvent, lot)
	}
	return result, nil
}

// Adjust records a single manual lot for a part
func (s *Service) Adjust(ctx context.Context, pn entities.PartNumber, qty entities.Quantity, price decimal.NullDecimal, notes string) (*entities.InventoryLot, error) {
	var lot *entities.InventoryLot
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		part, err := tx.FindPartByNumber(ctx, pn)
		if err != nil {
			return err
		}
		lot, err = entities.NewAdjustmentLot(part.ID, part.Version, qty, price, notes)
		if err != nil {
			return err
		}
		return tx.InsertLot(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("adjusted inventory", zap.String("pn", string(pn)), zap.Int64("quantity", int64(qty)))
	s.publish(events.InventoryAdjustedEvent, lot)
	return lot, nil
}

// UpdateFromExport applies edited export rows to the lots they came from and
// returns how many lots changed
func (s *Service) UpdateFromExport(ctx context.Context, entries []dto.InventoryEntry) (int, error) {
	var changed []*entities.InventoryLot
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		for i, entry := range entries {
			lot, err := s.applyEntry(ctx, tx, entry)
			if err != nil {
				return fmt.Errorf("entry %d (lot %d): %w", i+1, entry.ID, err)
			}
			if lot != nil {
				changed = append(changed, lot)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, lot := range changed {
		s.publish(events.InventoryAdjustedEvent, lot)
	}
	s.log.Info("updated inventory", zap.Int("lots", len(changed)))
	return len(changed), nil
}

func (s *Service) applyEntry(ctx context.Context, tx repositories.Store, entry dto.InventoryEntry) (*entities.InventoryLot, error) {
	lot, err := tx.GetInventoryLot(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	part, err := tx.FindPartByMPN(ctx, strings.TrimSpace(entry.ManufacturerPartNumber))
	if err != nil {
		return nil, err
	}
	if part.ID != lot.PartID || (entry.PartID != 0 && entry.PartID != lot.PartID) {
		return nil, fmt.Errorf("%w: lot belongs to part %d, not %s", entities.ErrInvalidInput, lot.PartID, entry.ManufacturerPartNumber)
	}
	// write-offs keep their negative on-hand, but edits cannot introduce one
	if (entry.Quantity < 0 && entry.Quantity != lot.QuantityOnHand) || entry.Consumed < 0 {
		return nil, fmt.Errorf("%w: quantities cannot be negative", entities.ErrInvalidInput)
	}
	if entry.UnitPrice.Valid && entry.UnitPrice.Decimal.IsNegative() {
		return nil, fmt.Errorf("%w: unit price cannot be negative", entities.ErrInvalidInput)
	}
	version := entry.PartVersion
	if version == 0 {
		version = lot.PartVersion
	}
	if !part.HasVersion(version) {
		return nil, fmt.Errorf("%w: part %s has no version %d", entities.ErrInvalidInput, part.PartNumber, version)
	}

	updated := *lot
	updated.QuantityOnHand = entry.Quantity
	updated.QuantityConsumed = entry.Consumed
	updated.UnitPrice = entry.UnitPrice
	updated.Notes = entry.Notes
	updated.PartVersion = version
	if sameLot(lot, &updated) {
		return nil, nil
	}
	if err := tx.UpdateLot(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func sameLot(a, b *entities.InventoryLot) bool {
	return a.QuantityOnHand == b.QuantityOnHand &&
		a.QuantityConsumed == b.QuantityConsumed &&
		a.UnitPrice.Valid == b.UnitPrice.Valid &&
		a.UnitPrice.Decimal.Equal(b.UnitPrice.Decimal) &&
		a.Notes == b.Notes &&
		a.PartVersion == b.PartVersion
}

// List returns lots joined with their parts ordered by part number then lot.
// Emptied lots are left out unless includeEmpty is set.
func (s *Service) List(ctx context.Context, includeEmpty bool) ([]dto.LotView, error) {
	var views []dto.LotView
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		lots, err := tx.ListAllInventoryLots(ctx)
		if err != nil {
			return err
		}
		parts, err := partIndex(ctx, tx)
		if err != nil {
			return err
		}
		for _, lot := range lots {
			if lot.QuantityOnHand == 0 && !includeEmpty {
				continue
			}
			part, ok := parts[lot.PartID]
			if !ok {
				return fmt.Errorf("%w: lot %d references missing part %d", entities.ErrInconsistent, lot.ID, lot.PartID)
			}
			views = append(views, dto.LotView{
				Entry:       entryOf(lot, part),
				PartNumber:  part.PartNumber,
				Description: part.Description,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(views, func(a, b dto.LotView) int {
		return cmp.Or(cmp.Compare(a.PartNumber, b.PartNumber), cmp.Compare(a.Entry.ID, b.Entry.ID))
	})
	return views, nil
}

// Export returns every lot as an editable entry
func (s *Service) Export(ctx context.Context) ([]dto.InventoryEntry, error) {
	views, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.InventoryEntry, len(views))
	for i, v := range views {
		entries[i] = v.Entry
	}
	return entries, nil
}

func partIndex(ctx context.Context, repo repositories.PartRepository) (map[int64]*entities.Part, error) {
	parts, err := repo.ListParts(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]*entities.Part, len(parts))
	for _, p := range parts {
		index[p.ID] = p
	}
	return index, nil
}

func entryOf(lot *entities.InventoryLot, part *entities.Part) dto.InventoryEntry {
	return dto.InventoryEntry{
		ID:                     lot.ID,
		ManufacturerPartNumber: part.ManufacturerPartNumber,
		Quantity:               lot.QuantityOnHand,
		Consumed:               lot.QuantityConsumed,
		UnitPrice:              lot.UnitPrice,
		Notes:                  lot.Notes,
		PartVersion:            lot.PartVersion,
		PartID:                 lot.PartID,
	}
}

func (s *Service) publish(eventType string, lot *entities.InventoryLot) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(events.NewEvent(eventType, events.PartStream(lot.PartID), events.InventoryReceived{Lot: *lot}))
}
