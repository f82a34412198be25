package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
	"github.com/vsinha/partsmrp/pkg/infrastructure/events"
)

// PartService maintains the part catalog
type PartService struct {
	store     repositories.Store
	publisher events.Publisher
	log       *zap.Logger
}

// NewPartService creates a part service
func NewPartService(store repositories.Store, publisher events.Publisher, log *zap.Logger) *PartService {
	return &PartService{store: store, publisher: publisher, log: log.Named("catalog.parts")}
}

// PartInput carries editable part fields. Zero values leave a field unchanged on update.
type PartInput struct {
	PartNumber             entities.PartNumber
	ManufacturerPartNumber string
	Description            string
	Multiplier             entities.Quantity
}

// Create adds a part at version 1
func (s *PartService) Create(ctx context.Context, in PartInput) (*entities.Part, error) {
	part, err := entities.NewPart(in.PartNumber, in.ManufacturerPartNumber, in.Description, in.Multiplier)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreatePart(ctx, part); err != nil {
		return nil, err
	}
	s.changed(part, "created")
	return part, nil
}

// Get returns a part by number
func (s *PartService) Get(ctx context.Context, pn entities.PartNumber) (*entities.Part, error) {
	return s.store.FindPartByNumber(ctx, pn)
}

// List returns all parts ordered by part number
func (s *PartService) List(ctx context.Context) ([]*entities.Part, error) {
	return s.store.ListParts(ctx)
}

// Update corrects descriptive fields in place without changing the version
func (s *PartService) Update(ctx context.Context, pn entities.PartNumber, in PartInput) (*entities.Part, error) {
	return s.modify(ctx, pn, "updated", func(p *entities.Part) error {
		if mpn := strings.TrimSpace(in.ManufacturerPartNumber); mpn != "" {
			p.ManufacturerPartNumber = mpn
		}
		if in.Description != "" {
			p.Description = in.Description
		}
		if in.Multiplier != 0 {
			p.MultiplierQuantity = in.Multiplier
		}
		return nil
	})
}

// Rename changes a part number
func (s *PartService) Rename(ctx context.Context, from, to entities.PartNumber) (*entities.Part, error) {
	return s.modify(ctx, from, "renamed", func(p *entities.Part) error {
		p.PartNumber = entities.PartNumber(strings.TrimSpace(string(to)))
		return nil
	})
}

// Revise moves a part to its next version
func (s *PartService) Revise(ctx context.Context, pn entities.PartNumber) (*entities.Part, error) {
	return s.modify(ctx, pn, "revised", func(p *entities.Part) error {
		p.Revise()
		return nil
	})
}

func (s *PartService) modify(ctx context.Context, pn entities.PartNumber, action string, edit func(*entities.Part) error) (*entities.Part, error) {
	var part *entities.Part
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		part, err = tx.FindPartByNumber(ctx, pn)
		if err != nil {
			return err
		}
		if err := edit(part); err != nil {
			return err
		}
		if err := part.Validate(); err != nil {
			return err
		}
		return tx.UpdatePart(ctx, part)
	})
	if err != nil {
		return nil, err
	}
	s.changed(part, action)
	return part, nil
}

// Delete removes a part that nothing references
func (s *PartService) Delete(ctx context.Context, pn entities.PartNumber) error {
	var part *entities.Part
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		part, err = tx.FindPartByNumber(ctx, pn)
		if err != nil {
			return err
		}
		refs, err := tx.CountBOMReferences(ctx, part.ID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: %s is used by %d BOM lines", entities.ErrInvalidInput, pn, refs)
		}
		lots, err := tx.ListInventoryLots(ctx, part.ID)
		if err != nil {
			return err
		}
		if len(lots) > 0 {
			return fmt.Errorf("%w: %s has %d inventory lots", entities.ErrInvalidInput, pn, len(lots))
		}
		builds, err := tx.ListBuilds(ctx)
		if err != nil {
			return err
		}
		for _, b := range builds {
			if b.PartID == part.ID {
				return fmt.Errorf("%w: %s is built by build %d", entities.ErrInvalidInput, pn, b.ID)
			}
		}
		return tx.DeletePart(ctx, part.ID)
	})
	if err != nil {
		return err
	}
	s.changed(part, "deleted")
	return nil
}

// ImportResult counts what an import changed
type ImportResult struct {
	Created []entities.PartNumber
	Updated []entities.PartNumber
}

// ImportRecords creates missing parts and, when update is set, corrects the
// MPN and description of existing ones. All records apply or none do.
func (s *PartService) ImportRecords(ctx context.Context, records []dto.PartRecord, update bool) (*ImportResult, error) {
	result := &ImportResult{}
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		for i, rec := range records {
			existing, err := tx.FindPartByNumber(ctx, rec.PartNumber)
			if err != nil && !isNotFound(err) {
				return err
			}
			if existing == nil {
				part, err := entities.NewPart(rec.PartNumber, rec.ManufacturerPartNumber, rec.Description, 1)
				if err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
				if err := tx.CreatePart(ctx, part); err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
				result.Created = append(result.Created, part.PartNumber)
				continue
			}
			if !update || (existing.ManufacturerPartNumber == rec.ManufacturerPartNumber && existing.Description == rec.Description) {
				continue
			}
			existing.ManufacturerPartNumber = rec.ManufacturerPartNumber
			existing.Description = rec.Description
			if err := existing.Validate(); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
			if err := tx.UpdatePart(ctx, existing); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
			result.Updated = append(result.Updated, existing.PartNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("imported parts", zap.Int("created", len(result.Created)), zap.Int("updated", len(result.Updated)))
	return result, nil
}

func (s *PartService) changed(part *entities.Part, action string) {
	s.log.Debug("part changed", zap.String("pn", string(part.PartNumber)), zap.String("action", action))
	if s.publisher != nil {
		_ = s.publisher.Publish(events.NewEvent(events.PartChangedEvent, events.PartStream(part.ID),
			events.PartChanged{Part: *part, Action: action}))
	}
}
