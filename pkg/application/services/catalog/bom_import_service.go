package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
	"github.com/vsinha/partsmrp/pkg/domain/services"
	"github.com/vsinha/partsmrp/pkg/infrastructure/events"
	"github.com/vsinha/partsmrp/pkg/infrastructure/schematic"
)

// ImportOptions controls how an import treats existing data
type ImportOptions struct {
	// UpRev stores the lines under a new assembly version instead of
	// replacing the lines of the current one
	UpRev bool
	// UpdateParts corrects MPN, description and multiplier of existing
	// components that differ from the library
	UpdateParts bool
}

// BOMImportResult describes one applied import
type BOMImportResult struct {
	Assembly       *entities.Part
	Version        int
	Lines          []*entities.BOMLine
	CreatedParts   []entities.PartNumber
	UpdatedParts   []entities.PartNumber
	DivergentParts []entities.PartNumber
}

// BOMImportService turns schematic designs into BOM versions
type BOMImportService struct {
	store     repositories.Store
	validator *services.BOMValidator
	publisher events.Publisher
	log       *zap.Logger
}

// NewBOMImportService creates a BOM import service
func NewBOMImportService(store repositories.Store, publisher events.Publisher, log *zap.Logger) *BOMImportService {
	return &BOMImportService{
		store:     store,
		validator: services.NewBOMValidator(),
		publisher: publisher,
		log:       log.Named("catalog.bom"),
	}
}

// Import stores the lines of a design under its assembly part. Nothing is
// written unless every line resolves to a part with an MPN and the resulting
// BOM structure is valid.
func (s *BOMImportService) Import(ctx context.Context, design *schematic.Design, opts ImportOptions) (*BOMImportResult, error) {
	if design == nil || strings.TrimSpace(string(design.PartNumber)) == "" {
		return nil, fmt.Errorf("%w: design has no part number", entities.ErrInvalidInput)
	}

	var result *BOMImportResult
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		result, err = s.importDesign(ctx, tx, design, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("imported BOM",
		zap.String("pn", string(result.Assembly.PartNumber)),
		zap.Int("version", result.Version),
		zap.Int("lines", len(result.Lines)),
		zap.Int("created_parts", len(result.CreatedParts)))
	if s.publisher != nil {
		_ = s.publisher.Publish(events.NewEvent(events.BOMImportedEvent, events.PartStream(result.Assembly.ID),
			events.BOMImported{PartNumber: result.Assembly.PartNumber, Version: result.Version, Lines: len(result.Lines)}))
	}
	return result, nil
}

func (s *BOMImportService) importDesign(ctx context.Context, tx repositories.Store, design *schematic.Design, opts ImportOptions) (*BOMImportResult, error) {
	result := &BOMImportResult{}

	assembly, err := s.prepareAssembly(ctx, tx, design, opts)
	if err != nil {
		return nil, err
	}
	result.Assembly = assembly
	result.Version = assembly.Version

	for _, line := range design.Lines {
		component, qty, err := s.resolveComponent(ctx, tx, line, opts, result)
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", line.ComponentKey, line.ReferenceDesignators(), err)
		}
		bomLine, err := entities.NewBOMLine(assembly.ID, assembly.Version, component.ID, qty, line.ReferenceDesignators(), line.NoStuff)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", line.ComponentKey, err)
		}
		if err := tx.CreateBOMLine(ctx, bomLine); err != nil {
			return nil, err
		}
		result.Lines = append(result.Lines, bomLine)
	}

	all, err := tx.ListAllBOMLines(ctx)
	if err != nil {
		return nil, err
	}
	parts, err := tx.ListParts(ctx)
	if err != nil {
		return nil, err
	}
	current := make(map[int64]int, len(parts))
	for _, p := range parts {
		current[p.ID] = p.Version
	}
	if err := s.validator.ValidateBOM(services.CurrentRevisions(all, current)).Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// prepareAssembly finds or creates the assembly and clears the version the
// import will fill
func (s *BOMImportService) prepareAssembly(ctx context.Context, tx repositories.Store, design *schematic.Design, opts ImportOptions) (*entities.Part, error) {
	assembly, err := tx.FindPartByNumber(ctx, design.PartNumber)
	if isNotFound(err) {
		assembly, err = entities.NewPart(design.PartNumber, string(design.PartNumber), design.Description, 1)
		if err != nil {
			return nil, err
		}
		if err := tx.CreatePart(ctx, assembly); err != nil {
			return nil, err
		}
		return assembly, nil
	}
	if err != nil {
		return nil, err
	}

	existing, err := tx.ListBOMLines(ctx, assembly.ID, assembly.Version)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return assembly, nil
	}
	if opts.UpRev {
		assembly.Revise()
		if err := tx.UpdatePart(ctx, assembly); err != nil {
			return nil, err
		}
		return assembly, nil
	}
	if err := versionUnreferenced(ctx, tx, assembly); err != nil {
		return nil, err
	}
	if err := tx.DeleteBOMLines(ctx, assembly.ID, assembly.Version); err != nil {
		return nil, err
	}
	return assembly, nil
}

// versionUnreferenced refuses to rewrite the lines of an assembly version
// that builds or inventory lots already point at
func versionUnreferenced(ctx context.Context, tx repositories.Store, assembly *entities.Part) error {
	builds, err := tx.ListBuilds(ctx)
	if err != nil {
		return err
	}
	for _, b := range builds {
		if b.PartID == assembly.ID && b.PartVersion == assembly.Version {
			return fmt.Errorf("%w: %s version %d is referenced by build %d; import with up-rev",
				entities.ErrInvalidInput, assembly.PartNumber, assembly.Version, b.ID)
		}
	}
	lots, err := tx.ListInventoryLots(ctx, assembly.ID)
	if err != nil {
		return err
	}
	for _, lot := range lots {
		if lot.PartVersion == assembly.Version {
			return fmt.Errorf("%w: %s version %d is referenced by inventory lot %d; import with up-rev",
				entities.ErrInvalidInput, assembly.PartNumber, assembly.Version, lot.ID)
		}
	}
	return nil
}

// resolveComponent returns the part a schematic line stands for and the
// line quantity per assembly
func (s *BOMImportService) resolveComponent(ctx context.Context, tx repositories.Store, line schematic.Line, opts ImportOptions, result *BOMImportResult) (*entities.Part, entities.Quantity, error) {
	lib := line.Library
	multiplier := lib.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}

	if lib.Alias != "" {
		alias, err := tx.FindPartByNumber(ctx, lib.Alias)
		if isNotFound(err) {
			return nil, 0, fmt.Errorf("%w: alias %s does not exist", entities.ErrInvalidInput, lib.Alias)
		}
		if err != nil {
			return nil, 0, err
		}
		return alias, multiplier * alias.MultiplierQuantity, nil
	}

	if !lib.Found || strings.TrimSpace(lib.MPN) == "" {
		return nil, 0, fmt.Errorf("%w: manufacturer part number must be set", entities.ErrInvalidInput)
	}

	pn := entities.PartNumber(line.ComponentKey)
	part, err := tx.FindPartByNumber(ctx, pn)
	if isNotFound(err) {
		part, err = entities.NewPart(pn, lib.MPN, lib.Description, multiplier)
		if err != nil {
			return nil, 0, err
		}
		if err := tx.CreatePart(ctx, part); err != nil {
			return nil, 0, err
		}
		result.CreatedParts = append(result.CreatedParts, pn)
		return part, line.Placements * part.MultiplierQuantity, nil
	}
	if err != nil {
		return nil, 0, err
	}

	if part.ManufacturerPartNumber != strings.TrimSpace(lib.MPN) || part.Description != lib.Description || part.MultiplierQuantity != multiplier {
		if !opts.UpdateParts {
			result.DivergentParts = append(result.DivergentParts, pn)
		} else {
			part.ManufacturerPartNumber = strings.TrimSpace(lib.MPN)
			part.Description = lib.Description
			part.MultiplierQuantity = multiplier
			if err := tx.UpdatePart(ctx, part); err != nil {
				return nil, 0, err
			}
			result.UpdatedParts = append(result.UpdatedParts, pn)
		}
	}
	return part, line.Placements * part.MultiplierQuantity, nil
}

// Show resolves the lines of one assembly version. A nil version means the
// part's current version.
func (s *BOMImportService) Show(ctx context.Context, pn entities.PartNumber, version *int) (*dto.BOMView, error) {
	var view *dto.BOMView
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		part, err := tx.FindPartByNumber(ctx, pn)
		if err != nil {
			return err
		}
		ver := part.Version
		if version != nil {
			ver = *version
		}
		if !part.HasVersion(ver) {
			return fmt.Errorf("%s version %d: %w", pn, ver, entities.ErrNotFound)
		}
		lines, err := tx.ListBOMLines(ctx, part.ID, ver)
		if err != nil {
			return err
		}

		view = &dto.BOMView{PartNumber: part.PartNumber, Description: part.Description, Version: ver}
		for _, line := range lines {
			component, err := tx.GetPart(ctx, line.ComponentPartID)
			if err != nil {
				return inconsistentLine(line, err)
			}
			onHand, err := onHandOf(ctx, tx, component.ID)
			if err != nil {
				return err
			}
			view.Lines = append(view.Lines, dto.BOMViewLine{
				Quantity:               line.Quantity,
				ReferenceDesignator:    line.ReferenceDesignator,
				PartNumber:             component.PartNumber,
				ManufacturerPartNumber: component.ManufacturerPartNumber,
				Description:            component.Description,
				Version:                component.Version,
				NoStuff:                line.NoStuff,
				OnHand:                 onHand,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func onHandOf(ctx context.Context, repo repositories.InventoryRepository, partID int64) (entities.Quantity, error) {
	lots, err := repo.ListInventoryLots(ctx, partID)
	if err != nil {
		return 0, err
	}
	var total entities.Quantity
	for _, lot := range lots {
		total += lot.QuantityOnHand
	}
	return total, nil
}

func inconsistentLine(line *entities.BOMLine, err error) error {
	return fmt.Errorf("%w: BOM line %d: component %d: %w", entities.ErrInconsistent, line.ID, line.ComponentPartID, err)
}
