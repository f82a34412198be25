package catalog

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	testhelpers "github.com/vsinha/partsmrp/pkg/application/services/testing"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/infrastructure/events"
)

func TestPartService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	f := testhelpers.NewFixture()
	bus := events.NewBus(zap.NewNop())
	svc := NewPartService(f.Store, bus, zap.NewNop())

	part, err := svc.Create(ctx, PartInput{PartNumber: " CAP-100N ", ManufacturerPartNumber: "GRM155", Description: "100nF 0402"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if part.PartNumber != "CAP-100N" || part.Version != 1 || part.MultiplierQuantity != 1 {
		t.Errorf("Expected trimmed part at v1 with multiplier 1, got %+v", part)
	}

	got, err := svc.Get(ctx, "CAP-100N")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != part.ID {
		t.Errorf("Expected id %d, got %d", part.ID, got.ID)
	}

	if n := len(bus.ReadEvents(events.PartStream(part.ID), 1)); n != 1 {
		t.Errorf("Expected 1 part event, got %d", n)
	}
}

func TestPartService_CreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	f := testhelpers.NewFixture()
	svc := NewPartService(f.Store, nil, zap.NewNop())

	if _, err := svc.Create(ctx, PartInput{PartNumber: "R1K", ManufacturerPartNumber: "RC0402-1K", Description: "1k"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := svc.Create(ctx, PartInput{PartNumber: "R1K", ManufacturerPartNumber: "OTHER", Description: "1k"})
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected invalid input for duplicate pn, got %v", err)
	}
	_, err = svc.Create(ctx, PartInput{PartNumber: "R1K-B", ManufacturerPartNumber: "RC0402-1K", Description: "1k"})
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected invalid input for duplicate mpn, got %v", err)
	}
	_, err = svc.Create(ctx, PartInput{PartNumber: "R2K", Description: "2k"})
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected invalid input for missing mpn, got %v", err)
	}
}

func TestPartService_UpdateRenameRevise(t *testing.T) {
	ctx := context.Background()
	f := testhelpers.NewFixture()
	svc := NewPartService(f.Store, nil, zap.NewNop())
	f.Part("U1")

	updated, err := svc.Update(ctx, "U1", PartInput{Description: "MCU", Multiplier: 2})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Description != "MCU" || updated.MultiplierQuantity != 2 || updated.ManufacturerPartNumber != "MPN-U1" {
		t.Errorf("Expected description and multiplier changed only, got %+v", updated)
	}
	if updated.Version != 1 {
		t.Errorf("Expected update to keep version 1, got %d", updated.Version)
	}

	renamed, err := svc.Rename(ctx, "U1", "MCU-1")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if renamed.PartNumber != "MCU-1" {
		t.Errorf("Expected MCU-1, got %s", renamed.PartNumber)
	}
	if _, err := svc.Get(ctx, "U1"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected old number to be gone, got %v", err)
	}

	revised, err := svc.Revise(ctx, "MCU-1")
	if err != nil {
		t.Fatalf("Revise failed: %v", err)
	}
	if revised.Version != 2 {
		t.Errorf("Expected version 2, got %d", revised.Version)
	}

	if _, err := svc.Revise(ctx, "MISSING"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestPartService_DeleteRefusesReferencedParts(t *testing.T) {
	ctx := context.Background()
	f := testhelpers.NewFixture()
	svc := NewPartService(f.Store, nil, zap.NewNop())
	f.Line("BOARD", "RES", 1, "R1", false)
	f.Lot("CAP", 1, "")
	f.Build("BOARD", 1)
	f.Part("SPARE")

	for _, pn := range []entities.PartNumber{"RES", "CAP", "BOARD"} {
		if err := svc.Delete(ctx, pn); !errors.Is(err, entities.ErrInvalidInput) {
			t.Errorf("Expected delete of %s to be refused, got %v", pn, err)
		}
	}

	if err := svc.Delete(ctx, "SPARE"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, "SPARE"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected SPARE to be deleted, got %v", err)
	}
}

func TestPartService_ImportRecords(t *testing.T) {
	ctx := context.Background()
	f := testhelpers.NewFixture()
	svc := NewPartService(f.Store, nil, zap.NewNop())
	f.Part("EXISTING")

	records := []dto.PartRecord{
		{PartNumber: "NEW", ManufacturerPartNumber: "MPN-NEW", Description: "new part"},
		{PartNumber: "EXISTING", ManufacturerPartNumber: "MPN-CHANGED", Description: "changed"},
	}

	result, err := svc.ImportRecords(ctx, records, false)
	if err != nil {
		t.Fatalf("ImportRecords failed: %v", err)
	}
	if len(result.Created) != 1 || len(result.Updated) != 0 {
		t.Errorf("Expected 1 created and 0 updated, got %+v", result)
	}

	result, err = svc.ImportRecords(ctx, records, true)
	if err != nil {
		t.Fatalf("ImportRecords with update failed: %v", err)
	}
	if len(result.Created) != 0 || len(result.Updated) != 1 {
		t.Errorf("Expected 0 created and 1 updated, got %+v", result)
	}
	got, _ := svc.Get(ctx, "EXISTING")
	if got.ManufacturerPartNumber != "MPN-CHANGED" {
		t.Errorf("Expected MPN-CHANGED, got %s", got.ManufacturerPartNumber)
	}
}

func TestPartService_ImportRecordsIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := testhelpers.NewFixture()
	svc := NewPartService(f.Store, nil, zap.NewNop())

	records := []dto.PartRecord{
		{PartNumber: "GOOD", ManufacturerPartNumber: "MPN-GOOD", Description: "ok"},
		{PartNumber: "BAD", Description: "no mpn"},
	}
	if _, err := svc.ImportRecords(ctx, records, false); !errors.Is(err, entities.ErrInvalidInput) {
		t.Fatalf("Expected invalid input, got %v", err)
	}
	if _, err := svc.Get(ctx, "GOOD"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected GOOD to be rolled back, got %v", err)
	}
}
