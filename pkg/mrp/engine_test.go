package mrp

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/infrastructure/repositories/memory"
)

func seedBoard(t *testing.T, store *memory.Store) (*Part, *Part, *Build) {
	t.Helper()
	ctx := context.Background()

	assy := &Part{PartNumber: "A", ManufacturerPartNumber: "MPN-A", Description: "board", Version: 1, MultiplierQuantity: 1}
	comp := &Part{PartNumber: "B", ManufacturerPartNumber: "MPN-B", Description: "chip", Version: 1, MultiplierQuantity: 1}
	for _, p := range []*Part{assy, comp} {
		if err := store.CreatePart(ctx, p); err != nil {
			t.Fatalf("CreatePart failed: %v", err)
		}
	}
	if err := store.CreateBOMLine(ctx, &BOMLine{BOMPartID: assy.ID, BOMVersion: 1, ComponentPartID: comp.ID, Quantity: 2, ReferenceDesignator: "U1"}); err != nil {
		t.Fatalf("CreateBOMLine failed: %v", err)
	}
	lot := &InventoryLot{PartID: comp.ID, PartVersion: 1, QuantityOnHand: 5, UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString("0.50"))}
	if err := store.InsertLot(ctx, lot); err != nil {
		t.Fatalf("InsertLot failed: %v", err)
	}
	build := &Build{PartID: assy.ID, PartVersion: 1, Quantity: 2}
	if err := store.CreateBuild(ctx, build); err != nil {
		t.Fatalf("CreateBuild failed: %v", err)
	}
	return assy, comp, build
}

func TestEngine_EndToEnd(t *testing.T) {
	ctx := context.Background()
	engine, store := NewInMemoryEngine()
	assy, comp, build := seedBoard(t, store)

	reqs, err := engine.Explode(ctx, assy.ID, 1)
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}
	if len(reqs) != 1 || reqs[0].ComponentPartID != comp.ID || reqs[0].PerUnitQuantity != 2 {
		t.Errorf("Expected 2 x B per unit, got %+v", reqs)
	}

	shortages, err := engine.Shortages(ctx, true)
	if err != nil {
		t.Fatalf("Shortages failed: %v", err)
	}
	if len(shortages) != 1 || shortages[0].Needed != 4 || shortages[0].Short != 0 {
		t.Errorf("Expected B needed 4 with nothing short, got %+v", shortages)
	}

	summary, err := engine.CompleteBuild(ctx, build.ID)
	if err != nil {
		t.Fatalf("CompleteBuild failed: %v", err)
	}
	if !summary.TotalCost.Equal(decimal.RequireFromString("2")) {
		t.Errorf("Expected total cost 2, got %s", summary.TotalCost)
	}
	if n := len(engine.BuildEvents(build.ID)); n != 2 {
		t.Errorf("Expected consumption and completion events, got %d", n)
	}

	if _, err := engine.CompleteBuild(ctx, build.ID); !errors.Is(err, ErrBuildComplete) {
		t.Errorf("Expected ErrBuildComplete, got %v", err)
	}
	if _, err := engine.BuildShortages(ctx, build.ID, false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected completed build to be rejected, got %v", err)
	}
}
