package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/partsmrp/pkg/mrp"
)

func main() {
	ctx := context.Background()
	engine, store := mrp.NewInMemoryEngine()

	// Board A v1: two B per board, C placed but not fitted
	board, chip, build := setupSensorBoard(ctx, store)

	fmt.Println("🔧 Building 3 sensor boards...")
	printShortages(ctx, engine)

	// A second reel arrives at a higher price
	if err := store.InsertLot(ctx, &mrp.InventoryLot{
		PartID: chip.ID, PartVersion: 1, QuantityOnHand: 2,
		UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString("0.60")),
		Notes:     "second reel",
	}); err != nil {
		fail(err)
	}
	fmt.Println("📦 Received 2 more op-amps")
	printShortages(ctx, engine)

	summary, err := engine.CompleteBuild(ctx, build.ID)
	if err != nil {
		fail(err)
	}

	fmt.Printf("✅ Build %d complete\n", summary.BuildID)
	for _, c := range summary.Consumptions {
		fmt.Printf("  lot %d: %d units @ %s\n", c.LotID, c.Quantity, c.UnitPrice.Decimal.String())
	}
	fmt.Printf("  Total cost: %s\n", summary.TotalCost.StringFixed(2))
	fmt.Printf("  Unit cost:  %s\n", summary.UnitCost.StringFixed(4))

	lots, err := store.ListInventoryLots(ctx, board.ID)
	if err != nil {
		fail(err)
	}
	for _, lot := range lots {
		fmt.Printf("  %s: %d on hand (%s)\n", board.PartNumber, lot.QuantityOnHand, lot.Notes)
	}
}

func setupSensorBoard(ctx context.Context, store *memory.Store) (*mrp.Part, *mrp.Part, *mrp.Build) {
	board := &mrp.Part{PartNumber: "A", ManufacturerPartNumber: "A", Description: "Sensor board", Version: 1, MultiplierQuantity: 1}
	chip := &mrp.Part{PartNumber: "B", ManufacturerPartNumber: "LM358", Description: "Dual op-amp", Version: 1, MultiplierQuantity: 1}
	resistor := &mrp.Part{PartNumber: "C", ManufacturerPartNumber: "RC0402-10K", Description: "10k resistor", Version: 1, MultiplierQuantity: 1}
	for _, p := range []*mrp.Part{board, chip, resistor} {
		if err := store.CreatePart(ctx, p); err != nil {
			fail(err)
		}
	}

	lines := []*mrp.BOMLine{
		{BOMPartID: board.ID, BOMVersion: 1, ComponentPartID: chip.ID, Quantity: 2, ReferenceDesignator: "U1 U2"},
		{BOMPartID: board.ID, BOMVersion: 1, ComponentPartID: resistor.ID, Quantity: 1, ReferenceDesignator: "R1", NoStuff: true},
	}
	for _, l := range lines {
		if err := store.CreateBOMLine(ctx, l); err != nil {
			fail(err)
		}
	}

	if err := store.InsertLot(ctx, &mrp.InventoryLot{
		PartID: chip.ID, PartVersion: 1, QuantityOnHand: 5,
		UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString("0.50")),
		Notes:     "first reel",
	}); err != nil {
		fail(err)
	}

	build := &mrp.Build{PartID: board.ID, PartVersion: 1, Quantity: 3}
	if err := store.CreateBuild(ctx, build); err != nil {
		fail(err)
	}
	return board, chip, build
}

func printShortages(ctx context.Context, engine *mrp.Engine) {
	shortages, err := engine.Shortages(ctx, true)
	if err != nil {
		fail(err)
	}
	for _, s := range shortages {
		marker := "  "
		if s.Short > 0 {
			marker = "⚠️ "
		}
		fmt.Printf("%s%s (%s): have %d, need %d, short %d\n", marker, s.PartNumber, s.ManufacturerPartNumber, s.OnHand, s.Needed, s.Short)
	}
	fmt.Println()
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	os.Exit(1)
}
