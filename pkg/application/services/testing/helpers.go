package testing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/infrastructure/repositories/memory"
)

// Fixture seeds an in-memory store for service tests. Helpers panic on error.
type Fixture struct {
	Store *memory.Store
	parts map[string]*entities.Part
}

// NewFixture creates a fixture over an empty store
func NewFixture() *Fixture {
	return &Fixture{
		Store: memory.NewStore(),
		parts: make(map[string]*entities.Part),
	}
}

// Part returns the part with the given number, creating it with MPN "MPN-<pn>" on first use
func (f *Fixture) Part(pn string) *entities.Part {
	if p, ok := f.parts[pn]; ok {
		return p
	}
	p, err := entities.NewPart(entities.PartNumber(pn), "MPN-"+pn, pn+" description", 1)
	if err != nil {
		panic(err)
	}
	if err := f.Store.CreatePart(context.Background(), p); err != nil {
		panic(err)
	}
	f.parts[pn] = p
	return p
}

// Line adds a BOM line to version 1 of assembly
func (f *Fixture) Line(assembly, component string, qty entities.Quantity, refdes string, noStuff bool) *entities.BOMLine {
	return f.LineAt(assembly, 1, component, qty, refdes, noStuff)
}

// LineAt adds a BOM line to a specific assembly version
func (f *Fixture) LineAt(assembly string, version int, component string, qty entities.Quantity, refdes string, noStuff bool) *entities.BOMLine {
	line, err := entities.NewBOMLine(f.Part(assembly).ID, version, f.Part(component).ID, qty, refdes, noStuff)
	if err != nil {
		panic(err)
	}
	if err := f.Store.CreateBOMLine(context.Background(), line); err != nil {
		panic(err)
	}
	return line
}

// Lot adds an inventory lot. An empty price leaves the lot unpriced.
func (f *Fixture) Lot(pn string, qty entities.Quantity, price string) *entities.InventoryLot {
	var unitPrice decimal.NullDecimal
	if price != "" {
		unitPrice = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	p := f.Part(pn)
	lot, err := entities.NewInventoryLot(p.ID, p.Version, qty, unitPrice, fmt.Sprintf("lot of %s", pn))
	if err != nil {
		panic(err)
	}
	if err := f.Store.InsertLot(context.Background(), lot); err != nil {
		panic(err)
	}
	return lot
}

// Build opens a build of version 1 of the assembly
func (f *Fixture) Build(pn string, qty entities.Quantity) *entities.Build {
	b, err := entities.NewBuild(f.Part(pn).ID, 1, qty, "")
	if err != nil {
		panic(err)
	}
	if err := f.Store.CreateBuild(context.Background(), b); err != nil {
		panic(err)
	}
	return b
}

// OnHand sums on-hand quantity over every lot of the part
func (f *Fixture) OnHand(pn string) entities.Quantity {
	lots, err := f.Store.ListInventoryLots(context.Background(), f.Part(pn).ID)
	if err != nil {
		panic(err)
	}
	var total entities.Quantity
	for _, l := range lots {
		total += l.QuantityOnHand
	}
	return total
}

// Consumed sums consumed quantity over every lot of the part
func (f *Fixture) Consumed(pn string) entities.Quantity {
	lots, err := f.Store.ListInventoryLots(context.Background(), f.Part(pn).ID)
	if err != nil {
		panic(err)
	}
	var total entities.Quantity
	for _, l := range lots {
		total += l.QuantityConsumed
	}
	return total
}

// BuildBoardScenario seeds assembly A v1 = {B x2, C x1 no-stuff}, one lot of
// B (5 @ 0.50) and an open build of 3 A.
func BuildBoardScenario() (*Fixture, *entities.Build) {
	f := NewFixture()
	f.Line("A", "B", 2, "U1", false)
	f.Line("A", "C", 1, "R1", true)
	f.Lot("B", 5, "0.50")
	return f, f.Build("A", 3)
}
