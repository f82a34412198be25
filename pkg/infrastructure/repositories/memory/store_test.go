package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
)

func mustCreatePart(t *testing.T, s *Store, pn, mpn string) *entities.Part {
	t.Helper()
	part, err := entities.NewPart(entities.PartNumber(pn), mpn, pn+" description", 1)
	if err != nil {
		t.Fatalf("Failed to build part: %v", err)
	}
	if err := s.CreatePart(context.Background(), part); err != nil {
		t.Fatalf("Failed to create part %s: %v", pn, err)
	}
	return part
}

func TestStore_PartLookups(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	b := mustCreatePart(t, s, "B", "MPN-B")
	a := mustCreatePart(t, s, "A", "MPN-A")

	if a.ID != 2 || b.ID != 1 {
		t.Errorf("Expected sequential ids, got A=%d B=%d", a.ID, b.ID)
	}

	got, err := s.FindPartByNumber(ctx, "A")
	if err != nil {
		t.Fatalf("Failed to find part by number: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("Expected part %d, got %d", a.ID, got.ID)
	}

	got, err = s.FindPartByMPN(ctx, "MPN-B")
	if err != nil {
		t.Fatalf("Failed to find part by mpn: %v", err)
	}
	if got.PartNumber != "B" {
		t.Errorf("Expected part B, got %s", got.PartNumber)
	}

	if _, err := s.GetPart(ctx, 99); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	parts, err := s.ListParts(ctx)
	if err != nil {
		t.Fatalf("Failed to list parts: %v", err)
	}
	if len(parts) != 2 || parts[0].PartNumber != "A" {
		t.Errorf("Expected parts ordered by number, got %v", parts)
	}
}

func TestStore_UniquePartNumbers(t *testing.T) {
	s := NewStore()
	mustCreatePart(t, s, "A", "MPN-A")

	dupPN := &entities.Part{PartNumber: "A", ManufacturerPartNumber: "OTHER", Version: 1, MultiplierQuantity: 1}
	if err := s.CreatePart(context.Background(), dupPN); !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for duplicate part number, got %v", err)
	}

	dupMPN := &entities.Part{PartNumber: "Z", ManufacturerPartNumber: "MPN-A", Version: 1, MultiplierQuantity: 1}
	if err := s.CreatePart(context.Background(), dupMPN); !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for duplicate mpn, got %v", err)
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	part := mustCreatePart(t, s, "A", "MPN-A")

	lot, err := entities.NewInventoryLot(part.ID, 1, 5, decimal.NullDecimal{}, "")
	if err != nil {
		t.Fatalf("Failed to build lot: %v", err)
	}
	if err := s.InsertLot(ctx, lot); err != nil {
		t.Fatalf("Failed to insert lot: %v", err)
	}

	lots, _ := s.ListInventoryLots(ctx, part.ID)
	lots[0].QuantityOnHand = 0

	stored, _ := s.GetInventoryLot(ctx, lot.ID)
	if stored.QuantityOnHand != 5 {
		t.Errorf("Expected stored lot to be unchanged, got %d", stored.QuantityOnHand)
	}
}

func TestStore_BOMLines(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	assy := mustCreatePart(t, s, "ASSY", "ASSY")
	r := mustCreatePart(t, s, "R", "MPN-R")

	for _, v := range []int{1, 1, 2} {
		line, err := entities.NewBOMLine(assy.ID, v, r.ID, 1, "R1", false)
		if err != nil {
			t.Fatalf("Failed to build line: %v", err)
		}
		if err := s.CreateBOMLine(ctx, line); err != nil {
			t.Fatalf("Failed to create line: %v", err)
		}
	}

	v1, _ := s.ListBOMLines(ctx, assy.ID, 1)
	if len(v1) != 2 {
		t.Errorf("Expected 2 lines for version 1, got %d", len(v1))
	}
	n, _ := s.CountBOMReferences(ctx, r.ID)
	if n != 3 {
		t.Errorf("Expected 3 references to R, got %d", n)
	}

	if err := s.DeleteBOMLines(ctx, assy.ID, 1); err != nil {
		t.Fatalf("Failed to delete lines: %v", err)
	}
	v1, _ = s.ListBOMLines(ctx, assy.ID, 1)
	if len(v1) != 0 {
		t.Errorf("Expected version 1 to be empty, got %d", len(v1))
	}
	v2, _ := s.ListBOMLines(ctx, assy.ID, 2)
	if len(v2) != 1 {
		t.Errorf("Expected version 2 to keep its line, got %d", len(v2))
	}
}

func TestStore_OpenBuilds(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	part := mustCreatePart(t, s, "ASSY", "ASSY")

	for i := 0; i < 3; i++ {
		b, _ := entities.NewBuild(part.ID, 1, 1, "")
		if err := s.CreateBuild(ctx, b); err != nil {
			t.Fatalf("Failed to create build: %v", err)
		}
	}
	second, _ := s.GetBuild(ctx, 2)
	second.Complete = true
	if err := s.UpdateBuild(ctx, second); err != nil {
		t.Fatalf("Failed to update build: %v", err)
	}

	open, _ := s.ListOpenBuilds(ctx)
	if len(open) != 2 || open[0].ID != 1 || open[1].ID != 3 {
		t.Errorf("Expected open builds 1 and 3, got %v", open)
	}
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	mustCreatePart(t, s, "A", "MPN-A")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx repositories.Store) error {
		p, _ := entities.NewPart("B", "MPN-B", "", 1)
		if err := tx.CreatePart(ctx, p); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected tx error to be returned, got %v", err)
	}

	parts, _ := s.ListParts(ctx)
	if len(parts) != 1 {
		t.Errorf("Expected rollback to leave 1 part, got %d", len(parts))
	}

	p := mustCreatePart(t, s, "C", "MPN-C")
	if p.ID != 2 {
		t.Errorf("Expected rolled back sequence to reuse id 2, got %d", p.ID)
	}
}

func TestStore_FailOn(t *testing.T) {
	s := NewStore()
	s.FailOn("ListOpenBuilds", errors.New("disk gone"))

	if _, err := s.ListOpenBuilds(context.Background()); !errors.Is(err, entities.ErrStorage) {
		t.Errorf("Expected ErrStorage, got %v", err)
	}

	s.FailOn("ListOpenBuilds", nil)
	if _, err := s.ListOpenBuilds(context.Background()); err != nil {
		t.Errorf("Expected fault to be cleared, got %v", err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	const writers = 20

	var wg sync.WaitGroup
	errs := make(chan error, writers*2)
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			err := s.WithinTx(ctx, func(tx repositories.Store) error {
				p, err := entities.NewPart(entities.PartNumber(fmt.Sprintf("P%d", i)), fmt.Sprintf("MPN-%d", i), "", 1)
				if err != nil {
					return err
				}
				return tx.CreatePart(ctx, p)
			})
			errs <- err
		}(i)
		go func() {
			defer wg.Done()
			_, err := s.ListParts(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	}
	parts, _ := s.ListParts(ctx)
	if len(parts) != writers {
		t.Fatalf("Expected %d parts, got %d", writers, len(parts))
	}
	seen := make(map[int64]bool)
	for _, p := range parts {
		if seen[p.ID] {
			t.Errorf("Duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}
