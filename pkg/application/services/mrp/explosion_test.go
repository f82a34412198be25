package mrp

import (
	"context"
	"errors"
	"testing"

	testhelpers "github.com/vsinha/partsmrp/pkg/application/services/testing"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

func TestExplode_MergesDuplicateLines(t *testing.T) {
	f := testhelpers.NewFixture()
	f.Line("ASSY", "R10K", 2, "R2", false)
	f.Line("ASSY", "C100N", 1, "C1", false)
	f.Line("ASSY", "R10K", 3, "R5", false)
	f.Line("ASSY", "R10K", 1, "R9", true)

	reqs, err := Explode(context.Background(), f.Store, f.Part("ASSY").ID, 1)
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}
	if len(reqs) != 3 {
		t.Fatalf("Expected 3 requirements, got %d: %+v", len(reqs), reqs)
	}

	seen := make(map[mergeKey]bool)
	for _, r := range reqs {
		key := mergeKey{component: r.ComponentPartID, noStuff: r.NoStuff}
		if seen[key] {
			t.Errorf("Duplicate requirement for %+v", key)
		}
		seen[key] = true
	}

	// sorted by designator: C1, R2 R5, R9
	if reqs[0].ComponentPartID != f.Part("C100N").ID {
		t.Errorf("Expected C100N first, got part %d", reqs[0].ComponentPartID)
	}
	merged := reqs[1]
	if merged.ComponentPartID != f.Part("R10K").ID || merged.NoStuff {
		t.Fatalf("Expected stuffed R10K second, got %+v", merged)
	}
	if merged.PerUnitQuantity != 5 {
		t.Errorf("Expected merged quantity 5, got %d", merged.PerUnitQuantity)
	}
	if merged.ReferenceDesignators != "R2 R5" {
		t.Errorf("Expected designators 'R2 R5', got '%s'", merged.ReferenceDesignators)
	}
	if !reqs[2].NoStuff || reqs[2].PerUnitQuantity != 1 {
		t.Errorf("Expected no-stuff R10K kept separately, got %+v", reqs[2])
	}
}

func TestExplode_NotFoundVersusEmpty(t *testing.T) {
	ctx := context.Background()
	f := testhelpers.NewFixture()
	leaf := f.Part("LEAF")

	reqs, err := Explode(ctx, f.Store, leaf.ID, 1)
	if err != nil {
		t.Fatalf("Expected empty explosion for known part, got %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("Expected no requirements, got %d", len(reqs))
	}

	testCases := []struct {
		name    string
		partID  int64
		version int
	}{
		{"unknown part", 999, 1},
		{"future version", leaf.ID, 2},
		{"version zero", leaf.ID, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Explode(ctx, f.Store, tc.partID, tc.version)
			if !errors.Is(err, entities.ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestExplode_VersionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	f := testhelpers.NewFixture()
	assy := f.Part("ASSY")
	f.LineAt("ASSY", 1, "U1", 1, "U1", false)

	assy.Revise()
	if err := f.Store.UpdatePart(ctx, assy); err != nil {
		t.Fatalf("Failed to revise part: %v", err)
	}
	f.LineAt("ASSY", 2, "U2", 4, "U1", false)

	v1, err := Explode(ctx, f.Store, assy.ID, 1)
	if err != nil {
		t.Fatalf("Explode v1 failed: %v", err)
	}
	v2, err := Explode(ctx, f.Store, assy.ID, 2)
	if err != nil {
		t.Fatalf("Explode v2 failed: %v", err)
	}
	if len(v1) != 1 || v1[0].ComponentPartID != f.Part("U1").ID {
		t.Errorf("Expected v1 to use U1, got %+v", v1)
	}
	if len(v2) != 1 || v2[0].PerUnitQuantity != 4 {
		t.Errorf("Expected v2 to use 4x U2, got %+v", v2)
	}
}

func TestExplode_StorageFailure(t *testing.T) {
	f := testhelpers.NewFixture()
	f.Line("ASSY", "R", 1, "R1", false)
	f.Store.FailOn("ListBOMLines", errors.New("io"))

	_, err := Explode(context.Background(), f.Store, f.Part("ASSY").ID, 1)
	if !errors.Is(err, entities.ErrStorage) {
		t.Errorf("Expected ErrStorage, got %v", err)
	}
}
