package mrp

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
)

// BOMSource is the read access explosion needs
type BOMSource interface {
	GetPart(ctx context.Context, id int64) (*entities.Part, error)
	ListBOMLines(ctx context.Context, partID int64, version int) ([]*entities.BOMLine, error)
}

var _ BOMSource = (repositories.Store)(nil)

type mergeKey struct {
	component int64
	noStuff   bool
}

// Explode returns the single-level component requirements for one unit of
// the assembly version. Lines sharing component and no-stuff flag are merged.
// An unknown part or version is ErrNotFound; a known version without lines
// yields an empty result.
func Explode(ctx context.Context, src BOMSource, bomPartID int64, version int) ([]entities.ComponentRequirement, error) {
	part, err := src.GetPart(ctx, bomPartID)
	if err != nil {
		return nil, fmt.Errorf("explode part %d: %w", bomPartID, err)
	}
	if !part.HasVersion(version) {
		return nil, fmt.Errorf("explode %s: version %d: %w", part.PartNumber, version, entities.ErrNotFound)
	}

	lines, err := src.ListBOMLines(ctx, bomPartID, version)
	if err != nil {
		return nil, fmt.Errorf("explode %s v%d: %w", part.PartNumber, version, err)
	}

	merged := make(map[mergeKey]int, len(lines))
	reqs := make([]entities.ComponentRequirement, 0, len(lines))
	for _, line := range lines {
		key := mergeKey{component: line.ComponentPartID, noStuff: line.NoStuff}
		if i, ok := merged[key]; ok {
			reqs[i].PerUnitQuantity += line.Quantity
			reqs[i].ReferenceDesignators = joinDesignators(reqs[i].ReferenceDesignators, line.ReferenceDesignator)
			continue
		}
		merged[key] = len(reqs)
		reqs = append(reqs, entities.ComponentRequirement{
			ComponentPartID:      line.ComponentPartID,
			PerUnitQuantity:      line.Quantity,
			NoStuff:              line.NoStuff,
			ReferenceDesignators: line.ReferenceDesignator,
		})
	}

	slices.SortStableFunc(reqs, func(a, b entities.ComponentRequirement) int {
		if c := strings.Compare(a.ReferenceDesignators, b.ReferenceDesignators); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ComponentPartID, b.ComponentPartID); c != 0 {
			return c
		}
		return cmp.Compare(boolRank(a.NoStuff), boolRank(b.NoStuff))
	})
	return reqs, nil
}

func joinDesignators(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
