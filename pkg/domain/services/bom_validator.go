package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// BOMValidator provides validation for BOM structure integrity
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles            bool
	CyclePaths           [][]int64
	DuplicateDesignators []string
	Errors               []string
}

// Valid reports whether no errors were found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err folds the findings into one invalid input error, or nil
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return fmt.Errorf("%w: %s", entities.ErrInvalidInput, strings.Join(r.Errors, "; "))
}

type bomKey struct {
	partID  int64
	version int
}

// ValidateBOM checks a set of BOM lines spanning any number of assemblies.
// Assemblies may nest, so a component that lists its own ancestor is a cycle.
func (v *BOMValidator) ValidateBOM(bomLines []*entities.BOMLine) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:           make([][]int64, 0),
		DuplicateDesignators: make([]string, 0),
		Errors:               make([]string, 0),
	}

	for _, line := range bomLines {
		if line.Quantity <= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: quantity must be positive, got %d", line.ID, line.Quantity))
		}
		if line.BOMPartID == line.ComponentPartID {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: part %d lists itself", line.ID, line.BOMPartID))
		}
	}

	cycles := v.FindCycles(bomLines)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles
	for _, cycle := range cycles {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
	}

	result.DuplicateDesignators = v.detectDuplicateDesignators(bomLines)
	if len(result.DuplicateDesignators) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("reference designators used more than once: %s",
			strings.Join(result.DuplicateDesignators, ", ")))
	}

	return result
}

// CurrentRevisions keeps the lines of each assembly's current version.
// Superseded revisions are never exploded again, so their edges cannot form
// a cycle that matters.
func CurrentRevisions(bomLines []*entities.BOMLine, current map[int64]int) []*entities.BOMLine {
	kept := make([]*entities.BOMLine, 0, len(bomLines))
	for _, line := range bomLines {
		if version, ok := current[line.BOMPartID]; !ok || version == line.BOMVersion {
			kept = append(kept, line)
		}
	}
	return kept
}

// FindCycles returns the assembly cycles formed by the lines
func (v *BOMValidator) FindCycles(bomLines []*entities.BOMLine) [][]int64 {
	return v.detectCycles(v.buildAdjacencyMap(bomLines))
}

// buildAdjacencyMap creates a map of assembly -> component relationships over all versions
func (v *BOMValidator) buildAdjacencyMap(bomLines []*entities.BOMLine) map[int64][]int64 {
	adjacencyMap := make(map[int64][]int64)
	for _, line := range bomLines {
		if line.BOMPartID == line.ComponentPartID {
			continue
		}
		children := adjacencyMap[line.BOMPartID]
		if !slices.Contains(children, line.ComponentPartID) {
			adjacencyMap[line.BOMPartID] = append(children, line.ComponentPartID)
		}
	}
	return adjacencyMap
}

// detectCycles uses DFS to find cycles in the BOM structure
func (v *BOMValidator) detectCycles(adjacencyMap map[int64][]int64) [][]int64 {
	visited := make(map[int64]bool)
	recursionStack := make(map[int64]bool)
	cycles := make([][]int64, 0)

	roots := make([]int64, 0, len(adjacencyMap))
	for parent := range adjacencyMap {
		roots = append(roots, parent)
	}
	slices.Sort(roots)

	for _, parent := range roots {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}
	return cycles
}

func (v *BOMValidator) dfsDetectCycle(
	current int64,
	adjacencyMap map[int64][]int64,
	visited map[int64]bool,
	recursionStack map[int64]bool,
	path []int64,
	cycles *[][]int64,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[child] {
			continue
		}
		if start := slices.Index(path, child); start != -1 {
			cycle := append(slices.Clone(path[start:]), child)
			*cycles = append(*cycles, cycle)
		}
	}

	recursionStack[current] = false
}

// detectDuplicateDesignators finds designators placed twice within one assembly version
func (v *BOMValidator) detectDuplicateDesignators(bomLines []*entities.BOMLine) []string {
	seen := make(map[bomKey]map[string]bool)
	duplicates := make([]string, 0)

	for _, line := range bomLines {
		key := bomKey{partID: line.BOMPartID, version: line.BOMVersion}
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		for _, name := range strings.Fields(line.ReferenceDesignator) {
			if seen[key][name] {
				duplicates = append(duplicates, fmt.Sprintf("%s (part %d v%d)", name, key.partID, key.version))
				continue
			}
			seen[key][name] = true
		}
	}
	return duplicates
}
