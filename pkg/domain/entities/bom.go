package entities

import "strings"

// BOMLine states that one unit of an assembly version needs Quantity of a component
type BOMLine struct {
	ID                  int64
	BOMPartID           int64
	BOMVersion          int
	ComponentPartID     int64
	Quantity            Quantity
	ReferenceDesignator string
	NoStuff             bool
}

// NewBOMLine creates a validated BOMLine
func NewBOMLine(bomPartID int64, bomVersion int, componentPartID int64, quantity Quantity, refdes string, noStuff bool) (*BOMLine, error) {
	if bomPartID <= 0 {
		return nil, invalid("bom part id must be positive, got %d", bomPartID)
	}
	if componentPartID <= 0 {
		return nil, invalid("component part id must be positive, got %d", componentPartID)
	}
	if bomPartID == componentPartID {
		return nil, invalid("part %d cannot list itself as a component", bomPartID)
	}
	if bomVersion < 1 {
		return nil, invalid("bom version must be at least 1, got %d", bomVersion)
	}
	if quantity <= 0 {
		return nil, invalid("quantity must be positive, got %d", quantity)
	}

	return &BOMLine{
		BOMPartID:           bomPartID,
		BOMVersion:          bomVersion,
		ComponentPartID:     componentPartID,
		Quantity:            quantity,
		ReferenceDesignator: strings.TrimSpace(refdes),
		NoStuff:             noStuff,
	}, nil
}

// ComponentRequirement is one merged entry of an exploded bill of materials
type ComponentRequirement struct {
	ComponentPartID      int64
	PerUnitQuantity      Quantity
	NoStuff              bool
	ReferenceDesignators string
}
