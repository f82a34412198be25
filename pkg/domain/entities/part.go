package entities

import (
	"strings"
	"time"
)

// PartNumber represents the organisation's unique part identifier
type PartNumber string

// Quantity represents an integer quantity value for discrete manufacturing units
type Quantity int64

// Part is a catalog entry. A part with a bill of materials is an assembly.
type Part struct {
	ID                     int64
	PartNumber             PartNumber
	ManufacturerPartNumber string
	Description            string
	Version                int
	MultiplierQuantity     Quantity
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewPart creates a validated Part at version 1
func NewPart(partNumber PartNumber, mpn, description string, multiplier Quantity) (*Part, error) {
	p := &Part{
		PartNumber:             PartNumber(strings.TrimSpace(string(partNumber))),
		ManufacturerPartNumber: strings.TrimSpace(mpn),
		Description:            description,
		Version:                1,
		MultiplierQuantity:     multiplier,
	}
	if p.MultiplierQuantity == 0 {
		p.MultiplierQuantity = 1
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the field invariants of a part
func (p *Part) Validate() error {
	if p.PartNumber == "" {
		return invalid("part number cannot be empty")
	}
	if p.ManufacturerPartNumber == "" {
		return invalid("manufacturer part number cannot be empty for %s", p.PartNumber)
	}
	if p.Version < 1 {
		return invalid("version must be at least 1, got %d", p.Version)
	}
	if p.MultiplierQuantity < 1 {
		return invalid("multiplier quantity must be positive, got %d", p.MultiplierQuantity)
	}
	return nil
}

// HasVersion reports whether v names an existing revision of the part
func (p *Part) HasVersion(v int) bool {
	return v >= 1 && v <= p.Version
}

// Revise moves the part to its next version and returns it
func (p *Part) Revise() int {
	p.Version++
	return p.Version
}
