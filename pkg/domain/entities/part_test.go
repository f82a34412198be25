package entities

import (
	"errors"
	"testing"
)

func TestPart_Validation(t *testing.T) {
	part, err := NewPart("PN-100", "RC0603FR-0710KL", "10k resistor", 0)
	if err != nil {
		t.Fatalf("Expected valid part creation to succeed: %v", err)
	}
	if part.Version != 1 {
		t.Errorf("Expected version 1, got %d", part.Version)
	}
	if part.MultiplierQuantity != 1 {
		t.Errorf("Expected default multiplier 1, got %d", part.MultiplierQuantity)
	}

	testCases := []struct {
		name        string
		pn          PartNumber
		mpn         string
		mqty        Quantity
		expectError string
	}{
		{"empty part number", "", "MPN", 1, "invalid input: part number cannot be empty"},
		{"blank part number", "  ", "MPN", 1, "invalid input: part number cannot be empty"},
		{"empty mpn", "PN", "", 1, "invalid input: manufacturer part number cannot be empty for PN"},
		{"negative multiplier", "PN", "MPN", -2, "invalid input: multiplier quantity must be positive, got -2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPart(tc.pn, tc.mpn, "desc", tc.mqty)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPart_Revise(t *testing.T) {
	part, err := NewPart("ASSY", "ASSY", "board", 1)
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}

	if part.HasVersion(2) {
		t.Error("Expected version 2 to be unknown before revising")
	}
	if got := part.Revise(); got != 2 {
		t.Errorf("Expected revised version 2, got %d", got)
	}
	for _, v := range []int{1, 2} {
		if !part.HasVersion(v) {
			t.Errorf("Expected version %d to exist", v)
		}
	}
	if part.HasVersion(0) || part.HasVersion(3) {
		t.Error("Expected versions 0 and 3 to be unknown")
	}
}
