package csv

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

func TestReadNewInventory(t *testing.T) {
	input := `mpn,quantity,notes,unit_price
RC0402-10K,100,reel,0.012
GRM155, ,,
LM358, 5 ,tube,$1.25
`
	records, err := NewLoader().ReadNewInventory(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadNewInventory failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	if records[0].Quantity == nil || *records[0].Quantity != 100 || records[0].Notes != "reel" {
		t.Errorf("Unexpected first record %+v", records[0])
	}
	if !records[0].UnitPrice.Valid || !records[0].UnitPrice.Decimal.Equal(decimal.RequireFromString("0.012")) {
		t.Errorf("Expected exact price 0.012, got %v", records[0].UnitPrice)
	}
	if records[1].Quantity != nil || records[1].UnitPrice.Valid {
		t.Errorf("Expected record without quantity or price, got %+v", records[1])
	}
	if *records[2].Quantity != 5 || !records[2].UnitPrice.Decimal.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("Unexpected third record %+v", records[2])
	}
}

func TestReadNewInventory_AcceptsShortageExport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteShortages(&buf, []entities.Shortage{{PartID: 2, PartNumber: "B", ManufacturerPartNumber: "MPN-B", OnHand: 5, Needed: 6, Short: 1}})
	if err != nil {
		t.Fatalf("WriteShortages failed: %v", err)
	}

	records, err := NewLoader().ReadNewInventory(&buf)
	if err != nil {
		t.Fatalf("ReadNewInventory failed: %v", err)
	}
	if len(records) != 1 || records[0].ManufacturerPartNumber != "MPN-B" || records[0].Quantity != nil {
		t.Errorf("Expected blank purchase record for MPN-B, got %+v", records)
	}
}

func TestReadNewInventory_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing mpn column", "quantity,notes\n1,x\n"},
		{"bad quantity", "mpn,quantity\nX,ten\n"},
		{"bad price", "mpn,quantity,unit_price\nX,1,cheap\n"},
		{"empty mpn", "mpn,quantity\n,1\n"},
		{"ragged row", "mpn,quantity\nX,1,extra\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().ReadNewInventory(strings.NewReader(tt.input))
			if !errors.Is(err, entities.ErrInvalidInput) {
				t.Errorf("Expected invalid input, got %v", err)
			}
		})
	}
}

func TestInventoryExportRoundTrip(t *testing.T) {
	entries := []dto.InventoryEntry{
		{ID: 1, ManufacturerPartNumber: "MPN-A", Quantity: 3, Consumed: 2, UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString("0.3333")), Notes: "a, quoted", PartVersion: 1, PartID: 7},
		{ID: 2, ManufacturerPartNumber: "MPN-B", Quantity: 0, PartVersion: 2, PartID: 8},
	}

	var buf bytes.Buffer
	if err := WriteInventory(&buf, entries); err != nil {
		t.Fatalf("WriteInventory failed: %v", err)
	}
	got, err := NewLoader().ReadInventoryEntries(&buf)
	if err != nil {
		t.Fatalf("ReadInventoryEntries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].Notes != "a, quoted" || !got[0].UnitPrice.Decimal.Equal(entries[0].UnitPrice.Decimal) || got[0].PartID != 7 {
		t.Errorf("Expected first entry to survive, got %+v", got[0])
	}
	if got[1].UnitPrice.Valid || got[1].PartVersion != 2 {
		t.Errorf("Expected unpriced v2 entry, got %+v", got[1])
	}
}

func TestLoadParts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.csv")
	content := "pn,mpn,desc\nR-10K,RC0402-10K,10k resistor\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	records, err := NewLoader().LoadParts(path)
	if err != nil {
		t.Fatalf("LoadParts failed: %v", err)
	}
	if len(records) != 1 || records[0].PartNumber != "R-10K" || records[0].Description != "10k resistor" {
		t.Errorf("Unexpected records %+v", records)
	}

	if _, err := NewLoader().LoadParts(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, entities.ErrStorage) {
		t.Errorf("Expected storage error for missing file, got %v", err)
	}
}

func TestWritePickList(t *testing.T) {
	var buf bytes.Buffer
	list := &dto.PickList{Rows: []dto.PickListRow{{PartNumber: "B", ManufacturerPartNumber: "MPN-B", Description: "b", QuantityInStock: 5, QuantityNeeded: 6}}}
	if err := WritePickList(&buf, list); err != nil {
		t.Fatalf("WritePickList failed: %v", err)
	}
	want := "pn,mpn,desc,quantity_in_stock,quantity_needed,checked\nB,MPN-B,b,5,6,false\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}
