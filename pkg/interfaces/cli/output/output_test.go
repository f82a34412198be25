package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

func sampleShortages() []entities.Shortage {
	return []entities.Shortage{
		{PartID: 2, PartNumber: "B", ManufacturerPartNumber: "MPN-B", Description: "buffer", OnHand: 5, Needed: 6, Short: 1},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"", FormatText, false},
		{"JSON", FormatJSON, false},
		{" csv ", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.expected {
			t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestShortages_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText).Shortages(sampleShortages()); err != nil {
		t.Fatalf("Shortages failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Shortages", "pn", "MPN-B", "buffer"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestShortages_EmptyText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText).Shortages(nil); err != nil {
		t.Fatalf("Shortages failed: %v", err)
	}
	if !strings.Contains(buf.String(), "(none)") {
		t.Errorf("Expected empty marker, got:\n%s", buf.String())
	}
}

func TestShortages_CSVIsReimportable(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatCSV).Shortages(sampleShortages()); err != nil {
		t.Fatalf("Shortages failed: %v", err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != "pid,pn,mpn,desc,have,needed,short,quantity,notes,unit_price" {
		t.Errorf("Unexpected header %q", first)
	}
}

func TestBuilds_JSON(t *testing.T) {
	var buf bytes.Buffer
	builds := []dto.BuildView{{ID: 1, PartNumber: "A", Version: 1, Quantity: 3, Status: "complete",
		Cost: decimal.NewNullDecimal(decimal.RequireFromString("3.1"))}}
	if err := NewPrinter(&buf, FormatJSON).Builds(builds); err != nil {
		t.Fatalf("Builds failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0]["Status"] != "complete" {
		t.Errorf("Unexpected JSON %s", buf.String())
	}
}

func TestPickList_XLSX(t *testing.T) {
	var buf bytes.Buffer
	list := &dto.PickList{BuildID: 7, PartNumber: "A", Version: 1, Quantity: 3, Rows: []dto.PickListRow{
		{PartNumber: "B", ManufacturerPartNumber: "MPN-B", Description: "buffer", QuantityInStock: 5, QuantityNeeded: 6},
	}}
	if err := NewPrinter(&buf, FormatXLSX).PickList(list); err != nil {
		t.Fatalf("PickList failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Expected readable workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 {
		t.Fatalf("Expected 1 sheet, got %v", sheets)
	}
	if active := f.GetActiveSheetIndex(); active != 0 {
		t.Errorf("Expected the only sheet to be active, got index %d", active)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "pn" || rows[1][0] != "B" || rows[1][4] != "6" {
		t.Errorf("Unexpected rows %v", rows)
	}
}

func TestPickListFilename(t *testing.T) {
	list := &dto.PickList{BuildID: 7, PartNumber: "Sensor Board", Version: 2}
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	got := PickListFilename(list, at, FormatCSV)
	want := "sensor-board-v2-build-7-20240102t150405z.csv"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestSheetName(t *testing.T) {
	if got := sheetName("⚠️  Shortages"); got != "Shortages" {
		t.Errorf("Expected Shortages, got %q", got)
	}
	if got := sheetName("Build 7: 3 x A v1"); got != "Build 7 3 x A v1" {
		t.Errorf("Unexpected sheet name %q", got)
	}
}
