package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// Loader reads purchase, stock-take and catalog CSV files. Columns are
// matched by header name; unknown columns are ignored so an exported file
// with extra columns can be fed back in.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

var (
	newInventoryHeader = []string{"mpn", "quantity", "notes", "unit_price"}
	inventoryHeader    = []string{"id", "mpn", "quantity", "consumed", "unit_price", "notes", "part_ver", "part_id"}
	partHeader         = []string{"pn", "mpn", "desc"}
)

// LoadNewInventory loads purchase records from a CSV file
func (l *Loader) LoadNewInventory(filename string) ([]dto.NewInventoryRecord, error) {
	var records []dto.NewInventoryRecord
	err := readFile(filename, func(r io.Reader) error {
		var err error
		records, err = l.ReadNewInventory(r)
		return err
	})
	return records, err
}

// ReadNewInventory parses purchase records. Only mpn is required; a blank
// quantity leaves the record without one.
func (l *Loader) ReadNewInventory(r io.Reader) ([]dto.NewInventoryRecord, error) {
	rows, cols, err := readTable(r, "inventory", newInventoryHeader, "mpn")
	if err != nil {
		return nil, err
	}

	records := make([]dto.NewInventoryRecord, 0, len(rows))
	for i, row := range rows {
		rec := dto.NewInventoryRecord{
			ManufacturerPartNumber: cols.get(row, "mpn"),
			Notes:                  cols.get(row, "notes"),
		}
		if rec.ManufacturerPartNumber == "" {
			return nil, rowError("inventory", i, "mpn is empty")
		}
		if s := cols.get(row, "quantity"); s != "" {
			q, err := parseQuantity(s)
			if err != nil {
				return nil, rowError("inventory", i, "invalid quantity %q", s)
			}
			rec.Quantity = &q
		}
		if rec.UnitPrice, err = parsePrice(cols.get(row, "unit_price")); err != nil {
			return nil, rowError("inventory", i, "invalid unit_price %q", cols.get(row, "unit_price"))
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadInventoryEntries loads an edited inventory export
func (l *Loader) LoadInventoryEntries(filename string) ([]dto.InventoryEntry, error) {
	var entries []dto.InventoryEntry
	err := readFile(filename, func(r io.Reader) error {
		var err error
		entries, err = l.ReadInventoryEntries(r)
		return err
	})
	return entries, err
}

// ReadInventoryEntries parses inventory export rows
func (l *Loader) ReadInventoryEntries(r io.Reader) ([]dto.InventoryEntry, error) {
	rows, cols, err := readTable(r, "inventory export", inventoryHeader, "id", "mpn", "quantity", "consumed")
	if err != nil {
		return nil, err
	}

	entries := make([]dto.InventoryEntry, 0, len(rows))
	for i, row := range rows {
		entry := dto.InventoryEntry{
			ManufacturerPartNumber: cols.get(row, "mpn"),
			Notes:                  cols.get(row, "notes"),
		}
		if entry.ID, err = strconv.ParseInt(cols.get(row, "id"), 10, 64); err != nil {
			return nil, rowError("inventory export", i, "invalid id %q", cols.get(row, "id"))
		}
		if entry.Quantity, err = parseQuantity(cols.get(row, "quantity")); err != nil {
			return nil, rowError("inventory export", i, "invalid quantity %q", cols.get(row, "quantity"))
		}
		if entry.Consumed, err = parseQuantity(cols.get(row, "consumed")); err != nil {
			return nil, rowError("inventory export", i, "invalid consumed %q", cols.get(row, "consumed"))
		}
		if entry.UnitPrice, err = parsePrice(cols.get(row, "unit_price")); err != nil {
			return nil, rowError("inventory export", i, "invalid unit_price %q", cols.get(row, "unit_price"))
		}
		if s := cols.get(row, "part_ver"); s != "" {
			if entry.PartVersion, err = strconv.Atoi(s); err != nil {
				return nil, rowError("inventory export", i, "invalid part_ver %q", s)
			}
		}
		if s := cols.get(row, "part_id"); s != "" {
			if entry.PartID, err = strconv.ParseInt(s, 10, 64); err != nil {
				return nil, rowError("inventory export", i, "invalid part_id %q", s)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadParts loads catalog records from a CSV file
func (l *Loader) LoadParts(filename string) ([]dto.PartRecord, error) {
	var records []dto.PartRecord
	err := readFile(filename, func(r io.Reader) error {
		var err error
		records, err = l.ReadParts(r)
		return err
	})
	return records, err
}

// ReadParts parses catalog records
func (l *Loader) ReadParts(r io.Reader) ([]dto.PartRecord, error) {
	rows, cols, err := readTable(r, "parts", partHeader, partHeader...)
	if err != nil {
		return nil, err
	}

	records := make([]dto.PartRecord, 0, len(rows))
	for i, row := range rows {
		rec := dto.PartRecord{
			PartNumber:             entities.PartNumber(cols.get(row, "pn")),
			ManufacturerPartNumber: cols.get(row, "mpn"),
			Description:            cols.get(row, "desc"),
		}
		if rec.PartNumber == "" {
			return nil, rowError("parts", i, "pn is empty")
		}
		records = append(records, rec)
	}
	return records, nil
}

func readFile(filename string, read func(io.Reader) error) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %w", entities.ErrStorage, filename, err)
	}
	defer file.Close()
	return read(file)
}

// columns maps lower-case header names to their position
type columns map[string]int

func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readTable(r io.Reader, kind string, known []string, required ...string) ([][]string, columns, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read %s CSV: %w", entities.ErrInvalidInput, kind, err)
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("%w: %s CSV must have a header", entities.ErrInvalidInput, kind)
	}

	header := records[0]
	if !validateHeader(header, required) {
		return nil, nil, fmt.Errorf("%w: %s CSV header mismatch. Expected columns: %v, Got: %v",
			entities.ErrInvalidInput, kind, known, header)
	}
	cols := make(columns, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	rows := records[1:]
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, nil, rowError(kind, i, "expected %d columns, got %d", len(header), len(row))
		}
	}
	return rows, cols, nil
}

// validateHeader reports whether every required column is present
func validateHeader(actual, required []string) bool {
	present := make(map[string]bool, len(actual))
	for _, col := range actual {
		present[strings.ToLower(strings.TrimSpace(col))] = true
	}
	for _, col := range required {
		if !present[col] {
			return false
		}
	}
	return true
}

// rowError numbers data rows from 2 so messages match spreadsheet rows
func rowError(kind string, index int, format string, args ...any) error {
	return fmt.Errorf("%w: %s CSV row %d: %s", entities.ErrInvalidInput, kind, index+2, fmt.Sprintf(format, args...))
}

func parseQuantity(s string) (entities.Quantity, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return entities.Quantity(n), nil
}

func parsePrice(s string) (decimal.NullDecimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
