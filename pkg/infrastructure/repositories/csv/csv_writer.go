package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// shortageHeader leaves quantity, notes and unit_price blank so a filled-in
// shortage file can be loaded back as purchase records
var shortageHeader = []string{"pid", "pn", "mpn", "desc", "have", "needed", "short", "quantity", "notes", "unit_price"}

var pickListHeader = []string{"pn", "mpn", "desc", "quantity_in_stock", "quantity_needed", "checked"}

// WriteInventory writes lots in the layout LoadInventoryEntries reads back
func WriteInventory(w io.Writer, entries []dto.InventoryEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.ManufacturerPartNumber,
			qty(e.Quantity),
			qty(e.Consumed),
			price(e.UnitPrice),
			e.Notes,
			strconv.Itoa(e.PartVersion),
			strconv.FormatInt(e.PartID, 10),
		})
	}
	return write(w, "inventory", inventoryHeader, rows)
}

// WriteShortages writes a shortage report
func WriteShortages(w io.Writer, shortages []entities.Shortage) error {
	rows := make([][]string, 0, len(shortages))
	for _, s := range shortages {
		rows = append(rows, []string{
			strconv.FormatInt(s.PartID, 10),
			string(s.PartNumber),
			s.ManufacturerPartNumber,
			s.Description,
			qty(s.OnHand),
			qty(s.Needed),
			qty(s.Short),
			"", "", "",
		})
	}
	return write(w, "shortages", shortageHeader, rows)
}

// WritePickList writes the kitting sheet of a build
func WritePickList(w io.Writer, list *dto.PickList) error {
	rows := make([][]string, 0, len(list.Rows))
	for _, r := range list.Rows {
		rows = append(rows, []string{
			string(r.PartNumber),
			r.ManufacturerPartNumber,
			r.Description,
			qty(r.QuantityInStock),
			qty(r.QuantityNeeded),
			strconv.FormatBool(r.Checked),
		})
	}
	return write(w, "pick list", pickListHeader, rows)
}

func write(w io.Writer, kind string, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("%w: failed to write %s CSV: %w", entities.ErrStorage, kind, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("%w: failed to write %s CSV: %w", entities.ErrStorage, kind, err)
	}
	return nil
}

func qty(q entities.Quantity) string {
	return strconv.FormatInt(int64(q), 10)
}

func price(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}
	return p.Decimal.String()
}
