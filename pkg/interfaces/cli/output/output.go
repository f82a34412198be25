package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/application/dto"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/infrastructure/repositories/csv"
)

// Format selects how reports are rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unsupported output format: %s", entities.ErrInvalidInput, s)
	}
}

// Extension returns the file extension for the format
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Printer renders reports to a writer in one format
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter creates a printer
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{out: out, format: format}
}

// Parts renders the part catalog
func (p *Printer) Parts(parts []*entities.Part) error {
	t := table{
		title:   "Parts",
		headers: []string{"pn", "mpn", "desc", "ver", "mqty"},
	}
	for _, part := range parts {
		t.rows = append(t.rows, []string{
			string(part.PartNumber), part.ManufacturerPartNumber, part.Description,
			strconv.Itoa(part.Version), qty(part.MultiplierQuantity),
		})
	}
	return p.render(t, parts)
}

// BOM renders one assembly version
func (p *Printer) BOM(view *dto.BOMView) error {
	t := table{
		title:   fmt.Sprintf("BOM %s v%d", view.PartNumber, view.Version),
		headers: []string{"qty", "refdes", "pn", "mpn", "desc", "ver", "nostuff", "inventory"},
	}
	for _, l := range view.Lines {
		t.rows = append(t.rows, []string{
			qty(l.Quantity), l.ReferenceDesignator, string(l.PartNumber), l.ManufacturerPartNumber,
			l.Description, strconv.Itoa(l.Version), strconv.FormatBool(l.NoStuff), qty(l.OnHand),
		})
	}
	return p.render(t, view)
}

// Lots renders inventory lots
func (p *Printer) Lots(lots []dto.LotView) error {
	t := table{
		title:   "Inventory",
		headers: []string{"id", "pn", "mpn", "desc", "quantity", "consumed", "unit_price", "notes", "ver"},
	}
	for _, l := range lots {
		t.rows = append(t.rows, []string{
			strconv.FormatInt(l.Entry.ID, 10), string(l.PartNumber), l.Entry.ManufacturerPartNumber,
			l.Description, qty(l.Entry.Quantity), qty(l.Entry.Consumed), money(l.Entry.UnitPrice),
			l.Entry.Notes, strconv.Itoa(l.Entry.PartVersion),
		})
	}
	return p.render(t, lots)
}

// InventoryEntries renders an editable inventory export
func (p *Printer) InventoryEntries(entries []dto.InventoryEntry) error {
	if p.format == FormatCSV {
		return csv.WriteInventory(p.out, entries)
	}
	t := table{
		title:   "Inventory",
		headers: []string{"id", "mpn", "quantity", "consumed", "unit_price", "notes", "part_ver", "part_id"},
	}
	for _, e := range entries {
		t.rows = append(t.rows, []string{
			strconv.FormatInt(e.ID, 10), e.ManufacturerPartNumber, qty(e.Quantity), qty(e.Consumed),
			money(e.UnitPrice), e.Notes, strconv.Itoa(e.PartVersion), strconv.FormatInt(e.PartID, 10),
		})
	}
	return p.render(t, entries)
}

// Shortages renders a shortage report
func (p *Printer) Shortages(shortages []entities.Shortage) error {
	if p.format == FormatCSV {
		return csv.WriteShortages(p.out, shortages)
	}
	t := table{
		title:   "⚠️  Shortages",
		headers: []string{"pn", "mpn", "desc", "have", "needed", "short"},
	}
	for _, s := range shortages {
		t.rows = append(t.rows, []string{
			string(s.PartNumber), s.ManufacturerPartNumber, s.Description,
			qty(s.OnHand), qty(s.Needed), qty(s.Short),
		})
	}
	return p.render(t, shortages)
}

// Builds renders builds
func (p *Printer) Builds(builds []dto.BuildView) error {
	t := table{
		title:   "Builds",
		headers: []string{"id", "pn", "ver", "quantity", "status", "cost", "notes"},
	}
	for _, b := range builds {
		t.rows = append(t.rows, []string{
			strconv.FormatInt(b.ID, 10), string(b.PartNumber), strconv.Itoa(b.Version),
			qty(b.Quantity), b.Status, money(b.Cost), b.Notes,
		})
	}
	return p.render(t, builds)
}

// PickList renders the kitting sheet of a build
func (p *Printer) PickList(list *dto.PickList) error {
	if p.format == FormatCSV {
		return csv.WritePickList(p.out, list)
	}
	t := table{
		title:   fmt.Sprintf("Build %d: %d x %s v%d", list.BuildID, list.Quantity, list.PartNumber, list.Version),
		headers: []string{"pn", "mpn", "desc", "quantity_in_stock", "quantity_needed", "checked"},
	}
	for _, r := range list.Rows {
		t.rows = append(t.rows, []string{
			string(r.PartNumber), r.ManufacturerPartNumber, r.Description,
			qty(r.QuantityInStock), qty(r.QuantityNeeded), strconv.FormatBool(r.Checked),
		})
	}
	return p.render(t, list)
}

// Completion renders the outcome of completing a build
func (p *Printer) Completion(summary *entities.CompletionSummary) error {
	t := table{
		title:   fmt.Sprintf("✅ Build %d complete (run %s)", summary.BuildID, summary.RunID),
		headers: []string{"lot", "part", "quantity", "unit_price"},
		footer: []string{
			fmt.Sprintf("Total cost: %s", summary.TotalCost.StringFixed(4)),
			fmt.Sprintf("Unit cost: %s", summary.UnitCost.StringFixed(4)),
			fmt.Sprintf("New lot: %d", summary.NewLotID),
		},
	}
	for _, c := range summary.Consumptions {
		t.rows = append(t.rows, []string{
			strconv.FormatInt(c.LotID, 10), strconv.FormatInt(c.PartID, 10), qty(c.Quantity), money(c.UnitPrice),
		})
	}
	for _, s := range summary.Shortfalls {
		t.footer = append(t.footer, fmt.Sprintf("Short: part %d missing %d", s.PartID, s.Missing))
	}
	if summary.UnpricedQuantity > 0 {
		t.footer = append(t.footer, fmt.Sprintf("Unpriced units consumed: %d", summary.UnpricedQuantity))
	}
	return p.render(t, summary)
}

func (p *Printer) render(t table, value any) error {
	switch p.format {
	case FormatJSON:
		jsonData, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(p.out, string(jsonData))
		return err
	case FormatCSV:
		return t.writeCSV(p.out)
	case FormatXLSX:
		return t.writeXLSX(p.out)
	default:
		return t.writeText(p.out)
	}
}

func qty(q entities.Quantity) string {
	return strconv.FormatInt(int64(q), 10)
}

func money(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String()
}
