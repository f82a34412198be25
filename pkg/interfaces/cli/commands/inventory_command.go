package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/application/services/inventory"
	"github.com/vsinha/partsmrp/pkg/application/services/mrp"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/partsmrp/pkg/interfaces/cli/output"
)

// InventoryCommand receives stock and reports shortages
type InventoryCommand struct {
	env       Env
	inventory *inventory.Service
	shortages *mrp.ShortageService
	loader    *csv.Loader
}

// NewInventoryCommand creates the inventory command
func NewInventoryCommand(env Env, inv *inventory.Service, shortages *mrp.ShortageService, loader *csv.Loader) *InventoryCommand {
	return &InventoryCommand{env: env, inventory: inv, shortages: shortages, loader: loader}
}

func (c *InventoryCommand) Name() string    { return "inventory" }
func (c *InventoryCommand) Summary() string { return "receive, correct and export stock; report shortages" }

// Execute runs an inventory subcommand
func (c *InventoryCommand) Execute(ctx context.Context, args []string) error {
	return dispatch(ctx, c.env.Out, c.Name(), map[string]verb{
		"list":      {"list stock lots [--all]", c.list},
		"add":       {"add one lot: --pn --qty [--price] [--notes]", c.add},
		"import":    {"receive lots from a mpn,quantity,notes,unit_price CSV: <file>", c.importCSV},
		"update":    {"apply an edited inventory export: <file>", c.update},
		"export":    {"export every lot for editing [--output]", c.export},
		"shortages": {"report component shortages of open builds [--all]", c.shortagesReport},
	}, args)
}

func (c *InventoryCommand) list(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "inventory list")
	all := fs.Bool("all", false, "Include emptied lots")
	format := fs.String("format", "text", "Output format: text, json, csv, xlsx")
	out := fs.String("output", "", "Write to file instead of stdout")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	lots, err := c.inventory.List(ctx, *all)
	if err != nil {
		return fmt.Errorf("failed to list inventory: %w", err)
	}
	return printTo(c.env.Out, *format, *out, func(p *output.Printer) error { return p.Lots(lots) })
}

func (c *InventoryCommand) add(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "inventory add")
	pn := fs.String("pn", "", "Part number")
	qty := fs.Int64("qty", 0, "Quantity")
	price := fs.String("price", "", "Unit price (empty: unpriced)")
	notes := fs.String("notes", "", "Notes")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	unitPrice, err := parsePrice(*price)
	if err != nil {
		return err
	}
	lot, err := c.inventory.Adjust(ctx, partNumber(*pn), entities.Quantity(*qty), unitPrice, *notes)
	if err != nil {
		return fmt.Errorf("failed to add inventory: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Created lot %d: %d x %s\n", lot.ID, lot.QuantityOnHand, *pn)
	return nil
}

func (c *InventoryCommand) importCSV(ctx context.Context, args []string) error {
	rest, err := parse(newFlagSet(c.env.Out, "inventory import"), args, 1)
	if err != nil {
		return err
	}
	records, err := c.loader.LoadNewInventory(rest[0])
	if err != nil {
		return fmt.Errorf("error loading inventory: %w", err)
	}
	result, err := c.inventory.ImportRecords(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to import inventory: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Created %d lots, skipped %d rows without quantity\n", len(result.Lots), result.Skipped)
	return nil
}

func (c *InventoryCommand) update(ctx context.Context, args []string) error {
	rest, err := parse(newFlagSet(c.env.Out, "inventory update"), args, 1)
	if err != nil {
		return err
	}
	entries, err := c.loader.LoadInventoryEntries(rest[0])
	if err != nil {
		return fmt.Errorf("error loading inventory export: %w", err)
	}
	n, err := c.inventory.UpdateFromExport(ctx, entries)
	if err != nil {
		return fmt.Errorf("failed to update inventory: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Updated %d lots\n", n)
	return nil
}

func (c *InventoryCommand) export(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "inventory export")
	format := fs.String("format", "csv", "Output format: csv, json, text, xlsx")
	out := fs.String("output", "", "Write to file instead of stdout")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	entries, err := c.inventory.Export(ctx)
	if err != nil {
		return fmt.Errorf("failed to export inventory: %w", err)
	}
	return printTo(c.env.Out, *format, *out, func(p *output.Printer) error { return p.InventoryEntries(entries) })
}

func (c *InventoryCommand) shortagesReport(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "inventory shortages")
	all := fs.Bool("all", false, "Include components that are not short")
	format := fs.String("format", "text", "Output format: text, json, csv, xlsx")
	out := fs.String("output", "", "Write to file instead of stdout")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	report, err := c.shortages.ComputeShortages(ctx, *all)
	if err != nil {
		return fmt.Errorf("failed to compute shortages: %w", err)
	}
	return printTo(c.env.Out, *format, *out, func(p *output.Printer) error { return p.Shortages(report) })
}

func parsePrice(s string) (decimal.NullDecimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: invalid price %q", entities.ErrInvalidInput, s)
	}
	return decimal.NewNullDecimal(d), nil
}
