package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/partsmrp/pkg/application/services/catalog"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/partsmrp/pkg/interfaces/cli/output"
)

// PartsCommand maintains the part catalog
type PartsCommand struct {
	env    Env
	parts  *catalog.PartService
	loader *csv.Loader
}

// NewPartsCommand creates the parts command
func NewPartsCommand(env Env, parts *catalog.PartService, loader *csv.Loader) *PartsCommand {
	return &PartsCommand{env: env, parts: parts, loader: loader}
}

func (c *PartsCommand) Name() string    { return "parts" }
func (c *PartsCommand) Summary() string { return "list, create, edit and import parts" }

// Execute runs a parts subcommand
func (c *PartsCommand) Execute(ctx context.Context, args []string) error {
	return dispatch(ctx, c.env.Out, c.Name(), map[string]verb{
		"list":   {"list every part", c.list},
		"create": {"create a part: --pn --mpn --desc [--mqty]", c.create},
		"update": {"correct mpn, description or multiplier: <pn> [--mpn] [--desc] [--mqty]", c.update},
		"rename": {"change a part number: <pn> <new-pn>", c.rename},
		"revise": {"move a part to its next version: <pn>", c.revise},
		"delete": {"delete an unreferenced part: <pn> --yes", c.delete},
		"import": {"create parts from a pn,mpn,desc CSV: <file> [--update]", c.importCSV},
	}, args)
}

func (c *PartsCommand) list(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "parts list")
	format := fs.String("format", "text", "Output format: text, json, csv, xlsx")
	out := fs.String("output", "", "Write to file instead of stdout")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	parts, err := c.parts.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list parts: %w", err)
	}
	return printTo(c.env.Out, *format, *out, func(p *output.Printer) error { return p.Parts(parts) })
}

func (c *PartsCommand) create(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "parts create")
	pn := fs.String("pn", "", "Part number")
	mpn := fs.String("mpn", "", "Manufacturer part number")
	desc := fs.String("desc", "", "Description")
	mqty := fs.Int64("mqty", 1, "Units consumed per placement")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	part, err := c.parts.Create(ctx, catalog.PartInput{
		PartNumber:             partNumber(*pn),
		ManufacturerPartNumber: *mpn,
		Description:            *desc,
		Multiplier:             entities.Quantity(*mqty),
	})
	if err != nil {
		return fmt.Errorf("failed to create part: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Created %s (id %d, v%d)\n", part.PartNumber, part.ID, part.Version)
	return nil
}

func (c *PartsCommand) update(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "parts update")
	mpn := fs.String("mpn", "", "Manufacturer part number")
	desc := fs.String("desc", "", "Description")
	mqty := fs.Int64("mqty", 0, "Units consumed per placement")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	part, err := c.parts.Update(ctx, partNumber(rest[0]), catalog.PartInput{
		ManufacturerPartNumber: *mpn,
		Description:            *desc,
		Multiplier:             entities.Quantity(*mqty),
	})
	if err != nil {
		return fmt.Errorf("failed to update part: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Updated %s\n", part.PartNumber)
	return nil
}

func (c *PartsCommand) rename(ctx context.Context, args []string) error {
	rest, err := parse(newFlagSet(c.env.Out, "parts rename"), args, 2)
	if err != nil {
		return err
	}
	part, err := c.parts.Rename(ctx, partNumber(rest[0]), partNumber(rest[1]))
	if err != nil {
		return fmt.Errorf("failed to rename part: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Renamed %s to %s\n", rest[0], part.PartNumber)
	return nil
}

func (c *PartsCommand) revise(ctx context.Context, args []string) error {
	rest, err := parse(newFlagSet(c.env.Out, "parts revise"), args, 1)
	if err != nil {
		return err
	}
	part, err := c.parts.Revise(ctx, partNumber(rest[0]))
	if err != nil {
		return fmt.Errorf("failed to revise part: %w", err)
	}
	fmt.Fprintf(c.env.Out, "%s is now at version %d\n", part.PartNumber, part.Version)
	return nil
}

func (c *PartsCommand) delete(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "parts delete")
	yes := fs.Bool("yes", false, "Confirm deletion")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if err := requireYes(*yes, "deleting "+rest[0]); err != nil {
		return err
	}
	if err := c.parts.Delete(ctx, partNumber(rest[0])); err != nil {
		return fmt.Errorf("failed to delete part: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Deleted %s\n", rest[0])
	return nil
}

func (c *PartsCommand) importCSV(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "parts import")
	update := fs.Bool("update", false, "Correct mpn and description of existing parts")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	records, err := c.loader.LoadParts(rest[0])
	if err != nil {
		return fmt.Errorf("error loading parts: %w", err)
	}
	result, err := c.parts.ImportRecords(ctx, records, *update)
	if err != nil {
		return fmt.Errorf("failed to import parts: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Created %d parts, updated %d\n", len(result.Created), len(result.Updated))
	return nil
}
