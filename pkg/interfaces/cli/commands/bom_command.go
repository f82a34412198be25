package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/partsmrp/pkg/application/services/catalog"
	"github.com/vsinha/partsmrp/pkg/infrastructure/schematic"
	"github.com/vsinha/partsmrp/pkg/interfaces/cli/output"
)

// BOMCommand imports and shows bills of materials
type BOMCommand struct {
	env         Env
	boms        *catalog.BOMImportService
	libraryName string
}

// NewBOMCommand creates the bom command. libraryName is the schematic
// library holding MPN and description attributes.
func NewBOMCommand(env Env, boms *catalog.BOMImportService, libraryName string) *BOMCommand {
	return &BOMCommand{env: env, boms: boms, libraryName: libraryName}
}

func (c *BOMCommand) Name() string    { return "bom" }
func (c *BOMCommand) Summary() string { return "import schematics and show BOMs" }

// Execute runs a bom subcommand
func (c *BOMCommand) Execute(ctx context.Context, args []string) error {
	return dispatch(ctx, c.env.Out, c.Name(), map[string]verb{
		"import": {"import an Eagle schematic: <file.sch> [--uprev] [--update-parts] [--library]", c.importSchematic},
		"show":   {"show a BOM: <pn> [--ver]", c.show},
	}, args)
}

func (c *BOMCommand) importSchematic(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "bom import")
	upRev := fs.Bool("uprev", false, "Store the lines under a new version of an existing assembly")
	updateParts := fs.Bool("update-parts", false, "Correct components whose library attributes changed")
	library := fs.String("library", c.libraryName, "Schematic library with part attributes")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	design, err := schematic.ParseFile(rest[0], *library)
	if err != nil {
		return fmt.Errorf("error loading schematic: %w", err)
	}
	result, err := c.boms.Import(ctx, design, catalog.ImportOptions{UpRev: *upRev, UpdateParts: *updateParts})
	if err != nil {
		return fmt.Errorf("failed to import BOM: %w", err)
	}

	fmt.Fprintf(c.env.Out, "Imported %s v%d: %d lines, %d new parts\n",
		result.Assembly.PartNumber, result.Version, len(result.Lines), len(result.CreatedParts))
	for _, pn := range result.UpdatedParts {
		fmt.Fprintf(c.env.Out, "  updated %s\n", pn)
	}
	for _, pn := range result.DivergentParts {
		fmt.Fprintf(c.env.Out, "  %s differs from the library (use --update-parts)\n", pn)
	}
	return nil
}

func (c *BOMCommand) show(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "bom show")
	ver := fs.Int("ver", 0, "Version (default: current)")
	format := fs.String("format", "text", "Output format: text, json, csv, xlsx")
	out := fs.String("output", "", "Write to file instead of stdout")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	var version *int
	if *ver != 0 {
		version = ver
	}
	view, err := c.boms.Show(ctx, partNumber(rest[0]), version)
	if err != nil {
		return fmt.Errorf("failed to show BOM: %w", err)
	}
	return printTo(c.env.Out, *format, *out, func(p *output.Printer) error { return p.BOM(view) })
}
