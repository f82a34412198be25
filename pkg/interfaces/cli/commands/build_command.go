package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/vsinha/partsmrp/pkg/application/services/builds"
	"github.com/vsinha/partsmrp/pkg/application/services/mrp"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/interfaces/cli/output"
)

// BuildCommand opens, completes and exports builds
type BuildCommand struct {
	env        Env
	builds     *builds.Service
	shortages  *mrp.ShortageService
	completion *mrp.CompletionService
}

// NewBuildCommand creates the build command
func NewBuildCommand(env Env, b *builds.Service, shortages *mrp.ShortageService, completion *mrp.CompletionService) *BuildCommand {
	return &BuildCommand{env: env, builds: b, shortages: shortages, completion: completion}
}

func (c *BuildCommand) Name() string    { return "build" }
func (c *BuildCommand) Summary() string { return "create, complete and export builds" }

// Execute runs a build subcommand
func (c *BuildCommand) Execute(ctx context.Context, args []string) error {
	return dispatch(ctx, c.env.Out, c.Name(), map[string]verb{
		"create":   {"open a build: --pn --qty [--ver] [--notes]", c.create},
		"list":     {"list open builds [--all]", c.list},
		"delete":   {"delete an open build: <id> --yes", c.delete},
		"complete": {"consume stock and receive the assemblies: <id> --yes [--allow-short]", c.complete},
		"export":   {"write the pick list of a build: <id> [--format csv|xlsx] [--dir]", c.export},
	}, args)
}

func (c *BuildCommand) create(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "build create")
	pn := fs.String("pn", "", "Assembly part number")
	ver := fs.Int("ver", 0, "Assembly version (default: current)")
	qty := fs.Int64("qty", 0, "Quantity to build")
	notes := fs.String("notes", "", "Notes")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	build, err := c.builds.Create(ctx, partNumber(*pn), *ver, entities.Quantity(*qty), *notes)
	if err != nil {
		return fmt.Errorf("failed to create build: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Created build %d: %d x %s v%d\n", build.ID, build.Quantity, *pn, build.PartVersion)
	return nil
}

func (c *BuildCommand) list(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "build list")
	all := fs.Bool("all", false, "Include completed builds")
	format := fs.String("format", "text", "Output format: text, json, csv, xlsx")
	out := fs.String("output", "", "Write to file instead of stdout")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	views, err := c.builds.List(ctx, *all)
	if err != nil {
		return fmt.Errorf("failed to list builds: %w", err)
	}
	return printTo(c.env.Out, *format, *out, func(p *output.Printer) error { return p.Builds(views) })
}

func (c *BuildCommand) delete(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "build delete")
	yes := fs.Bool("yes", false, "Confirm deletion")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	id, err := buildID(rest[0])
	if err != nil {
		return err
	}
	if err := requireYes(*yes, "deleting build "+rest[0]); err != nil {
		return err
	}
	if err := c.builds.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete build: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Deleted build %d\n", id)
	return nil
}

func (c *BuildCommand) complete(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "build complete")
	yes := fs.Bool("yes", false, "Confirm completion")
	allowShort := fs.Bool("allow-short", false, "Complete even when components are short")
	format := fs.String("format", "text", "Output format: text, json")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	id, err := buildID(rest[0])
	if err != nil {
		return err
	}

	short, err := c.shortages.ComputeBuildShortages(ctx, id, false)
	if err != nil {
		return fmt.Errorf("failed to check shortages: %w", err)
	}
	if len(short) > 0 && !*allowShort {
		if err := printTo(c.env.Out, "text", "", func(p *output.Printer) error { return p.Shortages(short) }); err != nil {
			return err
		}
		return fmt.Errorf("%w: build %d is short %d components (use --allow-short)", entities.ErrInvalidInput, id, len(short))
	}
	if err := requireYes(*yes, "completing build "+rest[0]); err != nil {
		return err
	}

	summary, err := c.completion.CompleteBuild(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to complete build: %w", err)
	}
	return printTo(c.env.Out, *format, "", func(p *output.Printer) error { return p.Completion(summary) })
}

func (c *BuildCommand) export(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "build export")
	format := fs.String("format", "csv", "Output format: csv, xlsx")
	dir := fs.String("dir", ".", "Directory for the exported file")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	id, err := buildID(rest[0])
	if err != nil {
		return err
	}
	f, err := output.ParseFormat(*format)
	if err != nil {
		return err
	}

	list, err := c.builds.PickList(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to export build: %w", err)
	}
	path := filepath.Join(*dir, output.PickListFilename(list, c.env.now(), f))
	if err := printTo(c.env.Out, string(f), path, func(p *output.Printer) error { return p.PickList(list) }); err != nil {
		return err
	}
	fmt.Fprintf(c.env.Out, "Exported build %d to %s\n", id, path)
	return nil
}

func buildID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid build id %q", entities.ErrInvalidInput, s)
	}
	return id, nil
}
