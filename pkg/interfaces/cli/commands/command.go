package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/interfaces/cli/output"
)

// Command is one top-level CLI verb group
type Command interface {
	Name() string
	Summary() string
	Execute(ctx context.Context, args []string) error
}

// Env carries what every command writes to
type Env struct {
	Out io.Writer
	Now func() time.Time
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Root dispatches to the command named by the first argument
type Root struct {
	commands map[string]Command
	out      io.Writer
}

// NewRoot creates a dispatcher over commands
func NewRoot(out io.Writer, cmds ...Command) *Root {
	r := &Root{commands: make(map[string]Command, len(cmds)), out: out}
	for _, c := range cmds {
		r.commands[c.Name()] = c
	}
	return r
}

// Execute runs the command named by args[0]
func (r *Root) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		r.showHelp()
		return nil
	}
	cmd, ok := r.commands[args[0]]
	if !ok {
		r.showHelp()
		return fmt.Errorf("%w: unknown command %q", entities.ErrInvalidInput, args[0])
	}
	err := cmd.Execute(ctx, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func (r *Root) showHelp() {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(r.out, "partsmrp - parts, BOMs, inventory and builds")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Usage: partsmrp <command> <subcommand> [flags]")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Commands:")
	for _, name := range names {
		fmt.Fprintf(r.out, "  %-12s %s\n", name, r.commands[name].Summary())
	}
}

// verb is one subcommand of a group
type verb struct {
	summary string
	run     func(ctx context.Context, args []string) error
}

// dispatch runs the verb named by args[0]
func dispatch(ctx context.Context, out io.Writer, group string, verbs map[string]verb, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		showVerbs(out, group, verbs)
		return nil
	}
	v, ok := verbs[args[0]]
	if !ok {
		showVerbs(out, group, verbs)
		return fmt.Errorf("%w: unknown %s subcommand %q", entities.ErrInvalidInput, group, args[0])
	}
	return v.run(ctx, args[1:])
}

func showVerbs(out io.Writer, group string, verbs map[string]verb) {
	names := make([]string, 0, len(verbs))
	for name := range verbs {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "Usage: partsmrp %s <subcommand> [flags]\n\n", group)
	for _, name := range names {
		fmt.Fprintf(out, "  %-10s %s\n", name, verbs[name].summary)
	}
}

func newFlagSet(out io.Writer, name string) *flag.FlagSet {
	fs := flag.NewFlagSet("partsmrp "+name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// parse parses flags and returns the positional arguments. Flags may follow
// positional arguments.
func parse(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", entities.ErrInvalidInput, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		rest = append(rest, args[0])
		args = args[1:]
	}
	if len(rest) != positional {
		return nil, fmt.Errorf("%w: %s expects %d argument(s), got %d", entities.ErrInvalidInput, fs.Name(), positional, len(rest))
	}
	return rest, nil
}

// destination opens path for writing, or returns out when path is empty
func destination(out io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return out, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create %s: %w", entities.ErrStorage, path, err)
	}
	return file, file.Close, nil
}

// printTo renders into path (or out) with the chosen format
func printTo(out io.Writer, format, path string, render func(*output.Printer) error) (err error) {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	if f == output.FormatXLSX && path == "" {
		return fmt.Errorf("%w: xlsx output needs --output", entities.ErrInvalidInput)
	}
	w, closeFn, err := destination(out, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: failed to close %s: %w", entities.ErrStorage, path, cerr)
		}
	}()
	return render(output.NewPrinter(w, f))
}

func requireYes(yes bool, action string) error {
	if !yes {
		return fmt.Errorf("%w: %s needs --yes to confirm", entities.ErrInvalidInput, action)
	}
	return nil
}

func partNumber(s string) entities.PartNumber {
	return entities.PartNumber(strings.TrimSpace(s))
}
