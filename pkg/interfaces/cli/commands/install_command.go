package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/partsmrp/pkg/infrastructure/config"
)

// InstallCommand writes a default configuration file
type InstallCommand struct {
	env Env
	dir string
}

// NewInstallCommand creates the install command writing into dir by default
func NewInstallCommand(env Env, dir string) *InstallCommand {
	return &InstallCommand{env: env, dir: dir}
}

func (c *InstallCommand) Name() string    { return "install" }
func (c *InstallCommand) Summary() string { return "write a default configuration file" }

// Execute writes the config file
func (c *InstallCommand) Execute(ctx context.Context, args []string) error {
	fs := newFlagSet(c.env.Out, "install")
	dir := fs.String("dir", c.dir, "Configuration directory")
	force := fs.Bool("force", false, "Overwrite an existing configuration")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	path, err := config.Install(*dir, *force)
	if err != nil {
		return fmt.Errorf("failed to install configuration: %w", err)
	}
	fmt.Fprintf(c.env.Out, "Wrote %s\n", path)
	return nil
}
