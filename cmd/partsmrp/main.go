package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/vsinha/partsmrp/pkg/app"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to config file (default: $HOME/.partsmrp/config.yaml)")
		configDir  = flag.String("config-dir", "", "Configuration directory (default: $HOME/.partsmrp)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: partsmrp [--config file] [--config-dir dir] <command> <subcommand> [flags]\n\n")
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\nRun 'partsmrp help' for the list of commands.\n")
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := app.Options{
		ConfigFile: *configFile,
		ConfigDir:  *configDir,
		Out:        os.Stdout,
	}
	if err := app.Run(ctx, opts, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
