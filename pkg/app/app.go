package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/vsinha/partsmrp/pkg/application/services/builds"
	"github.com/vsinha/partsmrp/pkg/application/services/catalog"
	"github.com/vsinha/partsmrp/pkg/application/services/inventory"
	"github.com/vsinha/partsmrp/pkg/application/services/mrp"
	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
	"github.com/vsinha/partsmrp/pkg/infrastructure/config"
	"github.com/vsinha/partsmrp/pkg/infrastructure/events"
	"github.com/vsinha/partsmrp/pkg/infrastructure/logger"
	"github.com/vsinha/partsmrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/partsmrp/pkg/infrastructure/repositories/sqlstore"
	"github.com/vsinha/partsmrp/pkg/interfaces/cli/commands"
)

// Options locate configuration and output for one invocation
type Options struct {
	// ConfigFile overrides <ConfigDir>/config.yaml
	ConfigFile string
	ConfigDir  string
	Out        io.Writer
}

// InfrastructureModule provides logging, the datastore and the event bus
var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		provideLogger,
		provideStore,
		provideBus,
		func(b *events.Bus) events.Publisher { return b },
		csv.NewLoader,
	),
	fx.Invoke(logEvents),
)

// ServiceModule provides the application services
var ServiceModule = fx.Module("services",
	fx.Provide(
		catalog.NewPartService,
		catalog.NewBOMImportService,
		inventory.NewService,
		builds.NewService,
		mrp.NewShortageService,
		mrp.NewCompletionService,
	),
)

// CommandModule provides the CLI commands and their dispatcher
var CommandModule = fx.Module("commands",
	fx.Provide(
		provideEnv,
		asCommand(commands.NewPartsCommand),
		asCommand(func(env commands.Env, boms *catalog.BOMImportService, cfg config.Config) *commands.BOMCommand {
			return commands.NewBOMCommand(env, boms, cfg.LibraryName)
		}),
		asCommand(commands.NewInventoryCommand),
		asCommand(commands.NewBuildCommand),
		asCommand(func(env commands.Env, cfg config.Config) *commands.InstallCommand {
			return commands.NewInstallCommand(env, cfg.Dir)
		}),
		fx.Annotate(
			func(env commands.Env, cmds []commands.Command) *commands.Root {
				return commands.NewRoot(env.Out, cmds...)
			},
			fx.ParamTags(``, `group:"commands"`),
		),
	),
)

func asCommand(constructor any) any {
	return fx.Annotate(constructor, fx.As(new(commands.Command)), fx.ResultTags(`group:"commands"`))
}

// Run executes one CLI invocation. install runs without opening the
// datastore so it works before any configuration exists.
func Run(ctx context.Context, opts Options, args []string) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ConfigDir == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		opts.ConfigDir = dir
	}

	env := commands.Env{Out: opts.Out}
	if len(args) > 0 && args[0] == "install" {
		return commands.NewInstallCommand(env, opts.ConfigDir).Execute(ctx, args[1:])
	}

	cfg, err := config.Load(opts.ConfigFile, opts.ConfigDir)
	if err != nil {
		return err
	}

	var root *commands.Root
	app := fx.New(
		fx.NopLogger,
		fx.Supply(opts, cfg),
		InfrastructureModule,
		ServiceModule,
		CommandModule,
		fx.Populate(&root),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	return root.Execute(ctx, args)
}

func provideEnv(opts Options) commands.Env {
	return commands.Env{Out: opts.Out}
}

func provideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInvalidInput, err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
	return log, nil
}

func provideStore(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (repositories.Store, error) {
	target := cfg.Database.DSN
	if cfg.Database.Type == "sqlite" {
		target = cfg.DatabasePath()
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create database directory: %w", entities.ErrStorage, err)
		}
	}
	dialector, err := sqlstore.Dialect(cfg.Database.Type, target)
	if err != nil {
		return nil, err
	}
	store, err := sqlstore.Open(context.Background(), dialector, log)
	if err != nil {
		return nil, err
	}
	log.Debug("opened database", zap.String("type", cfg.Database.Type))
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func provideBus(log *zap.Logger) *events.Bus {
	return events.NewBus(log)
}

// logEvents records every published domain event at debug level
func logEvents(bus *events.Bus, log *zap.Logger) {
	log = log.Named("audit")
	types := []string{
		events.BuildCreatedEvent, events.BuildCompletedEvent, events.BuildDeletedEvent,
		events.InventoryReceivedEvent, events.InventoryConsumedEvent, events.InventoryAdjustedEvent,
		events.BOMImportedEvent, events.PartChangedEvent,
	}
	bus.Subscribe(types, events.HandlerFunc{
		Types: types,
		Fn: func(e events.Event) error {
			log.Debug("event",
				zap.String("type", e.Type()),
				zap.String("stream", e.StreamID()),
				zap.Int("version", e.Version()))
			return nil
		},
	})
}
