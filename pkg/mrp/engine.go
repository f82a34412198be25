package mrp

import (
	"context"

	"go.uber.org/zap"

	services "github.com/vsinha/partsmrp/pkg/application/services/mrp"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
	"github.com/vsinha/partsmrp/pkg/infrastructure/events"
	"github.com/vsinha/partsmrp/pkg/infrastructure/repositories/memory"
)

// EngineConfig holds optional engine dependencies
type EngineConfig struct {
	// Logger defaults to a no-op logger
	Logger *zap.Logger
	// Bus receives build and inventory events; a private bus is created when nil
	Bus *events.Bus
}

// Engine runs BOM explosion, shortage aggregation and build completion
// against any store
type Engine struct {
	store      repositories.Store
	bus        *events.Bus
	shortages  *services.ShortageService
	completion *services.CompletionService
}

// NewEngine creates an engine over store
func NewEngine(store repositories.Store) *Engine {
	return NewEngineWithConfig(store, EngineConfig{})
}

// NewEngineWithConfig creates an engine with custom dependencies
func NewEngineWithConfig(store repositories.Store, config EngineConfig) *Engine {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	bus := config.Bus
	if bus == nil {
		bus = events.NewBus(log)
	}
	return &Engine{
		store:      store,
		bus:        bus,
		shortages:  services.NewShortageService(store, log),
		completion: services.NewCompletionService(store, bus, log),
	}
}

// NewInMemoryEngine creates an engine over a fresh in-memory store, which is
// returned for seeding
func NewInMemoryEngine() (*Engine, *memory.Store) {
	store := memory.NewStore()
	return NewEngine(store), store
}

// Explode returns the merged single-level requirements of one unit of an
// assembly version
func (e *Engine) Explode(ctx context.Context, partID int64, version int) ([]ComponentRequirement, error) {
	return services.Explode(ctx, e.store, partID, version)
}

// Shortages aggregates component demand of every open build against stock
func (e *Engine) Shortages(ctx context.Context, includeSatisfied bool) ([]Shortage, error) {
	return e.shortages.ComputeShortages(ctx, includeSatisfied)
}

// BuildShortages aggregates the demand of a single open build
func (e *Engine) BuildShortages(ctx context.Context, buildID int64, includeSatisfied bool) ([]Shortage, error) {
	return e.shortages.ComputeBuildShortages(ctx, buildID, includeSatisfied)
}

// CompleteBuild consumes stock FIFO for a build and receives the assemblies
func (e *Engine) CompleteBuild(ctx context.Context, buildID int64) (*CompletionSummary, error) {
	return e.completion.CompleteBuild(ctx, buildID)
}

// BuildEvents returns the events published for a build, oldest first
func (e *Engine) BuildEvents(buildID int64) []events.Event {
	return e.bus.ReadEvents(events.BuildStream(buildID), 1)
}
