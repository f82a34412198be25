package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
)

// Store is an in-memory datastore. Reads share a lock; writes and
// transactions hold it exclusively.
type Store struct {
	mu *sync.RWMutex
	// held marks the view handed to a transaction, which already owns mu
	held bool
	*state
}

type state struct {
	parts        map[int64]entities.Part
	lines        map[int64]entities.BOMLine
	lots         map[int64]entities.InventoryLot
	builds       map[int64]entities.Build
	consumptions map[int64]entities.LotConsumption
	seq          sequences

	faults map[string]error
	now    func() time.Time
}

type sequences struct {
	part, line, lot, build, consumption int64
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		mu: &sync.RWMutex{},
		state: &state{
			parts:        make(map[int64]entities.Part),
			lines:        make(map[int64]entities.BOMLine),
			lots:         make(map[int64]entities.InventoryLot),
			builds:       make(map[int64]entities.Build),
			consumptions: make(map[int64]entities.LotConsumption),
			faults:       make(map[string]error),
			now:          time.Now,
		},
	}
}

func (s *Store) read() func() {
	if s.held {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write() func() {
	if s.held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Verify interface compliance
var _ repositories.Store = (*Store)(nil)

// FailOn makes every later call of the named method return err.
// Passing a nil err clears the fault.
func (s *Store) FailOn(method string, err error) {
	defer s.write()()
	if err == nil {
		delete(s.faults, method)
		return
	}
	s.faults[method] = err
}

func (s *Store) fault(method string) error {
	if err, ok := s.faults[method]; ok {
		return fmt.Errorf("%s: %w: %w", method, entities.ErrStorage, err)
	}
	return nil
}

// WithinTx runs fn against the store and restores the previous state if fn fails
func (s *Store) WithinTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.write()()
	snap := s.snapshot()
	if err := fn(&Store{mu: s.mu, held: true, state: s.state}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	parts        map[int64]entities.Part
	lines        map[int64]entities.BOMLine
	lots         map[int64]entities.InventoryLot
	builds       map[int64]entities.Build
	consumptions map[int64]entities.LotConsumption
	seq          sequences
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		parts:        maps.Clone(s.parts),
		lines:        maps.Clone(s.lines),
		lots:         maps.Clone(s.lots),
		builds:       maps.Clone(s.builds),
		consumptions: maps.Clone(s.consumptions),
		seq:          s.seq,
	}
}

func (s *Store) restore(snap snapshot) {
	s.parts = snap.parts
	s.lines = snap.lines
	s.lots = snap.lots
	s.builds = snap.builds
	s.consumptions = snap.consumptions
	s.seq = snap.seq
}

// sortedValues returns copies of the map values ordered by key
func sortedValues[T any](m map[int64]T, keep func(*T) bool) []*T {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		if keep == nil || keep(&v) {
			out = append(out, &v)
		}
	}
	return out
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, entities.ErrNotFound)
}
