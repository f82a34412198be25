package memory

import (
	"context"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// ListInventoryLots returns the lots of a part in FIFO order
func (s *Store) ListInventoryLots(ctx context.Context, partID int64) ([]*entities.InventoryLot, error) {
	defer s.read()()
	if err := s.fault("ListInventoryLots"); err != nil {
		return nil, err
	}
	return sortedValues(s.lots, func(l *entities.InventoryLot) bool {
		return l.PartID == partID
	}), nil
}

// ListAllInventoryLots returns every lot ordered by id
func (s *Store) ListAllInventoryLots(ctx context.Context) ([]*entities.InventoryLot, error) {
	defer s.read()()
	if err := s.fault("ListAllInventoryLots"); err != nil {
		return nil, err
	}
	return sortedValues(s.lots, nil), nil
}

// GetInventoryLot returns the lot with the given id
func (s *Store) GetInventoryLot(ctx context.Context, id int64) (*entities.InventoryLot, error) {
	defer s.read()()
	if err := s.fault("GetInventoryLot"); err != nil {
		return nil, err
	}
	l, ok := s.lots[id]
	if !ok {
		return nil, notFound("inventory lot", id)
	}
	return &l, nil
}

// InsertLot stores a new lot and assigns its id
func (s *Store) InsertLot(ctx context.Context, lot *entities.InventoryLot) error {
	defer s.write()()
	if err := s.fault("InsertLot"); err != nil {
		return err
	}
	s.seq.lot++
	lot.ID = s.seq.lot
	lot.CreatedAt = s.now()
	s.lots[lot.ID] = *lot
	return nil
}

// UpdateLot replaces a stored lot
func (s *Store) UpdateLot(ctx context.Context, lot *entities.InventoryLot) error {
	defer s.write()()
	if err := s.fault("UpdateLot"); err != nil {
		return err
	}
	if _, ok := s.lots[lot.ID]; !ok {
		return notFound("inventory lot", lot.ID)
	}
	s.lots[lot.ID] = *lot
	return nil
}

// InsertConsumption appends a consumption journal entry
func (s *Store) InsertConsumption(ctx context.Context, c *entities.LotConsumption) error {
	defer s.write()()
	if err := s.fault("InsertConsumption"); err != nil {
		return err
	}
	s.seq.consumption++
	c.ID = s.seq.consumption
	c.CreatedAt = s.now()
	s.consumptions[c.ID] = *c
	return nil
}

// ListConsumptions returns the journal entries of one build
func (s *Store) ListConsumptions(ctx context.Context, buildID int64) ([]*entities.LotConsumption, error) {
	defer s.read()()
	if err := s.fault("ListConsumptions"); err != nil {
		return nil, err
	}
	return sortedValues(s.consumptions, func(c *entities.LotConsumption) bool {
		return c.BuildID == buildID
	}), nil
}
