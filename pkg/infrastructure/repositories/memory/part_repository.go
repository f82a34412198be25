package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// GetPart returns the part with the given id
func (s *Store) GetPart(ctx context.Context, id int64) (*entities.Part, error) {
	defer s.read()()
	if err := s.fault("GetPart"); err != nil {
		return nil, err
	}
	p, ok := s.parts[id]
	if !ok {
		return nil, notFound("part", id)
	}
	return &p, nil
}

// FindPartByNumber returns the part with the given part number
func (s *Store) FindPartByNumber(ctx context.Context, pn entities.PartNumber) (*entities.Part, error) {
	defer s.read()()
	if err := s.fault("FindPartByNumber"); err != nil {
		return nil, err
	}
	for _, p := range s.parts {
		if p.PartNumber == pn {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("part %s: %w", pn, entities.ErrNotFound)
}

// FindPartByMPN returns the part with the given manufacturer part number
func (s *Store) FindPartByMPN(ctx context.Context, mpn string) (*entities.Part, error) {
	defer s.read()()
	if err := s.fault("FindPartByMPN"); err != nil {
		return nil, err
	}
	for _, p := range s.parts {
		if p.ManufacturerPartNumber == mpn {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("part with mpn %s: %w", mpn, entities.ErrNotFound)
}

// ListParts returns all parts ordered by part number
func (s *Store) ListParts(ctx context.Context) ([]*entities.Part, error) {
	defer s.read()()
	if err := s.fault("ListParts"); err != nil {
		return nil, err
	}
	parts := sortedValues(s.parts, nil)
	slices.SortFunc(parts, func(a, b *entities.Part) int {
		return strings.Compare(string(a.PartNumber), string(b.PartNumber))
	})
	return parts, nil
}

// CreatePart stores a new part and assigns its id
func (s *Store) CreatePart(ctx context.Context, part *entities.Part) error {
	defer s.write()()
	if err := s.fault("CreatePart"); err != nil {
		return err
	}
	if err := s.checkUnique(part); err != nil {
		return err
	}
	s.seq.part++
	part.ID = s.seq.part
	part.CreatedAt = s.now()
	part.UpdatedAt = part.CreatedAt
	s.parts[part.ID] = *part
	return nil
}

// UpdatePart replaces a stored part
func (s *Store) UpdatePart(ctx context.Context, part *entities.Part) error {
	defer s.write()()
	if err := s.fault("UpdatePart"); err != nil {
		return err
	}
	if _, ok := s.parts[part.ID]; !ok {
		return notFound("part", part.ID)
	}
	if err := s.checkUnique(part); err != nil {
		return err
	}
	part.UpdatedAt = s.now()
	s.parts[part.ID] = *part
	return nil
}

// DeletePart removes a part
func (s *Store) DeletePart(ctx context.Context, id int64) error {
	defer s.write()()
	if err := s.fault("DeletePart"); err != nil {
		return err
	}
	if _, ok := s.parts[id]; !ok {
		return notFound("part", id)
	}
	delete(s.parts, id)
	return nil
}

func (s *Store) checkUnique(part *entities.Part) error {
	for _, p := range s.parts {
		if p.ID == part.ID {
			continue
		}
		if p.PartNumber == part.PartNumber {
			return fmt.Errorf("%w: part number %s already exists", entities.ErrInvalidInput, part.PartNumber)
		}
		if p.ManufacturerPartNumber == part.ManufacturerPartNumber {
			return fmt.Errorf("%w: manufacturer part number %s already exists", entities.ErrInvalidInput, part.ManufacturerPartNumber)
		}
	}
	return nil
}
