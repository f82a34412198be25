package memory

import (
	"context"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// ListBOMLines returns the lines of one assembly version ordered by id
func (s *Store) ListBOMLines(ctx context.Context, partID int64, version int) ([]*entities.BOMLine, error) {
	defer s.read()()
	if err := s.fault("ListBOMLines"); err != nil {
		return nil, err
	}
	return sortedValues(s.lines, func(l *entities.BOMLine) bool {
		return l.BOMPartID == partID && l.BOMVersion == version
	}), nil
}

// ListAllBOMLines returns every BOM line ordered by id
func (s *Store) ListAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error) {
	defer s.read()()
	if err := s.fault("ListAllBOMLines"); err != nil {
		return nil, err
	}
	return sortedValues(s.lines, nil), nil
}

// CreateBOMLine stores a new BOM line and assigns its id
func (s *Store) CreateBOMLine(ctx context.Context, line *entities.BOMLine) error {
	defer s.write()()
	if err := s.fault("CreateBOMLine"); err != nil {
		return err
	}
	s.seq.line++
	line.ID = s.seq.line
	s.lines[line.ID] = *line
	return nil
}

// DeleteBOMLines removes all lines of one assembly version
func (s *Store) DeleteBOMLines(ctx context.Context, partID int64, version int) error {
	defer s.write()()
	if err := s.fault("DeleteBOMLines"); err != nil {
		return err
	}
	for id, l := range s.lines {
		if l.BOMPartID == partID && l.BOMVersion == version {
			delete(s.lines, id)
		}
	}
	return nil
}

// CountBOMReferences counts lines naming the part as assembly or component
func (s *Store) CountBOMReferences(ctx context.Context, partID int64) (int64, error) {
	defer s.read()()
	if err := s.fault("CountBOMReferences"); err != nil {
		return 0, err
	}
	var n int64
	for _, l := range s.lines {
		if l.BOMPartID == partID || l.ComponentPartID == partID {
			n++
		}
	}
	return n, nil
}
