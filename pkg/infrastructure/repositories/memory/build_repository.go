package memory

import (
	"context"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// GetBuild returns the build with the given id
func (s *Store) GetBuild(ctx context.Context, id int64) (*entities.Build, error) {
	defer s.read()()
	if err := s.fault("GetBuild"); err != nil {
		return nil, err
	}
	b, ok := s.builds[id]
	if !ok {
		return nil, notFound("build", id)
	}
	return &b, nil
}

// ListOpenBuilds returns incomplete builds ordered by id
func (s *Store) ListOpenBuilds(ctx context.Context) ([]*entities.Build, error) {
	defer s.read()()
	if err := s.fault("ListOpenBuilds"); err != nil {
		return nil, err
	}
	return sortedValues(s.builds, func(b *entities.Build) bool { return !b.Complete }), nil
}

// ListBuilds returns all builds ordered by id
func (s *Store) ListBuilds(ctx context.Context) ([]*entities.Build, error) {
	defer s.read()()
	if err := s.fault("ListBuilds"); err != nil {
		return nil, err
	}
	return sortedValues(s.builds, nil), nil
}

// CreateBuild stores a new build and assigns its id
func (s *Store) CreateBuild(ctx context.Context, build *entities.Build) error {
	defer s.write()()
	if err := s.fault("CreateBuild"); err != nil {
		return err
	}
	s.seq.build++
	build.ID = s.seq.build
	build.CreatedAt = s.now()
	build.UpdatedAt = build.CreatedAt
	s.builds[build.ID] = *build
	return nil
}

// UpdateBuild replaces a stored build
func (s *Store) UpdateBuild(ctx context.Context, build *entities.Build) error {
	defer s.write()()
	if err := s.fault("UpdateBuild"); err != nil {
		return err
	}
	if _, ok := s.builds[build.ID]; !ok {
		return notFound("build", build.ID)
	}
	build.UpdatedAt = s.now()
	s.builds[build.ID] = *build
	return nil
}

// DeleteBuild removes a build
func (s *Store) DeleteBuild(ctx context.Context, id int64) error {
	defer s.write()()
	if err := s.fault("DeleteBuild"); err != nil {
		return err
	}
	if _, ok := s.builds[id]; !ok {
		return notFound("build", id)
	}
	delete(s.builds, id)
	return nil
}
