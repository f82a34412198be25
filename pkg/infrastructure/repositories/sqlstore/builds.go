package sqlstore

import (
	"context"
	"fmt"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

func (s *Store) GetBuild(ctx context.Context, id int64) (*entities.Build, error) {
	var row buildRow
	if err := s.conn(ctx).First(&row, id).Error; err != nil {
		return nil, wrap(fmt.Sprintf("build %d", id), err)
	}
	return row.entity(), nil
}

func (s *Store) ListOpenBuilds(ctx context.Context) ([]*entities.Build, error) {
	var rows []buildRow
	if err := s.conn(ctx).Where("complete = ?", false).Order("id").Find(&rows).Error; err != nil {
		return nil, wrap("list open builds", err)
	}
	return mapRows(rows, buildRow.entity), nil
}

func (s *Store) ListBuilds(ctx context.Context) ([]*entities.Build, error) {
	var rows []buildRow
	if err := s.conn(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, wrap("list builds", err)
	}
	return mapRows(rows, buildRow.entity), nil
}

func (s *Store) CreateBuild(ctx context.Context, build *entities.Build) error {
	row := toBuildRow(build)
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return wrap("create build", err)
	}
	build.ID, build.CreatedAt, build.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

func (s *Store) UpdateBuild(ctx context.Context, build *entities.Build) error {
	row := toBuildRow(build)
	res := s.conn(ctx).Model(&row).Select("*").Omit("created_at").Updates(&row)
	if err := checkAffected(fmt.Sprintf("update build %d", build.ID), res); err != nil {
		return err
	}
	build.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) DeleteBuild(ctx context.Context, id int64) error {
	return checkAffected(fmt.Sprintf("delete build %d", id), s.conn(ctx).Delete(&buildRow{}, id))
}
