package sqlstore

import (
	"context"
	"fmt"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

func (s *Store) GetPart(ctx context.Context, id int64) (*entities.Part, error) {
	var row partRow
	if err := s.conn(ctx).First(&row, id).Error; err != nil {
		return nil, wrap(fmt.Sprintf("part %d", id), err)
	}
	return row.entity(), nil
}

func (s *Store) FindPartByNumber(ctx context.Context, pn entities.PartNumber) (*entities.Part, error) {
	var row partRow
	if err := s.conn(ctx).Where("pn = ?", string(pn)).First(&row).Error; err != nil {
		return nil, wrap(fmt.Sprintf("part %s", pn), err)
	}
	return row.entity(), nil
}

func (s *Store) FindPartByMPN(ctx context.Context, mpn string) (*entities.Part, error) {
	var row partRow
	if err := s.conn(ctx).Where("mpn = ?", mpn).First(&row).Error; err != nil {
		return nil, wrap(fmt.Sprintf("part with mpn %s", mpn), err)
	}
	return row.entity(), nil
}

func (s *Store) ListParts(ctx context.Context) ([]*entities.Part, error) {
	var rows []partRow
	if err := s.conn(ctx).Order("pn").Find(&rows).Error; err != nil {
		return nil, wrap("list parts", err)
	}
	return mapRows(rows, partRow.entity), nil
}

func (s *Store) CreatePart(ctx context.Context, part *entities.Part) error {
	row := toPartRow(part)
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return wrap(fmt.Sprintf("create part %s", part.PartNumber), err)
	}
	part.ID, part.CreatedAt, part.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

func (s *Store) UpdatePart(ctx context.Context, part *entities.Part) error {
	row := toPartRow(part)
	res := s.conn(ctx).Model(&row).Select("*").Omit("created_at").Updates(&row)
	if err := checkAffected(fmt.Sprintf("update part %d", part.ID), res); err != nil {
		return err
	}
	part.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) DeletePart(ctx context.Context, id int64) error {
	return checkAffected(fmt.Sprintf("delete part %d", id), s.conn(ctx).Delete(&partRow{}, id))
}
