package sqlstore

import (
	"context"
	"fmt"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

func (s *Store) ListBOMLines(ctx context.Context, partID int64, version int) ([]*entities.BOMLine, error) {
	var rows []bomLineRow
	err := s.conn(ctx).
		Where("bom_part_id = ? AND bom_ver = ?", partID, version).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, wrap(fmt.Sprintf("bom lines of part %d v%d", partID, version), err)
	}
	return mapRows(rows, bomLineRow.entity), nil
}

func (s *Store) ListAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error) {
	var rows []bomLineRow
	if err := s.conn(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, wrap("list bom lines", err)
	}
	return mapRows(rows, bomLineRow.entity), nil
}

func (s *Store) CreateBOMLine(ctx context.Context, line *entities.BOMLine) error {
	row := toBOMLineRow(line)
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return wrap("create bom line", err)
	}
	line.ID = row.ID
	return nil
}

func (s *Store) DeleteBOMLines(ctx context.Context, partID int64, version int) error {
	err := s.conn(ctx).
		Where("bom_part_id = ? AND bom_ver = ?", partID, version).
		Delete(&bomLineRow{}).Error
	if err != nil {
		return wrap(fmt.Sprintf("delete bom lines of part %d v%d", partID, version), err)
	}
	return nil
}

func (s *Store) CountBOMReferences(ctx context.Context, partID int64) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&bomLineRow{}).
		Where("bom_part_id = ? OR part_id = ?", partID, partID).
		Count(&n).Error
	if err != nil {
		return 0, wrap(fmt.Sprintf("count bom references of part %d", partID), err)
	}
	return n, nil
}
