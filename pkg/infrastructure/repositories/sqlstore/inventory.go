package sqlstore

import (
	"context"
	"fmt"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

func (s *Store) ListInventoryLots(ctx context.Context, partID int64) ([]*entities.InventoryLot, error) {
	var rows []inventoryRow
	if err := s.conn(ctx).Where("part_id = ?", partID).Order("id").Find(&rows).Error; err != nil {
		return nil, wrap(fmt.Sprintf("inventory of part %d", partID), err)
	}
	return mapRows(rows, inventoryRow.entity), nil
}

func (s *Store) ListAllInventoryLots(ctx context.Context) ([]*entities.InventoryLot, error) {
	var rows []inventoryRow
	if err := s.conn(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, wrap("list inventory", err)
	}
	return mapRows(rows, inventoryRow.entity), nil
}

func (s *Store) GetInventoryLot(ctx context.Context, id int64) (*entities.InventoryLot, error) {
	var row inventoryRow
	if err := s.conn(ctx).First(&row, id).Error; err != nil {
		return nil, wrap(fmt.Sprintf("inventory lot %d", id), err)
	}
	return row.entity(), nil
}

func (s *Store) InsertLot(ctx context.Context, lot *entities.InventoryLot) error {
	row := toInventoryRow(lot)
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return wrap("insert inventory lot", err)
	}
	lot.ID, lot.CreatedAt = row.ID, row.CreatedAt
	return nil
}

func (s *Store) UpdateLot(ctx context.Context, lot *entities.InventoryLot) error {
	row := toInventoryRow(lot)
	res := s.conn(ctx).Model(&row).Select("*").Omit("created_at").Updates(&row)
	return checkAffected(fmt.Sprintf("update inventory lot %d", lot.ID), res)
}

func (s *Store) InsertConsumption(ctx context.Context, c *entities.LotConsumption) error {
	row := toConsumptionRow(c)
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return wrap("insert lot consumption", err)
	}
	c.ID, c.CreatedAt = row.ID, row.CreatedAt
	return nil
}

func (s *Store) ListConsumptions(ctx context.Context, buildID int64) ([]*entities.LotConsumption, error) {
	var rows []consumptionRow
	if err := s.conn(ctx).Where("build_id = ?", buildID).Order("id").Find(&rows).Error; err != nil {
		return nil, wrap(fmt.Sprintf("consumptions of build %d", buildID), err)
	}
	return mapRows(rows, consumptionRow.entity), nil
}
