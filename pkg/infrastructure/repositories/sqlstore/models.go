package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// Money columns are stored as text so sqlite keeps decimal values exact.

type partRow struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	PN        string    `gorm:"column:pn;not null;uniqueIndex:idx_parts_pn"`
	MPN       string    `gorm:"column:mpn;not null;uniqueIndex:idx_parts_mpn"`
	Descr     string    `gorm:"column:descr;not null;default:''"`
	Ver       int       `gorm:"column:ver;not null;default:1"`
	MQty      int64     `gorm:"column:mqty;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (partRow) TableName() string { return "parts" }

type bomLineRow struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	BOMPartID int64  `gorm:"column:bom_part_id;not null;index:idx_bom_lines_bom,priority:1"`
	BOMVer    int    `gorm:"column:bom_ver;not null;index:idx_bom_lines_bom,priority:2"`
	PartID    int64  `gorm:"column:part_id;not null;index"`
	Quantity  int64  `gorm:"column:quantity;not null"`
	Refdes    string `gorm:"column:refdes;not null;default:''"`
	NoStuff   bool   `gorm:"column:nostuff;not null;default:false"`
}

func (bomLineRow) TableName() string { return "bom_lines" }

type inventoryRow struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement"`
	PartID    int64               `gorm:"column:part_id;not null;index"`
	PartVer   int                 `gorm:"column:part_ver;not null"`
	Quantity  int64               `gorm:"column:quantity;not null"`
	Consumed  int64               `gorm:"column:consumed;not null;default:0"`
	UnitPrice decimal.NullDecimal `gorm:"column:unit_price;type:varchar(40)"`
	Notes     string              `gorm:"column:notes;not null;default:''"`
	CreatedAt time.Time           `gorm:"column:created_at"`
}

func (inventoryRow) TableName() string { return "inventories" }

type buildRow struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement"`
	PartID    int64               `gorm:"column:part_id;not null;index"`
	PartVer   int                 `gorm:"column:part_ver;not null"`
	Quantity  int64               `gorm:"column:quantity;not null"`
	Complete  bool                `gorm:"column:complete;not null;default:false;index"`
	Notes     string              `gorm:"column:notes;not null;default:''"`
	Cost      decimal.NullDecimal `gorm:"column:cost;type:varchar(40)"`
	CreatedAt time.Time           `gorm:"column:created_at"`
	UpdatedAt time.Time           `gorm:"column:updated_at"`
}

func (buildRow) TableName() string { return "builds" }

type consumptionRow struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string              `gorm:"column:run_id;type:varchar(36);not null;index"`
	BuildID   int64               `gorm:"column:build_id;not null;index"`
	LotID     int64               `gorm:"column:lot_id;not null"`
	PartID    int64               `gorm:"column:part_id;not null"`
	Quantity  int64               `gorm:"column:quantity;not null"`
	UnitPrice decimal.NullDecimal `gorm:"column:unit_price;type:varchar(40)"`
	CreatedAt time.Time           `gorm:"column:created_at"`
}

func (consumptionRow) TableName() string { return "lot_consumptions" }

func allModels() []any {
	return []any{&partRow{}, &bomLineRow{}, &inventoryRow{}, &buildRow{}, &consumptionRow{}}
}

func toPartRow(p *entities.Part) partRow {
	return partRow{
		ID:        p.ID,
		PN:        string(p.PartNumber),
		MPN:       p.ManufacturerPartNumber,
		Descr:     p.Description,
		Ver:       p.Version,
		MQty:      int64(p.MultiplierQuantity),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r partRow) entity() *entities.Part {
	return &entities.Part{
		ID:                     r.ID,
		PartNumber:             entities.PartNumber(r.PN),
		ManufacturerPartNumber: r.MPN,
		Description:            r.Descr,
		Version:                r.Ver,
		MultiplierQuantity:     entities.Quantity(r.MQty),
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

func toBOMLineRow(l *entities.BOMLine) bomLineRow {
	return bomLineRow{
		ID:        l.ID,
		BOMPartID: l.BOMPartID,
		BOMVer:    l.BOMVersion,
		PartID:    l.ComponentPartID,
		Quantity:  int64(l.Quantity),
		Refdes:    l.ReferenceDesignator,
		NoStuff:   l.NoStuff,
	}
}

func (r bomLineRow) entity() *entities.BOMLine {
	return &entities.BOMLine{
		ID:                  r.ID,
		BOMPartID:           r.BOMPartID,
		BOMVersion:          r.BOMVer,
		ComponentPartID:     r.PartID,
		Quantity:            entities.Quantity(r.Quantity),
		ReferenceDesignator: r.Refdes,
		NoStuff:             r.NoStuff,
	}
}

func toInventoryRow(l *entities.InventoryLot) inventoryRow {
	return inventoryRow{
		ID:        l.ID,
		PartID:    l.PartID,
		PartVer:   l.PartVersion,
		Quantity:  int64(l.QuantityOnHand),
		Consumed:  int64(l.QuantityConsumed),
		UnitPrice: l.UnitPrice,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
	}
}

func (r inventoryRow) entity() *entities.InventoryLot {
	return &entities.InventoryLot{
		ID:               r.ID,
		PartID:           r.PartID,
		PartVersion:      r.PartVer,
		QuantityOnHand:   entities.Quantity(r.Quantity),
		QuantityConsumed: entities.Quantity(r.Consumed),
		UnitPrice:        r.UnitPrice,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
	}
}

func toBuildRow(b *entities.Build) buildRow {
	return buildRow{
		ID:        b.ID,
		PartID:    b.PartID,
		PartVer:   b.PartVersion,
		Quantity:  int64(b.Quantity),
		Complete:  b.Complete,
		Notes:     b.Notes,
		Cost:      b.Cost,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (r buildRow) entity() *entities.Build {
	return &entities.Build{
		ID:          r.ID,
		PartID:      r.PartID,
		PartVersion: r.PartVer,
		Quantity:    entities.Quantity(r.Quantity),
		Complete:    r.Complete,
		Notes:       r.Notes,
		Cost:        r.Cost,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toConsumptionRow(c *entities.LotConsumption) consumptionRow {
	return consumptionRow{
		ID:        c.ID,
		RunID:     c.RunID,
		BuildID:   c.BuildID,
		LotID:     c.LotID,
		PartID:    c.PartID,
		Quantity:  int64(c.Quantity),
		UnitPrice: c.UnitPrice,
		CreatedAt: c.CreatedAt,
	}
}

func (r consumptionRow) entity() *entities.LotConsumption {
	return &entities.LotConsumption{
		ID:        r.ID,
		RunID:     r.RunID,
		BuildID:   r.BuildID,
		LotID:     r.LotID,
		PartID:    r.PartID,
		Quantity:  entities.Quantity(r.Quantity),
		UnitPrice: r.UnitPrice,
		CreatedAt: r.CreatedAt,
	}
}

func mapRows[R any, E any](rows []R, conv func(R) *E) []*E {
	out := make([]*E, 0, len(rows))
	for _, r := range rows {
		out = append(out, conv(r))
	}
	return out
}
