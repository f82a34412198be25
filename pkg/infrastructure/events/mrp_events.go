package events

import (
	"fmt"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

const (
	BuildCreatedEvent   = "build.created"
	BuildCompletedEvent = "build.completed"
	BuildDeletedEvent   = "build.deleted"

	InventoryReceivedEvent = "inventory.received"
	InventoryConsumedEvent = "inventory.consumed"
	InventoryAdjustedEvent = "inventory.adjusted"

	BOMImportedEvent = "bom.imported"
	PartChangedEvent = "part.changed"
)

// BuildStream names the event stream of one build
func BuildStream(buildID int64) string {
	return fmt.Sprintf("build-%d", buildID)
}

// PartStream names the event stream of one part
func PartStream(partID int64) string {
	return fmt.Sprintf("part-%d", partID)
}

type BuildCompleted struct {
	Build   entities.Build             `json:"build"`
	Summary entities.CompletionSummary `json:"summary"`
}

type InventoryConsumed struct {
	Consumption entities.LotConsumption `json:"consumption"`
}

type InventoryReceived struct {
	Lot entities.InventoryLot `json:"lot"`
}

type BOMImported struct {
	PartNumber entities.PartNumber `json:"part_number"`
	Version    int                 `json:"version"`
	Lines      int                 `json:"lines"`
}

type PartChanged struct {
	Part   entities.Part `json:"part"`
	Action string        `json:"action"`
}
