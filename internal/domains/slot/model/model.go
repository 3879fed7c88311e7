package model

import (
	"parking/shared/model"
)

const (
	TableName  = "parking_slots"
	EntityName = "slot"

	FieldID       = "id"
	FieldSlotNo   = "slot_no"
	FieldRoadName = "road_name"
	FieldLotType  = "lot_type"
	FieldStatus   = "status"
)

const (
	StatusAvailable = "available"
	StatusOccupied  = "occupied"
)

type Slot struct {
	ID       string  `db:"id"`
	SlotNo   string  `db:"slot_no"`
	RoadName string  `db:"road_name"`
	LotType  *string `db:"lot_type"`
	Status   string  `db:"status"`
	model.Metadata
}

func (s Slot) IsAvailable() bool {
	return s.Status == StatusAvailable
}
