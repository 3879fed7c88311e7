package dto

import (
	"parking/internal/domains/slot/model"
	gDto "parking/shared/dto"
)

type SlotResponse struct {
	ID       string `json:"id"`
	SlotNo   string `json:"slot_no"`
	RoadName string `json:"road_name"`
	LotType  string `json:"lot_type,omitempty"`
	Status   string `json:"status"`
	gDto.Metadata
}

func (r *SlotResponse) FromModel(model model.Slot) {
	r.ID = model.ID
	r.SlotNo = model.SlotNo
	r.RoadName = model.RoadName
	r.Status = model.Status

	if model.LotType != nil {
		r.LotType = *model.LotType
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func (r *GetSlotsResponse) FromModels(models []model.Slot) {
	r.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Slots[i].FromModel(mod)
	}
}
