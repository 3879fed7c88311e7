package dto

import (
	"cmp"
	"parking/shared/constant"
	"parking/shared/model"
	"parking/shared/timezone"
)

type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

// FromModel renders audit columns. An untouched row carries no modifier, and a modification
// without a recorded actor is attributed to the system.
func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	m.CreatedBy = model.CreatedBy

	if !model.Modified() {
		return
	}

	m.ModifiedAt = timezone.Format(model.ModifiedAt, constant.DateFormat)
	m.ModifiedBy = cmp.Or(model.ModifiedBy, constant.ActorSystem)
}
