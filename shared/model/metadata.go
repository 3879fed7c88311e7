package model

import "time"

// Metadata holds the audit columns every table carries. Rows are inserted with modified_at equal
// to created_at, so a row counts as modified only once modified_at moves past it.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}

func NewMetadata(by string, at time.Time) Metadata {
	return Metadata{
		CreatedAt:  at,
		ModifiedAt: at,
		CreatedBy:  by,
		ModifiedBy: by,
	}
}

func (m Metadata) Modified() bool {
	return m.ModifiedAt.After(m.CreatedAt)
}
