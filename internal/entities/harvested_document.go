package entities

import (
	"time"
)

// HarvestedDocument stores the JSON form of one harvested document.
type HarvestedDocument struct {
	Identifier string    `gorm:"primaryKey;size:64" json:"identifier"`
	ETLName    string    `gorm:"size:255;index" json:"etl_name"`
	Version    string    `gorm:"size:1024" json:"version"`
	Title      string    `gorm:"size:1024" json:"title"`
	Body       string    `gorm:"type:text" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (HarvestedDocument) TableName() string {
	return "harvested_documents"
}
