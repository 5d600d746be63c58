package entities

import (
	"time"
)

type HarvestStatus string

const (
	HarvestStatusIdle      HarvestStatus = "idle"
	HarvestStatusRunning   HarvestStatus = "running"
	HarvestStatusCompleted HarvestStatus = "completed"
	HarvestStatusSkipped   HarvestStatus = "skipped"
	HarvestStatusFailed    HarvestStatus = "failed"
)

// HarvestState is the last known run of one ETL. Version only changes when a
// run completes, so an interrupted run is retried on the next schedule.
type HarvestState struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	ETLName     string        `gorm:"size:255;uniqueIndex" json:"etl_name"`
	BaseURL     string        `gorm:"size:512" json:"base_url"`
	GroupID     string        `gorm:"size:64" json:"group_id"`
	Version     string        `gorm:"size:1024" json:"version,omitempty"`
	Status      HarvestStatus `gorm:"size:20" json:"status"`
	RunID       string        `gorm:"size:36" json:"run_id,omitempty"`
	TotalItems  int           `json:"total_items"`
	Processed   int           `json:"processed"`
	Malformed   int           `json:"malformed"`
	Error       string        `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

func (HarvestState) TableName() string {
	return "harvest_states"
}
