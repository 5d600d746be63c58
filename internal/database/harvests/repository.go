// Package harvests provides database operations for per-ETL harvest state.
//
// # Usage
//
//	repo := harvests.NewRepository(db)
//	err := repo.StartHarvest("Living-Atlas_EsriHarvester", baseURL, groupID, runID, 240)
package harvests

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/mapharvest/internal/entities"
)

// staleAfter is how long a running harvest may go without progress before it
// is considered interrupted.
const staleAfter = 10 * time.Minute

const errInterrupted = "harvest was interrupted"

// Repository handles all harvest state database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new harvest state repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves the state of one ETL.
func (r *Repository) Get(etlName string) (*entities.HarvestState, error) {
	var state entities.HarvestState
	err := r.db.Where("etl_name = ?", etlName).First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// List returns the state of every ETL that has run at least once.
func (r *Repository) List() ([]entities.HarvestState, error) {
	var states []entities.HarvestState
	err := r.db.Order("etl_name ASC").Find(&states).Error
	return states, err
}

// LastVersion returns the version of the last completed harvest, or "".
func (r *Repository) LastVersion(etlName string) (string, error) {
	state, err := r.Get(etlName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return state.Version, nil
}

// StartHarvest creates or resets the state record for a new run.
func (r *Repository) StartHarvest(etlName, baseURL, groupID, runID string, totalItems int) error {
	var state entities.HarvestState
	result := r.db.Where("etl_name = ?", etlName).First(&state)

	now := time.Now()
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		state = entities.HarvestState{
			ETLName:    etlName,
			BaseURL:    baseURL,
			GroupID:    groupID,
			Status:     entities.HarvestStatusRunning,
			RunID:      runID,
			TotalItems: totalItems,
			StartedAt:  now,
			UpdatedAt:  now,
		}
		return r.db.Create(&state).Error
	} else if result.Error != nil {
		return result.Error
	}

	// Reset existing record, keeping the last completed version
	state.BaseURL = baseURL
	state.GroupID = groupID
	state.Status = entities.HarvestStatusRunning
	state.RunID = runID
	state.TotalItems = totalItems
	state.Processed = 0
	state.Malformed = 0
	state.Error = ""
	state.StartedAt = now
	state.UpdatedAt = now
	state.CompletedAt = nil

	return r.db.Save(&state).Error
}

// UpdateProgress records how many items of the running harvest were handled.
func (r *Repository) UpdateProgress(etlName string, processed, malformed int) error {
	return r.db.Model(&entities.HarvestState{}).
		Where("etl_name = ?", etlName).
		Updates(map[string]any{
			"processed":  processed,
			"malformed":  malformed,
			"updated_at": time.Now(),
		}).Error
}

// CompleteHarvest marks a run as completed, storing its version, or as failed.
func (r *Repository) CompleteHarvest(etlName, version string, succeeded bool, errorMsg string) error {
	now := time.Now()
	updates := map[string]any{
		"status":       entities.HarvestStatusCompleted,
		"updated_at":   now,
		"completed_at": now,
	}
	if succeeded {
		updates["version"] = version
	} else {
		updates["status"] = entities.HarvestStatusFailed
	}
	if errorMsg != "" {
		updates["error"] = errorMsg
	}
	return r.db.Model(&entities.HarvestState{}).
		Where("etl_name = ?", etlName).
		Updates(updates).Error
}

// MarkSkipped records a run that found the group unchanged.
func (r *Repository) MarkSkipped(etlName, baseURL, groupID, runID string, totalItems int) error {
	now := time.Now()
	var state entities.HarvestState
	result := r.db.Where("etl_name = ?", etlName).First(&state)
	if result.Error != nil {
		return result.Error
	}

	state.BaseURL = baseURL
	state.GroupID = groupID
	state.Status = entities.HarvestStatusSkipped
	state.RunID = runID
	state.TotalItems = totalItems
	state.Error = ""
	state.UpdatedAt = now
	state.CompletedAt = &now
	return r.db.Save(&state).Error
}

// IsHarvestRunning checks if a harvest of the ETL is in progress.
// A run that stopped reporting progress is marked failed and not counted.
func (r *Repository) IsHarvestRunning(etlName string) (bool, error) {
	var state entities.HarvestState
	err := r.db.Where("etl_name = ? AND status = ?", etlName, entities.HarvestStatusRunning).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if state.UpdatedAt.Before(time.Now().Add(-staleAfter)) {
		if err := r.CompleteHarvest(etlName, "", false, errInterrupted); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

// FailStale marks every running harvest that stopped reporting progress as
// failed. Returns the number of harvests marked.
func (r *Repository) FailStale() (int64, error) {
	now := time.Now()
	result := r.db.Model(&entities.HarvestState{}).
		Where("status = ? AND updated_at < ?", entities.HarvestStatusRunning, now.Add(-staleAfter)).
		Updates(map[string]any{
			"status":       entities.HarvestStatusFailed,
			"error":        errInterrupted,
			"updated_at":   now,
			"completed_at": now,
		})
	return result.RowsAffected, result.Error
}
