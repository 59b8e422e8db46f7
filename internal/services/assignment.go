package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PMRotation is the rotation cursor used for project manager assignment.
const PMRotation = "pm_rotation"

// NextAssignee picks the roster entry after last, wrapping around.
// An empty roster yields nil. A nil last, or one no longer on the roster,
// yields the first entry.
func NextAssignee(roster []uuid.UUID, last *uuid.UUID) *uuid.UUID {
	if len(roster) == 0 {
		return nil
	}
	next := roster[0]
	if last != nil {
		for i, id := range roster {
			if id == *last {
				next = roster[(i+1)%len(roster)]
				break
			}
		}
	}
	return &next
}

// teamRoster returns team member ids in a stable order.
func teamRoster(tx *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&models.User{}).
		Where("role = ?", models.RoleTeamMember).
		Order("created_at ASC").Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team roster: %w", err)
	}
	return ids, nil
}

// lastAssignedPM reads the rotation cursor, falling back to the most
// recently created client when the cursor has never been written.
func lastAssignedPM(tx *gorm.DB) (*uuid.UUID, error) {
	var cursor models.RotationCursor
	err := tx.Where("name = ?", PMRotation).First(&cursor).Error
	if err == nil {
		return cursor.LastUserID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read rotation cursor: %w", err)
	}

	var last models.Client
	err = tx.Scopes(database.Newest).Select("assigned_pm_id").Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last assigned client: %w", err)
	}
	return last.AssignedPMID, nil
}

// advanceRotation records pmID as the last assignment. A nil pmID leaves
// the cursor untouched.
func advanceRotation(tx *gorm.DB, pmID *uuid.UUID) error {
	if pmID == nil {
		return nil
	}
	cursor := models.RotationCursor{Name: PMRotation, LastUserID: pmID}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_user_id", "updated_at"}),
	}).Create(&cursor).Error
}
