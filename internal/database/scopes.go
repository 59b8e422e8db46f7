package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForClient returns a GORM scope that filters by client_id.
func ForClient(clientID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("client_id = ?", clientID)
	}
}

// ForProject returns a GORM scope that filters by project_id.
func ForProject(projectID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("project_id = ?", projectID)
	}
}

// Newest orders by creation time, most recent first. The id tiebreak keeps
// rows inserted within the same clock tick in a deterministic order.
// Pair it with Take or Find: First adds a primary key ORDER BY ahead of
// the scope's ordering.
func Newest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// RecentlyUpdated orders by updated_at, most recent first.
func RecentlyUpdated(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC")
}

// Paginate clamps limit to [1,100] and applies limit/offset.
func Paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		if offset < 0 {
			offset = 0
		}
		return db.Limit(limit).Offset(offset)
	}
}
