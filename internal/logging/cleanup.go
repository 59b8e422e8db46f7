package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"gorm.io/gorm"
)

// Prune deletes system logs and webhook deliveries older than retention.
func Prune(db *gorm.DB, retention time.Duration) {
	cutoff := time.Now().Add(-retention)

	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}

	result = db.Where("created_at < ?", cutoff).Delete(&models.WebhookDelivery{})
	if result.Error != nil {
		slog.Error("webhook delivery cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("webhook delivery cleanup completed", "deleted", result.RowsAffected)
	}
}

// StartCleanup runs Prune once a day until done is closed.
func StartCleanup(db *gorm.DB, retention time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				Prune(db, retention)
			case <-done:
				return
			}
		}
	}()
}
