package services

import "github.com/ahmetcoskunkizilkaya/client-portal/internal/models"

var externalTaskStatuses = map[string]models.TaskStatus{
	"not_started": models.TaskToDo,
	"in_progress": models.TaskInProgress,
	"waiting":     models.TaskNeedsReview,
	"completed":   models.TaskComplete,
}

// MapExternalStatus normalizes a CRM task status. Unknown values map to to_do.
func MapExternalStatus(external string) models.TaskStatus {
	if s, ok := externalTaskStatuses[external]; ok {
		return s
	}
	return models.TaskToDo
}
