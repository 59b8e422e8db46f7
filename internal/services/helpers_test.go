package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var seedClock = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// tick returns strictly increasing timestamps so ordering by created_at is
// deterministic.
func tick() time.Time {
	seedClock = seedClock.Add(time.Minute)
	return seedClock
}

func seedUser(t *testing.T, db *gorm.DB, name string, role models.Role, clientID *uuid.UUID) *models.User {
	t.Helper()
	u := &models.User{
		Name:      name,
		Email:     name + "@example.com",
		Role:      role,
		ClientID:  clientID,
		CreatedAt: tick(),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

func seedClient(t *testing.T, db *gorm.DB, name string, pm *models.User) *models.Client {
	t.Helper()
	c := &models.Client{Name: name, CreatedAt: tick()}
	if pm != nil {
		c.AssignedPMID = &pm.ID
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed client %s: %v", name, err)
	}
	return c
}

func seedProject(t *testing.T, db *gorm.DB, title string, client *models.Client) *models.Project {
	t.Helper()
	p := &models.Project{Title: title, ClientID: client.ID, CreatedAt: tick()}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed project %s: %v", title, err)
	}
	return p
}

func seedTask(t *testing.T, db *gorm.DB, title string, project *models.Project, status models.TaskStatus) *models.Task {
	t.Helper()
	task := &models.Task{Title: title, ProjectID: project.ID, Status: status, CreatedAt: tick()}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("seed task %s: %v", title, err)
	}
	return task
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
