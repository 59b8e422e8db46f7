package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
)

func TestDispatchTaskStatusChanged(t *testing.T) {
	db := dbtest.New(t)
	pm := seedUser(t, db, "pm", models.RoleTeamMember, nil)
	client := seedClient(t, db, "Acme", pm)
	project := seedProject(t, db, "Website", client)
	task := seedTask(t, db, "Homepage", project, models.TaskInProgress)

	data, _ := json.Marshal(map[string]string{"task_id": task.ID.String(), "status": "waiting"})
	msg, err := NewEventService(db).Dispatch(context.Background(), EventTaskStatusChanged, data)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if msg != "Task status update processed" {
		t.Errorf("unexpected message %q", msg)
	}

	var got models.Task
	db.First(&got, "id = ?", task.ID)
	if got.Status != models.TaskNeedsReview {
		t.Errorf("expected needs_review, got %s", got.Status)
	}

	var notes []models.Notification
	db.Where("user_id = ?", client.ID).Find(&notes)
	if len(notes) != 1 {
		t.Fatalf("expected 1 client notification, got %d", len(notes))
	}
	if !strings.Contains(notes[0].Content, "waiting") || notes[0].RelatedID == nil || *notes[0].RelatedID != task.ID {
		t.Errorf("unexpected notification %+v", notes[0])
	}
	if !strings.Contains(string(notes[0].Metadata), `"status":"needs_review"`) {
		t.Errorf("expected mapped status in metadata, got %s", notes[0].Metadata)
	}
}

func TestDispatchTaskStatusChangedUnknownTask(t *testing.T) {
	db := dbtest.New(t)
	svc := NewEventService(db)

	for _, id := range []string{"not-a-uuid", "7d0c2a4e-0000-4000-8000-000000000000"} {
		data, _ := json.Marshal(map[string]string{"task_id": id, "status": "completed"})
		if _, err := svc.Dispatch(context.Background(), EventTaskStatusChanged, data); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("task %s: expected ErrTaskNotFound, got %v", id, err)
		}
	}
}

func TestDispatchMessageReceived(t *testing.T) {
	db := dbtest.New(t)
	pm := seedUser(t, db, "pm", models.RoleTeamMember, nil)
	client := seedClient(t, db, "Acme", pm)
	phone := "+15551234"
	db.Model(client).Update("contact_phone", phone)
	seedProject(t, db, "Older", client)
	newest := seedProject(t, db, "Newer", client)

	long := strings.Repeat("x", 80)
	data, _ := json.Marshal(map[string]string{"from": phone, "message": long})
	if _, err := NewEventService(db).Dispatch(context.Background(), EventMessageReceived, data); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	var messages []models.Message
	db.Find(&messages)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].ProjectID != newest.ID || messages[0].SenderID != client.ID || messages[0].IsRead {
		t.Errorf("unexpected message %+v", messages[0])
	}

	var note models.Notification
	if err := db.First(&note, "user_id = ?", pm.ID).Error; err != nil {
		t.Fatalf("expected PM notification: %v", err)
	}
	if !strings.Contains(note.Content, strings.Repeat("x", 50)+"...") || strings.Contains(note.Content, strings.Repeat("x", 51)) {
		t.Errorf("expected 50 character preview, got %q", note.Content)
	}
}

func TestDispatchMessageReceivedUnknownSender(t *testing.T) {
	db := dbtest.New(t)
	seedClient(t, db, "Acme", nil)

	data, _ := json.Marshal(map[string]string{"from": "nobody@example.com", "message": "hi"})
	_, err := NewEventService(db).Dispatch(context.Background(), EventMessageReceived, data)
	if !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if n := countRows(t, db, &models.Message{}, ""); n != 0 {
		t.Errorf("expected no messages, got %d", n)
	}
}

func TestDispatchOnboardingCompleted(t *testing.T) {
	db := dbtest.New(t)
	pm := seedUser(t, db, "pm", models.RoleTeamMember, nil)
	client := seedClient(t, db, "Acme", pm)
	db.Model(client).Update("subaccount_id", "123")

	svc := NewEventService(db)
	// Numeric ids are accepted as well as strings.
	if _, err := svc.Dispatch(context.Background(), EventOnboardingCompleted, json.RawMessage(`{"subaccount_id":123}`)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	var note models.Notification
	if err := db.First(&note, "user_id = ?", pm.ID).Error; err != nil {
		t.Fatalf("expected PM notification: %v", err)
	}
	if note.Type != models.NotificationApprovalNeeded {
		t.Errorf("expected approval_needed, got %s", note.Type)
	}

	_, err := svc.Dispatch(context.Background(), EventOnboardingCompleted, json.RawMessage(`{"subaccount_id":"999"}`))
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestDispatchUnsupportedEvent(t *testing.T) {
	db := dbtest.New(t)
	_, err := NewEventService(db).Dispatch(context.Background(), "contact_deleted", json.RawMessage(`{}`))
	if !errors.Is(err, ErrUnsupportedEvent) {
		t.Errorf("expected ErrUnsupportedEvent, got %v", err)
	}
}

func TestDispatchMessageReceivedPicksNewestRows(t *testing.T) {
	db := dbtest.New(t)
	phone := "+15559876"
	low := uuid.MustParse("00000000-0000-4000-8000-000000000001")
	high := uuid.MustParse("ffffffff-ffff-4fff-bfff-ffffffffffff")

	// The older rows carry the smaller ids so id order and creation order disagree.
	older := &models.Client{ID: low, Name: "Old Acme", ContactPhone: &phone, CreatedAt: tick()}
	newer := &models.Client{ID: high, Name: "Acme", ContactPhone: &phone, CreatedAt: tick()}
	for _, c := range []*models.Client{older, newer} {
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("seed client: %v", err)
		}
	}
	seedProject(t, db, "Old Acme Site", older)

	first := &models.Project{ID: uuid.MustParse("00000000-0000-4000-8000-000000000002"), Title: "Older", ClientID: newer.ID, CreatedAt: tick()}
	latest := &models.Project{ID: uuid.MustParse("ffffffff-ffff-4fff-bfff-fffffffffffe"), Title: "Newer", ClientID: newer.ID, CreatedAt: tick()}
	for _, p := range []*models.Project{first, latest} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed project: %v", err)
		}
	}

	data, _ := json.Marshal(map[string]string{"from": phone, "message": "hello"})
	if _, err := NewEventService(db).Dispatch(context.Background(), EventMessageReceived, data); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	var msg models.Message
	if err := db.Take(&msg).Error; err != nil {
		t.Fatalf("load message: %v", err)
	}
	if msg.SenderID != newer.ID {
		t.Errorf("expected sender %s, got %s", newer.ID, msg.SenderID)
	}
	if msg.ProjectID != latest.ID {
		t.Errorf("expected newest project %s, got %s", latest.ID, msg.ProjectID)
	}
}
