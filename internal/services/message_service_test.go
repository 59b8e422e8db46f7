package services

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
)

func TestMessageThreads(t *testing.T) {
	db := dbtest.New(t)
	pm := seedUser(t, db, "pm", models.RoleTeamMember, nil)
	client := seedClient(t, db, "Acme", pm)
	owner := seedUser(t, db, "owner", models.RoleClient, &client.ID)
	website := seedProject(t, db, "Website", client)
	ads := seedProject(t, db, "Ads", client)
	seedProject(t, db, "Quiet", client)

	svc := NewMessageService(db)
	for _, m := range []models.Message{
		{SenderID: client.ID, ProjectID: website.ID, Content: "from crm", CreatedAt: tick()},
		{SenderID: pm.ID, ProjectID: website.ID, Content: "reply", CreatedAt: tick()},
		{SenderID: pm.ID, ProjectID: ads.ID, Content: "ads update", CreatedAt: tick()},
	} {
		m := m
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	threads, err := svc.Threads(owner)
	if err != nil {
		t.Fatalf("threads: %v", err)
	}
	if len(threads) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(threads))
	}
	if threads[0].ProjectID != ads.ID || threads[0].LatestMessage != "ads update" {
		t.Errorf("expected ads thread first, got %+v", threads[0])
	}
	// The CRM message was sent as the owner's organization, so only the
	// PM's reply is unread for the owner.
	if threads[1].UnreadCount != 1 {
		t.Errorf("expected 1 unread on website, got %d", threads[1].UnreadCount)
	}

	messages, err := svc.Thread(owner, website.ID)
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(messages) != 2 || messages[0].Content != "from crm" {
		t.Fatalf("expected oldest first, got %+v", messages)
	}
	if messages[0].Sender == nil || messages[0].Sender.Name != "Acme" {
		t.Errorf("expected client organization as sender, got %+v", messages[0].Sender)
	}
	if messages[1].Sender == nil || messages[1].Sender.Name != "pm" {
		t.Errorf("expected pm as sender, got %+v", messages[1].Sender)
	}

	if n := countRows(t, db, &models.Message{}, "project_id = ? AND is_read = ?", website.ID, false); n != 1 {
		t.Errorf("expected only the owner's own message unread, got %d unread", n)
	}
}

func TestSendMessage(t *testing.T) {
	db := dbtest.New(t)
	pm := seedUser(t, db, "pm", models.RoleTeamMember, nil)
	stranger := seedUser(t, db, "stranger", models.RoleClient, nil)
	project := seedProject(t, db, "Website", seedClient(t, db, "Acme", pm))
	svc := NewMessageService(db)

	if _, err := svc.Send(pm, project.ID, "  "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.Send(stranger, project.ID, "hi"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
	msg, err := svc.Send(pm, project.ID, " hello ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Content != "hello" || msg.SenderID != pm.ID {
		t.Errorf("unexpected message %+v", msg)
	}
}
