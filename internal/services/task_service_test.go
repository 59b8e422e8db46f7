package services

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
)

func TestBoardColumns(t *testing.T) {
	db := dbtest.New(t)
	admin := seedUser(t, db, "root", models.RoleAdmin, nil)
	client := seedClient(t, db, "Acme", nil)
	project := seedProject(t, db, "Website", client)
	seedTask(t, db, "a", project, models.TaskToDo)
	seedTask(t, db, "b", project, models.TaskToDo)
	seedTask(t, db, "c", project, models.TaskComplete)

	board, err := NewTaskService(db).Board(admin, project.ID)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if len(board.Columns) != len(models.TaskStatuses) {
		t.Fatalf("expected %d columns, got %d", len(models.TaskStatuses), len(board.Columns))
	}
	want := map[models.TaskStatus]int{
		models.TaskToDo:        2,
		models.TaskInProgress:  0,
		models.TaskNeedsReview: 0,
		models.TaskComplete:    1,
	}
	for i, col := range board.Columns {
		if col.Status != models.TaskStatuses[i] {
			t.Errorf("column %d: expected %s, got %s", i, models.TaskStatuses[i], col.Status)
		}
		if col.Tasks == nil {
			t.Errorf("column %s: tasks must be an empty list, not nil", col.Status)
		}
		if len(col.Tasks) != want[col.Status] {
			t.Errorf("column %s: expected %d tasks, got %d", col.Status, want[col.Status], len(col.Tasks))
		}
	}
}

func TestMoveTask(t *testing.T) {
	db := dbtest.New(t)
	pm := seedUser(t, db, "pm", models.RoleTeamMember, nil)
	other := seedUser(t, db, "other", models.RoleTeamMember, nil)
	client := seedClient(t, db, "Acme", pm)
	project := seedProject(t, db, "Website", client)
	task := seedTask(t, db, "a", project, models.TaskToDo)
	svc := NewTaskService(db)

	moved, err := svc.Move(pm, task.ID, models.TaskInProgress)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Status != models.TaskInProgress {
		t.Errorf("expected in_progress, got %s", moved.Status)
	}

	if _, err := svc.Move(pm, task.ID, "done"); !errors.Is(err, ErrInvalidTaskStatus) {
		t.Errorf("expected ErrInvalidTaskStatus, got %v", err)
	}
	if _, err := svc.Move(other, task.ID, models.TaskComplete); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for another PM, got %v", err)
	}

	var got models.Task
	db.First(&got, "id = ?", task.ID)
	if got.Status != models.TaskInProgress {
		t.Errorf("stored status changed unexpectedly: %s", got.Status)
	}
}

func TestTaskComments(t *testing.T) {
	db := dbtest.New(t)
	admin := seedUser(t, db, "root", models.RoleAdmin, nil)
	project := seedProject(t, db, "Website", seedClient(t, db, "Acme", nil))
	task := seedTask(t, db, "a", project, models.TaskToDo)
	svc := NewTaskService(db)

	if _, err := svc.AddComment(admin, task.ID, "   "); !errors.Is(err, ErrEmptyComment) {
		t.Errorf("expected ErrEmptyComment, got %v", err)
	}
	if _, err := svc.AddComment(admin, task.ID, " looks good "); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	comments, err := svc.Comments(admin, task.ID)
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "looks good" {
		t.Errorf("unexpected comments %+v", comments)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	db := dbtest.New(t)
	admin := seedUser(t, db, "root", models.RoleAdmin, nil)
	project := seedProject(t, db, "Website", seedClient(t, db, "Acme", nil))

	if _, err := NewTaskService(db).Create(admin, project.ID, &dto.CreateTaskRequest{Title: " "}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
}
