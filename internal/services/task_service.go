package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrEmptyComment      = errors.New("comment cannot be empty")
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// Board groups a project's tasks into one column per status. Columns are
// always present, in display order, even when empty.
func (s *TaskService) Board(user *models.User, projectID uuid.UUID) (*dto.BoardResponse, error) {
	project, err := visibleProject(s.db, user, projectID)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := s.db.Scopes(database.ForProject(project.ID), database.RecentlyUpdated).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	byStatus := make(map[models.TaskStatus][]models.Task, len(models.TaskStatuses))
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	board := &dto.BoardResponse{Project: *project}
	for _, status := range models.TaskStatuses {
		column := byStatus[status]
		if column == nil {
			column = []models.Task{}
		}
		board.Columns = append(board.Columns, dto.BoardColumn{Status: status, Tasks: column})
	}
	return board, nil
}

func (s *TaskService) Create(user *models.User, projectID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	project, err := visibleProject(s.db, user, projectID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if req.Status == "" {
		req.Status = models.TaskToDo
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	task := models.Task{
		ProjectID:   project.ID,
		Title:       title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

func (s *TaskService) Update(user *models.User, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.visibleTask(user, taskID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.AssigneeID != nil {
		updates["assignee_id"] = *req.AssigneeID
	}
	if len(updates) == 0 {
		return task, nil
	}

	if err := s.db.Model(task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.visibleTask(user, taskID)
}

// Move writes a new status for a task. Concurrent moves are last-write-wins.
func (s *TaskService) Move(user *models.User, taskID uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	task, err := s.visibleTask(user, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(task).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}
	task.Status = status
	return task, nil
}

func (s *TaskService) Comments(user *models.User, taskID uuid.UUID) ([]models.TaskComment, error) {
	if _, err := s.visibleTask(user, taskID); err != nil {
		return nil, err
	}
	var comments []models.TaskComment
	err := s.db.Where("task_id = ?", taskID).Order("created_at ASC").Order("id ASC").Find(&comments).Error
	return comments, err
}

func (s *TaskService) AddComment(user *models.User, taskID uuid.UUID, content string) (*models.TaskComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.visibleTask(user, taskID); err != nil {
		return nil, err
	}
	comment := models.TaskComment{TaskID: taskID, UserID: user.ID, Content: content}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return &comment, nil
}

func (s *TaskService) visibleTask(user *models.User, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.First(&task, "id = ?", taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := visibleProject(s.db, user, task.ProjectID); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
