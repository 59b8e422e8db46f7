package projects

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	projects *services.ProjectService
	tasks    *services.TaskService
}

func NewHandler(projects *services.ProjectService, tasks *services.TaskService) *Handler {
	return &Handler{projects: projects, tasks: tasks}
}

func (h *Handler) List(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}

	limit, offset := pages.Pagination(c)
	projects, total, err := h.projects.List(user, limit, offset)
	if err != nil {
		slog.Error("failed to list projects", "user_id", user.ID, "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to fetch projects")
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	id, ok := pages.ParamID(c, "id")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	project, err := h.projects.Get(user, id)
	if err != nil {
		return h.fail(c, err, "Failed to fetch project")
	}
	return c.JSON(project)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	project, err := h.projects.Create(&req)
	if err != nil {
		return h.fail(c, err, "Failed to create project")
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	id, ok := pages.ParamID(c, "id")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	project, err := h.projects.Update(user, id, &req)
	if err != nil {
		return h.fail(c, err, "Failed to update project")
	}
	return c.JSON(project)
}

func (h *Handler) Board(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	id, ok := pages.ParamID(c, "id")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	board, err := h.tasks.Board(user, id)
	if err != nil {
		return h.fail(c, err, "Failed to fetch tasks")
	}
	return c.JSON(board)
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	id, ok := pages.ParamID(c, "id")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	task, err := h.tasks.Create(user, id, &req)
	if err != nil {
		return h.fail(c, err, "Failed to create task")
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	id, ok := pages.ParamID(c, "taskId")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	task, err := h.tasks.Update(user, id, &req)
	if err != nil {
		return h.fail(c, err, "Failed to update task")
	}
	return c.JSON(task)
}

// MoveTask is the board drag-and-drop write. The client re-fetches the
// board when this fails.
func (h *Handler) MoveTask(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	id, ok := pages.ParamID(c, "taskId")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	var req dto.MoveTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	task, err := h.tasks.Move(user, id, req.Status)
	if err != nil {
		return h.fail(c, err, "Failed to move task")
	}
	return c.JSON(task)
}

func (h *Handler) ListComments(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	id, ok := pages.ParamID(c, "taskId")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	comments, err := h.tasks.Comments(user, id)
	if err != nil {
		return h.fail(c, err, "Failed to fetch comments")
	}
	return c.JSON(fiber.Map{"comments": comments})
}

func (h *Handler) AddComment(c *fiber.Ctx) error {
	user, ok := pages.CurrentUser(c)
	if !ok {
		return pages.Unauthorized(c)
	}
	id, ok := pages.ParamID(c, "taskId")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	comment, err := h.tasks.AddComment(user, id, req.Content)
	if err != nil {
		return h.fail(c, err, "Failed to add comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *Handler) fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrClientNotFound):
		return pages.Fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidProjectStatus),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrEmptyComment):
		return pages.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	slog.Error(fallback, "path", c.Path(), "error", err)
	return pages.Fail(c, fiber.StatusInternalServerError, fallback)
}
