package projects

import (
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProjectsPage struct{}

func New() *ProjectsPage {
	return &ProjectsPage{}
}

func (p *ProjectsPage) ID() string { return "projects" }

func (p *ProjectsPage) Roles() []models.Role { return nil }

func (p *ProjectsPage) RegisterRoutes(router fiber.Router, deps *pages.Deps) {
	handler := NewHandler(services.NewProjectService(deps.DB), services.NewTaskService(deps.DB))
	staff := middleware.RequireRole(pages.Staff...)

	// Projects
	router.Get("/", handler.List)
	router.Post("/", staff, handler.Create)
	router.Get("/:id", handler.Get)
	router.Put("/:id", staff, handler.Update)

	// Kanban board
	router.Get("/:id/board", handler.Board)
	router.Post("/:id/tasks", handler.CreateTask)
	router.Put("/tasks/:taskId", handler.UpdateTask)
	router.Patch("/tasks/:taskId/move", handler.MoveTask)

	// Task comments
	router.Get("/tasks/:taskId/comments", handler.ListComments)
	router.Post("/tasks/:taskId/comments", handler.AddComment)
}
