package admin

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/pages"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	clients    *services.ClientService
	deliveries *services.DeliveryService
}

func NewHandler(clients *services.ClientService, deliveries *services.DeliveryService) *Handler {
	return &Handler{clients: clients, deliveries: deliveries}
}

func (h *Handler) ListClients(c *fiber.Ctx) error {
	clients, err := h.clients.List()
	if err != nil {
		slog.Error("failed to list clients", "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to fetch clients")
	}
	return c.JSON(fiber.Map{"clients": clients})
}

func (h *Handler) GetClient(c *fiber.Ctx) error {
	id, ok := pages.ParamID(c, "id")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid client ID")
	}

	client, err := h.clients.Get(id)
	if err != nil {
		return fail(c, err, "Failed to fetch client")
	}
	return c.JSON(client)
}

func (h *Handler) CreateClient(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	client, err := h.clients.Create(&req)
	if err != nil {
		return fail(c, err, "Failed to create client")
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (h *Handler) AssignPM(c *fiber.Ctx) error {
	id, ok := pages.ParamID(c, "id")
	if !ok {
		return pages.Fail(c, fiber.StatusBadRequest, "Invalid client ID")
	}

	var req dto.AssignPMRequest
	if err := c.BodyParser(&req); err != nil || req.PMID == uuid.Nil {
		return pages.Fail(c, fiber.StatusBadRequest, "pm_id is required")
	}

	client, err := h.clients.AssignPM(id, req.PMID)
	if err != nil {
		return fail(c, err, "Failed to assign project manager")
	}
	return c.JSON(client)
}

// Team lists the users that can be assigned as project managers.
func (h *Handler) Team(c *fiber.Ctx) error {
	users, err := h.clients.Roster()
	if err != nil {
		slog.Error("failed to list team", "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to fetch team")
	}

	team := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		team = append(team, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"team": team})
}

func (h *Handler) Deliveries(c *fiber.Ctx) error {
	limit, offset := pages.Pagination(c)

	deliveries, total, err := h.deliveries.List(c.Query("source"), c.Query("status"), limit, offset)
	if err != nil {
		slog.Error("failed to list webhook deliveries", "error", err)
		return pages.Fail(c, fiber.StatusInternalServerError, "Failed to fetch deliveries")
	}
	return c.JSON(fiber.Map{
		"deliveries": deliveries,
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	})
}

func fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidPM), errors.Is(err, services.ErrClientNameEmpty):
		return pages.Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrSubaccountTaken):
		return pages.Fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrClientNotFound):
		return pages.Fail(c, fiber.StatusNotFound, err.Error())
	}
	slog.Error(fallback, "error", err)
	return pages.Fail(c, fiber.StatusInternalServerError, fallback)
}
