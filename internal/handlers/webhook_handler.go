package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/integrations"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/schema"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

const (
	msgInvalidPayload = "Invalid webhook payload"
	msgInternal       = "Internal server error"
)

type WebhookHandler struct {
	provisioning *services.ProvisioningService
	events       *services.EventService
	deliveries   *services.DeliveryService
	validator    *schema.Validator
}

func NewWebhookHandler(
	provisioning *services.ProvisioningService,
	events *services.EventService,
	deliveries *services.DeliveryService,
	validator *schema.Validator,
) *WebhookHandler {
	return &WebhookHandler{
		provisioning: provisioning,
		events:       events,
		deliveries:   deliveries,
		validator:    validator,
	}
}

// HandleFunnel provisions a client for a new funnel subaccount.
func (h *WebhookHandler) HandleFunnel(c *fiber.Ctx) error {
	body := append([]byte(nil), c.Body()...)
	reply := h.replier(c, integrations.SourceFunnel, "", body)

	if err := h.validator.Validate(schema.Funnel, body); err != nil {
		slog.Warn("funnel webhook rejected", "error", err)
		return reply(fiber.StatusBadRequest, dto.WebhookError{Error: msgInvalidPayload}, err)
	}

	var req dto.FunnelWebhook
	if err := json.Unmarshal(body, &req); err != nil {
		return reply(fiber.StatusBadRequest, dto.WebhookError{Error: msgInvalidPayload}, err)
	}

	result, err := h.provisioning.ProvisionClient(c.UserContext(), &req)
	if err != nil {
		status, msg := webhookError(err)
		if status >= fiber.StatusInternalServerError {
			h.capture(c, err)
			slog.Error("funnel webhook failed", "error", err)
		}
		return reply(status, dto.WebhookError{Error: msg}, err)
	}

	if result.Existing {
		return reply(fiber.StatusOK, dto.FunnelExistingResponse{
			Success:  true,
			Message:  "Client already exists",
			ClientID: result.ClientID,
		}, nil)
	}
	return reply(fiber.StatusOK, dto.FunnelCreatedResponse{
		Success:   true,
		Message:   "Client created successfully",
		ClientID:  result.ClientID,
		ProjectID: result.ProjectID,
	}, nil)
}

// HandleCRM applies a CRM event.
func (h *WebhookHandler) HandleCRM(c *fiber.Ctx) error {
	body := append([]byte(nil), c.Body()...)

	if err := h.validator.Validate(schema.CRM, body); err != nil {
		slog.Warn("crm webhook rejected", "error", err)
		reply := h.replier(c, integrations.SourceCRM, "", body)
		return reply(fiber.StatusBadRequest, dto.WebhookError{Error: msgInvalidPayload}, err)
	}

	var req dto.CRMWebhook
	if err := json.Unmarshal(body, &req); err != nil {
		reply := h.replier(c, integrations.SourceCRM, "", body)
		return reply(fiber.StatusBadRequest, dto.WebhookError{Error: msgInvalidPayload}, err)
	}
	reply := h.replier(c, integrations.SourceCRM, req.Event, body)

	message, err := h.events.Dispatch(c.UserContext(), req.Event, req.Data)
	if err != nil {
		status, msg := webhookError(err)
		if status >= fiber.StatusInternalServerError {
			h.capture(c, err)
			slog.Error("crm webhook failed", "event", req.Event, "error", err)
		}
		return reply(status, dto.WebhookError{Error: msg}, err)
	}

	slog.Info("crm webhook processed", "event", req.Event)
	return reply(fiber.StatusOK, dto.WebhookSuccess{Success: true, Message: message}, nil)
}

// replier writes the response and records the delivery with its outcome.
func (h *WebhookHandler) replier(c *fiber.Ctx, source, event string, body []byte) func(int, interface{}, error) error {
	return func(status int, payload interface{}, cause error) error {
		d := services.Delivery{
			Source:       source,
			Event:        event,
			Payload:      body,
			Status:       models.DeliveryAccepted,
			ResponseCode: status,
			RequestID:    requestID(c),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			d.Status = models.DeliveryFailed
		case status >= fiber.StatusBadRequest:
			d.Status = models.DeliveryRejected
		}
		if cause != nil {
			d.Error = cause.Error()
		}
		h.deliveries.Record(c.UserContext(), d)
		return c.Status(status).JSON(payload)
	}
}

func (h *WebhookHandler) capture(c *fiber.Ctx, err error) {
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}

// webhookError maps a service error to the status and message returned to
// the sender.
func webhookError(err error) (int, string) {
	var storeErr *services.StoreError
	switch {
	case errors.Is(err, services.ErrInvalidPayload):
		return fiber.StatusBadRequest, msgInvalidPayload
	case errors.Is(err, services.ErrUnsupportedEvent):
		return fiber.StatusBadRequest, "Unsupported event type"
	case errors.Is(err, services.ErrClientNotFound):
		return fiber.StatusNotFound, "Client not found"
	case errors.Is(err, services.ErrTaskNotFound):
		return fiber.StatusNotFound, "Task not found"
	case errors.Is(err, services.ErrProjectNotFound):
		return fiber.StatusNotFound, "Project not found"
	case errors.As(err, &storeErr):
		return fiber.StatusInternalServerError, storeErr.Public()
	default:
		return fiber.StatusInternalServerError, msgInternal
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
