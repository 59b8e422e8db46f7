package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/integrations"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

// DeliveryRecorder stores the audit row for a webhook delivery.
type DeliveryRecorder interface {
	Record(ctx context.Context, d services.Delivery)
}

// WebhookSource rejects deliveries for a disabled source and, when the
// source has a shared secret, deliveries that do not carry it. The
// registry is read on every request so reloads apply immediately.
// Rejected deliveries are recorded when recorder is non-nil.
func WebhookSource(registry *integrations.Registry, source string, recorder DeliveryRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !registry.Enabled(source) {
			return rejectDelivery(c, recorder, source, fiber.StatusNotFound, "Webhook source is not enabled")
		}

		header, secret := registry.Secret(source)
		if secret != "" {
			got := c.Get(header)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				slog.Warn("webhook secret mismatch", "source", source, "ip", c.IP())
				return rejectDelivery(c, recorder, source, fiber.StatusUnauthorized, "Unauthorized")
			}
		}

		c.Locals("webhook_source", source)
		return c.Next()
	}
}

func rejectDelivery(c *fiber.Ctx, recorder DeliveryRecorder, source string, status int, msg string) error {
	if recorder != nil {
		requestID, _ := c.Locals("requestid").(string)
		recorder.Record(c.UserContext(), services.Delivery{
			Source:       source,
			Payload:      append([]byte(nil), c.Body()...),
			Status:       models.DeliveryRejected,
			ResponseCode: status,
			Error:        msg,
			RequestID:    requestID,
		})
	}
	return c.Status(status).JSON(dto.WebhookError{Error: msg})
}
