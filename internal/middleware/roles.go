package middleware

import (
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/access"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RequireRole gates a route group on the caller's role. With no roles it
// only requires a resolved session.
func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := access.Principal{}
		if token, ok := c.Locals("user").(*jwt.Token); ok && token != nil {
			principal.SignedIn = true
		}
		if user, err := session.GetUser(c); err == nil {
			principal.SignedIn = true
			principal.Resolved = true
			principal.Role = user.Role
		}

		decision := access.Evaluate(principal, allowed...)
		switch decision.Outcome {
		case access.Authorized:
			return c.Next()
		case access.Loading:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Session is still loading, try again",
			})
		}

		if decision.Reason == access.NotSignedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		slog.Warn("role check failed", "path", c.Path(), "role", principal.Role)
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "You do not have access to this page",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func containsFold(list []string, val string) bool {
	for _, item := range list {
		if strings.EqualFold(item, val) {
			return true
		}
	}
	return false
}
