package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// UserResolver maps token claims to a portal user.
type UserResolver interface {
	ResolveUser(subject, email, name string) (*models.User, error)
}

// LoadSession resolves the token subject to a portal user, creating one on
// first sign-in. Emails listed in ADMIN_EMAILS act as admins whatever their
// stored role. When the store cannot be reached the request continues
// without a user and role guards answer as still loading.
func LoadSession(resolver UserResolver, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		claims, err := session.GetClaims(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		user, err := resolver.ResolveUser(claims.Subject, claims.Email, claims.Name)
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown user",
			})
		}
		if err != nil {
			slog.Error("failed to resolve session user", "sub", claims.Subject, "error", err)
			return c.Next()
		}

		if containsFold(adminEmails, user.Email) {
			user.Role = models.RoleAdmin
		}
		session.SetUser(c, user)
		return c.Next()
	}
}
