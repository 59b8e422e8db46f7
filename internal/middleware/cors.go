package middleware

import (
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS admits the portal front end. Retry-After is exposed so the client
// can back off while its session is still loading.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, PATCH, OPTIONS",
		ExposeHeaders:    "X-Request-ID, Retry-After",
		AllowCredentials: false,
		MaxAge:           600,
	})
}

// SecurityHeaders sets the response headers every portal route carries.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		return c.Next()
	}
}
