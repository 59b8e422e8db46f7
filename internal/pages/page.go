package pages

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/session"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/vault"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deps are the shared dependencies handed to every page.
type Deps struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Vault *vault.Vault
}

// Page defines the interface every portal page must implement.
type Page interface {
	// ID returns the page identifier. It is also the route prefix.
	ID() string

	// Roles lists the roles that may open the page. Nil admits any
	// signed-in user.
	Roles() []models.Role

	// RegisterRoutes mounts page routes on the given Fiber group.
	// The group is prefixed with /api/<id>, has a resolved session and
	// the page's role guard applied.
	RegisterRoutes(router fiber.Router, deps *Deps)
}

// AdminPage extends Page with admin-specific route registration.
type AdminPage interface {
	Page

	// RegisterAdminRoutes mounts admin-only routes on the /api/admin group.
	RegisterAdminRoutes(router fiber.Router, deps *Deps)
}

// Staff are the roles that manage client work.
var Staff = []models.Role{models.RoleAdmin, models.RoleTeamMember}

// CurrentUser returns the session user. ok is false when the request has
// no resolved session.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, err := session.GetUser(c)
	return user, err == nil
}

func Unauthorized(c *fiber.Ctx) error {
	return Fail(c, fiber.StatusUnauthorized, "Unauthorized")
}

// ParamID parses a uuid route param.
func ParamID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// Pagination reads limit and offset query params.
func Pagination(c *fiber.Ctx) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}
