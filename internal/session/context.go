package session

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userKey = "portal_user"

var ErrNoSession = errors.New("no portal user in context")

// Claims holds the identity fields read from the verified token.
type Claims struct {
	Subject string
	Email   string
	Name    string
}

// GetClaims extracts identity claims from the JWT in context.
func GetClaims(c *fiber.Ctx) (*Claims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("missing sub claim")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &Claims{Subject: sub, Email: email, Name: name}, nil
}

func SetUser(c *fiber.Ctx, user *models.User) {
	c.Locals(userKey, user)
}

// GetUser returns the portal user resolved for this request.
func GetUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoSession
	}
	return user, nil
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	user, err := GetUser(c)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
