// Package middleware provides HTTP middleware for the fiber app.
package middleware

import (
	"log"
	"strings"

	"brokebesties/internal/models"
	"brokebesties/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	localClaims = "claims"
	localActor  = "actor"
)

// AuthMiddleware verifies identity-provider access tokens and mirrors the
// caller into the users table.
type AuthMiddleware struct {
	secret []byte
	users  user.Service
}

func NewAuthMiddleware(secret string, users user.Service) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		users:  users,
	}
}

// Handler validates the Bearer token and stores the caller as the request actor.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		log.Printf("Token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "invalid token"})
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "invalid claims"})
	}

	u, err := m.users.EnsureFromClaims(c.UserContext(), claims)
	if err != nil {
		log.Printf("⚠️ Could not sync user %s: %v", claims.Subject, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "invalid token"})
	}

	c.Locals(localClaims, claims)
	c.Locals(localActor, models.Actor{ID: u.ID, Email: u.Email, Name: u.DisplayName()})
	return c.Next()
}

// Actor returns the authenticated caller. It must only be used behind Handler.
func Actor(c *fiber.Ctx) models.Actor {
	actor, _ := c.Locals(localActor).(models.Actor)
	return actor
}

// Claims returns the verified token claims.
func Claims(c *fiber.Ctx) *models.UserClaims {
	claims, _ := c.Locals(localClaims).(*models.UserClaims)
	return claims
}
