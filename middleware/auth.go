package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/models"
)

const principalKey = "principal"

// TokenParser verifies a bearer token and returns the principal it carries.
type TokenParser interface {
	Parse(token string) (models.Principal, error)
}

// JWTMiddleware authenticates the request from its "Authorization: Bearer"
// header and stores the principal in the request locals.
func JWTMiddleware(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return models.ErrUnauthenticated
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			return models.ErrUnauthenticated
		}

		principal, err := tokens.Parse(strings.TrimSpace(tokenString))
		if err != nil {
			return models.ErrUnauthenticated
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// AdminOnly rejects authenticated non-admins with ErrForbidden. It must be
// mounted after JWTMiddleware.
func AdminOnly(c *fiber.Ctx) error {
	principal, ok := Principal(c)
	if !ok {
		return models.ErrUnauthenticated
	}
	if !principal.IsAdmin() {
		return models.ErrForbidden
	}
	return c.Next()
}

// Principal returns the principal attached by JWTMiddleware.
func Principal(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(principalKey).(models.Principal)
	return p, ok
}
