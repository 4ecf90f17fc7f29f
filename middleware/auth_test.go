package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosecret/go-todo/models"
)

type fakeParser map[string]models.Principal

func (f fakeParser) Parse(token string) (models.Principal, error) {
	p, ok := f[token]
	if !ok {
		return models.Principal{}, errors.New("bad token")
	}
	return p, nil
}

func newApp() *fiber.App {
	tokens := fakeParser{
		"user-token":  {ID: "u1", Role: models.RoleUser},
		"admin-token": {ID: "a1", Role: models.RoleAdmin},
	}
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, models.ErrUnauthenticated):
				return c.SendStatus(fiber.StatusUnauthorized)
			case errors.Is(err, models.ErrForbidden):
				return c.SendStatus(fiber.StatusForbidden)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Get("/me", JWTMiddleware(tokens), func(c *fiber.Ctx) error {
		p, ok := Principal(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(p.ID)
	})
	app.Get("/admin", JWTMiddleware(tokens), AdminOnly, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/unguarded-admin", AdminOnly, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	app := newApp()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic user-token", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"unknown token", "Bearer forged", http.StatusUnauthorized},
		{"valid token", "Bearer user-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	app := newApp()

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"user", "/admin", "user-token", http.StatusForbidden},
		{"admin", "/admin", "admin-token", http.StatusOK},
		{"no principal", "/unguarded-admin", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
