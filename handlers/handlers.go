// Package handlers exposes the auth, todo and admin services over HTTP.
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/services"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the services behind every route.
type Handler struct {
	auth  *services.AuthService
	todos *services.TodoService
	users *services.UserService
	store Pinger
}

// New returns a Handler. store may be nil when there is nothing to ping.
func New(auth *services.AuthService, todos *services.TodoService, users *services.UserService, store Pinger) *Handler {
	return &Handler{auth: auth, todos: todos, users: users, store: store}
}

// HandleHealthCheck reports liveness and, when configured, store reachability.
func (h *Handler) HandleHealthCheck(c *fiber.Ctx) error {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func actor(c *fiber.Ctx) (models.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return models.Principal{}, models.ErrUnauthenticated
	}
	return p, nil
}

// param copies a route parameter out of fiber's reused request buffer.
func param(c *fiber.Ctx, name string) string {
	return strings.Clone(c.Params(name))
}
