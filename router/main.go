package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/middleware"
)

// SetupRoutes mounts the API under prefix.
func SetupRoutes(app *fiber.App, h *handlers.Handler, tokens middleware.TokenParser, prefix string) {
	app.Get("/health", h.HandleHealthCheck)

	api := app.Group(prefix)

	auth := api.Group("/auth")
	auth.Post("/register", h.RegisterHandler)
	auth.Post("/login", h.LoginHandler)

	requireAuth := middleware.JWTMiddleware(tokens)

	todos := api.Group("/todos", requireAuth)
	todos.Get("/admin/all", middleware.AdminOnly, h.HandleAllTodos)
	todos.Get("/", h.HandleOwnTodos)
	todos.Post("/", h.HandleCreateTodo)
	todos.Patch("/:id", h.HandleUpdateTodo)
	todos.Delete("/:id", h.HandleDeleteTodo)

	admin := api.Group("/admin", requireAuth, middleware.AdminOnly)
	admin.Get("/users", h.HandleListUsers)
	admin.Patch("/users/:id/role", h.HandleUpdateUserRole)
}
