package config

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"github.com/biosecret/go-todo/docs"
)

// AddSwaggerRoutes serves the OpenAPI UI at /swagger and points it at the
// configured API prefix.
func AddSwaggerRoutes(app *fiber.App, apiPrefix string) {
	docs.SwaggerInfo.BasePath = apiPrefix
	app.Get("/swagger/*", swagger.HandlerDefault)
}
