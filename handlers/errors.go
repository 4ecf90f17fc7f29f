package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/biosecret/go-todo/models"
)

// ErrorResponse is the body of every failed request. Message repeats Error
// for clients that read the "message" key.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandler maps the models error taxonomy onto HTTP statuses. Unexpected
// errors are logged and reported as a bare 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, msg := classify(err)
	if status == fiber.StatusInternalServerError {
		log.Errorw("request failed",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}
	return c.Status(status).JSON(ErrorResponse{Error: msg, Message: msg})
}

func classify(err error) (int, string) {
	var ve *models.ValidationError
	var fe *fiber.Error

	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, ve.Message
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, models.ErrInvalidCredentials.Error()
	case errors.Is(err, models.ErrUnauthenticated):
		return fiber.StatusUnauthorized, models.ErrUnauthenticated.Error()
	case errors.Is(err, models.ErrSelfRoleChange):
		return fiber.StatusForbidden, models.ErrSelfRoleChange.Error()
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden, models.ErrForbidden.Error()
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound, "not found or unauthorized"
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// parseBody decodes the JSON request body into dst, reporting decode
// failures as validation errors.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return &models.ValidationError{Message: "invalid request body"}
	}
	return nil
}
