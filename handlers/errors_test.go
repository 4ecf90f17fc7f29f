package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/biosecret/go-todo/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", &models.ValidationError{Field: "title", Message: "title is required"}, fiber.StatusBadRequest, "title is required"},
		{"username taken", fmt.Errorf("create: %w", models.ErrUsernameTaken), fiber.StatusBadRequest, models.ErrUsernameTaken.Message},
		{"bad credentials", models.ErrInvalidCredentials, fiber.StatusUnauthorized, "invalid credentials"},
		{"unauthenticated", models.ErrUnauthenticated, fiber.StatusUnauthorized, "authentication required"},
		{"self role", models.ErrSelfRoleChange, fiber.StatusForbidden, models.ErrSelfRoleChange.Error()},
		{"forbidden", models.ErrForbidden, fiber.StatusForbidden, "admin access only"},
		{"not found", fmt.Errorf("get todo: %w", models.ErrNotFound), fiber.StatusNotFound, "not found or unauthorized"},
		{"fiber error", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, fiber.ErrMethodNotAllowed.Message},
		{"unexpected", errors.New("pq: connection refused"), fiber.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}
