package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/models"
)

// HandleListUsers lists every account without password hashes.
//
//	@Summary	List users (admin)
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.User
//	@Failure	401	{object}	ErrorResponse
//	@Failure	403	{object}	ErrorResponse
//	@Router		/admin/users [get]
func (h *Handler) HandleListUsers(c *fiber.Ctx) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	users, err := h.users.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// HandleUpdateUserRole changes another user's role.
//
//	@Summary	Change a user's role (admin)
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"User ID"
//	@Param		body	body		models.RoleInput	true	"New role"
//	@Success	200		{object}	models.User
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/admin/users/{id}/role [patch]
func (h *Handler) HandleUpdateUserRole(c *fiber.Ctx) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	var input models.RoleInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	user, err := h.users.ChangeRole(c.UserContext(), p, param(c, "id"), input.Role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
