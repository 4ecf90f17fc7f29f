package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/models"
)

// RegisterHandler creates an account and returns it with a bearer token.
//
//	@Summary	Register a new user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.RegisterInput	true	"Account"
//	@Success	201		{object}	models.AuthResult
//	@Failure	400		{object}	ErrorResponse
//	@Router		/auth/register [post]
func (h *Handler) RegisterHandler(c *fiber.Ctx) error {
	var input models.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	res, err := h.auth.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// LoginHandler exchanges a username or email and a password for a token.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.LoginInput	true	"Credentials"
//	@Success	200		{object}	models.AuthResult
//	@Failure	401		{object}	ErrorResponse
//	@Router		/auth/login [post]
func (h *Handler) LoginHandler(c *fiber.Ctx) error {
	var input models.LoginInput
	if err := parseBody(c, &input); err != nil {
		return models.ErrInvalidCredentials
	}

	res, err := h.auth.Login(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res)
}
