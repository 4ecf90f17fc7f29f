package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/models"
)

// DeleteResponse confirms a deleted todo.
type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// HandleOwnTodos lists the caller's todos.
//
//	@Summary	List own todos
//	@Tags		todos
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.Todo
//	@Failure	401	{object}	ErrorResponse
//	@Router		/todos [get]
func (h *Handler) HandleOwnTodos(c *fiber.Ctx) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	todos, err := h.todos.ListOwn(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(todos)
}

// HandleAllTodos lists every todo with its owner's username.
//
//	@Summary	List all todos (admin)
//	@Tags		todos
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.Todo
//	@Failure	401	{object}	ErrorResponse
//	@Failure	403	{object}	ErrorResponse
//	@Router		/todos/admin/all [get]
func (h *Handler) HandleAllTodos(c *fiber.Ctx) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	todos, err := h.todos.ListAll(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(todos)
}

// HandleCreateTodo creates a todo owned by the caller.
//
//	@Summary	Create a todo
//	@Tags		todos
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		models.TodoInput	true	"Todo"
//	@Success	201		{object}	models.Todo
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/todos [post]
func (h *Handler) HandleCreateTodo(c *fiber.Ctx) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	var input models.TodoInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	todo, err := h.todos.Create(c.UserContext(), p, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(todo)
}

// HandleUpdateTodo patches a todo the caller owns, or any todo for admins.
//
//	@Summary	Update a todo
//	@Tags		todos
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"Todo ID"
//	@Param		body	body		models.TodoPatch	true	"Fields to change"
//	@Success	200		{object}	models.Todo
//	@Failure	401		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/todos/{id} [patch]
func (h *Handler) HandleUpdateTodo(c *fiber.Ctx) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	var patch models.TodoPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	todo, err := h.todos.Update(c.UserContext(), p, param(c, "id"), patch)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(todo)
}

// HandleDeleteTodo deletes a todo the caller owns, or any todo for admins.
//
//	@Summary	Delete a todo
//	@Tags		todos
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Todo ID"
//	@Success	200	{object}	DeleteResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/todos/{id} [delete]
func (h *Handler) HandleDeleteTodo(c *fiber.Ctx) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id := param(c, "id")
	if err := h.todos.Delete(c.UserContext(), p, id); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(DeleteResponse{Message: "Deleted", ID: id})
}
