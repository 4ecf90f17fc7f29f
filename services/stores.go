// Package services implements registration, login, todo and user
// administration on top of the credential and todo stores.
package services

import (
	"context"

	"github.com/biosecret/go-todo/models"
)

// UserStore persists accounts. Create reports models.ErrUsernameTaken or
// models.ErrEmailTaken on uniqueness violations; lookups report
// models.ErrNotFound.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindByCredential(ctx context.Context, credential string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
}

// TodoStore persists todos. Lookups and writes on a missing id report
// models.ErrNotFound.
type TodoStore interface {
	CreateTodo(ctx context.Context, t *models.Todo) error
	GetTodo(ctx context.Context, id string) (*models.Todo, error)
	ListTodosByOwner(ctx context.Context, ownerID string) ([]models.Todo, error)
	ListAllTodos(ctx context.Context) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, t *models.Todo) error
	DeleteTodo(ctx context.Context, id string) error
}
