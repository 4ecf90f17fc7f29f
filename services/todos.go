package services

import (
	"context"
	"fmt"
	"time"

	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/policy"
	"github.com/biosecret/go-todo/utils"
)

// ownerFallbackName labels todos whose owner no longer resolves.
const ownerFallbackName = "System"

// TodoService applies the ownership rules to todo reads and writes.
type TodoService struct {
	todos TodoStore
	now   func() time.Time
}

// NewTodoService returns a TodoService backed by todos.
func NewTodoService(todos TodoStore) *TodoService {
	return &TodoService{todos: todos, now: time.Now}
}

// Create stores a new todo owned by actor, whatever owner the client sent.
func (s *TodoService) Create(ctx context.Context, actor models.Principal, in models.TodoInput) (*models.Todo, error) {
	todo := in.Todo(actor.ID)
	if err := todo.Validate(); err != nil {
		return nil, err
	}

	id, err := utils.GenerateRandomID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}
	now := s.now().UTC()
	todo.ID = id
	todo.CreatedAt = now
	todo.UpdatedAt = now

	if err := s.todos.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// ListOwn returns the todos owned by actor.
func (s *TodoService) ListOwn(ctx context.Context, actor models.Principal) ([]models.Todo, error) {
	return s.todos.ListTodosByOwner(ctx, actor.ID)
}

// ListAll returns every todo annotated with its owner's username. Admin only.
func (s *TodoService) ListAll(ctx context.Context, actor models.Principal) ([]models.Todo, error) {
	if !policy.CanListAll(actor) {
		return nil, models.ErrForbidden
	}
	todos, err := s.todos.ListAllTodos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range todos {
		if todos[i].OwnerName == "" {
			todos[i].OwnerName = ownerFallbackName
		}
	}
	return todos, nil
}

// Update patches the todo id. A todo actor may not modify is reported as
// models.ErrNotFound, exactly like a missing one.
func (s *TodoService) Update(ctx context.Context, actor models.Principal, id string, patch models.TodoPatch) (*models.Todo, error) {
	todo, err := s.load(ctx, id)
	todo, err = policy.Visible(actor, todo, err)
	if err != nil {
		return nil, err
	}

	owner := todo.OwnerID
	patch.Apply(todo)
	todo.OwnerID = owner
	if err := todo.Validate(); err != nil {
		return nil, err
	}
	todo.UpdatedAt = s.now().UTC()

	if err := s.todos.UpdateTodo(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete removes the todo id under the same rule as Update.
func (s *TodoService) Delete(ctx context.Context, actor models.Principal, id string) error {
	todo, err := s.load(ctx, id)
	if _, err := policy.Visible(actor, todo, err); err != nil {
		return err
	}
	return s.todos.DeleteTodo(ctx, id)
}

func (s *TodoService) load(ctx context.Context, id string) (*models.Todo, error) {
	if id == "" {
		return nil, models.ErrNotFound
	}
	return s.todos.GetTodo(ctx, id)
}
