package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/biosecret/go-todo/models"
)

// Memory keeps users and todos in process memory. It implements both
// services.UserStore and services.TodoStore and is used for development
// and tests.
type Memory struct {
	mu    sync.RWMutex
	users map[string]models.User
	todos map[string]models.Todo
	order []string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]models.User),
		todos: make(map[string]models.Todo),
	}
}

// --- UserStore ---

// CreateUser inserts u, enforcing unique username and email.
func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username {
			return models.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return models.ErrEmailTaken
		}
	}
	m.users[u.ID] = *u
	return nil
}

// GetUser returns the user with the given id.
func (m *Memory) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

// FindByCredential matches credential against usernames, then lowercased
// against emails.
func (m *Memory) FindByCredential(_ context.Context, credential string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == credential {
			return &u, nil
		}
	}
	email := strings.ToLower(credential)
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

// ListUsers returns all users ordered by creation time.
func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Username < users[j].Username
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// UpdateRole sets the role of user id.
func (m *Memory) UpdateRole(_ context.Context, id string, role models.Role) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return &u, nil
}

// --- TodoStore ---

// CreateTodo inserts t.
func (m *Memory) CreateTodo(_ context.Context, t *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *t
	stored.OwnerName = ""
	m.todos[t.ID] = stored
	m.order = append(m.order, t.ID)
	return nil
}

// GetTodo returns a copy of the todo with the given id.
func (m *Memory) GetTodo(_ context.Context, id string) (*models.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.todos[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

// ListTodosByOwner returns the owner's todos in insertion order.
func (m *Memory) ListTodosByOwner(_ context.Context, ownerID string) ([]models.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todos := []models.Todo{}
	for _, id := range m.order {
		if t := m.todos[id]; t.OwnerID == ownerID {
			todos = append(todos, t)
		}
	}
	return todos, nil
}

// ListAllTodos returns every todo with OwnerName resolved from the users.
func (m *Memory) ListAllTodos(_ context.Context) ([]models.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todos := make([]models.Todo, 0, len(m.order))
	for _, id := range m.order {
		t := m.todos[id]
		if owner, ok := m.users[t.OwnerID]; ok {
			t.OwnerName = owner.Username
		}
		todos = append(todos, t)
	}
	return todos, nil
}

// UpdateTodo replaces the stored todo. Last write wins.
func (m *Memory) UpdateTodo(_ context.Context, t *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[t.ID]; !ok {
		return models.ErrNotFound
	}
	stored := *t
	stored.OwnerName = ""
	m.todos[t.ID] = stored
	return nil
}

// DeleteTodo removes the todo with the given id.
func (m *Memory) DeleteTodo(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.todos, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
