// Package client talks to the todo API and keeps the signed-in session.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/biosecret/go-todo/models"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Unwrap maps the status back onto the models error taxonomy so callers can
// use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case fasthttp.StatusBadRequest:
		return models.ErrValidation
	case fasthttp.StatusUnauthorized:
		return models.ErrUnauthenticated
	case fasthttp.StatusForbidden:
		return models.ErrForbidden
	case fasthttp.StatusNotFound:
		return models.ErrNotFound
	}
	return nil
}

// Client calls the API with the token of the cached session. Any 401 clears
// the session.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	session *Cache
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds requests whose context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a client for the API mounted at baseURL, e.g.
// "http://localhost:3000/api". A nil cache keeps the session in memory.
func New(baseURL string, cache *Cache, opts ...Option) *Client {
	if cache == nil {
		cache = NewCache(nil)
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &fasthttp.Client{
			Name:                "todo-client",
			MaxConnsPerHost:     16,
			ReadTimeout:         defaultTimeout,
			WriteTimeout:        defaultTimeout,
			MaxIdleConnDuration: 30 * time.Second,
		},
		session: cache,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the cache backing the client.
func (c *Client) Session() *Cache {
	return c.session
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, in models.RegisterInput) (*Session, error) {
	var res models.AuthResult
	if err := c.do(ctx, fasthttp.MethodPost, "/auth/register", in, &res); err != nil {
		return nil, err
	}
	return c.remember(res)
}

// Login signs in with a username or email.
func (c *Client) Login(ctx context.Context, credential, password string) (*Session, error) {
	var res models.AuthResult
	in := models.LoginInput{Credential: credential, Password: password}
	if err := c.do(ctx, fasthttp.MethodPost, "/auth/login", in, &res); err != nil {
		return nil, err
	}
	return c.remember(res)
}

// Logout forgets the session. Tokens are stateless so the server is not
// involved.
func (c *Client) Logout() error {
	return c.session.Clear()
}

func (c *Client) remember(res models.AuthResult) (*Session, error) {
	if res.User == nil || res.Token == "" {
		return nil, errors.New("api: incomplete auth response")
	}
	s := Session{User: *res.User, Token: res.Token}
	if err := c.session.Set(s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListTodos lists every todo for admins and the caller's own otherwise.
func (c *Client) ListTodos(ctx context.Context) ([]models.Todo, error) {
	if s, ok := c.session.Current(); ok && s.Principal().IsAdmin() {
		return c.ListAllTodos(ctx)
	}
	return c.ListOwnTodos(ctx)
}

// ListOwnTodos lists the caller's todos.
func (c *Client) ListOwnTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, fasthttp.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// ListAllTodos lists every todo with its owner's name. Admin only.
func (c *Client) ListAllTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, fasthttp.MethodGet, "/todos/admin/all", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// CreateTodo creates a todo owned by the caller.
func (c *Client) CreateTodo(ctx context.Context, in models.TodoInput) (*models.Todo, error) {
	var todo models.Todo
	if err := c.do(ctx, fasthttp.MethodPost, "/todos", in, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo applies patch to the todo id.
func (c *Client) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	var todo models.Todo
	if err := c.do(ctx, fasthttp.MethodPatch, "/todos/"+url.PathEscape(id), patch, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// DeleteTodo removes the todo id.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

// ListUsers lists every account. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, fasthttp.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole changes another user's role. Changing your own role is
// refused without a round trip.
func (c *Client) UpdateUserRole(ctx context.Context, userID string, role models.Role) (*models.User, error) {
	if s, ok := c.session.Current(); ok && s.User.ID == userID {
		return nil, models.ErrSelfRoleChange
	}

	var user models.User
	path := "/admin/users/" + url.PathEscape(userID) + "/role"
	if err := c.do(ctx, fasthttp.MethodPatch, path, models.RoleInput{Role: role}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if token := c.session.token(); token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusUnauthorized {
		if err := c.session.Clear(); err != nil {
			return err
		}
	}
	if status < 200 || status > 299 {
		return decodeError(status, resp.Body())
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		payload.Error = ""
	}
	if payload.Error == "" {
		payload.Error = payload.Message
	}
	if payload.Error == "" {
		payload.Error = fasthttp.StatusMessage(status)
	}
	return &APIError{Status: status, Message: payload.Error}
}
