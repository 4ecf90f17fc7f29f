package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/biosecret/go-todo/config"
	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/services"
)

type testServer struct {
	app   *fiber.App
	store *database.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Defaults()
	cfg.Store = config.StoreMemory
	cfg.JWTSecret = "test-secret"
	cfg.BcryptCost = bcrypt.MinCost

	store := database.NewMemory()
	app, err := New(&cfg, store, nil)
	require.NoError(t, err)
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func (s *testServer) register(t *testing.T, username string) models.AuthResult {
	t.Helper()
	status, raw := s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password-" + username,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	var res models.AuthResult
	require.NoError(t, json.Unmarshal(raw, &res))
	return res
}

// admin registers username, promotes it and logs in again for a token
// carrying the admin role.
func (s *testServer) admin(t *testing.T, username string) models.AuthResult {
	t.Helper()
	s.register(t, username)
	_, err := services.NewUserService(s.store).Promote(context.Background(), username)
	require.NoError(t, err)

	status, raw := s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginInput{
		Credential: username,
		Password:   "password-" + username,
	})
	require.Equal(t, http.StatusOK, status)
	var res models.AuthResult
	require.NoError(t, json.Unmarshal(raw, &res))
	require.Equal(t, models.RoleAdmin, res.User.Role)
	return res
}

func errorBody(t *testing.T, raw []byte) string {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, raw := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	res := s.register(t, "alice")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.RoleUser, res.User.Role)

	status, raw := s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterInput{
		Username: "alice", Email: "other@example.com", Password: "password-x",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, errorBody(t, raw))

	status, _ = s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginInput{
		Credential: "ALICE@example.com", Password: "password-alice",
	})
	assert.Equal(t, http.StatusOK, status)

	wrongStatus, wrongBody := s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginInput{
		Credential: "alice", Password: "nope-nope",
	})
	missingStatus, missingBody := s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginInput{
		Credential: "nobody", Password: "nope-nope",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongStatus)
	assert.Equal(t, wrongStatus, missingStatus)
	assert.Equal(t, string(wrongBody), string(missingBody))
}

func TestRequiresToken(t *testing.T) {
	s := newTestServer(t)

	status, raw := s.do(t, http.MethodGet, "/api/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, models.ErrUnauthenticated.Error(), errorBody(t, raw))

	status, _ = s.do(t, http.MethodGet, "/api/todos", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestNonAdminForbidden(t *testing.T) {
	s := newTestServer(t)
	bob := s.register(t, "bob")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/todos/admin/all"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPatch, "/api/admin/users/" + bob.User.ID + "/role"},
	} {
		status, raw := s.do(t, tc.method, tc.path, bob.Token, models.RoleInput{Role: models.RoleAdmin})
		assert.Equal(t, http.StatusForbidden, status, tc.path)
		assert.Equal(t, models.ErrForbidden.Error(), errorBody(t, raw), tc.path)
	}
}

func TestTodoLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")

	status, raw := s.do(t, http.MethodPost, "/api/todos", alice.Token, models.TodoInput{
		Title: "  buy milk ", DueDate: "2030-01-02",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var created models.Todo
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "buy milk", created.Title)
	assert.Equal(t, models.CategoryNonUrgent, created.Category)
	assert.Equal(t, alice.User.ID, created.OwnerID)

	status, raw = s.do(t, http.MethodGet, "/api/todos", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var list []models.Todo
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	done := true
	status, raw = s.do(t, http.MethodPatch, "/api/todos/"+created.ID, alice.Token, models.TodoPatch{Completed: &done})
	require.Equal(t, http.StatusOK, status)
	var updated models.Todo
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.True(t, updated.Completed)

	status, raw = s.do(t, http.MethodPost, "/api/todos", alice.Token, models.TodoInput{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, errorBody(t, raw))

	status, raw = s.do(t, http.MethodDelete, "/api/todos/"+created.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Deleted","id":"`+created.ID+`"}`, string(raw))

	status, raw = s.do(t, http.MethodGet, "/api/todos", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestForeignTodoLooksMissing(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	_, raw := s.do(t, http.MethodPost, "/api/todos", alice.Token, models.TodoInput{Title: "private"})
	var todo models.Todo
	require.NoError(t, json.Unmarshal(raw, &todo))

	title := "hijacked"
	foreignStatus, foreignBody := s.do(t, http.MethodPatch, "/api/todos/"+todo.ID, bob.Token, models.TodoPatch{Title: &title})
	missingStatus, missingBody := s.do(t, http.MethodPatch, "/api/todos/does-not-exist", bob.Token, models.TodoPatch{Title: &title})
	assert.Equal(t, http.StatusNotFound, foreignStatus)
	assert.Equal(t, missingStatus, foreignStatus)
	assert.Equal(t, string(missingBody), string(foreignBody))

	foreignStatus, foreignBody = s.do(t, http.MethodDelete, "/api/todos/"+todo.ID, bob.Token, nil)
	missingStatus, missingBody = s.do(t, http.MethodDelete, "/api/todos/does-not-exist", bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, foreignStatus)
	assert.Equal(t, missingStatus, foreignStatus)
	assert.Equal(t, string(missingBody), string(foreignBody))

	status, raw := s.do(t, http.MethodGet, "/api/todos", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var list []models.Todo
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "private", list[0].Title)
}

func TestAdminManagesEverything(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	root := s.admin(t, "root")

	_, raw := s.do(t, http.MethodPost, "/api/todos", alice.Token, models.TodoInput{Title: "alice's"})
	var todo models.Todo
	require.NoError(t, json.Unmarshal(raw, &todo))

	title := "edited by admin"
	status, raw := s.do(t, http.MethodPatch, "/api/todos/"+todo.ID, root.Token, models.TodoPatch{Title: &title})
	require.Equal(t, http.StatusOK, status, string(raw))
	var updated models.Todo
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, alice.User.ID, updated.OwnerID)

	status, raw = s.do(t, http.MethodGet, "/api/todos/admin/all", root.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var all []models.Todo
	require.NoError(t, json.Unmarshal(raw, &all))
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0].OwnerName)

	status, raw = s.do(t, http.MethodGet, "/api/admin/users", root.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(raw), "password")
	var users []models.User
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 2)

	status, raw = s.do(t, http.MethodDelete, "/api/todos/"+todo.ID, root.Token, nil)
	assert.Equal(t, http.StatusOK, status, string(raw))
}

func TestChangeRole(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	root := s.admin(t, "root")

	status, raw := s.do(t, http.MethodPatch, "/api/admin/users/"+root.User.ID+"/role", root.Token, models.RoleInput{Role: models.RoleUser})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, models.ErrSelfRoleChange.Error(), errorBody(t, raw))

	status, _ = s.do(t, http.MethodPatch, "/api/admin/users/"+alice.User.ID+"/role", root.Token, models.RoleInput{Role: "superuser"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPatch, "/api/admin/users/nobody/role", root.Token, models.RoleInput{Role: models.RoleAdmin})
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = s.do(t, http.MethodPatch, "/api/admin/users/"+alice.User.ID+"/role", root.Token, models.RoleInput{Role: models.RoleAdmin})
	require.Equal(t, http.StatusOK, status, string(raw))
	var promoted models.User
	require.NoError(t, json.Unmarshal(raw, &promoted))
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	// The old token still carries the old role until alice logs in again.
	status, _ = s.do(t, http.MethodGet, "/api/todos/admin/all", alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw = s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginInput{Credential: "alice", Password: "password-alice"})
	require.Equal(t, http.StatusOK, status)
	var relogged models.AuthResult
	require.NoError(t, json.Unmarshal(raw, &relogged))
	status, _ = s.do(t, http.MethodGet, "/api/todos/admin/all", relogged.Token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")

	req := httptest.NewRequest(http.MethodPost, "/api/todos", bytes.NewBufferString("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+alice.Token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error", "bogus"} {
		SetLogLevel(level)
	}
	SetLogLevel("info")
}

func TestOwnerComesFromToken(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	status, raw := s.do(t, http.MethodPost, "/api/todos", alice.Token, map[string]interface{}{
		"title":  "mine",
		"userId": bob.User.ID,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var created models.Todo
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, alice.User.ID, created.OwnerID)

	status, raw = s.do(t, http.MethodPatch, "/api/todos/"+created.ID, alice.Token, map[string]interface{}{
		"title":  "still mine",
		"userId": bob.User.ID,
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	var updated models.Todo
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "still mine", updated.Title)
	assert.Equal(t, alice.User.ID, updated.OwnerID)

	status, raw = s.do(t, http.MethodGet, "/api/todos", bob.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	status, raw = s.do(t, http.MethodGet, "/api/todos", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var own []models.Todo
	require.NoError(t, json.Unmarshal(raw, &own))
	require.Len(t, own, 1)
	assert.Equal(t, alice.User.ID, own[0].OwnerID)
}

func TestErrorBodyCarriesMessage(t *testing.T) {
	s := newTestServer(t)
	status, raw := s.do(t, http.MethodGet, "/api/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"error":"authentication required","message":"authentication required"}`, string(raw))
}
