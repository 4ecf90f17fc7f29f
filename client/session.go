package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/biosecret/go-todo/models"
)

// Session pairs the signed-in user's public projection with its token.
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Principal returns the identity the session's token was issued for.
func (s *Session) Principal() models.Principal {
	return s.User.Principal()
}

// SessionStore persists a session between runs.
type SessionStore interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// FileStore keeps the session as a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored session. A missing file yields (nil, nil). A file
// that does not decode into a usable session is removed and also yields
// (nil, nil).
func (f *FileStore) Load() (*Session, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil || s.Token == "" || s.User.ID == "" {
		log.Warnw("discarding unreadable session", "path", f.path)
		return nil, f.Clear()
	}
	return &s, nil
}

// Save writes s, creating the parent directory when needed.
func (f *FileStore) Save(s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the file. Removing a missing file is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Cache holds the current session in memory, mirrored to an optional
// SessionStore.
type Cache struct {
	mu        sync.RWMutex
	store     SessionStore
	current   *Session
	onCleared func()
}

// NewCache restores the session persisted in store, if any. A nil store
// keeps the session in memory only. Restore failures leave the cache
// signed out.
func NewCache(store SessionStore) *Cache {
	c := &Cache{store: store}
	if store == nil {
		return c
	}

	s, err := store.Load()
	if err != nil {
		log.Warnw("session restore failed", "error", err)
		return c
	}
	c.current = s
	return c
}

// OnCleared registers fn to run whenever the session is cleared.
func (c *Cache) OnCleared(fn func()) {
	c.mu.Lock()
	c.onCleared = fn
	c.mu.Unlock()
}

// Current returns a copy of the active session.
func (c *Cache) Current() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return Session{}, false
	}
	return *c.current, true
}

func (c *Cache) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return ""
	}
	return c.current.Token
}

// Set replaces the active session and persists it.
func (c *Cache) Set(s Session) error {
	c.mu.Lock()
	c.current = &s
	store := c.store
	c.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.Save(&s)
}

// Clear drops the active session, removes the persisted copy and runs the
// OnCleared hook.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.current = nil
	store, hook := c.store, c.onCleared
	c.mu.Unlock()

	var err error
	if store != nil {
		err = store.Clear()
	}
	if hook != nil {
		hook()
	}
	return err
}
