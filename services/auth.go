package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/utils"
)

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	users  UserStore
	tokens *TokenIssuer
	cost   int
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService returns an AuthService hashing passwords with the given
// bcrypt cost. A cost of 0 selects bcrypt.DefaultCost.
func NewAuthService(users UserStore, tokens *TokenIssuer, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, cost: cost, now: time.Now}
}

// Register creates a user with role user and signs a token for it.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResult, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	id, err := utils.GenerateRandomID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	log.Infow("user registered", "user_id", user.ID)

	return s.issue(user)
}

// Login matches credential against username or email and verifies the
// password. An unknown credential and a wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (*models.AuthResult, error) {
	credential := strings.TrimSpace(in.Credential)
	if credential == "" || in.Password == "" {
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.users.FindByCredential(ctx, credential)
	if errors.Is(err, models.ErrNotFound) {
		// Burn a comparison so a missing user costs as much as a bad password.
		_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), []byte(in.Password))
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*models.AuthResult, error) {
	token, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("placeholder-password"), s.cost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
