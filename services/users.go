package services

import (
	"context"

	"github.com/gofiber/fiber/v2/log"

	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/policy"
)

// UserService implements the admin user-management operations.
type UserService struct {
	users UserStore
}

// NewUserService returns a UserService backed by users.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// List returns every account. Admin only.
func (s *UserService) List(ctx context.Context, actor models.Principal) ([]models.User, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

// ChangeRole sets the role of targetID. Admins may change anybody but
// themselves.
func (s *UserService) ChangeRole(ctx context.Context, actor models.Principal, targetID string, role models.Role) (*models.User, error) {
	if err := policy.CanChangeRole(actor, targetID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, &models.ValidationError{Field: "role", Message: "role must be user or admin"}
	}

	user, err := s.users.UpdateRole(ctx, targetID, role)
	if err != nil {
		return nil, err
	}
	log.Infow("role changed", "actor_id", actor.ID, "user_id", user.ID, "role", role)
	return user, nil
}

// Promote grants the admin role to the account matching credential. It is
// meant for operators bootstrapping the first admin from the command line.
func (s *UserService) Promote(ctx context.Context, credential string) (*models.User, error) {
	user, err := s.users.FindByCredential(ctx, credential)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return user, nil
	}
	return s.users.UpdateRole(ctx, user.ID, models.RoleAdmin)
}
