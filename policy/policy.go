// Package policy holds the ownership-or-admin rules applied to every
// todo mutation and to role changes.
package policy

import "github.com/biosecret/go-todo/models"

// CanModify reports whether p may update, toggle or delete t.
func CanModify(p models.Principal, t *models.Todo) bool {
	if t == nil {
		return false
	}
	return p.IsAdmin() || (p.ID != "" && p.ID == t.OwnerID)
}

// CanListAll reports whether p may read every principal's todos.
func CanListAll(p models.Principal) bool {
	return p.IsAdmin()
}

// RequireAdmin fails with ErrForbidden unless p is an admin.
func RequireAdmin(p models.Principal) error {
	if !p.IsAdmin() {
		return models.ErrForbidden
	}
	return nil
}

// CanChangeRole decides whether actor may set the role of targetID. Only
// admins may, and never on themselves.
func CanChangeRole(actor models.Principal, targetID string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == targetID {
		return models.ErrSelfRoleChange
	}
	return nil
}

// Visible hides t from p: a todo p may not modify is reported as missing so
// that its existence does not leak.
func Visible(p models.Principal, t *models.Todo, err error) (*models.Todo, error) {
	if err != nil {
		return nil, err
	}
	if !CanModify(p, t) {
		return nil, models.ErrNotFound
	}
	return t, nil
}
